// seehuhn.de/go/breaking - optimal line and page breaking
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testOptions(width, height float64) *options {
	return &options{
		width:     width,
		height:    height,
		align:     "justify",
		alignLast: "start",
		threshold: 1,
		font:      "mono",
		size:      10,
	}
}

func TestRun(t *testing.T) {
	dashes := strings.Repeat("-", 13)
	cases := []struct {
		name          string
		width, height float64
		in, want      string
	}{
		{
			name:  "pages",
			width: 9, height: 2,
			in:   "aaaa bbbb cccc dddd\n\naaaa bbbb cccc dddd\n",
			want: "aaaa bbbb\ncccc dddd\n\f\naaaa bbbb\ncccc dddd\n",
		},
		{
			name:  "footnote",
			width: 20, height: 10,
			in:   "see[^hi there]\n",
			want: "see[1]\n----------\n[1] hi there\n",
		},
		{
			name:  "float",
			width: 12, height: 10,
			in:   "hello\n@float 3 Pic\n",
			want: "+" + dashes + "+\n|Figure 1: Pic|\n+" + dashes + "+\n\nhello\n",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(testOptions(c.width, c.height), strings.NewReader(c.in), &out)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.want, out.String()); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	opt := testOptions(20, 10)
	opt.align = "diagonal"
	if err := run(opt, strings.NewReader("x\n"), &bytes.Buffer{}); err == nil {
		t.Error("invalid alignment accepted")
	}

	opt = testOptions(20, 10)
	opt.font = "comic"
	if err := run(opt, strings.NewReader("x\n"), &bytes.Buffer{}); err == nil {
		t.Error("unknown font accepted")
	}
}

func TestRunArgs(t *testing.T) {
	name := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(name, []byte("aaaa bbbb\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := runArgs(testOptions(20, 10), []string{name}, &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("aaaa bbbb\n", out.String()); diff != "" {
		t.Error(diff)
	}

	err := runArgs(testOptions(20, 10), []string{filepath.Join(t.TempDir(), "missing")}, &out)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}
	err = runArgs(testOptions(20, 10), []string{name, name}, &out)
	if !errors.Is(err, errUsage) {
		t.Errorf("two files: got %v", err)
	}
}

func TestGoRegular(t *testing.T) {
	opt := testOptions(30, 10)
	opt.font = "goregular"
	var out bytes.Buffer
	if err := run(opt, strings.NewReader("Hello world.\n"), &out); err != nil {
		t.Fatal(err)
	}
	if got := strings.Fields(out.String()); !cmp.Equal(got, []string{"Hello", "world."}) {
		t.Errorf("unexpected output %q", out.String())
	}
}
