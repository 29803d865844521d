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

package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `First paragraph, with a note[^A short note.] here.

Second
paragraph.
@float 3 A picture
Third.
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	want := &Document{
		Paragraphs: []Paragraph{
			{Words: []Word{
				{Text: "First"},
				{Text: "paragraph,"},
				{Text: "with"},
				{Text: "a"},
				{Text: "note", Footnotes: []int{0}},
				{Text: "here."},
			}},
			{Words: []Word{
				{Text: "Second"},
				{Text: "paragraph.", Floats: []int{0}},
			}},
			{Words: []Word{
				{Text: "Third."},
			}},
		},
		Footnotes: []Paragraph{
			{Words: []Word{
				{Text: "[1]"},
				{Text: "A"},
				{Text: "short"},
				{Text: "note."},
			}},
		},
		Floats: []Float{
			{Number: 1, Lines: 3, Caption: "A picture"},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Error(diff)
	}
}

func TestParseLeadingFloat(t *testing.T) {
	doc, err := Parse(strings.NewReader("@float 2 Logo\n\n[^first] Hello world.\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Word{
		{Footnotes: []int{0}, Floats: []int{0}},
		{Text: "Hello"},
		{Text: "world."},
	}
	if diff := cmp.Diff(want, doc.Paragraphs[0].Words); diff != "" {
		t.Error(diff)
	}
	if got := doc.Paragraphs[0].Words[0].Display(); got != "[1]" {
		t.Errorf("display %q", got)
	}
}

func TestDisplay(t *testing.T) {
	w := Word{Text: "note", Footnotes: []int{0, 2}}
	if got := w.Display(); got != "note[1][3]" {
		t.Errorf("got %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"some [^ open\n", "line 1: unterminated footnote"},
		{"text\n@float\n", "line 2: missing float size"},
		{"text\n@float x box\n", `line 2: invalid float size "x"`},
		{"text\n@float 0\n", `line 2: invalid float size "0"`},
		{"\n@float 2 lonely\n", "line 2: float without text"},
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c.in))
		if err == nil || err.Error() != c.want {
			t.Errorf("%q: got error %v, want %q", c.in, err, c.want)
		}
	}
}
