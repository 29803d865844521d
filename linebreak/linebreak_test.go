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

package linebreak

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/breaking"
	"seehuhn.de/go/breaking/boxes"
)

type overflow struct {
	Part   int
	Excess float64
	Ref    any
}

type recorder struct {
	seen []overflow
}

func (r *recorder) NotifyOverflow(part int, excess float64, ref any) {
	r.seen = append(r.seen, overflow{part, excess, ref})
}

// threeWords has a single legal break at the end.  The natural width is
// 100, with stretch 10 and shrink 4.
func threeWords() boxes.Sequence {
	first := boxes.Box(30)
	first.Ref = "w1"
	return boxes.Sequence{
		first,
		boxes.NoBreak(),
		boxes.Glue(5, 5, 2),
		boxes.Box(40),
		boxes.NoBreak(),
		boxes.Glue(5, 5, 2),
		boxes.Box(20),
	}
}

func justified(width float64) *Parameters {
	p := DefaultParameters(width)
	p.AlignmentLast = breaking.AlignJustify
	return p
}

func TestStretchedLine(t *testing.T) {
	rec := &recorder{}
	params := justified(110)
	params.Overflow = rec
	res, err := Break(threeWords(), params)
	if err != nil {
		t.Fatal(err)
	}
	want := []Line{{
		Start:            0,
		End:              7,
		Ratio:            1,
		Difference:       10,
		AvailableShrink:  4,
		AvailableStretch: 10,
		Height:           12,
		Lead:             8,
		Follow:           2,
		SpaceBefore:      1,
		SpaceAfter:       1,
	}}
	if diff := cmp.Diff(want, res.Lines, cmpopts.EquateApprox(1e-9, 0)); diff != "" {
		t.Error(diff)
	}
	if res.Forced {
		t.Error("second pass used")
	}
	if len(rec.seen) != 0 {
		t.Errorf("unexpected overflow %v", rec.seen)
	}
	if w := res.Lines[0].Width(110); math.Abs(w-110) > 1e-9 {
		t.Errorf("adjusted width %g", w)
	}
}

func TestOverfullLine(t *testing.T) {
	rec := &recorder{}
	params := justified(80)
	params.Overflow = rec
	res, err := Break(threeWords(), params)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Forced {
		t.Error("second pass not used")
	}
	if len(res.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(res.Lines))
	}
	l := res.Lines[0]
	if l.End != 7 || l.Ratio != -5 || !l.Overflow {
		t.Errorf("unexpected line %+v", l)
	}
	want := []overflow{{Part: 0, Excess: 16, Ref: "w1"}}
	if diff := cmp.Diff(want, rec.seen); diff != "" {
		t.Error(diff)
	}
}

func TestOverflowLog(t *testing.T) {
	buf := &bytes.Buffer{}
	breaking.SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	defer breaking.SetLogger(nil)

	if _, err := Break(threeWords(), justified(80)); err != nil {
		t.Fatal(err)
	}
	msg := buf.String()
	for _, attr := range []string{`msg="line overflows"`, "line=1", "end=7", "excess=16", "ref=w1"} {
		if !strings.Contains(msg, attr) {
			t.Errorf("missing %s in log output %q", attr, msg)
		}
	}
}

func TestAlignment(t *testing.T) {
	seq := boxes.Sequence{boxes.Box(50)}.EndParagraph()
	cases := []struct {
		align  breaking.Alignment
		indent float64
		want   float64
	}{
		{breaking.AlignStart, 0, 0},
		{breaking.AlignEnd, 0, 50},
		{breaking.AlignCenter, 0, 25},
		{breaking.AlignStart, 10, 10},
		{breaking.AlignCenter, 10, 30},
		{breaking.AlignEnd, 10, 50},
	}
	for _, c := range cases {
		params := DefaultParameters(100)
		params.Alignment = c.align
		params.AlignmentLast = c.align
		params.TextIndent = c.indent
		res, err := Break(seq, params)
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Lines) != 1 {
			t.Fatalf("%s: expected 1 line, got %d", c.align, len(res.Lines))
		}
		l := res.Lines[0]
		if math.Abs(l.Indent-c.want) > 1e-9 {
			t.Errorf("%s/%g: indent %g, want %g", c.align, c.indent, l.Indent, c.want)
		}
		if l.Ratio != 0 {
			t.Errorf("%s: ratio %g", c.align, l.Ratio)
		}
	}
}

func TestJustifiedLastLine(t *testing.T) {
	seq := boxes.Sequence{boxes.Box(50)}.EndParagraph()
	res, err := Break(seq, justified(100))
	if err != nil {
		t.Fatal(err)
	}
	l := res.Lines[0]
	if l.Indent != 0 || l.Ratio <= 0 {
		t.Errorf("unexpected line %+v", l)
	}
}

func TestZeroHeightLine(t *testing.T) {
	seq := boxes.Sequence{boxes.AuxBox(0)}.EndParagraph()
	res, err := Break(seq, DefaultParameters(100))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(res.Lines))
	}
	l := res.Lines[0]
	if !l.ZeroHeight || l.Height != 0 {
		t.Errorf("unexpected line %+v", l)
	}
}

func TestLineHeight(t *testing.T) {
	tall := boxes.InlineBox(10, 15, 5)
	shifted := boxes.InlineBox(10, 9, 1)
	shifted.Offset = 3
	cases := []struct {
		box           boxes.Element
		fixed         bool
		lead, follow  float64
		height, space float64
	}{
		{boxes.InlineBox(10, 5, 1), false, 8, 2, 12, 1},
		{tall, false, 15, 5, 22, 1},
		{tall, true, 8, 2, 12, 1},
		{shifted, false, 8, 4, 14, 1},
	}
	for i, c := range cases {
		params := DefaultParameters(100)
		params.FixedLineHeight = c.fixed
		seq := boxes.Sequence{c.box}.EndParagraph()
		res, err := Break(seq, params)
		if err != nil {
			t.Fatal(err)
		}
		l := res.Lines[0]
		got := [4]float64{l.Lead, l.Follow, l.Height, l.SpaceBefore}
		want := [4]float64{c.lead, c.follow, c.height, c.space}
		if got != want {
			t.Errorf("%d: got %v, want %v", i, got, want)
		}
	}
}

func TestParagraph(t *testing.T) {
	var seq boxes.Sequence
	for i := 0; i < 30; i++ {
		if i > 0 {
			seq = append(seq, boxes.Glue(6, 6, 3))
		}
		seq = append(seq, boxes.Box(float64(10+(7*i)%20)))
	}
	seq = seq.EndParagraph()

	res, err := Break(seq, DefaultParameters(100))
	if err != nil {
		t.Fatal(err)
	}
	if res.Forced {
		t.Error("second pass used")
	}
	if len(res.Lines) < 5 {
		t.Fatalf("too few lines: %d", len(res.Lines))
	}
	if res.Lines[0].Start != 0 {
		t.Errorf("first line starts at %d", res.Lines[0].Start)
	}
	if end := res.Lines[len(res.Lines)-1].End; end != len(seq)-1 {
		t.Errorf("last line ends at %d, not %d", end, len(seq)-1)
	}
	for i, l := range res.Lines {
		if l.Ratio < -1 || l.Ratio > 1 {
			t.Errorf("line %d: ratio %g", i, l.Ratio)
		}
		if l.Overflow {
			t.Errorf("line %d overflows", i)
		}
		if i > 0 {
			prev := res.Lines[i-1]
			if l.Start != prev.End+1 {
				t.Errorf("line %d: starts at %d, previous break at %d", i, l.Start, prev.End)
			}
		}
		if i < len(res.Lines)-1 && math.Abs(l.Width(100)-100) > 1e-9 {
			t.Errorf("line %d: width %g", i, l.Width(100))
		}
	}
	for _, alt := range res.Alternatives {
		if len(alt.Lines) == len(res.Lines) {
			t.Errorf("alternative with the same number of lines")
		}
	}
}

func TestParShape(t *testing.T) {
	var seq boxes.Sequence
	for i := 0; i < 12; i++ {
		if i > 0 {
			seq = append(seq, boxes.Glue(5, 5, 2))
		}
		seq = append(seq, boxes.Box(20))
	}
	seq = seq.EndParagraph()
	params := DefaultParameters(0)
	params.ParShape = []float64{20, 45, 70}
	res, err := Break(seq, params)
	if err != nil {
		t.Fatal(err)
	}
	// 1 word, 2 words, then 3 words per line
	var words []int
	for _, l := range res.Lines {
		n := 0
		for i := l.Start; i < l.End; i++ {
			if seq[i].IsBox() {
				n++
			}
		}
		words = append(words, n)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 3, 3}, words); diff != "" {
		t.Error(diff)
	}
}

func TestHyphenation(t *testing.T) {
	seq := boxes.Sequence{
		boxes.Box(30),
		boxes.Penalty(5, 50, true),
		boxes.Box(30),
	}.EndParagraph()

	params := DefaultParameters(35)
	res, err := Break(seq, params)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Forced || len(res.Lines) != 1 || !res.Lines[0].Overflow {
		t.Errorf("without hyphenation: unexpected result %+v", res)
	}

	params.HyphenationAllowed = true
	res, err = Break(seq, params)
	if err != nil {
		t.Fatal(err)
	}
	if res.Forced || len(res.Lines) != 2 {
		t.Fatalf("with hyphenation: unexpected result %+v", res)
	}
	if res.Lines[0].End != 1 || res.Lines[0].Difference != 0 {
		t.Errorf("unexpected first line %+v", res.Lines[0])
	}
}

func TestEmptyParagraph(t *testing.T) {
	res, err := Break(boxes.Sequence{}.EndParagraph(), DefaultParameters(100))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(res.Lines))
	}
}

func TestErrors(t *testing.T) {
	_, err := Break(threeWords(), DefaultParameters(0))
	if !errors.Is(err, ErrLineWidth) {
		t.Errorf("expected ErrLineWidth, got %v", err)
	}

	seq := boxes.Sequence{boxes.Box(10), boxes.Glue(5, 1, -1), boxes.Box(10)}
	_, err = Break(seq, DefaultParameters(100))
	if !errors.Is(err, boxes.ErrNegativeShrink) {
		t.Errorf("expected ErrNegativeShrink, got %v", err)
	}
	var seqErr *boxes.InvalidSequenceError
	if !errors.As(err, &seqErr) || seqErr.Pos != 1 {
		t.Errorf("expected error at position 1, got %v", err)
	}
}
