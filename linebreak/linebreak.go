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

// Package linebreak breaks paragraphs into lines.
//
// The input is a [boxes.Sequence] of inline material, normally terminated
// using [boxes.Sequence.EndParagraph].  The breaker first tries to find
// lines with adjustment ratio at most [Parameters.Threshold] without
// hyphenation.  If this fails, a second pass with
// [Parameters.MaxThreshold] is run in which overfull and underfull lines
// are allowed.
package linebreak

import (
	"errors"
	"math"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/breaking"
	"seehuhn.de/go/breaking/boxes"
	"seehuhn.de/go/breaking/internal/float"
)

// ErrLineWidth is returned if the line width is not positive.
var ErrLineWidth = errors.New("line width must be positive")

// Parameters describe the shape and alignment of a paragraph.
type Parameters struct {
	// LineWidth is the width of all lines, unless ParShape is set.
	LineWidth float64

	// ParShape optionally gives the widths of the first lines
	// individually.  The last entry is used for all following lines.
	ParShape []float64

	// TextIndent is the indentation of the first line.
	TextIndent float64

	// Alignment applies to all lines but the last, AlignmentLast to the
	// last line.
	Alignment     breaking.Alignment
	AlignmentLast breaking.Alignment

	// Threshold is the maximal adjustment ratio in the first pass.
	Threshold float64

	// MaxThreshold is the maximal adjustment ratio in the second pass.
	MaxThreshold float64

	// HyphenationAllowed enables breaks at flagged penalties.
	HyphenationAllowed bool

	// LineHeight is the distance between baselines of lines which only
	// contain material of the strut size.  Lead and Follow give the
	// strut's extent above and below the baseline.
	LineHeight   float64
	Lead, Follow float64

	// FixedLineHeight makes the height of all lines independent of the
	// content.
	FixedLineHeight bool

	// Demerits configures the breaking algorithm.  The alignment field
	// is overwritten with Alignment.
	Demerits breaking.Parameters

	// Overflow, if set, is notified about overfull lines.
	Overflow breaking.OverflowListener
}

// DefaultParameters returns parameters for justified text of the given
// width, with the last line set flush left.
func DefaultParameters(width float64) *Parameters {
	return &Parameters{
		LineWidth:     width,
		Alignment:     breaking.AlignJustify,
		AlignmentLast: breaking.AlignStart,
		Threshold:     1,
		MaxThreshold:  20,
		LineHeight:    12,
		Lead:          8,
		Follow:        2,
		Demerits:      breaking.DefaultParameters(),
	}
}

// Line describes one line of a paragraph.
type Line struct {
	// Start and End give the range of elements on the line.  End is the
	// position of the break.  If the line ends at a penalty, the width of
	// the penalty is part of the line.
	Start, End int

	// Indent is the space before the first element of the line, caused by
	// text indentation and by the alignment.
	Indent float64

	// Ratio is the adjustment ratio to apply to the glue of the line.
	Ratio float64

	// Difference is the width of the line minus the natural width of its
	// content.
	Difference float64

	AvailableShrink  float64
	AvailableStretch float64

	// Height is the distance between the top of the line and the bottom
	// of the line.  Lead and Follow give the extent above and below the
	// baseline, SpaceBefore and SpaceAfter the half-leading added above
	// and below.
	Height                  float64
	Lead, Follow            float64
	SpaceBefore, SpaceAfter float64

	// ZeroHeight is set for lines which only contain auxiliary boxes.
	ZeroHeight bool

	// Overflow is set if the content does not fit even with all glue
	// fully shrunk.
	Overflow bool
}

// Width returns the width of the content once glue is adjusted.
func (l *Line) Width(lineWidth float64) float64 {
	return lineWidth - l.Difference + l.adjustment()
}

func (l *Line) adjustment() float64 {
	switch {
	case l.Ratio > 0:
		return l.Ratio * l.AvailableStretch
	case l.Ratio < 0:
		return l.Ratio * l.AvailableShrink
	}
	return 0
}

// Layout is one way of breaking a paragraph.
type Layout struct {
	Lines    []Line
	Demerits float64
}

// Result is the outcome of breaking a paragraph.
type Result struct {
	Layout

	// Forced is set if the second pass had to be used.
	Forced bool

	// Alternatives lists layouts with a different number of lines, for
	// justified paragraphs.  They are sorted by number of lines.
	Alternatives []Layout
}

// Breaker breaks paragraphs into lines.  A Breaker can be reused, but must
// not be used concurrently.
type Breaker struct {
	params *Parameters
	policy *policy
	alg    *breaking.Algorithm[struct{}]
}

// New returns a new Breaker.
func New(params *Parameters) (*Breaker, error) {
	if params.LineWidth <= 0 && len(params.ParShape) == 0 {
		return nil, ErrLineWidth
	}
	for _, w := range params.ParShape {
		if w <= 0 {
			return nil, ErrLineWidth
		}
	}

	p := &policy{params: params}
	demerits := params.Demerits
	if demerits == (breaking.Parameters{}) {
		demerits = breaking.DefaultParameters()
	}
	demerits.Alignment = params.Alignment
	if params.Alignment == breaking.AlignJustify {
		demerits.Filter = breaking.Alternatives
	}
	if demerits.MaxDemeritsFactor == 0 {
		demerits.MaxDemeritsFactor = breaking.DefaultParameters().MaxDemeritsFactor
	}
	return &Breaker{
		params: params,
		policy: p,
		alg:    breaking.New[struct{}](p, demerits),
	}, nil
}

// Break breaks seq into lines.
func Break(seq boxes.Sequence, params *Parameters) (*Result, error) {
	b, err := New(params)
	if err != nil {
		return nil, err
	}
	return b.Break(seq)
}

// Break breaks seq into lines.
func (b *Breaker) Break(seq boxes.Sequence) (*Result, error) {
	if err := seq.Validate(); err != nil {
		return nil, err
	}

	kinds := breaking.NoFlaggedPenalties
	if b.params.HyphenationAllowed {
		kinds = breaking.AllBreaks
	}
	threshold := b.params.Threshold
	if threshold <= 0 {
		threshold = 1
	}
	maxThreshold := b.params.MaxThreshold
	if maxThreshold < threshold {
		maxThreshold = threshold
	}

	res := &Result{}
	b.policy.start(seq)
	best := b.alg.FindBreakingPoints(seq, struct{}{}, threshold, false, kinds)
	if len(b.policy.layouts) == 0 {
		breaking.Logger().Debug("second line breaking pass",
			"threshold", maxThreshold)
		res.Forced = true
		b.policy.start(seq)
		best = b.alg.FindBreakingPoints(seq, struct{}{}, maxThreshold, true, kinds)
	}

	layouts := b.policy.layouts
	slices.SortFunc(layouts, func(x, y Layout) int {
		return len(x.Lines) - len(y.Lines)
	})
	for _, l := range layouts {
		if len(l.Lines) == best && res.Lines == nil {
			res.Layout = l
		} else {
			res.Alternatives = append(res.Alternatives, l)
		}
	}
	if res.Lines == nil {
		res.Lines = []Line{}
	}

	for i := range res.Lines {
		if res.Lines[i].Overflow {
			l := &res.Lines[i]
			excess := -(l.Difference + l.AvailableShrink)
			ref := firstRef(seq, l.Start, l.End)
			breaking.Logger().Warn("line overflows",
				"line", i+1,
				"start", l.Start,
				"end", l.End,
				"excess", float.Round(excess, 3),
				"ref", ref)
			if b.params.Overflow != nil {
				b.params.Overflow.NotifyOverflow(i, excess, ref)
			}
		}
	}
	return res, nil
}

func firstRef(seq boxes.Sequence, start, end int) any {
	for i := start; i < end && i < len(seq); i++ {
		if seq[i].IsBox() && seq[i].Ref != nil {
			return seq[i].Ref
		}
	}
	return nil
}

type policy struct {
	params  *Parameters
	seq     boxes.Sequence
	layouts []Layout
}

func (p *policy) start(seq boxes.Sequence) {
	p.seq = seq
	p.layouts = nil
}

func (p *policy) lineWidth(line int) float64 {
	if n := len(p.params.ParShape); n > 0 {
		if line < n {
			return p.params.ParShape[line]
		}
		return p.params.ParShape[n-1]
	}
	return p.params.LineWidth
}

// LineWidth implements the [breaking.Policy] interface.
func (p *policy) LineWidth(line int) float64 {
	w := p.lineWidth(line)
	if line == 0 {
		w -= p.params.TextIndent
	}
	return w
}

// Evaluate implements the [breaking.Policy] interface.
func (p *policy) Evaluate(from *breaking.Node[struct{}], c *breaking.Candidate, out []breaking.Evaluation[struct{}]) []breaking.Evaluation[struct{}] {
	return append(out, breaking.Evaluation[struct{}]{})
}

// StartLayout implements the [breaking.Policy] interface.
func (p *policy) StartLayout(lines int, demerits float64) {
	p.layouts = append(p.layouts, Layout{
		Lines:    make([]Line, lines),
		Demerits: demerits,
	})
}

// AddBreak implements the [breaking.Policy] interface.
func (p *policy) AddBreak(n, prev *breaking.Node[struct{}], total int) {
	layout := &p.layouts[len(p.layouts)-1]
	idx := n.Line - 1
	line := &layout.Lines[idx]

	line.Start = p.lineStart(prev)
	line.End = n.Position
	line.AvailableShrink = n.AvailableShrink
	line.AvailableStretch = n.AvailableStretch

	align := p.params.Alignment
	if n.Line == total {
		align = p.params.AlignmentLast
	}

	difference := n.Difference
	line.Difference = difference
	if difference+n.AvailableShrink < 0 {
		line.Overflow = true
	}

	if align == breaking.AlignJustify || (difference < 0 && -difference <= n.AvailableShrink) {
		line.Ratio = n.Ratio
	} else {
		line.Ratio = 0
		switch align {
		case breaking.AlignCenter:
			line.Indent = difference / 2
		case breaking.AlignEnd:
			line.Indent = difference
		}
	}
	if idx == 0 {
		line.Indent += p.params.TextIndent
	}

	p.verticalMetrics(line, difference == p.LineWidth(idx))
}

// lineStart returns the position of the first element of the line which
// follows the break at n.
func (p *policy) lineStart(n *breaking.Node[struct{}]) int {
	if n.Line == 0 {
		return n.Position
	}
	i := n.Position + 1
	for i < len(p.seq) {
		e := &p.seq[i]
		if e.IsBox() || e.IsForcedBreak() {
			break
		}
		i++
	}
	return i
}

func (p *policy) verticalMetrics(line *Line, empty bool) {
	lead := p.params.Lead
	follow := p.params.Follow
	leading := p.params.LineHeight - (p.params.Lead + p.params.Follow)

	onlyAux := true
	end := min(line.End, len(p.seq))
	for i := line.Start; i < end; i++ {
		e := &p.seq[i]
		if !e.IsBox() {
			continue
		}
		if !e.Auxiliary {
			onlyAux = false
		}
		if p.params.FixedLineHeight {
			continue
		}
		lead = math.Max(lead, e.Height-e.Offset)
		follow = math.Max(follow, e.Depth+e.Offset)
	}

	if empty && onlyAux {
		line.ZeroHeight = true
		return
	}

	line.Lead = lead
	line.Follow = follow
	line.SpaceBefore = leading / 2
	line.SpaceAfter = leading / 2
	line.Height = lead + follow + leading
}
