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

// Package layout sets documents with footnotes and floats into pages.
//
// The words of each paragraph are measured and broken into lines.  The
// lines are then stacked into a flow of block material, which is broken
// into pages.  Lines which cite footnotes or floats carry the line-broken
// footnotes and the floats as anchors.
package layout

import (
	"errors"

	"seehuhn.de/go/breaking"
	"seehuhn.de/go/breaking/boxes"
	"seehuhn.de/go/breaking/pagebreak"
)

var (
	// ErrNoMeasurer is returned if no measurer is configured.
	ErrNoMeasurer = errors.New("no measurer set")

	// ErrPageHeight is returned if the page height is not positive.
	ErrPageHeight = errors.New("page height must be positive")
)

// Parameters control the layout of a document.
type Parameters struct {
	Measurer Measurer

	// TextWidth is the width of the lines of text.  FootnoteWidth is the
	// width of the footnote lines; if zero, TextWidth is used.
	TextWidth     float64
	FootnoteWidth float64

	// PageHeight is the height of the page body.  It is ignored if Page
	// has PageSize set.
	PageHeight float64

	// Indent is the indentation of the first line of each paragraph.
	Indent float64

	// ParSkip is added between paragraphs.
	ParSkip boxes.ElasticLength

	// BaseLineSkip is the minimal distance between the baselines of
	// consecutive lines.  LineStretch is the stretchability of the space
	// between lines.
	BaseLineSkip float64
	LineStretch  float64

	// InterLinePenalty is the cost of a page break between two lines of a
	// paragraph.  ClubPenalty is added after the first line of a
	// paragraph, WidowPenalty before the last line.
	InterLinePenalty float64
	ClubPenalty      float64
	WidowPenalty     float64

	Alignment     breaking.Alignment
	AlignmentLast breaking.Alignment

	// Threshold is the maximal adjustment ratio for lines in the first
	// line breaking pass.
	Threshold float64

	// Page optionally configures the page breaker.  Missing separators
	// are set to one line.
	Page *pagebreak.Parameters

	// Overflow, if set, is notified about overfull lines and pages.
	Overflow breaking.OverflowListener
}

// DefaultParameters returns parameters for justified text with the given
// line width and page height.
func DefaultParameters(m Measurer, width, height float64) *Parameters {
	_, _, skip := m.LineMetrics()
	return &Parameters{
		Measurer:      m,
		TextWidth:     width,
		PageHeight:    height,
		ParSkip:       boxes.Elastic(0, skip, skip),
		BaseLineSkip:  skip,
		LineStretch:   skip / 4,
		ClubPenalty:   150,
		WidowPenalty:  150,
		Alignment:     breaking.AlignJustify,
		AlignmentLast: breaking.AlignStart,
		Threshold:     1,
	}
}

// Result is a document set into pages.
type Result struct {
	Pages    []Page
	Demerits float64
}

// Page is one page of a laid out document.
type Page struct {
	Mode pagebreak.Mode

	// Floats are placed at the top of the page.
	Floats []*Float

	// Lines gives the body lines.  The positions are relative to the top
	// of the body, below the floats.
	Lines []Placed

	// Footnotes gives the footnote lines.  The positions are relative to
	// the top of the footnote area.
	Footnotes []Placed

	Overflow bool
}

// Placed is a line at a vertical position.  Y is the distance from the
// top of the area to the top of the line.
type Placed struct {
	Y    float64
	Line *Line
}

// Line is a line of text.
type Line struct {
	Items []Item

	// Width is the width of the measure.  Lead and Follow give the
	// extent above and below the baseline.
	Width        float64
	Lead, Follow float64

	// Footnotes and Floats list the footnotes and floats cited on the
	// line, as indices into the fields of the [Document].
	Footnotes []int
	Floats    []int
}

// Item is a word placed on a line.
type Item struct {
	X, Width float64
	Text     string
}

// Layout sets doc into pages.
func Layout(doc *Document, params *Parameters) (*Result, error) {
	l, err := newLayouter(params)
	if err != nil {
		return nil, err
	}
	return l.run(doc)
}

type layouter struct {
	params   *Parameters
	m        Measurer
	overflow breaking.OverflowListener
	page     *pagebreak.Parameters
}

func newLayouter(params *Parameters) (*layouter, error) {
	if params.Measurer == nil {
		return nil, ErrNoMeasurer
	}
	l := &layouter{
		params: params,
		m:      params.Measurer,
	}
	if params.Overflow != nil {
		l.overflow = &lockedListener{l: params.Overflow}
	}

	var page pagebreak.Parameters
	if params.Page != nil {
		page = *params.Page
	} else {
		if params.PageHeight <= 0 {
			return nil, ErrPageHeight
		}
		page = *pagebreak.DefaultParameters(params.PageHeight)
	}
	if page.PageSize == nil {
		if params.PageHeight <= 0 {
			return nil, ErrPageHeight
		}
		height := params.PageHeight
		page.PageSize = func(int) float64 { return height }
	}
	skip := l.baseLineSkip()
	if page.FootnoteSeparator.IsZero() {
		page.FootnoteSeparator = boxes.Elastic(0, skip, 0)
	}
	if page.FloatSeparator.IsZero() {
		page.FloatSeparator = boxes.Elastic(0, skip, 0)
	}
	if page.Overflow == nil {
		page.Overflow = params.Overflow
	}
	l.page = &page
	return l, nil
}

func (l *layouter) baseLineSkip() float64 {
	if l.params.BaseLineSkip > 0 {
		return l.params.BaseLineSkip
	}
	_, _, skip := l.m.LineMetrics()
	return skip
}

func (l *layouter) run(doc *Document) (*Result, error) {
	if len(doc.Paragraphs) == 0 {
		return &Result{Pages: []Page{}}, nil
	}

	footnoteWidth := l.params.FootnoteWidth
	if footnoteWidth <= 0 {
		footnoteWidth = l.params.TextWidth
	}
	jobs := make([]job, 0, len(doc.Paragraphs)+len(doc.Footnotes))
	for i := range doc.Paragraphs {
		jobs = append(jobs, job{
			name:   "paragraph",
			index:  i,
			words:  doc.Paragraphs[i].Words,
			width:  l.params.TextWidth,
			indent: l.params.Indent,
		})
	}
	for i := range doc.Footnotes {
		jobs = append(jobs, job{
			name:  "footnote",
			index: i,
			words: doc.Footnotes[i].Words,
			width: footnoteWidth,
		})
	}
	broken, err := l.breakAll(jobs)
	if err != nil {
		return nil, err
	}
	body := broken[:len(doc.Paragraphs)]
	notes := broken[len(doc.Paragraphs):]

	footnotes := make([]boxes.Sequence, len(notes))
	for i, lines := range notes {
		var s stacker
		s.paragraph(l, lines, 0, nil)
		footnotes[i] = s.seq
	}
	floats := make([]boxes.Sequence, len(doc.Floats))
	for i := range doc.Floats {
		f := &doc.Floats[i]
		floats[i] = boxes.Sequence{{
			Kind:  boxes.KindBox,
			Width: float64(f.Lines) * l.baseLineSkip(),
			Ref:   f,
		}}
	}

	anchors := func(line *Line) *boxes.Anchors {
		if len(line.Footnotes) == 0 && len(line.Floats) == 0 {
			return nil
		}
		a := &boxes.Anchors{}
		for _, idx := range line.Footnotes {
			a.Footnotes = append(a.Footnotes, footnotes[idx])
		}
		for _, idx := range line.Floats {
			a.Floats = append(a.Floats, floats[idx])
		}
		return a
	}
	var s stacker
	for _, lines := range body {
		s.paragraph(l, lines, l.params.LineStretch, anchors)
	}
	flow := s.seq.EndParagraph()

	res, err := pagebreak.Break(flow, l.page)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Pages:    make([]Page, len(res.Pages)),
		Demerits: res.Demerits,
	}
	justified := l.page.Alignment == breaking.AlignJustify
	for i := range res.Pages {
		pg := &res.Pages[i]
		ratio := pg.Ratio
		if !justified && ratio > 0 {
			ratio = 0
		}
		out.Pages[i] = Page{
			Mode:      pg.Mode,
			Floats:    spanFloats(res.Floats, pg.Floats),
			Lines:     place(flow[:min(pg.End, len(flow))], pg.Start, ratio),
			Footnotes: spanLines(res.Footnotes, pg.Footnotes),
			Overflow:  pg.Overflow,
		}
	}

	breaking.Logger().Debug("document laid out",
		"paragraphs", len(doc.Paragraphs),
		"footnotes", len(doc.Footnotes),
		"floats", len(doc.Floats),
		"pages", len(out.Pages))
	return out, nil
}

// stacker builds a flow of lines.
type stacker struct {
	seq        boxes.Sequence
	prevFollow float64
}

// paragraph appends the lines of a paragraph to the flow.
func (s *stacker) paragraph(l *layouter, lines []*Line, stretch float64, anchors func(*Line) *boxes.Anchors) {
	p := l.params
	for j, line := range lines {
		started := len(s.seq) > 0
		if j > 0 {
			cost := p.InterLinePenalty
			if j == 1 {
				cost += p.ClubPenalty
			}
			if j == len(lines)-1 {
				cost += p.WidowPenalty
			}
			s.seq = append(s.seq, boxes.Penalty(0, cost, false))
		} else if started {
			s.seq = append(s.seq, boxes.Glue(p.ParSkip.Length, p.ParSkip.Stretch, p.ParSkip.Shrink))
		}
		if started {
			kern := max(0, l.baseLineSkip()-(s.prevFollow+line.Lead))
			if kern > 0 || stretch > 0 {
				s.seq = append(s.seq, boxes.Glue(kern, stretch, 0))
			}
		}

		box := boxes.Element{
			Kind:  boxes.KindBox,
			Width: line.Lead + line.Follow,
			Ref:   line,
		}
		if anchors != nil {
			box.Anchors = anchors(line)
		}
		s.seq = append(s.seq, box)
		s.prevFollow = line.Follow
	}
}

// place returns the lines in seq, starting at start, at their positions
// after adjusting the glue by ratio.
func place(seq boxes.Sequence, start int, ratio float64) []Placed {
	var res []Placed
	y := 0.0
	for i := start; i < len(seq); i++ {
		e := &seq[i]
		switch e.Kind {
		case boxes.KindBox:
			if line, ok := e.Ref.(*Line); ok {
				res = append(res, Placed{Y: y, Line: line})
			}
			y += e.Width
		case boxes.KindGlue:
			y += e.Width + adjust(e, ratio)
		}
	}
	return res
}

// spanLines returns the footnote lines in span s.  Glue and penalties
// before the first line are discarded.
func spanLines(seqs []boxes.Sequence, s pagebreak.Span) []Placed {
	if s.IsEmpty() {
		return nil
	}
	var res []Placed
	y := 0.0
	for list := s.First; list <= s.Last && list < len(seqs); list++ {
		seq := seqs[list]
		from, to := 0, len(seq)-1
		if list == s.First {
			from = s.FirstElement
		}
		if list == s.Last {
			to = min(s.LastElement, to)
		}
		for i := from; i <= to; i++ {
			e := &seq[i]
			if len(res) == 0 && !e.IsBox() {
				continue
			}
			switch e.Kind {
			case boxes.KindBox:
				if line, ok := e.Ref.(*Line); ok {
					res = append(res, Placed{Y: y, Line: line})
				}
				y += e.Width
			case boxes.KindGlue:
				y += e.Width
			}
		}
	}
	return res
}

func spanFloats(seqs []boxes.Sequence, s pagebreak.Span) []*Float {
	if s.IsEmpty() {
		return nil
	}
	var res []*Float
	for list := s.First; list <= s.Last && list < len(seqs); list++ {
		for i := range seqs[list] {
			if f, ok := seqs[list][i].Ref.(*Float); ok {
				res = append(res, f)
			}
		}
	}
	return res
}

func adjust(e *boxes.Element, ratio float64) float64 {
	switch {
	case ratio > 0:
		return ratio * e.Stretch
	case ratio < 0:
		return ratio * e.Shrink
	}
	return 0
}
