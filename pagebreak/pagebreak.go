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

// Package pagebreak breaks a flow of block material into pages.
//
// The widths of the elements in the flow are their sizes in the block
// progression direction.  Boxes in the flow can carry footnotes and
// floats as [boxes.Anchors].  Footnotes are placed at the bottom of the
// page where they are cited, or are split and continued on the
// following pages.  Floats are placed at the top of the page where they
// are cited, or on a later page.  Material which is left when the flow
// ends is placed on additional pages.
package pagebreak

import (
	"errors"

	"seehuhn.de/go/breaking"
	"seehuhn.de/go/breaking/boxes"
	"seehuhn.de/go/breaking/internal/float"
)

// ErrNoPageSize is returned if no page size is configured.
var ErrNoPageSize = errors.New("page size not set")

// Parameters configure the page breaker.
type Parameters struct {
	// PageSize returns the height of the page body for the given page,
	// starting at 0.
	PageSize func(page int) float64

	// FootnoteSeparator is added to a page above any footnotes, and
	// FloatSeparator below any floats.
	FootnoteSeparator boxes.ElasticLength
	FloatSeparator    boxes.ElasticLength

	// SplitFootnoteDemerits are added for a page where the last footnote
	// continues on the next page.  DeferredFootnoteDemerits and
	// DeferredFloatDemerits are added for every footnote or float which
	// has been cited but is not placed yet.
	SplitFootnoteDemerits    float64
	DeferredFootnoteDemerits float64
	DeferredFloatDemerits    float64

	// FootnotesOnFloatPages allows footnotes on the pages which are added
	// for floats after the end of the flow.
	FootnotesOnFloatPages bool

	// AutoHeight indicates that the page grows with its content.
	// Overflowing pages are then not reported.
	AutoHeight bool

	// Alignment applies to all pages but the last, AlignmentLast to the
	// last page.  The glue on the last page is only stretched if
	// AlignmentLast is justified.
	Alignment     breaking.Alignment
	AlignmentLast breaking.Alignment

	// Threshold is the maximal adjustment ratio for a page.  Pages which
	// are more stretched are only used if no better solution exists.
	Threshold float64

	Demerits breaking.Parameters

	// Overflow, if set, is notified about overfull pages.
	Overflow breaking.OverflowListener
}

// DefaultParameters returns parameters for pages of the given height.
func DefaultParameters(height float64) *Parameters {
	return &Parameters{
		PageSize:                 func(int) float64 { return height },
		SplitFootnoteDemerits:    5000,
		DeferredFootnoteDemerits: 10000,
		DeferredFloatDemerits:    10000,
		Alignment:                breaking.AlignJustify,
		AlignmentLast:            breaking.AlignStart,
		Threshold:                1,
		Demerits:                 breaking.DefaultParameters(),
	}
}

// Mode describes what a page is used for.
type Mode int

// These are the possible page modes.
const (
	// Normal pages contain material from the flow.
	Normal Mode = iota

	// FloatPage is used for pages added after the end of the flow to hold
	// the remaining floats.
	FloatPage

	// FootnotePage is used for pages added after the end of the flow to
	// hold the remaining footnotes.
	FootnotePage
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case FloatPage:
		return "float page"
	case FootnotePage:
		return "footnote page"
	}
	return "invalid mode"
}

// Page describes one page.
type Page struct {
	// Start and End give the range of flow elements on the page.  For
	// pages which are not [Normal] the range is empty.
	Start, End int

	Mode Mode

	// Footnotes and Floats give the out-of-line material on the page, as
	// indices into [Result.Footnotes] and [Result.Floats].
	Footnotes Span
	Floats    Span

	// FootnoteProgress and FloatProgress give the material placed on this
	// and all previous pages.
	FootnoteProgress ProgressInfo
	FloatProgress    ProgressInfo

	// Ratio is the adjustment ratio for the glue on the page.  Difference
	// is the space which remains after adjusting the glue.  For
	// overflowing pages it is negative.
	Ratio, Difference float64

	AvailableShrink, AvailableStretch float64

	// Overflow is set if the material does not fit on the page.
	Overflow bool
}

// Result is the outcome of breaking a flow into pages.
type Result struct {
	Pages    []Page
	Demerits float64

	// Footnotes and Floats hold the out-of-line sequences of the flow, with
	// spaces resolved, in the order in which they are cited.
	Footnotes []boxes.Sequence
	Floats    []boxes.Sequence
}

// Breaker breaks flows into pages.  A Breaker can be reused, but must not
// be used concurrently.
type Breaker struct {
	params *Parameters
	policy *policy
	alg    *breaking.Algorithm[pageState]
}

// New returns a new Breaker.
func New(params *Parameters) (*Breaker, error) {
	if params.PageSize == nil {
		return nil, ErrNoPageSize
	}
	p := &policy{params: params}
	demerits := params.Demerits
	if demerits == (breaking.Parameters{}) {
		demerits = breaking.DefaultParameters()
	}
	demerits.Alignment = params.Alignment
	demerits.Filter = breaking.SingleBest
	return &Breaker{
		params: params,
		policy: p,
		alg:    breaking.New[pageState](p, demerits),
	}, nil
}

// Break breaks the flow seq into pages.
func Break(seq boxes.Sequence, params *Parameters) (*Result, error) {
	b, err := New(params)
	if err != nil {
		return nil, err
	}
	return b.Break(seq)
}

// Break breaks the flow seq into pages.
func (b *Breaker) Break(seq boxes.Sequence) (*Result, error) {
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	threshold := b.params.Threshold
	if threshold <= 0 {
		threshold = 1
	}

	p := b.policy
	p.start(seq)
	start := pageState{
		Footnotes: StartProgress(),
		Floats:    StartProgress(),
	}
	b.alg.FindBreakingPoints(seq, start, threshold, true, breaking.AllBreaks)

	res := &Result{
		Pages:     p.pages,
		Demerits:  p.demerits,
		Footnotes: p.footnotes.Sequences(),
		Floats:    p.floats.Sequences(),
	}
	if res.Pages == nil {
		res.Pages = []Page{}
	}

	for i := range res.Pages {
		pg := &res.Pages[i]
		if !pg.Overflow || b.params.AutoHeight {
			continue
		}
		excess := -pg.Difference
		breaking.Logger().Warn("page overflows the available area",
			"page", i+1,
			"mode", pg.Mode,
			"excess", float.Round(excess, 3))
		if b.params.Overflow != nil {
			b.params.Overflow.NotifyOverflow(i, excess, firstRef(seq, pg.Start, pg.End))
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
