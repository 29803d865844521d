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

package pagebreak

import (
	"seehuhn.de/go/breaking"
	"seehuhn.de/go/breaking/boxes"
	"seehuhn.de/go/breaking/internal/float"
)

// pageState is the part of a page node which is specific to page
// breaking.
type pageState struct {
	Footnotes ProgressInfo
	Floats    ProgressInfo
	Mode      Mode
}

type policy struct {
	params *Parameters
	seq    boxes.Sequence

	footnotes FootnotesRecord
	floats    FloatsRecord

	memo struct {
		valid     bool
		prev, pos int
		value     bool
	}

	pages    []Page
	demerits float64
}

func (p *policy) start(seq boxes.Sequence) {
	p.seq = seq
	p.footnotes = FootnotesRecord{}
	p.floats = FloatsRecord{}
	p.memo.valid = false
	p.pages = nil
	p.demerits = 0
}

// LineWidth implements the [breaking.Policy] interface.
func (p *policy) LineWidth(page int) float64 {
	return p.params.PageSize(page)
}

// HandleBox implements the [breaking.BoxHandler] interface.
func (p *policy) HandleBox(pos int, box *boxes.Element) {
	if !box.HasAnchors() {
		return
	}
	p.footnotes.Add(pos, box.Anchors.Footnotes...)
	p.floats.Add(pos, box.Anchors.Floats...)
}

// BreakConsidered implements the [breaking.BreakObserver] interface.
func (p *policy) BreakConsidered(int) {
	p.footnotes.BreakConsidered()
	p.floats.BreakConsidered()
}

// Restart implements the [breaking.Restarter] interface.
func (p *policy) Restart(from, to int) {
	p.footnotes.Truncate(from)
	p.floats.Truncate(from)
	breaking.Logger().Debug("out-of-line material reset",
		"from", from, "to", to,
		"footnotes", p.footnotes.Len(),
		"floats", p.floats.Len())
}

// Evaluate implements the [breaking.Policy] interface.
//
// Every page either defers all pending floats, or places as many of them
// as fit.  For each of these choices, footnotes are placed as far as the
// remaining space allows.
func (p *policy) Evaluate(from *breaking.Node[pageState], c *breaking.Candidate, out []breaking.Evaluation[pageState]) []breaking.Evaluation[pageState] {
	st := &from.State
	out = p.addFootnotes(out, from, c, st.Floats, boxes.ElasticLength{})
	if !p.floats.Complete(st.Floats) {
		sep := p.params.FloatSeparator
		available := c.Target - c.Content.Length - sep.Length
		if l, q := p.floats.Split(st.Floats, available); l > 0 {
			extra := sep
			extra.Length += l
			out = p.addFootnotes(out, from, c, q, extra)
		}
	}
	return out
}

func (p *policy) addFootnotes(out []breaking.Evaluation[pageState], from *breaking.Node[pageState], c *breaking.Candidate, floats ProgressInfo, extra boxes.ElasticLength) []breaking.Evaluation[pageState] {
	ev := breaking.Evaluation[pageState]{
		State: pageState{
			Footnotes: from.State.Footnotes,
			Floats:    floats,
		},
		Demerits: float64(p.floats.NbOfDeferred(floats)) * p.params.DeferredFloatDemerits,
	}

	prev := from.State.Footnotes
	if !p.footnotes.Complete(prev) {
		extra.AddElastic(p.params.FootnoteSeparator)
		used := c.Content.Length + extra.Length
		all := p.footnotes.TotalLength() - prev.InsertedLength

		var placed float64
		var q ProgressInfo
		if used+all <= c.Target {
			placed, q = all, p.footnotes.InsertAll()
		} else {
			canDefer := p.canDeferOld(from, c.Position)
			if canDefer || p.footnotes.newSince {
				placed, q = p.footnotes.Split(prev, c.Target-used, canDefer)
			}
			if placed <= 0 {
				// Either nothing fits, or old footnotes would have to
				// be deferred.  The page becomes too long.
				placed, q = all, p.footnotes.InsertAll()
			}
		}
		extra.Length += placed
		ev.State.Footnotes = q

		ev.Demerits += float64(p.footnotes.NbOfDeferred(q)) * p.params.DeferredFootnoteDemerits
		if p.footnotes.IsSplit(q) {
			ev.Demerits += p.params.SplitFootnoteDemerits
		}
	}
	ev.Extra = extra
	return append(out, ev)
}

// canDeferOld reports whether footnotes from earlier pages may be deferred
// beyond a page ending at pos.  This is the case if the page contains no
// other legal break and footnotes are pending.
func (p *policy) canDeferOld(from *breaking.Node[pageState], pos int) bool {
	return p.noBreakBetween(from.Position, pos) && p.footnotes.Deferred(from.State.Footnotes)
}

// noBreakBetween reports whether there is no legal break between the
// breaks at prev and pos.  The last result is remembered: if there is no
// break between prev and pos, there is none between any later prev and
// pos, and if there is a break, there is one for every earlier prev and
// later pos.
func (p *policy) noBreakBetween(prev, pos int) bool {
	m := &p.memo
	if m.valid &&
		(prev >= m.prev && pos == m.pos && m.value ||
			prev <= m.prev && pos >= m.pos && !m.value) {
		return m.value
	}

	i := prev + 1
	for i < pos && i < len(p.seq) && !p.seq[i].IsBox() {
		i++
	}
	for ; i < pos && i < len(p.seq); i++ {
		if p.seq.IsLegalBreak(i) {
			break
		}
	}
	m.valid = true
	m.prev = prev
	m.pos = pos
	m.value = i >= pos || i >= len(p.seq)
	return m.value
}

// StartLayout implements the [breaking.Policy] interface.
func (p *policy) StartLayout(pages int, demerits float64) {
	p.pages = make([]Page, pages)
	p.demerits = demerits
}

// AddBreak implements the [breaking.Policy] interface.
func (p *policy) AddBreak(n, prev *breaking.Node[pageState], pages int) {
	pg := &p.pages[n.Line-1]
	st := n.State

	pg.Mode = st.Mode
	if st.Mode == Normal {
		pg.Start = p.pageStart(prev)
	} else {
		pg.Start = n.Position
	}
	pg.End = n.Position
	pg.Footnotes = p.footnotes.span(prev.State.Footnotes, st.Footnotes)
	pg.Floats = p.floats.span(prev.State.Floats, st.Floats)
	pg.FootnoteProgress = st.Footnotes
	pg.FloatProgress = st.Floats
	pg.AvailableShrink = n.AvailableShrink
	pg.AvailableStretch = n.AvailableStretch

	difference := n.Difference
	ratio := n.Ratio
	isLast := n.Line == pages
	align := p.params.Alignment
	if isLast {
		align = p.params.AlignmentLast
	}
	switch {
	case difference+n.AvailableShrink < -float.Epsilon:
		pg.Overflow = true
		ratio = -1
		difference += n.AvailableShrink
	case ratio < 0:
		// there is enough shrink
		difference = 0
	case ratio <= 1 && !isLast:
		difference = 0
	case ratio > 1:
		// stretch fills the difference only partially
		ratio = 1
		difference -= n.AvailableStretch
	case align != breaking.AlignJustify:
		ratio = 0
	default:
		difference = 0
	}
	pg.Ratio = ratio
	pg.Difference = difference

	breaking.Logger().Debug("page break",
		"page", n.Line,
		"position", n.Position,
		"mode", st.Mode,
		"ratio", float.Round(ratio, 3),
		"difference", float.Round(difference, 3),
		"footnotes", st.Footnotes.String(),
		"floats", st.Floats.String())
}

// pageStart returns the position of the first element of the page which
// follows the break at n.
func (p *policy) pageStart(n *breaking.Node[pageState]) int {
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

// Finish implements the [breaking.Finisher] interface.  Pages for the
// floats and footnotes which are still pending are appended to every
// final node.
func (p *policy) Finish(a *breaking.Algorithm[pageState]) {
	for _, id := range a.Active() {
		base := *a.Node(id)
		trailing := p.trailingPages(base.State, base.Line)
		if len(trailing) == 0 {
			continue
		}
		breaking.Logger().Debug("adding pages for pending material",
			"after", base.Line, "pages", len(trailing))

		a.Deactivate(id)
		prev := id
		for k, tp := range trailing {
			prev = a.NewNode(breaking.Node[pageState]{
				Position:      base.Position,
				Line:          base.Line + k + 1,
				Fitness:       base.Fitness,
				Total:         base.Total,
				TotalDemerits: base.TotalDemerits,
				Difference:    tp.size - tp.used,
				Previous:      prev,
				State:         tp.state,
			})
		}
		a.Activate(prev)
	}
}

type trailingPage struct {
	state      pageState
	size, used float64
}

// trailingPages distributes the material pending after st onto new pages.
// The first new page is page number line.  Floats come first; footnotes
// are added to float pages only if FootnotesOnFloatPages is set.
func (p *policy) trailingPages(st pageState, line int) []trailingPage {
	var res []trailingPage
	for !p.floats.Complete(st.Floats) || !p.footnotes.Complete(st.Footnotes) {
		size := p.params.PageSize(line + len(res))
		next := st
		var used float64
		if !p.floats.Complete(st.Floats) {
			next.Mode = FloatPage
			sep := p.params.FloatSeparator.Length
			l, q := p.floats.Split(st.Floats, size-sep)
			if l <= 0 {
				l, q = p.floats.insertWhole(st.Floats)
				breaking.Logger().Warn("float does not fit on an empty page",
					"float", q.LastInsertedIndex+1,
					"length", float.Round(l, 3))
			}
			next.Floats = q
			used = sep + l
			if p.params.FootnotesOnFloatPages {
				used = p.fillFootnotes(&next, size, used, false)
			}
		} else {
			next.Mode = FootnotePage
			used = p.fillFootnotes(&next, size, 0, true)
		}
		res = append(res, trailingPage{state: next, size: size, used: used})
		st = next
	}
	return res
}

// fillFootnotes adds as much pending footnote material to a page as fits.
// The page has the given size, of which used is already taken.  If force
// is set, at least one piece of material is placed.  The return value is
// the space used on the page after the footnotes are added.
func (p *policy) fillFootnotes(st *pageState, size, used float64, force bool) float64 {
	fn := st.Footnotes
	if p.footnotes.Complete(fn) {
		return used
	}
	sep := p.params.FootnoteSeparator.Length
	available := size - used - sep

	placed := 0.0
	for !p.footnotes.Complete(fn) {
		l, q := p.footnotes.insertWhole(fn)
		if placed+l <= available {
			placed += l
			fn = q
			continue
		}
		l, q = p.footnotes.Split(fn, available-placed, true)
		if l > 0 {
			placed += l
			fn = q
		}
		break
	}

	if fn == st.Footnotes {
		if !force {
			return used
		}
		placed, fn = p.footnotes.firstUnit(fn)
		breaking.Logger().Warn("footnote does not fit on an empty page",
			"footnote", fn.LastInsertedIndex+1,
			"length", float.Round(placed, 3))
	}
	st.Footnotes = fn
	return used + sep + placed
}
