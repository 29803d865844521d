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

package breaking

import (
	"math"

	"seehuhn.de/go/breaking/boxes"
)

// Candidate describes a part which could end at a legal break.
type Candidate struct {
	// Position is the index of the break element.
	Position int

	// Break is the break element.  At the end of a sequence which does
	// not end in a forced break, this is a synthetic forced break.
	Break *boxes.Element

	// Part is the index of the part, starting at 0.
	Part int

	// Target is the size available for the part.
	Target float64

	// Content is the natural size, stretch and shrink of the part,
	// including the width of a penalty at the break.
	Content boxes.ElasticLength
}

// Evaluation is one way of completing a candidate part.  Line breaking
// uses a single evaluation per candidate, page breaking uses one for each
// way of placing footnotes and floats on the page.
type Evaluation[S any] struct {
	// Extra is added to the content of the part, for example the space
	// taken by footnotes placed on a page.
	Extra boxes.ElasticLength

	// Demerits are added to the demerits of the break.
	Demerits float64

	// State becomes the state of the new node.
	State S
}

// Policy specializes the algorithm for lines or pages.
type Policy[S any] interface {
	// LineWidth returns the target size of the given part.
	LineWidth(part int) float64

	// Evaluate appends the possible ways of ending the candidate part
	// to out.  The node from is the start of the part.  It must not be
	// retained after the call returns.
	Evaluate(from *Node[S], c *Candidate, out []Evaluation[S]) []Evaluation[S]

	// StartLayout is called once for every selected layout, before the
	// breaks of that layout are reported.
	StartLayout(parts int, demerits float64)

	// AddBreak is called for every break of the current layout, from the
	// last part to the first.  The node prev is the start of the part.
	AddBreak(n, prev *Node[S], parts int)
}

// BoxHandler can be implemented by a [Policy] to be notified about every
// box the scan passes over.
type BoxHandler interface {
	HandleBox(pos int, box *boxes.Element)
}

// BreakObserver can be implemented by a [Policy] to be notified after all
// active nodes have been evaluated for a legal break.
type BreakObserver interface {
	BreakConsidered(pos int)
}

// Restarter can be implemented by a [Policy] which needs to forget
// information gathered between positions from and to when the algorithm
// restarts the scan at from.
type Restarter interface {
	Restart(from, to int)
}

// Finisher can be implemented by a [Policy] which needs to add nodes after
// the scan reached the end of the sequence.
type Finisher[S any] interface {
	Finish(a *Algorithm[S])
}

type bestRecord[S any] struct {
	valid      bool
	demerits   float64
	from       NodeID
	ratio      float64
	shrink     float64
	stretch    float64
	difference float64
	state      S
}

// Algorithm finds optimal breaks in a sequence.
//
// An Algorithm can be used for more than one sequence, but not
// concurrently.
type Algorithm[S any] struct {
	Params Parameters

	policy    Policy[S]
	boxes     BoxHandler
	observer  BreakObserver
	restarter Restarter
	finisher  Finisher[S]

	seq boxes.Sequence
	end boxes.Element
	n   int

	nodes  []Node[S]
	active registry

	total     boxes.ElasticLength
	threshold float64
	force     bool

	best         [numFitnessClasses]bestRecord[S]
	lastTooLong  *Node[S]
	lastTooShort *Node[S]

	evals   []Evaluation[S]
	scratch []NodeID
	dead    []NodeID
}

// New returns an algorithm which uses the given policy.
func New[S any](policy Policy[S], params Parameters) *Algorithm[S] {
	a := &Algorithm[S]{
		Params: params,
		policy: policy,
		end:    boxes.ForcedBreak(),
	}
	a.boxes, _ = policy.(BoxHandler)
	a.observer, _ = policy.(BreakObserver)
	a.restarter, _ = policy.(Restarter)
	a.finisher, _ = policy.(Finisher[S])
	return a
}

// FindBreakingPoints finds the optimal breaks of seq.  The start node gets
// the given state.  Breaks are feasible if the adjustment ratio is between
// -1 and threshold.
//
// If no feasible set of breaks exists and force is false, the return value
// is 0.  With force set, the algorithm restarts from the best too long or
// too short part and always finds a solution.  Otherwise the return value
// is the number of parts of the best layout.  The selected layouts are
// reported via the StartLayout and AddBreak methods of the policy.
func (a *Algorithm[S]) FindBreakingPoints(seq boxes.Sequence, start S, threshold float64, force bool, kinds BreakKinds) int {
	a.seq = seq
	a.n = len(seq)
	if !seq.EndsWithForcedBreak() {
		a.n++
	}
	a.nodes = a.nodes[:0]
	a.active.reset()
	a.total.Reset()
	a.threshold = threshold
	a.force = force
	a.resetBest()
	a.lastTooLong = nil
	a.lastTooShort = nil

	first := 0
	if a.Params.Alignment != AlignCenter {
		for first < len(seq) && !seq[first].IsBox() {
			first++
		}
	}
	root := a.NewNode(Node[S]{
		Position: first,
		Fitness:  Decent,
		Previous: NoNode,
		State:    start,
	})
	a.Activate(root)
	lastForced := first

	logger := Logger()
	previousIsBox := false
	for i := first; i < a.n; i++ {
		e := a.Element(i)
		switch e.Kind {
		case boxes.KindBox:
			a.total.Length += e.Width
			previousIsBox = true
			if a.boxes != nil {
				a.boxes.HandleBox(i, e)
			}
		case boxes.KindGlue:
			if previousIsBox && kinds != OnlyForcedBreaks {
				a.considerLegalBreak(i, e)
			}
			a.total.AddElement(*e)
			previousIsBox = false
		case boxes.KindPenalty:
			if e.Cost < boxes.Infinite && allowed(kinds, e) {
				a.considerLegalBreak(i, e)
			}
			previousIsBox = false
		}

		if a.active.count == 0 {
			if !force {
				logger.Debug("no feasible breaks", "threshold", threshold, "position", i)
				return 0
			}
			var restart *Node[S]
			if a.lastTooShort == nil || a.lastTooShort.Position == lastForced {
				restart = a.lastTooLong
			} else {
				restart = a.lastTooShort
			}
			if restart == nil {
				panic("unreachable: no node to restart from")
			}
			logger.Debug("restarting", "position", restart.Position,
				"part", restart.Line, "ratio", restart.Ratio)
			lastForced = restart.Position
			i = a.restartFrom(restart, i)
		}
	}

	if a.finisher != nil {
		a.finisher.Finish(a)
	}

	parts := a.filterActiveNodes()
	for _, id := range a.active.all() {
		final := &a.nodes[id]
		a.policy.StartLayout(final.Line, final.TotalDemerits)
		for cur := id; a.nodes[cur].Previous != NoNode; cur = a.nodes[cur].Previous {
			n := &a.nodes[cur]
			a.policy.AddBreak(n, &a.nodes[n.Previous], final.Line)
		}
	}
	return parts
}

func allowed(kinds BreakKinds, e *boxes.Element) bool {
	switch kinds {
	case NoFlaggedPenalties:
		return !e.Flagged
	case OnlyForcedBreaks:
		return e.IsForcedBreak()
	}
	return true
}

// restartFrom makes n the only active node and returns the position at
// which the scan continues, minus one.  Discardable elements after the
// break are skipped.
func (a *Algorithm[S]) restartFrom(n *Node[S], current int) int {
	n.TotalDemerits = 0
	id := a.NewNode(*n)
	a.Activate(id)
	// n.Total already contains the discarded elements after the break
	_, last := a.totalAfter(n.Position)
	a.total = n.Total
	a.lastTooShort = nil
	a.lastTooLong = nil
	if a.restarter != nil {
		a.restarter.Restart(n.Position, current)
	}
	return last
}

func (a *Algorithm[S]) considerLegalBreak(pos int, e *boxes.Element) {
	a.lastTooLong = nil

	for line := a.active.startLine; line < a.active.endLine; line++ {
		a.scratch = append(a.scratch[:0], a.active.lines[line]...)
		a.dead = a.dead[:0]
		for _, id := range a.scratch {
			node := &a.nodes[id]
			if node.Position == pos {
				continue
			}

			c := Candidate{
				Position: pos,
				Break:    e,
				Part:     node.Line,
				Target:   a.policy.LineWidth(node.Line),
				Content: boxes.ElasticLength{
					Length:  a.total.Length - node.Total.Length,
					Stretch: a.total.Stretch - node.Total.Stretch,
					Shrink:  a.total.Shrink - node.Total.Shrink,
				},
			}
			if e.IsPenalty() {
				c.Content.Length += e.Width
			}

			a.evals = a.policy.Evaluate(node, &c, a.evals[:0])
			tooLong := len(a.evals) > 0
			for k := range a.evals {
				ev := &a.evals[k]
				stretch := c.Content.Stretch + ev.Extra.Stretch
				shrink := c.Content.Shrink + ev.Extra.Shrink
				difference := c.Target - c.Content.Length - ev.Extra.Length
				r := AdjustmentRatio(difference, stretch, shrink)
				if r >= -1 {
					tooLong = false
				}

				feasible := r >= -1 && r <= a.threshold
				if !feasible && !a.force {
					continue
				}
				fitness := Fitness(r)
				demerits := a.demerits(node, e, fitness, r) + ev.Demerits

				switch {
				case feasible:
					if rec := &a.best[fitness]; !rec.valid || demerits < rec.demerits {
						*rec = bestRecord[S]{
							valid:      true,
							demerits:   demerits,
							from:       id,
							ratio:      r,
							shrink:     shrink,
							stretch:    stretch,
							difference: difference,
							state:      ev.State,
						}
						a.lastTooShort = nil
					}
				case r <= -1:
					if a.lastTooLong == nil || demerits < a.lastTooLong.TotalDemerits {
						a.lastTooLong = a.candidateNode(pos, node, id, fitness, r,
							shrink, stretch, difference, demerits, ev.State)
					}
				default:
					if a.lastTooShort == nil || demerits <= a.lastTooShort.TotalDemerits {
						a.lastTooShort = a.candidateNode(pos, node, id, fitness, r,
							shrink, stretch, difference, demerits, ev.State)
					}
				}
			}

			if tooLong || e.IsForcedBreak() {
				a.dead = append(a.dead, id)
			}
		}

		for _, id := range a.dead {
			a.active.remove(line, id)
		}
		a.addBreaks(line, pos)
	}

	if a.observer != nil {
		a.observer.BreakConsidered(pos)
	}
}

// totalAfter returns the running totals for a break at pos, including the
// glue which is discarded after the break.  The second return value is the
// position of the last discarded element.
func (a *Algorithm[S]) totalAfter(pos int) (boxes.ElasticLength, int) {
	total := a.total
	last := pos
	for i := pos; i < a.n; i++ {
		e := a.Element(i)
		if e.IsBox() || e.IsForcedBreak() && i != pos {
			break
		}
		if e.IsGlue() {
			total.AddElement(*e)
		}
		last = i
	}
	return total, last
}

func (a *Algorithm[S]) candidateNode(pos int, from *Node[S], fromID NodeID, fitness FitnessClass, r, shrink, stretch, difference, demerits float64, state S) *Node[S] {
	total, _ := a.totalAfter(pos)
	return &Node[S]{
		Position:         pos,
		Line:             from.Line + 1,
		Fitness:          fitness,
		Total:            total,
		TotalDemerits:    demerits,
		Ratio:            r,
		AvailableShrink:  shrink,
		AvailableStretch: stretch,
		Difference:       difference,
		Previous:         fromID,
		State:            state,
	}
}

func (a *Algorithm[S]) demerits(from *Node[S], e *boxes.Element, fitness FitnessClass, r float64) float64 {
	demerits := Badness(e, r)
	if e.IsPenalty() && e.Flagged {
		if prev := a.Element(from.Position); prev.IsPenalty() && prev.Flagged {
			demerits += a.Params.RepeatedFlaggedDemerit
		}
	}
	if d := int(fitness) - int(from.Fitness); d > 1 || d < -1 {
		demerits += a.Params.IncompatibleFitnessDemerit
	}
	return demerits + from.TotalDemerits
}

func (a *Algorithm[S]) addBreaks(line, pos int) {
	minDemerits := math.Inf(1)
	for i := range a.best {
		if a.best[i].valid && a.best[i].demerits < minDemerits {
			minDemerits = a.best[i].demerits
		}
	}
	if math.IsInf(minDemerits, 1) {
		return
	}

	total, _ := a.totalAfter(pos)

	limit := minDemerits + a.Params.IncompatibleFitnessDemerit
	for i := range a.best {
		rec := &a.best[i]
		if !rec.valid || rec.demerits > limit {
			continue
		}
		id := a.NewNode(Node[S]{
			Position:         pos,
			Line:             line + 1,
			Fitness:          FitnessClass(i),
			Total:            total,
			TotalDemerits:    rec.demerits,
			Ratio:            rec.ratio,
			AvailableShrink:  rec.shrink,
			AvailableStretch: rec.stretch,
			Difference:       rec.difference,
			Previous:         rec.from,
			State:            rec.state,
		})
		a.Activate(id)
	}
	a.resetBest()
}

func (a *Algorithm[S]) resetBest() {
	for i := range a.best {
		a.best[i] = bestRecord[S]{}
	}
}

// filterActiveNodes deactivates all nodes which do not belong to a
// selected layout and returns the number of parts of the best layout.
func (a *Algorithm[S]) filterActiveNodes() int {
	all := a.active.all()
	var best *Node[S]
	var bestID NodeID = NoNode
	for _, id := range all {
		n := &a.nodes[id]
		if c := compareNodes(best, n); c != best {
			best = c
			bestID = id
		}
	}
	if best == nil {
		return 0
	}

	keep := func(id NodeID) bool { return id == bestID }
	if a.Params.Filter == Alternatives {
		limit := best.TotalDemerits * a.Params.MaxDemeritsFactor
		keep = func(id NodeID) bool {
			if id == bestID {
				return true
			}
			n := &a.nodes[id]
			if n.Line == best.Line || n.Position != best.Position || n.TotalDemerits > limit {
				return false
			}
			// nodes within a line are sorted by demerits
			return a.active.lines[n.Line][0] == id
		}
	}

	var drop []NodeID
	for _, id := range all {
		if !keep(id) {
			drop = append(drop, id)
		}
	}
	for _, id := range drop {
		a.active.remove(a.nodes[id].Line, id)
	}
	return best.Line
}

// NewNode adds n to the node arena and returns its ID.  The node is not
// activated.
func (a *Algorithm[S]) NewNode(n Node[S]) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return id
}

// Node returns the node with the given ID.  The pointer is only valid
// until the next node is created.
func (a *Algorithm[S]) Node(id NodeID) *Node[S] {
	return &a.nodes[id]
}

// Activate adds a node to the set of active nodes.
func (a *Algorithm[S]) Activate(id NodeID) {
	a.active.add(a.nodes[id].Line, id, a.nodes[id].TotalDemerits,
		func(x NodeID) float64 { return a.nodes[x].TotalDemerits })
}

// Deactivate removes a node from the set of active nodes.
func (a *Algorithm[S]) Deactivate(id NodeID) {
	a.active.remove(a.nodes[id].Line, id)
}

// Active returns the currently active nodes, ordered by line number and
// then by total demerits.
func (a *Algorithm[S]) Active() []NodeID {
	return a.active.all()
}

// Path returns the nodes from the first break to id, excluding the start
// node.
func (a *Algorithm[S]) Path(id NodeID) []NodeID {
	var res []NodeID
	for cur := id; cur != NoNode && a.nodes[cur].Previous != NoNode; cur = a.nodes[cur].Previous {
		res = append(res, cur)
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// Sequence returns the sequence passed to the last call of
// FindBreakingPoints.
func (a *Algorithm[S]) Sequence() boxes.Sequence {
	return a.seq
}

// Len returns the number of positions scanned, including the synthetic
// final break if the sequence does not end with a forced break.
func (a *Algorithm[S]) Len() int {
	return a.n
}

// Element returns the element at position i.  For i equal to the length
// of the sequence, a forced break is returned.
func (a *Algorithm[S]) Element(i int) *boxes.Element {
	if i >= len(a.seq) {
		return &a.end
	}
	return &a.seq[i]
}
