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
	"fmt"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/breaking/boxes"
	"seehuhn.de/go/breaking/internal/float"
)

// NodeID identifies a node in the node arena of an [Algorithm].
type NodeID int32

// NoNode is used as the Previous field of the start node.
const NoNode NodeID = -1

// Node is a feasible break, together with the best way of reaching it.
//
// Nodes are stored in an arena and refer to their predecessor by
// [NodeID].  Once created, the fields of a node are only changed by the
// algorithm when it restarts from the node.
type Node[S any] struct {
	// Position is the index of the break element.  For the start node,
	// this is the index of the first element of the first part.
	Position int

	// Line is the number of parts ending at or before this break.
	Line int

	Fitness FitnessClass

	// Total holds the accumulated width, stretch and shrink of all
	// elements before the start of the next part.  Glue and penalties
	// directly after the break are included, since they are discarded.
	Total boxes.ElasticLength

	TotalDemerits float64

	// Ratio is the adjustment ratio of the part ending at this break.
	Ratio float64

	// AvailableShrink and AvailableStretch are the total shrink and
	// stretch of the part ending at this break.
	AvailableShrink, AvailableStretch float64

	// Difference is the target size minus the natural size of the part.
	Difference float64

	Previous NodeID

	// State holds data maintained by the [Policy].  It is copied, never
	// shared, when a new node is created.
	State S
}

func (n *Node[S]) String() string {
	return fmt.Sprintf("node[pos=%d line=%d fit=%s r=%s d=%s]",
		n.Position, n.Line, n.Fitness,
		float.Format(n.Ratio, 3), float.Format(n.TotalDemerits, 1))
}

// compareNodes returns the better of two final nodes: the node with the
// later position wins, for equal positions the one with fewer demerits.
func compareNodes[S any](a, b *Node[S]) *Node[S] {
	if a == nil || b.Position > a.Position {
		return b
	}
	if b.Position == a.Position && b.TotalDemerits < a.TotalDemerits {
		return b
	}
	return a
}

// registry holds the active nodes, grouped by line number.  Within each
// line the nodes are kept sorted by total demerits.
type registry struct {
	lines     [][]NodeID
	startLine int // lowest line with active nodes
	endLine   int // highest line with active nodes, plus one
	count     int
}

func (r *registry) reset() {
	for i := range r.lines {
		r.lines[i] = r.lines[i][:0]
	}
	r.startLine = 0
	r.endLine = 0
	r.count = 0
}

func (r *registry) add(line int, id NodeID, demerits float64, demeritsOf func(NodeID) float64) {
	for len(r.lines) <= line {
		r.lines = append(r.lines, nil)
	}
	idx, _ := slices.BinarySearchFunc(r.lines[line], demerits, func(x NodeID, d float64) int {
		if demeritsOf(x) <= d {
			return -1
		}
		return 1
	})
	r.lines[line] = slices.Insert(r.lines[line], idx, id)

	if r.count == 0 {
		r.startLine = line
		r.endLine = line + 1
	} else {
		if line < r.startLine {
			r.startLine = line
		}
		if line >= r.endLine {
			r.endLine = line + 1
		}
	}
	r.count++
}

func (r *registry) remove(line int, id NodeID) bool {
	if line >= len(r.lines) {
		return false
	}
	idx := slices.Index(r.lines[line], id)
	if idx < 0 {
		return false
	}
	r.lines[line] = slices.Delete(r.lines[line], idx, idx+1)
	r.count--

	for r.startLine < r.endLine && len(r.lines[r.startLine]) == 0 {
		r.startLine++
	}
	for r.endLine > r.startLine && len(r.lines[r.endLine-1]) == 0 {
		r.endLine--
	}
	return true
}

// all returns the active nodes, ordered by line and then by demerits.
func (r *registry) all() []NodeID {
	res := make([]NodeID, 0, r.count)
	for line := r.startLine; line < r.endLine; line++ {
		res = append(res, r.lines[line]...)
	}
	return res
}
