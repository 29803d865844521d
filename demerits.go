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
	"math"

	"seehuhn.de/go/breaking/boxes"
)

// InfiniteRatio is the adjustment ratio used when a part must stretch or
// shrink, but contains no glue which could do so.
const InfiniteRatio = 1000

// Alignment describes how the content of a part is placed when it does not
// exactly fill the available space.
type Alignment uint8

// These are the supported alignments.
const (
	AlignStart Alignment = iota
	AlignEnd
	AlignCenter
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignEnd:
		return "end"
	case AlignCenter:
		return "center"
	case AlignJustify:
		return "justify"
	}
	return fmt.Sprintf("Alignment(%d)", uint8(a))
}

// ParseAlignment converts the output of [Alignment.String] back to an
// Alignment.  The names "left" and "right" are accepted as synonyms for
// "start" and "end".
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "start", "left":
		return AlignStart, nil
	case "end", "right":
		return AlignEnd, nil
	case "center", "centre":
		return AlignCenter, nil
	case "justify":
		return AlignJustify, nil
	}
	return 0, fmt.Errorf("unknown alignment %q", s)
}

// FitnessClass classifies a part by how much its glue is stretched or
// shrunk.
type FitnessClass uint8

// These are the fitness classes, from tight to very loose.
const (
	Tight FitnessClass = iota
	Decent
	Loose
	VeryLoose

	numFitnessClasses = 4
)

func (c FitnessClass) String() string {
	switch c {
	case Tight:
		return "tight"
	case Decent:
		return "decent"
	case Loose:
		return "loose"
	case VeryLoose:
		return "very loose"
	}
	return fmt.Sprintf("FitnessClass(%d)", uint8(c))
}

// Fitness returns the fitness class for adjustment ratio r.
func Fitness(r float64) FitnessClass {
	switch {
	case r < -0.5:
		return Tight
	case r <= 0.5:
		return Decent
	case r <= 1:
		return Loose
	default:
		return VeryLoose
	}
}

// AdjustmentRatio returns the fraction of the available stretch (for
// positive difference) or shrink (for negative difference) which is needed
// to make a part fill its target size.  Difference is the target size
// minus the natural size of the part.
func AdjustmentRatio(difference, stretch, shrink float64) float64 {
	switch {
	case difference > 0:
		if stretch > 0 {
			return difference / stretch
		}
		return InfiniteRatio
	case difference < 0:
		if shrink > 0 {
			return difference / shrink
		}
		return -InfiniteRatio
	default:
		return 0
	}
}

// Badness returns the demerits of a break at element e with adjustment
// ratio r, not including the contributions which depend on the previous
// break.
func Badness(e *boxes.Element, r float64) float64 {
	f := math.Abs(r)
	f = 1 + 100*f*f*f
	if e.IsPenalty() {
		p := e.Cost
		switch {
		case p >= 0:
			f += p
			return f * f
		case !e.IsForcedBreak():
			return f*f - p*p
		}
	}
	return f * f
}

// BreakKinds restricts the set of legal break points.
type BreakKinds uint8

// These are the supported break restrictions.
const (
	// AllBreaks allows breaks at all glue following a box and at all
	// penalties of finite cost.
	AllBreaks BreakKinds = iota

	// NoFlaggedPenalties ignores flagged penalties, for example
	// hyphenation points.
	NoFlaggedPenalties

	// OnlyForcedBreaks only allows forced breaks and the end of the
	// sequence.
	OnlyForcedBreaks
)

// Filter selects how the final layouts are chosen.
type Filter uint8

// These are the supported filters.
const (
	// SingleBest keeps only the layout with the best final node.
	SingleBest Filter = iota

	// Alternatives keeps the best layout for every number of parts,
	// as long as its demerits are within MaxDemeritsFactor of the best.
	Alternatives
)

// Parameters control the generic algorithm.
type Parameters struct {
	// RepeatedFlaggedDemerit is added when two consecutive breaks occur
	// at flagged penalties.
	RepeatedFlaggedDemerit float64

	// IncompatibleFitnessDemerit is added when the fitness classes of two
	// consecutive parts differ by more than one.  This value is also the
	// tolerance for keeping more than one node at a break position.
	IncompatibleFitnessDemerit float64

	// Alignment is the alignment of all but the last part.  When
	// centered, leading glue and penalties are not skipped.
	Alignment Alignment

	// Filter selects the layouts reported via [Policy.AddBreak].
	Filter Filter

	// MaxDemeritsFactor limits the alternatives kept by the
	// Alternatives filter.
	MaxDemeritsFactor float64
}

// DefaultParameters returns the default parameters.
func DefaultParameters() Parameters {
	return Parameters{
		RepeatedFlaggedDemerit:     50,
		IncompatibleFitnessDemerit: 50,
		Alignment:                  AlignJustify,
		Filter:                     SingleBest,
		MaxDemeritsFactor:          1e6,
	}
}
