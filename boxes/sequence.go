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

package boxes

import (
	"math"
)

// Sequence is an ordered list of elements.
type Sequence []Element

// Length returns the total natural length of the boxes and glue in s.
// Penalty widths only appear when breaking at the penalty and are not
// included.
func (s Sequence) Length() float64 {
	total := 0.0
	for i := range s {
		if s[i].Kind != KindPenalty {
			total += s[i].Width
		}
	}
	return total
}

// Elastic returns the summed width, stretch and shrink of the boxes and glue
// in s.
func (s Sequence) Elastic() ElasticLength {
	var res ElasticLength
	for i := range s {
		if s[i].Kind != KindPenalty {
			res.AddElement(s[i])
		}
	}
	return res
}

// Discardable reports whether the element at position i is removed when a
// break occurs immediately before it.
func (s Sequence) Discardable(i int) bool {
	return s[i].Kind != KindBox
}

// IsLegalBreak reports whether a break is allowed at position i:
// glue which directly follows a box, or a penalty with finite cost.
func (s Sequence) IsLegalBreak(i int) bool {
	switch s[i].Kind {
	case KindGlue:
		return i > 0 && s[i-1].Kind == KindBox
	case KindPenalty:
		return s[i].Cost < Infinite
	}
	return false
}

// ResolveSpaces returns a copy of s where each run of adjacent glue elements
// is merged into a single glue element, and where glue at the start and at
// the end of the sequence is removed.  Penalties are kept in place; the
// merged glue takes the position of the first glue in the run.
func (s Sequence) ResolveSpaces() Sequence {
	res := make(Sequence, 0, len(s))
	for i := range s {
		e := s[i]
		if e.Kind == KindGlue {
			if len(res) == 0 {
				continue
			}
			if last := &res[len(res)-1]; last.Kind == KindGlue {
				last.Width += e.Width
				last.Stretch += e.Stretch
				last.Shrink += e.Shrink
				continue
			}
		}
		res = append(res, e)
	}
	for len(res) > 0 && res[len(res)-1].Kind == KindGlue {
		res = res[:len(res)-1]
	}
	return res
}

// EndParagraph returns a copy of s which is terminated in the way a
// paragraph is ended: trailing glue is removed, and an infinite penalty,
// a fill glue and a forced break are appended.
func (s Sequence) EndParagraph() Sequence {
	n := len(s)
	for n > 0 && s[n-1].Kind == KindGlue {
		n--
	}
	res := make(Sequence, n, n+3)
	copy(res, s[:n])
	res = append(res,
		NoBreak(),
		Glue(0, InfiniteStretch, 0),
		ForcedBreak(),
	)
	return res
}

// EndsWithForcedBreak reports whether the last element of s is a forced
// break.
func (s Sequence) EndsWithForcedBreak() bool {
	return len(s) > 0 && s[len(s)-1].IsForcedBreak()
}

// Validate checks that the elements of s can be used by the breaking
// algorithms.  The nested out-of-line sequences are checked as well.
func (s Sequence) Validate() error {
	for i := range s {
		e := &s[i]
		for _, x := range []float64{e.Width, e.Stretch, e.Shrink, e.Cost, e.Height, e.Depth} {
			if math.IsNaN(x) {
				return &InvalidSequenceError{Pos: i, Err: ErrNaN}
			}
		}
		if e.Kind == KindGlue {
			if e.Shrink < 0 {
				return &InvalidSequenceError{Pos: i, Err: ErrNegativeShrink}
			}
			if math.IsInf(e.Shrink, 0) {
				// infinite shrink would let the whole sequence fit into
				// a single line
				return &InvalidSequenceError{Pos: i, Err: ErrInfiniteShrink}
			}
		}
		if math.IsInf(e.Width, 0) {
			return &InvalidSequenceError{Pos: i, Err: ErrInfiniteWidth}
		}
		if e.Anchors != nil {
			for _, group := range [][]Sequence{e.Anchors.Footnotes, e.Anchors.Floats} {
				for _, sub := range group {
					if err := sub.Validate(); err != nil {
						return &InvalidSequenceError{Pos: i, Err: err}
					}
				}
			}
		}
	}
	return nil
}
