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

// Package breaking implements the Knuth-Plass algorithm for finding optimal
// break points in a sequence of boxes, glue and penalties.
//
// The algorithm is generic: an [Algorithm] walks through a
// [boxes.Sequence] and asks a [Policy] for the target size of each part
// and for the cost of each candidate break.  The sub-packages provide
// two policies:
//
//	linebreak   breaks a paragraph into lines
//	pagebreak   breaks a flow of lines into pages, placing footnotes
//	            and floats along the way
//
// A typical use is
//
//	alg := breaking.New[State](policy, breaking.DefaultParameters())
//	n := alg.FindBreakingPoints(seq, initial, threshold, force, breaking.AllBreaks)
//	if n == 0 {
//	    ... no solution within the threshold ...
//	}
//
// After a successful call, the policy's [Policy.AddBreak] method has been
// called once for every break in every selected layout.
//
// The algorithm never fails.  With force set, a solution is always found,
// but it may contain parts which are too short or too long.  These are
// reported through the [Logger] and via [OverflowListener]
// implementations in the sub-packages.
package breaking
