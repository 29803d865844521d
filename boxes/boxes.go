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

// Package boxes implements the element model used by the breaking
// algorithms.
//
// A [Sequence] is a list of [Element] values of three kinds: boxes have a
// fixed size, glue is elastic and discardable, and penalties mark possible
// break points with an associated cost.  The same model is used in both
// directions: for line breaking the sizes are widths of inline material,
// for page breaking they are heights of lines and blocks.
package boxes

import (
	"fmt"

	"seehuhn.de/go/breaking/internal/float"
)

// Infinite is the penalty cost which prevents a break.  A penalty with
// cost -Infinite or less forces a break.
const Infinite = 1000

// InfiniteStretch is used as the stretchability of "fill" glue.
const InfiniteStretch = 10_000_000

// Kind distinguishes the three element types.
type Kind uint8

// These are the supported element kinds.
const (
	KindBox Kind = iota
	KindGlue
	KindPenalty
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindGlue:
		return "glue"
	case KindPenalty:
		return "penalty"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Element is a single box, glue or penalty.
//
// Elements are values and must not be modified once they are part of a
// [Sequence] handed to a breaking algorithm.
type Element struct {
	Kind Kind

	// Width is the natural size of the element in the breaking direction.
	Width float64

	// Stretch and Shrink give the elasticity of glue.
	Stretch, Shrink float64

	// Height and Depth give the extent of an inline box above and below
	// the baseline.  Offset moves the box relative to the baseline of
	// the line.  These are only used by the line breaker.
	Height, Depth, Offset float64

	// Cost is the penalty for breaking at a penalty element.
	Cost float64

	// Flagged marks penalties like hyphenation points.  Consecutive breaks
	// at flagged penalties are discouraged.
	Flagged bool

	// Auxiliary marks zero-size helper elements which do not count as
	// content when deciding whether a line is empty.
	Auxiliary bool

	// Anchors lists out-of-line material cited by a box.
	Anchors *Anchors

	// Ref identifies the source of the element for callers.  The breaking
	// algorithms never inspect it, but pass it on in overflow reports.
	Ref any
}

// Anchors holds the out-of-line material cited from a box.
type Anchors struct {
	Footnotes []Sequence
	Floats    []Sequence
}

// Box returns a box of the given width.
func Box(width float64) Element {
	return Element{Kind: KindBox, Width: width}
}

// InlineBox returns a box with the given extent.
func InlineBox(width, height, depth float64) Element {
	return Element{Kind: KindBox, Width: width, Height: height, Depth: depth}
}

// AuxBox returns an auxiliary box of the given width.
func AuxBox(width float64) Element {
	return Element{Kind: KindBox, Width: width, Auxiliary: true}
}

// Glue returns a glue element.
func Glue(width, stretch, shrink float64) Element {
	return Element{Kind: KindGlue, Width: width, Stretch: stretch, Shrink: shrink}
}

// Penalty returns a penalty element.
func Penalty(width, cost float64, flagged bool) Element {
	return Element{Kind: KindPenalty, Width: width, Cost: cost, Flagged: flagged}
}

// ForcedBreak returns a penalty which forces a break.
func ForcedBreak() Element {
	return Element{Kind: KindPenalty, Cost: -Infinite}
}

// NoBreak returns a penalty which prevents a break.
func NoBreak() Element {
	return Element{Kind: KindPenalty, Cost: Infinite}
}

// IsBox reports whether e is a box.
func (e *Element) IsBox() bool { return e.Kind == KindBox }

// IsGlue reports whether e is glue.
func (e *Element) IsGlue() bool { return e.Kind == KindGlue }

// IsPenalty reports whether e is a penalty.
func (e *Element) IsPenalty() bool { return e.Kind == KindPenalty }

// IsForcedBreak reports whether e is a penalty which forces a break.
func (e *Element) IsForcedBreak() bool {
	return e.Kind == KindPenalty && e.Cost <= -Infinite
}

// IsBreakable reports whether e is a penalty which allows a break.
func (e *Element) IsBreakable() bool {
	return e.Kind == KindPenalty && e.Cost < Infinite
}

// HasAnchors reports whether e cites out-of-line material.
func (e *Element) HasAnchors() bool {
	return e.Anchors != nil && (len(e.Anchors.Footnotes) > 0 || len(e.Anchors.Floats) > 0)
}

func (e Element) String() string {
	switch e.Kind {
	case KindBox:
		return "box[" + float.Format(e.Width, 3) + "]"
	case KindGlue:
		return "glue[" + float.Format(e.Width, 3) +
			"+" + float.Format(e.Stretch, 3) +
			"-" + float.Format(e.Shrink, 3) + "]"
	case KindPenalty:
		flag := ""
		if e.Flagged {
			flag = ",flagged"
		}
		return "penalty[" + float.Format(e.Width, 3) +
			"," + float.Format(e.Cost, 3) + flag + "]"
	}
	return e.Kind.String()
}
