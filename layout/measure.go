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

package layout

import (
	"fmt"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"
)

// Extent is the size of a piece of text.  Height and Depth give the
// extent above and below the baseline.
type Extent struct {
	Width, Height, Depth float64
}

// A Measurer determines the size of words.  Implementations must be safe
// for concurrent use.
type Measurer interface {
	Measure(s string) Extent

	// Space returns the natural width of an inter-word space.
	Space() float64

	// LineMetrics returns the extent of an empty line above and below the
	// baseline, and the distance between baselines.
	LineMetrics() (lead, follow, skip float64)
}

// Monospace measures text in terminal cells.  Every line is one cell
// high.
type Monospace struct{}

// Measure implements the [Measurer] interface.
func (Monospace) Measure(s string) Extent {
	return Extent{Width: float64(Cells(s)), Height: 1}
}

// Space implements the [Measurer] interface.
func (Monospace) Space() float64 {
	return 1
}

// LineMetrics implements the [Measurer] interface.
func (Monospace) LineMetrics() (lead, follow, skip float64) {
	return 1, 0, 1
}

// Cells returns the number of terminal cells needed to display s.  East
// Asian wide and fullwidth characters take two cells, combining marks
// and control characters take none.
func Cells(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			if unicode.Is(unicode.Mn, r) || unicode.IsControl(r) {
				continue
			}
			n++
		}
	}
	return n
}

// OpenType measures text set in an OpenType font.  All lengths are in
// points.
type OpenType struct {
	mu   sync.Mutex
	face font.Face

	space          float64
	ascent, follow float64
	skip           float64
}

// NewGoRegular returns a measurer for the Go Regular font at the given
// size.
func NewGoRegular(size float64) (*OpenType, error) {
	return NewOpenType(goregular.TTF, size)
}

// NewOpenType returns a measurer for the font in data, at the given size.
func NewOpenType(data []byte, size float64) (*OpenType, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("layout: failed to create font face: %w", err)
	}

	m := face.Metrics()
	return &OpenType{
		face:   face,
		space:  fromFixed(font.MeasureString(face, " ")),
		ascent: fromFixed(m.Ascent),
		follow: fromFixed(m.Descent),
		skip:   fromFixed(m.Height),
	}, nil
}

// Close releases the resources held by the font face.
func (o *OpenType) Close() error {
	return o.face.Close()
}

// Measure implements the [Measurer] interface.
func (o *OpenType) Measure(s string) Extent {
	o.mu.Lock()
	bounds, advance := font.BoundString(o.face, s)
	o.mu.Unlock()

	return Extent{
		Width:  fromFixed(advance),
		Height: max(0, -fromFixed(bounds.Min.Y)),
		Depth:  max(0, fromFixed(bounds.Max.Y)),
	}
}

// Space implements the [Measurer] interface.
func (o *OpenType) Space() float64 {
	return o.space
}

// LineMetrics implements the [Measurer] interface.
func (o *OpenType) LineMetrics() (lead, follow, skip float64) {
	return o.ascent, o.follow, o.skip
}

func fromFixed(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
