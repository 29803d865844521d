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
	"seehuhn.de/go/breaking/internal/float"
)

// ElasticLength is a length which can shrink and stretch within limits.
//
// The zero value is a rigid length of zero.  Values are accumulated by
// plain addition; no component is ever clamped.
type ElasticLength struct {
	Shrink  float64
	Length  float64
	Stretch float64
}

// Elastic returns the elastic length with the given components.
func Elastic(shrink, length, stretch float64) ElasticLength {
	return ElasticLength{Shrink: shrink, Length: length, Stretch: stretch}
}

// Add adds the given components to l.
func (l *ElasticLength) Add(shrink, length, stretch float64) {
	l.Shrink += shrink
	l.Length += length
	l.Stretch += stretch
}

// AddElastic adds other to l.
func (l *ElasticLength) AddElastic(other ElasticLength) {
	l.Shrink += other.Shrink
	l.Length += other.Length
	l.Stretch += other.Stretch
}

// AddElement adds the contribution of e to l.  Boxes and penalties only
// contribute their width, glue also contributes stretch and shrink.
func (l *ElasticLength) AddElement(e Element) {
	l.Length += e.Width
	if e.Kind == KindGlue {
		l.Stretch += e.Stretch
		l.Shrink += e.Shrink
	}
}

// Set replaces all three components of l.
func (l *ElasticLength) Set(shrink, length, stretch float64) {
	l.Shrink = shrink
	l.Length = length
	l.Stretch = stretch
}

// Reset sets l to zero.
func (l *ElasticLength) Reset() {
	*l = ElasticLength{}
}

// Min returns the length when all shrink is used.
func (l ElasticLength) Min() float64 {
	return l.Length - l.Shrink
}

// Max returns the length when all stretch is used.
func (l ElasticLength) Max() float64 {
	return l.Length + l.Stretch
}

// IsZero reports whether all components are zero.
func (l ElasticLength) IsZero() bool {
	return l == ElasticLength{}
}

func (l ElasticLength) String() string {
	return float.Format(l.Length, 3) +
		" plus " + float.Format(l.Stretch, 3) +
		" minus " + float.Format(l.Shrink, 3)
}
