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

// Package float has helpers for printing and comparing lengths.
package float

import (
	"math"
	"strconv"
	"strings"
)

// Epsilon is the tolerance used when comparing accumulated lengths.
const Epsilon = 1e-6

// Format formats x with at most the given number of digits after the
// decimal point.  Trailing zeros, and a trailing decimal point, are removed.
func Format(x float64, precision int) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	out := strconv.FormatFloat(x, 'f', precision, 64)
	if strings.IndexByte(out, '.') >= 0 {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
	}
	if out == "-0" {
		out = "0"
	}
	return out
}

// Round rounds x to the given number of digits after the decimal point.
func Round(x float64, digits int) float64 {
	q := math.Pow(10, float64(digits))
	return math.Round(x*q) / q
}

// Equal reports whether a and b differ by at most Epsilon, relative to
// their magnitude once that exceeds one.
func Equal(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= Epsilon*scale
}
