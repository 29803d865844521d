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

package main

import (
	"bufio"
	"fmt"
	"math"
	"strings"

	"seehuhn.de/go/breaking/layout"
)

// renderer prints pages as text.  Horizontal positions are converted to
// columns of width cell, vertical positions to rows of height skip.
type renderer struct {
	w    *bufio.Writer
	cols int
	cell float64
	skip float64
}

func (r *renderer) page(pg *layout.Page) {
	for _, f := range pg.Floats {
		r.float(f)
	}
	if len(pg.Floats) > 0 {
		r.w.WriteString("\n")
	}

	r.lines(pg.Lines)

	if len(pg.Footnotes) > 0 {
		r.w.WriteString(strings.Repeat("-", min(10, r.cols)))
		r.w.WriteString("\n")
		r.lines(pg.Footnotes)
	}
}

func (r *renderer) lines(placed []layout.Placed) {
	row := 0
	for _, p := range placed {
		target := int(math.Round(p.Y / r.skip))
		for row < target {
			r.w.WriteString("\n")
			row++
		}
		r.w.WriteString(r.line(p.Line))
		r.w.WriteString("\n")
		row++
	}
}

// line renders a line of text.  Consecutive words are separated by at
// least one space.
func (r *renderer) line(l *layout.Line) string {
	var b strings.Builder
	col := 0
	for i, it := range l.Items {
		c := int(math.Round(it.X / r.cell))
		if i > 0 && c <= col {
			c = col + 1
		}
		if c > col {
			b.WriteString(strings.Repeat(" ", c-col))
			col = c
		}
		b.WriteString(it.Text)
		col += layout.Cells(it.Text)
	}
	return b.String()
}

// float renders a float as a frame around its caption.  Floats of fewer
// than three lines only show the caption.
func (r *renderer) float(f *layout.Float) {
	caption := fmt.Sprintf("Figure %d", f.Number)
	if f.Caption != "" {
		caption += ": " + f.Caption
	}
	if f.Lines < 3 {
		r.w.WriteString("[" + caption + "]\n")
		for k := 1; k < f.Lines; k++ {
			r.w.WriteString("\n")
		}
		return
	}

	inner := max(r.cols-2, layout.Cells(caption))
	border := "+" + strings.Repeat("-", inner) + "+\n"
	for k := 0; k < f.Lines; k++ {
		switch {
		case k == 0 || k == f.Lines-1:
			r.w.WriteString(border)
		case k == f.Lines/2:
			left := (inner - layout.Cells(caption)) / 2
			right := inner - layout.Cells(caption) - left
			r.w.WriteString("|" + strings.Repeat(" ", left) + caption + strings.Repeat(" ", right) + "|\n")
		default:
			r.w.WriteString("|" + strings.Repeat(" ", inner) + "|\n")
		}
	}
}
