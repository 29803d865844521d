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
	"runtime"
	"strings"
	"sync"

	"seehuhn.de/go/breaking"
	"seehuhn.de/go/breaking/boxes"
	"seehuhn.de/go/breaking/linebreak"
)

type job struct {
	name  string
	index int

	words  []Word
	width  float64
	indent float64
}

// breakAll breaks the paragraphs of all jobs into lines.  The paragraphs
// are independent and are broken concurrently.  The result has the same
// order as jobs.
func (l *layouter) breakAll(jobs []job) ([][]*Line, error) {
	out := make([][]*Line, len(jobs))
	errs := make([]error, len(jobs))

	next := make(chan int)
	var wg sync.WaitGroup
	workers := min(runtime.GOMAXPROCS(0), len(jobs))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				out[i], errs[i] = l.breakParagraph(&jobs[i])
			}
		}()
	}
	for i := range jobs {
		next <- i
	}
	close(next)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", jobs[i].name, jobs[i].index+1, err)
		}
	}
	return out, nil
}

func (l *layouter) breakParagraph(j *job) ([]*Line, error) {
	seq := l.inline(j.words)

	lead, follow, _ := l.m.LineMetrics()
	params := linebreak.DefaultParameters(j.width)
	params.TextIndent = j.indent
	params.Alignment = l.params.Alignment
	params.AlignmentLast = l.params.AlignmentLast
	if l.params.Threshold > 0 {
		params.Threshold = l.params.Threshold
	}
	params.LineHeight = lead + follow
	params.Lead = lead
	params.Follow = follow
	params.Overflow = l.overflow

	res, err := linebreak.Break(seq, params)
	if err != nil {
		return nil, err
	}
	if res.Forced {
		breaking.Logger().Debug("paragraph needed second pass",
			"kind", j.name, "index", j.index+1)
	}

	lines := make([]*Line, len(res.Lines))
	for i := range res.Lines {
		lines[i] = makeLine(seq, j.words, &res.Lines[i], j.width)
	}
	return lines, nil
}

// inline converts words into a paragraph of inline material.  Word boxes
// refer to the index of their word.
func (l *layouter) inline(words []Word) boxes.Sequence {
	space := l.m.Space()
	seq := make(boxes.Sequence, 0, 2*len(words)+2)
	for i, w := range words {
		if i > 0 {
			if endsSentence(words[i-1].Text) {
				seq = append(seq, boxes.Glue(1.5*space, 1.5*space, space))
			} else {
				seq = append(seq, boxes.Glue(space, space/2, space/3))
			}
		}
		ext := l.m.Measure(w.Display())
		box := boxes.InlineBox(ext.Width, ext.Height, ext.Depth)
		box.Ref = i
		seq = append(seq, box)
	}
	return seq.EndParagraph()
}

func endsSentence(word string) bool {
	word = strings.TrimRight(word, "\"')]’”")
	return strings.HasSuffix(word, ".") ||
		strings.HasSuffix(word, "!") ||
		strings.HasSuffix(word, "?")
}

func makeLine(seq boxes.Sequence, words []Word, ln *linebreak.Line, width float64) *Line {
	line := &Line{
		Width:  width,
		Lead:   ln.Lead,
		Follow: ln.Follow,
	}
	x := ln.Indent
	end := min(ln.End, len(seq))
	for i := ln.Start; i < end; i++ {
		e := &seq[i]
		switch e.Kind {
		case boxes.KindBox:
			w := &words[e.Ref.(int)]
			line.Items = append(line.Items, Item{X: x, Width: e.Width, Text: w.Display()})
			line.Footnotes = append(line.Footnotes, w.Footnotes...)
			line.Floats = append(line.Floats, w.Floats...)
			x += e.Width
		case boxes.KindGlue:
			x += e.Width + adjust(e, ln.Ratio)
		}
	}
	return line
}

// lockedListener serializes overflow reports from concurrent line
// breakers.
type lockedListener struct {
	mu sync.Mutex
	l  breaking.OverflowListener
}

func (o *lockedListener) NotifyOverflow(part int, excess float64, ref any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.l.NotifyOverflow(part, excess, ref)
}
