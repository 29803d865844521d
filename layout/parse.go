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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Document is a text with footnotes and floats.
type Document struct {
	Paragraphs []Paragraph

	// Footnotes[i] is footnote number i+1.  The first word of every
	// footnote is its mark.
	Footnotes []Paragraph

	Floats []Float
}

// Paragraph is a list of words.
type Paragraph struct {
	Words []Word
}

// Word is a word of text, together with the footnotes and floats cited
// after it.  Footnotes and Floats are indices into the corresponding
// fields of the [Document].
type Word struct {
	Text      string
	Footnotes []int
	Floats    []int
}

// Display returns the text of the word followed by its footnote marks.
func (w Word) Display() string {
	if len(w.Footnotes) == 0 {
		return w.Text
	}
	s := w.Text
	for _, idx := range w.Footnotes {
		s += footnoteMark(idx)
	}
	return s
}

// Float is a block which is placed at the top of a page.
type Float struct {
	Number  int
	Lines   int
	Caption string
}

func footnoteMark(idx int) string {
	return "[" + strconv.Itoa(idx+1) + "]"
}

const floatCommand = "@float"

// Parse reads a document in plain text form.
//
// Paragraphs are separated by blank lines.  The text "[^ ... ]" inserts a
// footnote, cited by the word before it.  A line of the form
//
//	@float N caption
//
// ends the current paragraph and declares a float of N lines, which is
// cited by the last word before it.  Floats declared before any text are
// cited by the first word.
func Parse(r io.Reader) (*Document, error) {
	p := &parser{doc: &Document{}, lastPar: -1}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		switch {
		case line == "":
			if err := p.flush(); err != nil {
				return nil, err
			}
		case fields[0] == floatCommand:
			if err := p.flush(); err != nil {
				return nil, err
			}
			if err := p.float(fields[1:], lineNo); err != nil {
				return nil, err
			}
		default:
			if p.text.Len() == 0 {
				p.start = lineNo
			} else {
				p.text.WriteByte(' ')
			}
			p.text.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	if len(p.pending) > 0 {
		return nil, fmt.Errorf("line %d: float without text", p.pendingLine)
	}
	return p.doc, nil
}

type parser struct {
	doc *Document

	text  strings.Builder
	start int

	// lastPar is the index of the last non-empty paragraph, or -1.
	lastPar int

	pending     []int
	pendingLine int
}

func (p *parser) flush() error {
	if p.text.Len() == 0 {
		return nil
	}
	text := p.text.String()
	p.text.Reset()

	var words []Word
	for {
		i := strings.Index(text, "[^")
		chunk := text
		if i >= 0 {
			chunk = text[:i]
		}
		for _, f := range strings.Fields(chunk) {
			words = append(words, Word{Text: f})
		}
		if i < 0 {
			break
		}

		rest := text[i+2:]
		j := strings.IndexByte(rest, ']')
		if j < 0 {
			return fmt.Errorf("line %d: unterminated footnote", p.start)
		}
		idx := len(p.doc.Footnotes)
		note := Paragraph{Words: []Word{{Text: footnoteMark(idx)}}}
		for _, f := range strings.Fields(rest[:j]) {
			note.Words = append(note.Words, Word{Text: f})
		}
		p.doc.Footnotes = append(p.doc.Footnotes, note)

		if len(words) == 0 {
			words = append(words, Word{})
		}
		last := &words[len(words)-1]
		last.Footnotes = append(last.Footnotes, idx)
		text = rest[j+1:]
	}
	if len(words) == 0 {
		return nil
	}

	if len(p.pending) > 0 {
		words[0].Floats = append(p.pending, words[0].Floats...)
		p.pending = nil
	}
	p.doc.Paragraphs = append(p.doc.Paragraphs, Paragraph{Words: words})
	p.lastPar = len(p.doc.Paragraphs) - 1
	return nil
}

func (p *parser) float(args []string, lineNo int) error {
	if len(args) == 0 {
		return fmt.Errorf("line %d: missing float size", lineNo)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("line %d: invalid float size %q", lineNo, args[0])
	}
	idx := len(p.doc.Floats)
	p.doc.Floats = append(p.doc.Floats, Float{
		Number:  idx + 1,
		Lines:   n,
		Caption: strings.Join(args[1:], " "),
	})

	if p.lastPar < 0 {
		if len(p.pending) == 0 {
			p.pendingLine = lineNo
		}
		p.pending = append(p.pending, idx)
		return nil
	}
	words := p.doc.Paragraphs[p.lastPar].Words
	last := &words[len(words)-1]
	last.Floats = append(last.Floats, idx)
	return nil
}
