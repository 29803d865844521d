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

package pagebreak

import (
	"fmt"

	"seehuhn.de/go/breaking/boxes"
	"seehuhn.de/go/breaking/internal/float"
)

// ProgressInfo records how much out-of-line material has been placed on
// the pages up to some page break.
//
// LastInsertedIndex is the index of the last sequence from which material
// was placed, and LastElementIndexOfLast is the index of the last placed
// element of that sequence.  ProgressInfo is a value type; every page
// holds its own copy.
type ProgressInfo struct {
	InsertedLength         float64
	LastInsertedIndex      int
	LastElementIndexOfLast int
}

// StartProgress returns the progress before any material is placed.
func StartProgress() ProgressInfo {
	return ProgressInfo{LastElementIndexOfLast: -1}
}

func (p ProgressInfo) String() string {
	return fmt.Sprintf("%s@%d.%d", float.Format(p.InsertedLength, 2),
		p.LastInsertedIndex, p.LastElementIndexOfLast)
}

// Record holds the out-of-line sequences found so far in a flow, in the
// order in which they are cited.
type Record struct {
	seqs       []boxes.Sequence
	cumulative []float64 // cumulative[i] is the length of seqs[:i+1]
	origin     []int     // position of the citing box

	// newSince is set if sequences were added after the last legal break,
	// firstNew is the index of the first of these.
	newSince bool
	firstNew int
}

// Add appends out-of-line sequences cited by the box at position pos.
// Spaces are resolved before the sequences are stored.
func (r *Record) Add(pos int, seqs ...boxes.Sequence) {
	if len(seqs) == 0 {
		return
	}
	if !r.newSince {
		r.newSince = true
		r.firstNew = len(r.seqs)
	}
	for _, seq := range seqs {
		seq = seq.ResolveSpaces()
		total := r.TotalLength()
		r.seqs = append(r.seqs, seq)
		r.cumulative = append(r.cumulative, total+seq.Length())
		r.origin = append(r.origin, pos)
	}
}

// BreakConsidered must be called after each legal break, to mark all
// sequences added so far as old.
func (r *Record) BreakConsidered() {
	r.newSince = false
}

// Truncate removes all sequences cited at or after position pos.
func (r *Record) Truncate(pos int) {
	n := len(r.seqs)
	for n > 0 && r.origin[n-1] >= pos {
		n--
	}
	r.seqs = r.seqs[:n]
	r.cumulative = r.cumulative[:n]
	r.origin = r.origin[:n]
	r.newSince = false
}

// Len returns the number of sequences.
func (r *Record) Len() int {
	return len(r.seqs)
}

// Sequence returns the i-th sequence.
func (r *Record) Sequence(i int) boxes.Sequence {
	return r.seqs[i]
}

// Sequences returns all sequences, in order.
func (r *Record) Sequences() []boxes.Sequence {
	return r.seqs
}

// TotalLength returns the length of all sequences.
func (r *Record) TotalLength() float64 {
	if len(r.seqs) == 0 {
		return 0
	}
	return r.cumulative[len(r.seqs)-1]
}

// next returns the position of the first element which has not been placed.
func (r *Record) next(p ProgressInfo) (list, elem int) {
	if p.LastInsertedIndex < len(r.seqs) &&
		p.LastElementIndexOfLast >= len(r.seqs[p.LastInsertedIndex])-1 {
		return p.LastInsertedIndex + 1, 0
	}
	return p.LastInsertedIndex, p.LastElementIndexOfLast + 1
}

// Complete reports whether all sequences have been placed.
func (r *Record) Complete(p ProgressInfo) bool {
	list, _ := r.next(p)
	return list >= len(r.seqs)
}

// IsSplit reports whether the last sequence with placed material is only
// partially placed.
func (r *Record) IsSplit(p ProgressInfo) bool {
	if p.LastElementIndexOfLast < 0 || p.LastInsertedIndex >= len(r.seqs) {
		return false
	}
	return p.LastElementIndexOfLast < len(r.seqs[p.LastInsertedIndex])-1
}

// NbOfDeferred returns the number of sequences of which nothing has been
// placed.
func (r *Record) NbOfDeferred(p ProgressInfo) int {
	list, elem := r.next(p)
	if elem > 0 {
		list++
	}
	if list >= len(r.seqs) {
		return 0
	}
	return len(r.seqs) - list
}

// InsertAll returns the progress after all sequences are placed.
func (r *Record) InsertAll() ProgressInfo {
	n := len(r.seqs)
	if n == 0 {
		return StartProgress()
	}
	return ProgressInfo{
		InsertedLength:         r.cumulative[n-1],
		LastInsertedIndex:      n - 1,
		LastElementIndexOfLast: len(r.seqs[n-1]) - 1,
	}
}

// insertWhole returns the progress after the rest of the sequence
// containing the next unplaced element is placed, and the length added.
func (r *Record) insertWhole(p ProgressInfo) (float64, ProgressInfo) {
	list, _ := r.next(p)
	if list >= len(r.seqs) {
		return 0, p
	}
	q := ProgressInfo{
		InsertedLength:         r.cumulative[list],
		LastInsertedIndex:      list,
		LastElementIndexOfLast: len(r.seqs[list]) - 1,
	}
	return q.InsertedLength - p.InsertedLength, q
}

// span returns the material placed between progress p and progress q.
func (r *Record) span(p, q ProgressInfo) Span {
	list, elem := r.next(p)
	return Span{
		First:        list,
		FirstElement: elem,
		Last:         q.LastInsertedIndex,
		LastElement:  q.LastElementIndexOfLast,
	}
}

// Span identifies the out-of-line material placed on one page: all
// elements from element FirstElement of sequence First up to and including
// element LastElement of sequence Last.
type Span struct {
	First, FirstElement int
	Last, LastElement   int
}

// IsEmpty reports whether the span contains no elements.
func (s Span) IsEmpty() bool {
	return s.Last < s.First || s.Last == s.First && s.LastElement < s.FirstElement
}

// FootnotesRecord holds the footnotes of a flow.  Footnotes can be split
// between pages at legal breaks.
type FootnotesRecord struct {
	Record
}

// Deferred reports whether footnotes cited before the last legal break,
// or any footnotes at all, are still waiting to be placed after progress p.
func (r *FootnotesRecord) Deferred(p ProgressInfo) bool {
	if len(r.seqs) == 0 {
		return false
	}
	if r.newSince && r.firstNew != 0 && p.LastInsertedIndex < len(r.seqs) &&
		(p.LastInsertedIndex < r.firstNew-1 ||
			p.LastElementIndexOfLast < len(r.seqs[p.LastInsertedIndex])-1) {
		return true
	}
	return !r.Complete(p)
}

// Split tries to place footnote material of length at most available
// after progress p.  Whole footnotes are tried first, then a prefix of the
// next footnote which ends at a legal break.  Unless canDeferOld is set,
// footnotes cited before the last legal break must be placed completely.
//
// The return values are the length placed on the page and the new
// progress.  Glue at the split is not placed, but the progress moves past
// it.  If nothing can be placed, the length is 0 and p is returned
// unchanged.
func (r *FootnotesRecord) Split(p ProgressInfo, available float64, canDeferOld bool) (float64, ProgressInfo) {
	if available <= 0 {
		return 0, p
	}
	list, elem := r.next(p)
	if list >= len(r.seqs) {
		return 0, p
	}

	split := 0.0
	added := false
	if len(r.seqs)-1 > list {
		if !canDeferOld && r.newSince && r.firstNew > list {
			split = r.cumulative[r.firstNew-1] - p.InsertedLength
			list = r.firstNew
			elem = 0
		}
		for list < len(r.seqs) && r.cumulative[list]-p.InsertedLength <= available {
			split = r.cumulative[list] - p.InsertedLength
			added = true
			list++
			elem = 0
		}
		if list >= len(r.seqs) {
			return split, r.InsertAll()
		}
	}

	seq := r.seqs[list]
	prevSplit, prevIndex, prevGlue := 0.0, -1, 0.0
	index := -1
	glue := 0.0 // width of the glue at the current split point
	for !(added && split > available) {
		if !added {
			added = true
		} else {
			prevSplit, prevIndex, prevGlue = split, index, glue
		}
		split += glue
		length, end, g, ok := scanUnit(seq, elem)
		split += length
		if !ok {
			// the rest of the footnote has no legal break
			if split <= available {
				prevSplit, prevIndex, prevGlue = split, len(seq)-1, 0
			}
			break
		}
		index, elem, glue = end, end+1, g
	}

	if prevSplit <= 0 {
		return 0, p
	}
	var q ProgressInfo
	switch prevIndex {
	case -1:
		// only whole footnotes
		q = ProgressInfo{
			InsertedLength:         r.cumulative[list-1],
			LastInsertedIndex:      list - 1,
			LastElementIndexOfLast: len(r.seqs[list-1]) - 1,
		}
	case len(seq) - 1:
		q = ProgressInfo{
			InsertedLength:         r.cumulative[list],
			LastInsertedIndex:      list,
			LastElementIndexOfLast: prevIndex,
		}
	default:
		// glue at the split is discarded, but counts as placed
		q = ProgressInfo{
			InsertedLength:         p.InsertedLength + prevSplit + prevGlue,
			LastInsertedIndex:      list,
			LastElementIndexOfLast: prevIndex,
		}
	}
	return prevSplit, q
}

// firstUnit returns the progress after the smallest piece of footnote
// material which can follow p, and the length of that piece.
func (r *FootnotesRecord) firstUnit(p ProgressInfo) (float64, ProgressInfo) {
	list, elem := r.next(p)
	if list >= len(r.seqs) {
		return 0, p
	}
	length, end, glue, ok := scanUnit(r.seqs[list], elem)
	if !ok {
		return r.insertWhole(p)
	}
	q := ProgressInfo{
		InsertedLength:         p.InsertedLength + length + glue,
		LastInsertedIndex:      list,
		LastElementIndexOfLast: end,
	}
	return length, q
}

// scanUnit scans seq from position start up to the next legal break.  It
// returns the length of the boxes and glue before the break, the position
// of the break and, if the break is at glue, the width of the glue.  If no
// legal break follows, ok is false and length covers the rest of seq.
func scanUnit(seq boxes.Sequence, start int) (length float64, end int, glue float64, ok bool) {
	prevIsBox := false
	for k := start; k < len(seq); k++ {
		e := &seq[k]
		switch e.Kind {
		case boxes.KindBox:
			length += e.Width
			prevIsBox = true
		case boxes.KindGlue:
			if prevIsBox {
				return length, k, e.Width, true
			}
			length += e.Width
		case boxes.KindPenalty:
			if e.Cost < boxes.Infinite {
				return length, k, 0, true
			}
			prevIsBox = false
		}
	}
	return length, len(seq) - 1, 0, false
}

// FloatsRecord holds the floats of a flow.  Floats are never split.
type FloatsRecord struct {
	Record
}

// Split returns the length and progress after placing as many whole
// floats after p as fit into the available length.  If not even the next
// float fits, the length is 0 and p is returned unchanged.
func (r *FloatsRecord) Split(p ProgressInfo, available float64) (float64, ProgressInfo) {
	list, _ := r.next(p)
	last := -1
	for list < len(r.seqs) && r.cumulative[list]-p.InsertedLength <= available {
		last = list
		list++
	}
	if last < 0 {
		return 0, p
	}
	q := ProgressInfo{
		InsertedLength:         r.cumulative[last],
		LastInsertedIndex:      last,
		LastElementIndexOfLast: len(r.seqs[last]) - 1,
	}
	return q.InsertedLength - p.InsertedLength, q
}
