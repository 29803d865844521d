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
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/breaking/boxes"
)

// footnote returns n lines of height h, with a legal break between
// consecutive lines.
func footnote(n int, h float64) boxes.Sequence {
	var res boxes.Sequence
	for i := 0; i < n; i++ {
		if i > 0 {
			res = append(res, boxes.Penalty(0, 0, false))
		}
		res = append(res, boxes.Box(h))
	}
	return res
}

func TestFootnoteSplitAtGlue(t *testing.T) {
	var r FootnotesRecord
	r.Add(0, boxes.Sequence{boxes.Box(20), boxes.Glue(10, 0, 0), boxes.Box(20)})
	r.BreakConsidered()
	if r.TotalLength() != 50 {
		t.Fatalf("wrong total length %g", r.TotalLength())
	}

	start := StartProgress()
	l, q := r.Split(start, 30, true)
	if l != 20 {
		t.Errorf("split length %g, want 20", l)
	}
	want := ProgressInfo{InsertedLength: 30, LastInsertedIndex: 0, LastElementIndexOfLast: 1}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Error(diff)
	}
	if !r.IsSplit(q) || r.Complete(q) {
		t.Errorf("%s: footnote should be split", q)
	}
	if rest := r.TotalLength() - q.InsertedLength; rest != 20 {
		t.Errorf("deferred length %g", rest)
	}
	if start != StartProgress() {
		t.Error("previous progress modified")
	}

	l, q = r.Split(q, 30, true)
	if l != 20 || q.InsertedLength != 50 || !r.Complete(q) {
		t.Errorf("second split: %g %s", l, q)
	}
}

func TestFootnoteSplitZeroGlue(t *testing.T) {
	var r FootnotesRecord
	r.Add(0, boxes.Sequence{boxes.Box(20), boxes.Glue(0, 0, 0), boxes.Box(30)})
	r.BreakConsidered()

	l, q := r.Split(StartProgress(), 30, true)
	if l != 20 {
		t.Errorf("split length %g, want 20", l)
	}
	if rest := r.TotalLength() - q.InsertedLength; rest != 30 {
		t.Errorf("deferred length %g, want 30", rest)
	}
	if r.NbOfDeferred(q) != 0 || !r.IsSplit(q) {
		t.Errorf("%s: wrong split state", q)
	}
}

func TestFootnoteSplitTooSmall(t *testing.T) {
	var r FootnotesRecord
	r.Add(0, boxes.Sequence{boxes.Box(20), boxes.Glue(10, 0, 0), boxes.Box(20)})
	for _, available := range []float64{-1, 0, 19.5} {
		l, q := r.Split(StartProgress(), available, true)
		if l != 0 || q != StartProgress() {
			t.Errorf("available %g: got %g %s", available, l, q)
		}
	}
}

func TestFootnoteSplitOld(t *testing.T) {
	var r FootnotesRecord
	r.Add(0, footnote(2, 5))
	r.BreakConsidered()
	r.Add(4, footnote(2, 5))

	start := StartProgress()
	if got := r.NbOfDeferred(start); got != 2 {
		t.Errorf("%d deferred footnotes, want 2", got)
	}
	if !r.Deferred(start) {
		t.Error("old footnote not reported as deferred")
	}

	// the old footnote may be split only if old footnotes can be deferred
	l, q := r.Split(start, 8, true)
	if l != 5 || q != (ProgressInfo{5, 0, 1}) {
		t.Errorf("can defer: got %g %s", l, q)
	}
	if !r.IsSplit(q) || r.NbOfDeferred(q) != 1 {
		t.Errorf("%s: wrong split state", q)
	}
	l, _ = r.Split(start, 8, false)
	if l != 0 {
		t.Errorf("cannot defer: got %g", l)
	}

	// the old footnote is placed completely before the new one is split
	l, q = r.Split(start, 15, false)
	if l != 15 || q != (ProgressInfo{15, 1, 1}) {
		t.Errorf("cannot defer: got %g %s", l, q)
	}

	l, q = r.Split(start, 12, true)
	if l != 10 || q != (ProgressInfo{10, 0, 2}) {
		t.Errorf("whole footnote: got %g %s", l, q)
	}
	if !r.Deferred(q) {
		t.Error("second footnote not deferred")
	}

	all := r.InsertAll()
	if all != (ProgressInfo{20, 1, 2}) || r.Deferred(all) || !r.Complete(all) {
		t.Errorf("insert all: %s", all)
	}
}

func TestEmptyFootnote(t *testing.T) {
	var r FootnotesRecord
	r.Add(0, footnote(1, 5), boxes.Sequence{boxes.Glue(3, 0, 0)})
	if r.Len() != 2 || r.TotalLength() != 5 {
		t.Fatalf("unexpected record: %d %g", r.Len(), r.TotalLength())
	}
	all := r.InsertAll()
	if all != (ProgressInfo{5, 1, -1}) {
		t.Errorf("insert all: %s", all)
	}
	if !r.Complete(all) || r.NbOfDeferred(all) != 0 || r.Deferred(all) {
		t.Errorf("%s: deferred footnotes remain", all)
	}
}

func TestTruncate(t *testing.T) {
	var r FootnotesRecord
	r.Add(3, footnote(1, 10))
	r.Add(7, footnote(2, 10), footnote(3, 10))
	if r.Len() != 3 || r.TotalLength() != 60 {
		t.Fatalf("unexpected record: %d %g", r.Len(), r.TotalLength())
	}
	r.Truncate(7)
	if r.Len() != 1 || r.TotalLength() != 10 {
		t.Errorf("after truncate: %d %g", r.Len(), r.TotalLength())
	}
	if r.newSince {
		t.Error("new footnotes after truncate")
	}
}

func TestFloatSplit(t *testing.T) {
	var r FloatsRecord
	r.Add(0, footnote(1, 10), footnote(2, 10), footnote(1, 5))

	prev := StartProgress()
	l, a := r.Split(prev, 25)
	if l != 10 || a != (ProgressInfo{10, 0, 0}) {
		t.Errorf("first page: %g %s", l, a)
	}
	if prev != StartProgress() {
		t.Error("previous progress modified")
	}

	l, b := r.Split(a, 25)
	if l != 25 || b != (ProgressInfo{35, 2, 0}) {
		t.Errorf("second page: %g %s", l, b)
	}
	if b.InsertedLength != a.InsertedLength+l {
		t.Errorf("inserted length %g != %g + %g", b.InsertedLength, a.InsertedLength, l)
	}
	if a != (ProgressInfo{10, 0, 0}) {
		t.Error("parent progress modified")
	}
	if !r.Complete(b) || r.NbOfDeferred(b) != 0 || r.IsSplit(b) {
		t.Errorf("%s: not complete", b)
	}

	l, q := r.Split(StartProgress(), 5)
	if l != 0 || q != StartProgress() {
		t.Errorf("no space: %g %s", l, q)
	}
}

func TestSplitLegality(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		var seq boxes.Sequence
		n := 2 + rng.Intn(12)
		for i := 0; i < n; i++ {
			switch rng.Intn(4) {
			case 0:
				seq = append(seq, boxes.Glue(float64(1+rng.Intn(3)), 1, 0))
			case 1:
				cost := 0.0
				if rng.Intn(2) == 0 {
					cost = boxes.Infinite
				}
				seq = append(seq, boxes.Penalty(0, cost, false))
			default:
				seq = append(seq, boxes.Box(float64(1+rng.Intn(10))))
			}
		}

		var r FootnotesRecord
		r.Add(0, seq)
		stored := r.Sequence(0)
		p := StartProgress()
		for steps := 0; !r.Complete(p) && steps < 100; steps++ {
			available := float64(1 + rng.Intn(20))
			l, q := r.Split(p, available, true)
			if l == 0 {
				if q != p {
					t.Fatalf("trial %d: progress changed without material", trial)
				}
				_, q = r.firstUnit(p)
			} else if l > available {
				t.Fatalf("trial %d: split %g exceeds %g", trial, l, available)
			}
			if q.InsertedLength < p.InsertedLength {
				t.Fatalf("trial %d: progress decreased", trial)
			}
			if idx := q.LastElementIndexOfLast; idx != len(stored)-1 && !stored.IsLegalBreak(idx) {
				t.Fatalf("trial %d: split at element %d (%s)", trial, idx, stored[idx])
			}
			p = q
		}
		if !r.Complete(p) {
			t.Fatalf("trial %d: footnote not placed", trial)
		}
	}
}

func TestSpan(t *testing.T) {
	var r FootnotesRecord
	r.Add(0, footnote(3, 1), footnote(2, 1))

	cases := []struct {
		p, q  ProgressInfo
		want  Span
		empty bool
	}{
		{StartProgress(), StartProgress(), Span{0, 0, 0, -1}, true},
		{StartProgress(), ProgressInfo{2, 0, 2}, Span{0, 0, 0, 2}, false},
		{ProgressInfo{2, 0, 2}, ProgressInfo{5, 1, 2}, Span{0, 3, 1, 2}, false},
		{ProgressInfo{3, 0, 4}, ProgressInfo{3, 0, 4}, Span{1, 0, 0, 4}, true},
	}
	for i, c := range cases {
		got := r.span(c.p, c.q)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%d: %s", i, diff)
		}
		if got.IsEmpty() != c.empty {
			t.Errorf("%d: IsEmpty() = %t", i, got.IsEmpty())
		}
	}
}
