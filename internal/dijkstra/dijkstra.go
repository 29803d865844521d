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

// Package dijkstra finds shortest paths through the complete forward graph
// on the vertices 0, 1, ..., n.  It is used by tests to find optimal
// break sequences by exhaustive search.
package dijkstra

import (
	"golang.org/x/exp/constraints"
)

// Cost is the type of edge weights.
type Cost interface {
	constraints.Integer | constraints.Float
}

// ShortestPath implements Dijkstra's algorithm
// https://en.wikipedia.org/wiki/Dijkstra%27s_algorithm
//
//	vertices: 0, 1, ..., n, start at 0, end at n
//	edges: (k, l) with 0 <= k < l <= n
//
// All costs must be non-negative.  For floating point costs, +Inf can be
// used for missing edges.  The returned path starts with 0 and ends with n.
func ShortestPath[T Cost](cost func(i, j int) T, n int) (T, []int) {
	if n <= 0 {
		return 0, []int{0}
	}

	dist := make([]T, n)
	to := make([]int, n)
	done := make([]bool, n)
	for i := 0; i < n; i++ {
		dist[i] = cost(i, n)
		to[i] = n
	}

	for !done[0] {
		// vertices are finalized in order of increasing distance to n
		pos := -1
		for i := 0; i < n; i++ {
			if !done[i] && (pos < 0 || dist[i] < dist[pos]) {
				pos = i
			}
		}
		done[pos] = true

		for i := 0; i < pos; i++ {
			if done[i] {
				continue
			}
			alt := dist[pos] + cost(i, pos)
			if alt < dist[i] {
				dist[i] = alt
				to[i] = pos
			}
		}
	}

	res := []int{0}
	pos := 0
	for pos < n {
		pos = to[pos]
		res = append(res, pos)
	}
	return dist[0], res
}
