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
	"errors"
	"strconv"
)

var (
	// ErrNaN indicates that an element has a NaN component.
	ErrNaN = errors.New("NaN in element")

	// ErrNegativeShrink indicates glue with negative shrinkability.
	ErrNegativeShrink = errors.New("negative shrink")

	// ErrInfiniteShrink indicates glue with infinite shrinkability.
	ErrInfiniteShrink = errors.New("infinite shrink")

	// ErrInfiniteWidth indicates an element of infinite size.
	ErrInfiniteWidth = errors.New("infinite width")
)

// InvalidSequenceError indicates that a sequence cannot be broken.
type InvalidSequenceError struct {
	Pos int
	Err error
}

func (err *InvalidSequenceError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	return "invalid element sequence" + middle + " (at element " + strconv.Itoa(err.Pos) + ")"
}

func (err *InvalidSequenceError) Unwrap() error {
	return err.Err
}
