/*
Copyright © 2023 the acqdata authors.
This file is part of acqdata.

acqdata is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

acqdata is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with acqdata.  If not, see <http://www.gnu.org/licenses/>.
*/

package acqdata

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Slice selects part of one dimension: either a single position, which
// removes the dimension from the result, or the half-open range
// [Start, Stop). Negative positions count from the end of the dimension.
type Slice struct {
	Start, Stop int
	single      bool
}

// At returns a Slice selecting the single position i.
func At(i int) Slice { return Slice{Start: i, Stop: i + 1, single: true} }

// Range returns a Slice selecting positions start through stop-1.
func Range(start, stop int) Slice { return Slice{Start: start, Stop: stop} }

// All returns a Slice selecting a whole dimension.
func All() Slice { return Slice{Start: 0, Stop: math.MaxInt} }

// IsSingle reports whether s selects a single position.
func (s Slice) IsSingle() bool { return s.single }

func (s Slice) String() string {
	if s.single {
		return strconv.Itoa(s.Start)
	}
	if s.Stop == math.MaxInt {
		return strconv.Itoa(s.Start) + ":"
	}
	return strconv.Itoa(s.Start) + ":" + strconv.Itoa(s.Stop)
}

// resolve converts s into concrete bounds within a dimension of length n.
func (s Slice) resolve(n int) (dimSel, error) {
	if s.single {
		i := s.Start
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return dimSel{}, errors.Wrapf(ErrIndex, "position %d in dimension of length %d", s.Start, n)
		}
		return dimSel{start: i, stop: i + 1, drop: true}, nil
	}
	start, stop := s.Start, s.Stop
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	start = clamp(start, 0, n)
	stop = clamp(stop, 0, n)
	if stop <= start {
		return dimSel{}, errors.Wrapf(ErrIndex, "range %v is empty in dimension of length %d", s, n)
	}
	return dimSel{start: start, stop: stop}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
