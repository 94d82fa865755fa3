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
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
)

// Axis holds the coordinates of one dimension of a payload array.
// Coordinates are stored either explicitly or, when they are evenly
// spaced, in compact form as value[i] = offset + scaling*i.
type Axis struct {
	Label string
	Units string

	// SpreadOrder orders axes that describe the same dimension of
	// spread (scattered) data.
	SpreadOrder int

	index   int
	data    []float64 // nil in compact form
	offset  float64
	scaling float64
	size    int
}

// NewAxis returns an axis describing dimension index with the given
// coordinates. Evenly spaced coordinates are stored in compact form.
// A nil data gives an empty compact axis with offset 0 and scaling 1.
func NewAxis(label, units string, data []float64, index int) (*Axis, error) {
	if err := checkAxisIndex(index); err != nil {
		return nil, err
	}
	a := &Axis{Label: label, Units: units, index: index, scaling: 1}
	a.SetData(data)
	if a.IsLinear() {
		d := diff(a.data)
		a.scaling = floats.Sum(d) / float64(len(d))
		a.offset = a.data[0]
		a.data = nil
	}
	return a, nil
}

// NewLinearAxis returns a compact axis of the given size whose
// coordinates are offset + scaling*i.
func NewLinearAxis(label, units string, offset, scaling float64, size, index int) (*Axis, error) {
	if err := checkAxisIndex(index); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, errors.Wrapf(ErrType, "axis size must not be negative, have %d", size)
	}
	return &Axis{Label: label, Units: units, index: index, offset: offset, scaling: scaling, size: size}, nil
}

func checkAxisIndex(index int) error {
	if index < 0 {
		return errors.Wrapf(ErrType, "axis index should be a non-negative integer, have %d", index)
	}
	return nil
}

func diff(d []float64) []float64 {
	o := make([]float64, len(d)-1)
	for i := range o {
		o[i] = d[i+1] - d[i]
	}
	return o
}

// Index returns the payload dimension that a describes.
func (a *Axis) Index() int { return a.index }

// SetIndex changes the payload dimension that a describes.
func (a *Axis) SetIndex(index int) error {
	if err := checkAxisIndex(index); err != nil {
		return err
	}
	a.index = index
	return nil
}

// Data returns a copy of the explicit coordinates, or nil if a is in
// compact form.
func (a *Axis) Data() []float64 {
	if a.data == nil {
		return nil
	}
	return append([]float64{}, a.data...)
}

// SetData replaces the explicit coordinates of a and sets its size.
// Linearity is not checked. Setting nil switches a to compact form with
// size 0.
func (a *Axis) SetData(data []float64) {
	if data == nil {
		a.data = nil
		a.size = 0
		return
	}
	a.data = append([]float64{}, data...)
	a.size = len(data)
}

// IsExplicit reports whether a stores its coordinates explicitly.
func (a *Axis) IsExplicit() bool { return a.data != nil }

// IsLinear reports whether the explicit coordinates of a are evenly
// spaced. Compact axes and axes with fewer than two points are not
// considered linear.
func (a *Axis) IsLinear() bool {
	if len(a.data) < 2 {
		return false
	}
	d := diff(a.data)
	mean := floats.Sum(d) / float64(len(d))
	for _, v := range d {
		if !isClose(v, mean) {
			return false
		}
	}
	return true
}

// GetData returns the coordinates of a, materializing them from offset
// and scaling in compact form. a is not modified.
func (a *Axis) GetData() []float64 {
	if a.data != nil {
		return a.Data()
	}
	return linearData(a.offset, a.scaling, a.size)
}

func linearData(offset, scaling float64, n int) []float64 {
	switch n {
	case 0:
		return []float64{}
	case 1:
		return []float64{offset}
	}
	d := make([]float64, n)
	floats.Span(d, 0, float64(n-1))
	floats.Scale(scaling, d)
	floats.AddConst(offset, d)
	return d
}

// CreateLinearData replaces the coordinates of a with n explicit values
// offset + scaling*i.
func (a *Axis) CreateLinearData(n int) {
	a.SetData(linearData(a.offset, a.scaling, n))
}

// Offset returns the first coordinate of the compact form.
func (a *Axis) Offset() float64 { return a.offset }

// SetOffset sets the first coordinate of the compact form.
func (a *Axis) SetOffset(offset float64) { a.offset = offset }

// Scaling returns the coordinate step of the compact form.
func (a *Axis) Scaling() float64 { return a.scaling }

// SetScaling sets the coordinate step of the compact form.
func (a *Axis) SetScaling(scaling float64) { a.scaling = scaling }

// Size returns the number of coordinates.
func (a *Axis) Size() int { return a.size }

// Len is an alias of Size.
func (a *Axis) Len() int { return a.size }

// SetSize resizes a compact axis. It has no effect when a stores
// explicit coordinates.
func (a *Axis) SetSize(size int) {
	if a.data == nil {
		a.size = size
	}
}

// Copy returns a deep copy of a.
func (a *Axis) Copy() *Axis {
	b := *a
	if a.data != nil {
		b.data = append([]float64{}, a.data...)
	}
	return &b
}

// Slice returns the part of a selected by s. It returns nil when s
// selects a single position, as the dimension no longer exists.
// In compact form the offset is shifted and no coordinates are
// allocated.
func (a *Axis) Slice(s Slice) (*Axis, error) {
	sel, err := s.resolve(a.size)
	if err != nil {
		return nil, err
	}
	if sel.drop {
		return nil, nil
	}
	b := a.Copy()
	if b.data != nil {
		b.SetData(a.data[sel.start:sel.stop])
		return b, nil
	}
	b.offset = a.offset + float64(sel.start)*a.scaling
	b.size = sel.stop - sel.start
	return b, nil
}

// Mul returns a copy of a with every coordinate multiplied by scale.
func (a *Axis) Mul(scale float64) *Axis {
	b := a.Copy()
	if b.data != nil {
		floats.Scale(scale, b.data)
	} else {
		b.offset *= scale
		b.scaling *= scale
	}
	return b
}

// Add returns a copy of a with offset added to every coordinate.
func (a *Axis) Add(offset float64) *Axis {
	b := a.Copy()
	if b.data != nil {
		floats.AddConst(offset, b.data)
	} else {
		b.offset += offset
	}
	return b
}

// Equal reports whether a and b have the same label, units and index
// and the same coordinates. Explicit coordinates are compared within
// floating point tolerance; otherwise offset and scaling must match.
func (a *Axis) Equal(b *Axis) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Label != b.Label || a.Units != b.Units || a.index != b.index {
		return false
	}
	if a.data != nil && b.data != nil {
		return allClose(a.data, b.data)
	}
	return a.offset == b.offset && a.scaling == b.scaling
}

// Mean returns the mean coordinate.
func (a *Axis) Mean() float64 {
	if a.data != nil {
		if len(a.data) == 0 {
			return math.NaN()
		}
		return floats.Sum(a.data) / float64(len(a.data))
	}
	return a.offset + float64(a.size)/2*a.scaling
}

// Min returns the smallest coordinate.
func (a *Axis) Min() float64 {
	if a.data != nil {
		if len(a.data) == 0 {
			return math.NaN()
		}
		return floats.Min(a.data)
	}
	if a.scaling < 0 {
		return a.offset + float64(a.size)*a.scaling
	}
	return a.offset
}

// Max returns the largest coordinate.
func (a *Axis) Max() float64 {
	if a.data != nil {
		if len(a.data) == 0 {
			return math.NaN()
		}
		return floats.Max(a.data)
	}
	if a.scaling > 0 {
		return a.offset + float64(a.size)*a.scaling
	}
	return a.offset
}

// FindIndex returns the index of the coordinate nearest to threshold.
// In compact form the index is computed as (threshold-offset)/scaling,
// truncated toward zero, and is not clamped to the axis bounds: a
// threshold outside the axis gives an index outside [0, Size()).
// An empty explicit axis gives -1 and a zero scaling gives 0.
func (a *Axis) FindIndex(threshold float64) int {
	if a.data != nil {
		if len(a.data) == 0 {
			return -1
		}
		d := make([]float64, len(a.data))
		for i, v := range a.data {
			d[i] = math.Abs(v - threshold)
		}
		return floats.MinIdx(d)
	}
	if a.scaling == 0 {
		return 0
	}
	return int((threshold - a.offset) / a.scaling)
}

func (a *Axis) String() string {
	return fmt.Sprintf("Axis: <label: %s> - <units: %s> - <index: %d>", a.Label, a.Units, a.index)
}
