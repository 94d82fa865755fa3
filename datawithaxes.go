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
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// DataWithAxes is a DataBase whose dimensions are described by axes and
// partitioned into navigation and signal dimensions.
type DataWithAxes struct {
	DataBase
	kind Kind
	am   *AxesManager
}

// NewDataWithAxes returns data with the given source. See NewDataBase
// for the accepted payloads. Axes are given with WithAxes or the named
// axis options and navigation dimensions with WithNavIndexes.
func NewDataWithAxes(name string, source DataSource, data interface{}, opts ...Option) (*DataWithAxes, Diagnostics, error) {
	return newDataWithAxes(KindWithAxes, name, source, data, buildOptions(opts))
}

// NewDataRaw returns raw data.
func NewDataRaw(name string, data interface{}, opts ...Option) (*DataWithAxes, Diagnostics, error) {
	return newDataWithAxes(KindRaw, name, Raw, data, buildOptions(opts))
}

// NewDataFromPlugins returns raw data produced by an instrument plugin.
func NewDataFromPlugins(name string, data interface{}, opts ...Option) (*DataWithAxes, Diagnostics, error) {
	return newDataWithAxes(KindFromPlugins, name, Raw, data, buildOptions(opts))
}

// NewDataCalculated returns processed data.
func NewDataCalculated(name string, data interface{}, opts ...Option) (*DataWithAxes, Diagnostics, error) {
	return newDataWithAxes(KindCalculated, name, Calculated, data, buildOptions(opts))
}

// NewDataFromRoi returns data processed from a region of interest.
func NewDataFromRoi(name string, data interface{}, opts ...Option) (*DataWithAxes, Diagnostics, error) {
	return newDataWithAxes(KindFromRoi, name, Calculated, data, buildOptions(opts))
}

// NewData returns data of the given kind. Kinds other than KindWithAxes
// override source with the one they imply.
func NewData(kind Kind, name string, source DataSource, data interface{}, opts ...Option) (*DataWithAxes, Diagnostics, error) {
	return newDataWithAxes(kind, name, source, data, buildOptions(opts))
}

func newDataWithAxes(kind Kind, name string, source DataSource, data interface{}, o *options) (*DataWithAxes, Diagnostics, error) {
	if s, ok := kind.source(); ok {
		source = s
	}
	base, diag, err := newDataBase(name, source, data, o)
	if err != nil {
		return nil, diag, err
	}
	am, d, err := NewAxesManager(o.distribution, base.Shape(), o.axes, o.navIndexes, o.named)
	diag = append(diag, d...)
	if err != nil {
		return nil, diag, err
	}
	dwa := &DataWithAxes{DataBase: *base, kind: kind, am: am}
	dwa.updateDim()
	return dwa, diag, nil
}

// updateDim makes data with navigation dimensions DataND.
func (d *DataWithAxes) updateDim() {
	if len(d.am.navIndexes) > 0 {
		d.dim = DataND
	} else {
		d.dim = dimFromShape(d.data[0].Shape)
	}
}

// Kind returns the specialization d was built as.
func (d *DataWithAxes) Kind() Kind { return d.kind }

// AxesManager returns the manager of d's axes.
func (d *DataWithAxes) AxesManager() *AxesManager { return d.am }

// SetData replaces the payload with arrays of the same shape.
func (d *DataWithAxes) SetData(data interface{}) (Diagnostics, error) {
	arrays, diag, err := toArrays("set data", data)
	if err != nil {
		return diag, err
	}
	for i, a := range arrays {
		if !sameShape(a.Shape, d.am.dataShape) {
			return diag, errors.Wrapf(ErrShape, "array %d has shape %v but the axes describe shape %v", i, a.Shape, d.am.dataShape)
		}
	}
	d.data = arrays
	d.fillLabels()
	d.updateDim()
	return diag, nil
}

// Axes returns copies of the axes of d.
func (d *DataWithAxes) Axes() []*Axis { return d.am.Axes() }

// SetAxes replaces the axes of d.
func (d *DataWithAxes) SetAxes(axes ...*Axis) (Diagnostics, error) { return d.am.SetAxes(axes) }

// NavIndexes returns the navigation dimensions.
func (d *DataWithAxes) NavIndexes() []int { return d.am.NavIndexes() }

// SigIndexes returns the signal dimensions.
func (d *DataWithAxes) SigIndexes() []int { return d.am.SigIndexes() }

// SetNavIndexes changes the navigation dimensions; see
// AxesManager.SetNavIndexes.
func (d *DataWithAxes) SetNavIndexes(indexes ...int) Diagnostics {
	diag := d.am.SetNavIndexes(indexes)
	d.updateDim()
	return diag
}

// NavAxes returns copies of the navigation axes.
func (d *DataWithAxes) NavAxes() ([]*Axis, Diagnostics) { return d.am.NavAxes() }

// SignalAxes returns copies of the signal axes.
func (d *DataWithAxes) SignalAxes() ([]*Axis, Diagnostics) { return d.am.SignalAxes() }

// NavAxesWithData returns copies of the navigation axes with their
// coordinates stored explicitly.
func (d *DataWithAxes) NavAxesWithData() ([]*Axis, Diagnostics) {
	axes, diag := d.am.NavAxes()
	for _, a := range axes {
		if !a.IsExplicit() {
			a.CreateLinearData(d.am.dataShape[a.index])
		}
	}
	return axes, diag
}

// AxisFromIndex returns the axis describing dimension index; see
// AxesManager.AxisFromIndex.
func (d *DataWithAxes) AxisFromIndex(index int, create bool) (*Axis, Diagnostics, error) {
	return d.am.AxisFromIndex(index, create)
}

// DataDimension summarizes the shape as (nav|sig).
func (d *DataWithAxes) DataDimension() string { return d.am.String() }

// Inav slices the navigation dimensions, in navigation order. A single
// position (At) removes its dimension; a Range keeps it, even when the
// range selects one element. Navigation dimensions without a slice are
// kept whole. The result is new calculated data.
func (d *DataWithAxes) Inav(slices ...Slice) (*DataWithAxes, Diagnostics, error) {
	return d.slice(slices, true)
}

// Isig slices the signal dimensions; see Inav.
func (d *DataWithAxes) Isig(slices ...Slice) (*DataWithAxes, Diagnostics, error) {
	return d.slice(slices, false)
}

func (d *DataWithAxes) slice(slices []Slice, navigation bool) (*DataWithAxes, Diagnostics, error) {
	targets, others := d.am.sigIndexes, d.am.navIndexes
	if navigation {
		targets, others = others, targets
	}
	if len(slices) > len(targets) {
		return nil, nil, errors.Wrapf(ErrIndex, "%d slices given for %d dimensions", len(slices), len(targets))
	}
	shape := d.am.dataShape
	sel := make([]dimSel, len(shape))
	for i, n := range shape {
		sel[i] = dimSel{start: 0, stop: n}
	}
	for k, s := range slices {
		r, err := s.resolve(shape[targets[k]])
		if err != nil {
			return nil, nil, err
		}
		sel[targets[k]] = r
	}

	var (
		axes    []*Axis
		nav     []int
		removed []int
	)
	if !navigation {
		nav = append(nav, others...)
	}
	for k, dim := range targets {
		if sel[dim].drop {
			removed = append(removed, dim)
			continue
		}
		for _, a := range d.am.lookup(dim) {
			if k < len(slices) {
				b, err := a.Slice(slices[k])
				if err != nil {
					return nil, nil, err
				}
				axes = append(axes, b)
			} else {
				axes = append(axes, a.Copy())
			}
		}
		if navigation {
			nav = append(nav, dim)
		}
	}
	for _, dim := range others {
		for _, a := range d.am.lookup(dim) {
			axes = append(axes, a.Copy())
		}
	}
	for _, a := range axes {
		a.index = lowered(a.index, removed)
	}
	for i := range nav {
		nav[i] = lowered(nav[i], removed)
	}

	data := make([]*sparse.DenseArray, len(d.data))
	for i, a := range d.data {
		data[i] = subArray(a, sel)
	}
	return newDataWithAxes(KindWithAxes, d.name, Calculated, data, &options{
		distribution: d.distribution,
		labels:       d.Labels(),
		origin:       d.Origin,
		timestamp:    d.timestamp,
		axes:         axes,
		navIndexes:   nav,
	})
}

// lowered renumbers dimension index after the dimensions in removed
// have been deleted.
func lowered(index int, removed []int) int {
	o := index
	for _, r := range removed {
		if r < index {
			o--
		}
	}
	return o
}

// DeepCopyWithNewData returns a copy of d holding data instead of d's
// payload, without copying d's payload. The dimensions listed in
// removeAxes are deleted together with their axes, and the remaining
// dimensions are renumbered; data must have the resulting number of
// dimensions. Any failure is returned as an error and d is left
// unchanged.
func (d *DataWithAxes) DeepCopyWithNewData(data []*sparse.DenseArray, removeAxes ...int) (*DataWithAxes, Diagnostics, error) {
	arrays, diag, err := toArrays("deepcopy with new data", data)
	if err != nil {
		return nil, diag, err
	}
	oldShape := d.am.dataShape
	for i, r := range removeAxes {
		if r < 0 || r >= len(oldShape) {
			return nil, diag, errors.Wrapf(ErrIndex, "cannot remove dimension %d of data of shape %v", r, oldShape)
		}
		if containsInt(removeAxes[:i], r) {
			return nil, diag, errors.Wrapf(ErrType, "dimension %d removed twice", r)
		}
	}
	rank := len(oldShape) - len(removeAxes)
	newShape := arrays[0].Shape
	if len(newShape) != rank && !(rank == 0 && sameShape(newShape, []int{1})) {
		return nil, diag, errors.Wrapf(ErrShape, "data of shape %v cannot replace data of shape %v with %d dimensions removed",
			newShape, oldShape, len(removeAxes))
	}

	var axes []*Axis
	for _, a := range d.am.axes {
		if containsInt(removeAxes, a.index) {
			continue
		}
		b := a.Copy()
		b.index = lowered(b.index, removeAxes)
		axes = append(axes, b)
	}
	var nav []int
	for _, n := range d.am.navIndexes {
		if !containsInt(removeAxes, n) {
			nav = append(nav, lowered(n, removeAxes))
		}
	}
	o, dd, err := newDataWithAxes(d.kind, d.name, d.source, arrays, &options{
		distribution: d.distribution,
		labels:       d.Labels(),
		origin:       d.Origin,
		timestamp:    d.timestamp,
		axes:         axes,
		navIndexes:   nav,
	})
	return o, append(diag, dd...), err
}

// Transpose transposes two-dimensional data in place, exchanging the
// roles of the axes of dimensions 0 and 1.
func (d *DataWithAxes) Transpose() error {
	if d.dim != Data2D || len(d.am.dataShape) != 2 {
		return errors.Wrapf(ErrShape, "only Data2D can be transposed, have %s of shape %v", d.dim, d.am.dataShape)
	}
	for i, a := range d.data {
		d.data[i] = transpose2D(a)
	}
	for _, a := range d.am.axes {
		a.index = 1 - a.index
	}
	s := d.am.dataShape
	s[0], s[1] = s[1], s[0]
	return nil
}

// Copy returns a deep copy of d.
func (d *DataWithAxes) Copy() *DataWithAxes {
	return &DataWithAxes{DataBase: *d.DataBase.Copy(), kind: d.kind, am: d.am.Copy()}
}

func (d *DataWithAxes) withBase(b *DataBase) *DataWithAxes {
	return &DataWithAxes{DataBase: *b, kind: d.kind, am: d.am.Copy()}
}

// Add returns the element-wise sum of d and other. The result has the
// axes of d.
func (d *DataWithAxes) Add(other *DataWithAxes) (*DataWithAxes, error) {
	data, err := combineArrays("add", d.data, other.data, floats.Add)
	if err != nil {
		return nil, err
	}
	return d.withBase(d.withData(data)), nil
}

// Sub returns the element-wise difference of d and other.
func (d *DataWithAxes) Sub(other *DataWithAxes) (*DataWithAxes, error) {
	data, err := combineArrays("sub", d.data, other.data, floats.Sub)
	if err != nil {
		return nil, err
	}
	return d.withBase(d.withData(data)), nil
}

// Mul returns d with every element multiplied by s.
func (d *DataWithAxes) Mul(s float64) *DataWithAxes { return d.withBase(d.DataBase.Mul(s)) }

// Div returns d with every element divided by s.
func (d *DataWithAxes) Div(s float64) *DataWithAxes { return d.withBase(d.DataBase.Div(s)) }

// Average returns the weighted running average of d and other; see
// DataBase.Average.
func (d *DataWithAxes) Average(other *DataWithAxes, weight int) (*DataWithAxes, error) {
	b, err := d.DataBase.Average(&other.DataBase, weight)
	if err != nil {
		return nil, err
	}
	return d.withBase(b), nil
}

// Equal reports whether d and other hold equal payloads (see
// DataBase.Equal), the same navigation dimensions and equal axes.
func (d *DataWithAxes) Equal(other *DataWithAxes) bool {
	if other == nil || !d.DataBase.Equal(&other.DataBase) {
		return false
	}
	if !sameShape(d.am.navIndexes, other.am.navIndexes) {
		return false
	}
	a, b := sortedAxes(d.am.axes), sortedAxes(other.am.axes)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func sortedAxes(axes []*Axis) []*Axis {
	o := append([]*Axis{}, axes...)
	sort.SliceStable(o, func(i, j int) bool {
		if o[i].index != o[j].index {
			return o[i].index < o[j].index
		}
		return o[i].SpreadOrder < o[j].SpreadOrder
	})
	return o
}

func (d *DataWithAxes) String() string {
	return fmt.Sprintf("<%s, %s, %s>", d.kind, d.name, d.am)
}
