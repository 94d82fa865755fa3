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
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// DataBase is a named list of payload arrays that all have the same
// shape, together with metadata describing where they came from.
type DataBase struct {
	// Origin identifies the entity that produced the data, for
	// instance a detector name.
	Origin string

	name         string
	timestamp    time.Time
	source       DataSource
	dim          DataDim
	distribution DataDistribution
	data         []*sparse.DenseArray
	labels       []string
}

// Option configures the construction of a DataBase or a DataWithAxes.
type Option func(*options)

type options struct {
	distribution DataDistribution
	labels       []string
	origin       string
	timestamp    time.Time
	axes         []*Axis
	navIndexes   []int
	named        NamedAxes
}

// WithDistribution sets the distribution of the data. The default is
// Uniform.
func WithDistribution(d DataDistribution) Option {
	return func(o *options) { o.distribution = d }
}

// WithLabels sets the labels of the payload arrays. Missing labels are
// filled in as CH00, CH01, ...
func WithLabels(labels ...string) Option {
	return func(o *options) { o.labels = append([]string{}, labels...) }
}

// WithOrigin sets the origin of the data.
func WithOrigin(origin string) Option {
	return func(o *options) { o.origin = origin }
}

// WithTimestamp sets the creation time of the data. The default is the
// time of construction.
func WithTimestamp(t time.Time) Option {
	return func(o *options) { o.timestamp = t }
}

// WithAxes sets the axes of a DataWithAxes.
func WithAxes(axes ...*Axis) Option {
	return func(o *options) { o.axes = append([]*Axis{}, axes...) }
}

// WithNavIndexes sets the navigation dimensions of a DataWithAxes.
func WithNavIndexes(indexes ...int) Option {
	return func(o *options) { o.navIndexes = append([]int{}, indexes...) }
}

// WithXAxis sets the axis of the data columns (dimension 0 of 1-D data,
// dimension 1 of 2-D data).
func WithXAxis(a *Axis) Option { return func(o *options) { o.named.X = a } }

// WithYAxis sets the axis of the rows of 2-D data.
func WithYAxis(a *Axis) Option { return func(o *options) { o.named.Y = a } }

// WithNavXAxis sets the axis of the first navigation dimension.
func WithNavXAxis(a *Axis) Option { return func(o *options) { o.named.NavX = a } }

// WithNavYAxis sets the axis of the second navigation dimension.
func WithNavYAxis(a *Axis) Option { return func(o *options) { o.named.NavY = a } }

func buildOptions(opts []Option) *options {
	o := &options{timestamp: time.Now()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewDataBase returns a DataBase holding data, which should be a
// []*sparse.DenseArray. A single array, a []float64 or a scalar is
// wrapped into a one-element list and reported in the returned
// Diagnostics.
func NewDataBase(name string, source DataSource, data interface{}, opts ...Option) (*DataBase, Diagnostics, error) {
	return newDataBase(name, source, data, buildOptions(opts))
}

func newDataBase(name string, source DataSource, data interface{}, o *options) (*DataBase, Diagnostics, error) {
	d := &DataBase{
		Origin:       o.origin,
		name:         name,
		timestamp:    o.timestamp,
		source:       source,
		distribution: o.distribution,
		labels:       o.labels,
	}
	diag, err := d.SetData(data)
	if err != nil {
		return nil, diag, err
	}
	return d, diag, nil
}

// SetData replaces the payload, checking that all arrays have the same
// shape and deriving the dimensionality from it.
func (d *DataBase) SetData(data interface{}) (Diagnostics, error) {
	arrays, diag, err := toArrays("set data", data)
	if err != nil {
		return diag, err
	}
	shape := arrays[0].Shape
	for i, a := range arrays[1:] {
		if !sameShape(a.Shape, shape) {
			return diag, errors.Wrapf(ErrShape, "array %d has shape %v but array 0 has shape %v", i+1, a.Shape, shape)
		}
	}
	d.data = arrays
	d.dim = dimFromShape(shape)
	d.fillLabels()
	return diag, nil
}

func (d *DataBase) fillLabels() {
	for len(d.labels) < len(d.data) {
		d.labels = append(d.labels, fmt.Sprintf("CH%02d", len(d.labels)))
	}
}

// Name returns the identifier of the data.
func (d *DataBase) Name() string { return d.name }

// Timestamp returns the creation time of the data.
func (d *DataBase) Timestamp() time.Time { return d.timestamp }

// Source returns whether the data are raw or calculated.
func (d *DataBase) Source() DataSource { return d.source }

// Distribution returns the distribution of the data.
func (d *DataBase) Distribution() DataDistribution { return d.distribution }

// Dim returns the dimensionality class of the data.
func (d *DataBase) Dim() DataDim { return d.dim }

// SetDim overrides the dimensionality class regardless of the payload
// shape.
func (d *DataBase) SetDim(dim DataDim) { d.dim = dim }

// Shape returns the shape shared by the payload arrays.
func (d *DataBase) Shape() []int { return shapeOf(d.data[0]) }

// Size returns the number of elements of each payload array.
func (d *DataBase) Size() int { return len(d.data[0].Elements) }

// Length returns the number of payload arrays.
func (d *DataBase) Length() int { return len(d.data) }

// Labels returns the labels of the payload arrays.
func (d *DataBase) Labels() []string { return append([]string{}, d.labels...) }

// Data returns the payload arrays. The slice is new but the arrays are
// the ones held by d.
func (d *DataBase) Data() []*sparse.DenseArray {
	return append([]*sparse.DenseArray{}, d.data...)
}

// FullName returns origin/name.
func (d *DataBase) FullName() string { return d.Origin + "/" + d.name }

// Get returns payload array i.
func (d *DataBase) Get(i int) (*sparse.DenseArray, error) {
	if i < 0 || i >= len(d.data) {
		return nil, errors.Wrapf(ErrIndex, "array %d of %d", i, len(d.data))
	}
	return d.data[i], nil
}

// Set replaces payload array i, which must keep the payload shape.
func (d *DataBase) Set(i int, a *sparse.DenseArray) error {
	if i < 0 || i >= len(d.data) {
		return errors.Wrapf(ErrIndex, "array %d of %d", i, len(d.data))
	}
	if err := checkArray(a); err != nil {
		return err
	}
	if !sameShape(a.Shape, d.data[0].Shape) {
		return errors.Wrapf(ErrShape, "array of shape %v does not fit data of shape %v", a.Shape, d.data[0].Shape)
	}
	d.data[i] = a
	return nil
}

// Copy returns a deep copy of d.
func (d *DataBase) Copy() *DataBase {
	return d.withData(copyArrays(d.data))
}

// withData returns a copy of d's metadata holding data, which are not
// copied.
func (d *DataBase) withData(data []*sparse.DenseArray) *DataBase {
	o := *d
	o.labels = append([]string{}, d.labels...)
	o.data = data
	return &o
}

// Add returns the element-wise sum of d and other, which must hold the
// same number of arrays with matching shapes.
func (d *DataBase) Add(other *DataBase) (*DataBase, error) {
	data, err := combineArrays("add", d.data, other.data, floats.Add)
	if err != nil {
		return nil, err
	}
	return d.withData(data), nil
}

// Sub returns the element-wise difference of d and other.
func (d *DataBase) Sub(other *DataBase) (*DataBase, error) {
	data, err := combineArrays("sub", d.data, other.data, floats.Sub)
	if err != nil {
		return nil, err
	}
	return d.withData(data), nil
}

// Mul returns d with every element multiplied by s.
func (d *DataBase) Mul(s float64) *DataBase { return d.withData(scaleArrays(d.data, s)) }

// Div returns d with every element divided by s.
func (d *DataBase) Div(s float64) *DataBase { return d.Mul(1 / s) }

// Average returns the weighted running average (other*(weight-1) + d) /
// weight, where other holds the average of weight-1 previous values.
// The result keeps the metadata of d.
func (d *DataBase) Average(other *DataBase, weight int) (*DataBase, error) {
	if weight < 1 {
		return nil, errors.Wrapf(ErrType, "average weight must be at least 1, have %d", weight)
	}
	data, err := averageArrays(d.data, other.data, float64(weight))
	if err != nil {
		return nil, err
	}
	return d.withData(data), nil
}

// Equal reports whether d and other have the same name and the same
// number of arrays, and whether their arrays have equal shapes and
// element values within floating point tolerance.
func (d *DataBase) Equal(other *DataBase) bool {
	if other == nil || d.name != other.name || len(d.data) != len(other.data) {
		return false
	}
	for i, a := range d.data {
		b := other.data[i]
		if !sameShape(a.Shape, b.Shape) || !allClose(a.Elements, b.Elements) {
			return false
		}
	}
	return true
}

func (d *DataBase) String() string {
	return fmt.Sprintf("DataBase <%s> <%s> <%s> <%s>", d.name, d.dim, d.source, shapeString(d.Shape()))
}
