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
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// AxesManager keeps the axes of a payload consistent with its shape and
// partitions the payload dimensions into navigation and signal
// dimensions.
//
// With the Uniform distribution every dimension is described by at most
// one axis. With the Spread distribution several axes may describe the
// same dimension (one coordinate per scattered point each), ordered by
// their SpreadOrder.
type AxesManager struct {
	distribution DataDistribution
	dataShape    []int
	axes         []*Axis
	navIndexes   []int
	sigIndexes   []int
}

// NamedAxes holds axes given by role rather than by dimension index.
// X describes dimension 0 of one-dimensional data and dimension 1 of
// two-dimensional data, Y describes dimension 0 of two-dimensional data,
// NavX and NavY describe the first and second navigation dimensions.
type NamedAxes struct {
	X, Y, NavX, NavY *Axis
}

// NewAxesManager returns a manager for a payload of the given shape.
// The axes are copied. Axes whose size disagrees with the shape are
// replaced by linear axes spanning [0, size) and reported in the returned
// Diagnostics. An axis or navigation index outside the shape is an
// error.
func NewAxesManager(distribution DataDistribution, shape []int, axes []*Axis, navIndexes []int, named NamedAxes) (*AxesManager, Diagnostics, error) {
	m := &AxesManager{
		distribution: distribution,
		dataShape:    append([]int{}, shape...),
	}
	seen := make(map[int]bool)
	for _, i := range navIndexes {
		if i < 0 || i >= len(shape) {
			return nil, nil, errors.Wrapf(ErrIndex, "navigation index %d for data of shape %v", i, shape)
		}
		if seen[i] {
			return nil, nil, errors.Wrapf(ErrType, "navigation index %d given twice", i)
		}
		seen[i] = true
	}
	m.navIndexes = append([]int{}, navIndexes...)
	m.sigIndexes = m.complement()

	m.axes = make([]*Axis, 0, len(axes))
	for _, a := range axes {
		if a == nil {
			return nil, nil, errors.Wrap(ErrType, "axes should not contain nil")
		}
		m.axes = append(m.axes, a.Copy())
	}
	diag, err := m.checkAxes(m.axes)
	if err != nil {
		return nil, diag, err
	}
	d, err := m.manageNamedAxes(named)
	return m, append(diag, d...), err
}

// complement returns the dimensions that are not navigation dimensions.
func (m *AxesManager) complement() []int {
	var sig []int
	for i := range m.dataShape {
		if !containsInt(m.navIndexes, i) {
			sig = append(sig, i)
		}
	}
	return sig
}

func containsInt(s []int, v int) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// checkAxes repairs axes whose size disagrees with the data shape.
func (m *AxesManager) checkAxes(axes []*Axis) (Diagnostics, error) {
	var diag Diagnostics
	for _, a := range axes {
		if a == nil {
			return diag, errors.Wrap(ErrType, "axes should not contain nil")
		}
		n, err := m.ShapeFromIndex(a.index)
		if err != nil {
			return diag, err
		}
		if a.size == n {
			continue
		}
		diag.warnf("check axes", "the size of axis %q (%d) is not coherent with the data dimension %d (%d); "+
			"replacing it with a linear axis [0, 1, 2, ...]", a.Label, a.size, a.index, n)
		a.offset, a.scaling = 0, 1
		if m.distribution == Spread {
			a.CreateLinearData(n)
		} else {
			a.data = nil
			a.size = n
		}
	}
	return diag, nil
}

func (m *AxesManager) manageNamedAxes(named NamedAxes) (Diagnostics, error) {
	var diag Diagnostics
	var added []*Axis
	add := func(a *Axis, index int) {
		b := a.Copy()
		b.index = index
		added = append(added, b)
	}
	if named.X != nil {
		index := 0
		if len(m.dataShape) == 2 && !m.hasAxis(1) {
			index = 1
		}
		add(named.X, index)
	}
	if named.Y != nil {
		if len(m.dataShape) == 2 && !m.hasAxis(0) {
			add(named.Y, 0)
		} else {
			diag.warnf("named axes", "y axis %q ignored: data are not two-dimensional or already have an axis 0", named.Y.Label)
		}
	}
	if named.NavX != nil {
		if len(m.navIndexes) > 0 {
			add(named.NavX, m.navIndexes[0])
		} else {
			diag.warnf("named axes", "navigation x axis %q ignored: no navigation dimension", named.NavX.Label)
		}
	}
	if named.NavY != nil {
		if len(m.navIndexes) > 1 {
			add(named.NavY, m.navIndexes[1])
		} else {
			diag.warnf("named axes", "navigation y axis %q ignored: fewer than two navigation dimensions", named.NavY.Label)
		}
	}
	if len(added) == 0 {
		return diag, nil
	}
	d, err := m.checkAxes(added)
	diag = append(diag, d...)
	if err != nil {
		return diag, err
	}
	m.axes = append(m.axes, added...)
	return diag, nil
}

// Distribution returns the distribution mode of m.
func (m *AxesManager) Distribution() DataDistribution { return m.distribution }

// Axes returns copies of the axes held by m.
func (m *AxesManager) Axes() []*Axis {
	o := make([]*Axis, len(m.axes))
	for i, a := range m.axes {
		o[i] = a.Copy()
	}
	return o
}

// SetAxes replaces the axes of m with copies of axes, repairing them as
// NewAxesManager does.
func (m *AxesManager) SetAxes(axes []*Axis) (Diagnostics, error) {
	cp := make([]*Axis, len(axes))
	for i, a := range axes {
		if a == nil {
			return nil, errors.Wrap(ErrType, "axes should not contain nil")
		}
		cp[i] = a.Copy()
	}
	diag, err := m.checkAxes(cp)
	if err != nil {
		return diag, err
	}
	m.axes = cp
	return diag, nil
}

// AppendAxis adds a copy of a to m.
func (m *AxesManager) AppendAxis(a *Axis) (Diagnostics, error) {
	if a == nil {
		return nil, errors.Wrap(ErrType, "cannot append a nil axis")
	}
	b := a.Copy()
	diag, err := m.checkAxes([]*Axis{b})
	if err != nil {
		return diag, err
	}
	m.axes = append(m.axes, b)
	return diag, nil
}

// AxesIndexes returns the dimension index of every axis, in axis order.
func (m *AxesManager) AxesIndexes() []int {
	o := make([]int, len(m.axes))
	for i, a := range m.axes {
		o[i] = a.index
	}
	return o
}

func (m *AxesManager) hasAxis(index int) bool {
	return len(m.lookup(index)) > 0
}

// lookup returns the axes describing dimension index. For uniform data
// only the first one is returned.
func (m *AxesManager) lookup(index int) []*Axis {
	var o []*Axis
	for _, a := range m.axes {
		if a.index == index {
			o = append(o, a)
			if m.distribution == Uniform {
				break
			}
		}
	}
	sort.SliceStable(o, func(i, j int) bool { return o[i].SpreadOrder < o[j].SpreadOrder })
	return o
}

// create returns a new linear axis spanning dimension index.
func (m *AxesManager) create(index int) *Axis {
	a := &Axis{index: index, scaling: 1, size: m.dataShape[index]}
	if m.distribution == Spread {
		a.CreateLinearData(m.dataShape[index])
	}
	return a
}

// ShapeFromIndex returns the length of dimension index of the payload.
func (m *AxesManager) ShapeFromIndex(index int) (int, error) {
	if index < 0 || index >= len(m.dataShape) {
		return 0, errors.Wrapf(ErrIndex, "dimension %d for data of shape %v", index, m.dataShape)
	}
	return m.dataShape[index], nil
}

// AxisFromIndex returns the axis describing dimension index. The
// returned axis belongs to m. When there is no such axis and create is
// true, a new linear axis spanning the dimension is returned (but not
// added to m); otherwise nil is returned. Both cases are reported as
// warnings.
func (m *AxesManager) AxisFromIndex(index int, create bool) (*Axis, Diagnostics, error) {
	if _, err := m.ShapeFromIndex(index); err != nil {
		return nil, nil, err
	}
	var diag Diagnostics
	if axes := m.lookup(index); len(axes) > 0 {
		return axes[0], diag, nil
	}
	if create {
		diag.warnf("axis from index", "the axis with index %d is not present, creating a linear one", index)
		return m.create(index), diag, nil
	}
	diag.warnf("axis from index", "the axis with index %d is not present", index)
	return nil, diag, nil
}

// axesFor returns copies of the axes describing the given dimensions,
// creating missing ones.
func (m *AxesManager) axesFor(indexes []int) ([]*Axis, Diagnostics) {
	var diag Diagnostics
	var o []*Axis
	for _, i := range indexes {
		axes := m.lookup(i)
		if len(axes) == 0 {
			diag.warnf("axis from index", "the axis with index %d is not present, creating a linear one", i)
			o = append(o, m.create(i))
			continue
		}
		for _, a := range axes {
			o = append(o, a.Copy())
		}
	}
	return o, diag
}

// NavAxes returns copies of the navigation axes, creating missing ones.
func (m *AxesManager) NavAxes() ([]*Axis, Diagnostics) {
	return m.axesFor(m.navIndexes)
}

// SignalAxes returns copies of the signal axes, creating missing ones.
func (m *AxesManager) SignalAxes() ([]*Axis, Diagnostics) {
	return m.axesFor(m.sigIndexes)
}

// NavIndexes returns the navigation dimensions.
func (m *AxesManager) NavIndexes() []int { return append([]int{}, m.navIndexes...) }

// SigIndexes returns the signal dimensions.
func (m *AxesManager) SigIndexes() []int { return append([]int{}, m.sigIndexes...) }

// SetNavIndexes makes the given dimensions the navigation dimensions and
// the remaining ones the signal dimensions. Every index must be described
// by an axis; otherwise the whole assignment is rejected with a warning
// and the previous partition is kept.
func (m *AxesManager) SetNavIndexes(indexes []int) Diagnostics {
	var diag Diagnostics
	axesIndexes := m.AxesIndexes()
	for i, index := range indexes {
		if !containsInt(axesIndexes, index) {
			diag.warnf("set nav indexes", "could not set navigation index %d: no axis declared for it", index)
			return diag
		}
		if containsInt(indexes[:i], index) {
			diag.warnf("set nav indexes", "could not set navigation index %d: given twice", index)
			return diag
		}
	}
	m.navIndexes = append([]int{}, indexes...)
	m.sigIndexes = m.complement()
	return diag
}

// SetSigIndexes makes the given dimensions the signal dimensions. An
// index that is a navigation dimension or is not described by an axis
// causes the whole assignment to be rejected with a warning.
func (m *AxesManager) SetSigIndexes(indexes []int) Diagnostics {
	var diag Diagnostics
	axesIndexes := m.AxesIndexes()
	for i, index := range indexes {
		if containsInt(m.navIndexes, index) {
			diag.warnf("set sig indexes", "could not set signal index %d: it is a navigation index", index)
			return diag
		}
		if !containsInt(axesIndexes, index) || containsInt(indexes[:i], index) {
			diag.warnf("set sig indexes", "could not set signal index %d: no axis declared for it", index)
			return diag
		}
	}
	m.sigIndexes = append([]int{}, indexes...)
	return diag
}

// IsAxisNavigation reports whether a describes a navigation dimension.
func (m *AxesManager) IsAxisNavigation(a *Axis) bool { return containsInt(m.navIndexes, a.index) }

// IsAxisSignal reports whether a describes a signal dimension.
func (m *AxesManager) IsAxisSignal(a *Axis) bool { return !m.IsAxisNavigation(a) }

// Shape returns the payload shape as described by the axes. Dimensions
// without an axis take their length from the payload.
func (m *AxesManager) Shape() []int {
	shape := append([]int{}, m.dataShape...)
	for i := range shape {
		if axes := m.lookup(i); len(axes) > 0 {
			shape[i] = axes[0].size
		}
	}
	return shape
}

// NavShape returns the lengths of the navigation dimensions.
func (m *AxesManager) NavShape() []int { return pick(m.Shape(), m.navIndexes) }

// SigShape returns the lengths of the signal dimensions.
func (m *AxesManager) SigShape() []int { return pick(m.Shape(), m.sigIndexes) }

func pick(shape, indexes []int) []int {
	o := make([]int, len(indexes))
	for i, index := range indexes {
		o[i] = shape[index]
	}
	return o
}

// Copy returns a deep copy of m.
func (m *AxesManager) Copy() *AxesManager {
	return &AxesManager{
		distribution: m.distribution,
		dataShape:    append([]int{}, m.dataShape...),
		axes:         m.Axes(),
		navIndexes:   m.NavIndexes(),
		sigIndexes:   m.SigIndexes(),
	}
}

// String summarizes the shape as (nav0, nav1|sig0, sig1).
func (m *AxesManager) String() string {
	join := func(s []int) string {
		o := make([]string, len(s))
		for i, v := range s {
			o[i] = strconv.Itoa(v)
		}
		return strings.Join(o, ", ")
	}
	return "(" + join(m.NavShape()) + "|" + join(m.SigShape()) + ")"
}
