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
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Tolerances used for near-equality of floating point values:
// |a-b| <= absTol + relTol*|b|.
const (
	relTol = 1e-5
	absTol = 1e-8
)

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= absTol+relTol*math.Abs(b)
}

// allClose reports whether a and b have the same length and are
// element-wise close.
func allClose(a, b []float64) bool {
	return floats.EqualFunc(a, b, isClose)
}

// NewArray returns a dense array with the given shape holding a copy of
// elements. If no shape is given the array is one-dimensional.
func NewArray(elements []float64, shape ...int) (*sparse.DenseArray, error) {
	if len(shape) == 0 {
		shape = []int{len(elements)}
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, errors.Wrapf(ErrShape, "dimension lengths must be positive, have %v", shape)
		}
		n *= d
	}
	if n != len(elements) {
		return nil, errors.Wrapf(ErrShape, "shape %v holds %d elements but %d were given", shape, n, len(elements))
	}
	a := sparse.ZerosDense(append([]int(nil), shape...)...)
	copy(a.Elements, elements)
	return a, nil
}

// copyArray returns a deep copy of a, including its shape.
func copyArray(a *sparse.DenseArray) *sparse.DenseArray {
	b := sparse.ZerosDense(shapeOf(a)...)
	copy(b.Elements, a.Elements)
	return b
}

func copyArrays(a []*sparse.DenseArray) []*sparse.DenseArray {
	o := make([]*sparse.DenseArray, len(a))
	for i, aa := range a {
		o[i] = copyArray(aa)
	}
	return o
}

func shapeOf(a *sparse.DenseArray) []int {
	return append([]int(nil), a.Shape...)
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}

func shapeSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// shapeString formats a shape as a parenthesized tuple, e.g. (10,) or
// (50, 100).
func shapeString(shape []int) string {
	s := make([]string, len(shape))
	for i, d := range shape {
		s[i] = strconv.Itoa(d)
	}
	if len(s) == 1 {
		return "(" + s[0] + ",)"
	}
	return "(" + strings.Join(s, ", ") + ")"
}

// checkArray makes sure a is usable as a payload array.
func checkArray(a *sparse.DenseArray) error {
	if a == nil {
		return errors.Wrap(ErrType, "payload array is nil")
	}
	if len(a.Shape) == 0 {
		return errors.Wrap(ErrType, "payload array has no dimensions")
	}
	if n := shapeSize(a.Shape); n == 0 || n != len(a.Elements) {
		return errors.Wrapf(ErrShape, "payload array of shape %v holds %d elements", a.Shape, len(a.Elements))
	}
	return nil
}

// toArrays converts the supported payload representations into a list
// of arrays. Anything other than a list of arrays is wrapped into a
// one-element list and a warning is issued.
func toArrays(op string, data interface{}) ([]*sparse.DenseArray, Diagnostics, error) {
	var diag Diagnostics
	var arrays []*sparse.DenseArray
	switch d := data.(type) {
	case []*sparse.DenseArray:
		arrays = append(arrays, d...)
	case *sparse.DenseArray:
		diag.warnf(op, "data should be a list of arrays, not a single array; wrapping it in a list")
		arrays = []*sparse.DenseArray{d}
	case []float64:
		diag.warnf(op, "data should be a list of arrays, not a slice; wrapping it in a list")
		a, err := NewArray(d)
		if err != nil {
			return nil, diag, err
		}
		arrays = []*sparse.DenseArray{a}
	case float64:
		diag.warnf(op, "data should be a list of arrays, not a scalar; wrapping it in a list")
		arrays = []*sparse.DenseArray{scalarArray(d)}
	case int:
		diag.warnf(op, "data should be a list of arrays, not a scalar; wrapping it in a list")
		arrays = []*sparse.DenseArray{scalarArray(float64(d))}
	default:
		return nil, diag, errors.Wrapf(ErrType, "data of type %T cannot be used as a payload", data)
	}
	if len(arrays) == 0 {
		return nil, diag, errors.Wrap(ErrType, "data should be a non-empty list of non-empty arrays")
	}
	for _, a := range arrays {
		if err := checkArray(a); err != nil {
			return nil, diag, err
		}
	}
	return arrays, diag, nil
}

func scalarArray(v float64) *sparse.DenseArray {
	a := sparse.ZerosDense(1)
	a.Elements[0] = v
	return a
}

// strides returns the row-major element strides of shape.
func strides(shape []int) []int {
	s := make([]int, len(shape))
	mul := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = mul
		mul *= shape[i]
	}
	return s
}

// dimSel selects the half-open range [start, stop) of one dimension.
// A dropped dimension has stop == start+1 and does not appear in the
// output shape.
type dimSel struct {
	start, stop int
	drop        bool
}

// subArray copies the selected block out of a. When every dimension is
// dropped the result has shape (1,).
func subArray(a *sparse.DenseArray, sel []dimSel) *sparse.DenseArray {
	counts := make([]int, len(sel))
	var outShape []int
	for i, s := range sel {
		counts[i] = s.stop - s.start
		if !s.drop {
			outShape = append(outShape, counts[i])
		}
	}
	if len(outShape) == 0 {
		outShape = []int{1}
	}
	out := sparse.ZerosDense(outShape...)
	st := strides(a.Shape)
	idx := make([]int, len(sel))
	for n := range out.Elements {
		pos := 0
		for d, s := range sel {
			pos += (s.start + idx[d]) * st[d]
		}
		out.Elements[n] = a.Elements[pos]
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < counts[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}

// transpose2D returns the transpose of a two-dimensional array.
func transpose2D(a *sparse.DenseArray) *sparse.DenseArray {
	r, c := a.Shape[0], a.Shape[1]
	m := mat.NewDense(r, c, append([]float64(nil), a.Elements...))
	t := mat.DenseCopyOf(m.T())
	out := sparse.ZerosDense(c, r)
	copy(out.Elements, t.RawMatrix().Data)
	return out
}

// combineArrays applies f element-wise to each pair of arrays in a and
// b and returns the results as new arrays.
func combineArrays(op string, a, b []*sparse.DenseArray, f func(dst, s []float64)) ([]*sparse.DenseArray, error) {
	if len(a) != len(b) {
		return nil, errors.Wrapf(ErrLength, "%s: operands hold %d and %d arrays", op, len(a), len(b))
	}
	out := make([]*sparse.DenseArray, len(a))
	for i := range a {
		if !sameShape(a[i].Shape, b[i].Shape) {
			return nil, errors.Wrapf(ErrShape, "%s: array %d has shapes %v and %v", op, i, a[i].Shape, b[i].Shape)
		}
		out[i] = copyArray(a[i])
		f(out[i].Elements, b[i].Elements)
	}
	return out, nil
}

func scaleArrays(a []*sparse.DenseArray, s float64) []*sparse.DenseArray {
	out := copyArrays(a)
	for _, o := range out {
		o.Scale(s)
	}
	return out
}

// averageArrays returns (other*(weight-1) + a) / weight.
func averageArrays(a, other []*sparse.DenseArray, weight float64) ([]*sparse.DenseArray, error) {
	out, err := combineArrays("average", scaleArrays(other, weight-1), a, floats.Add)
	if err != nil {
		return nil, err
	}
	for _, o := range out {
		o.Scale(1 / weight)
	}
	return out, nil
}
