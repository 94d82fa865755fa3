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

	"github.com/cockroachdb/errors"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Gauss1D returns exp(-2 ln2 ((x-x0)/dx)^2) for each x, a gaussian of
// full width at half maximum dx centered on x0.
func Gauss1D(x []float64, x0, dx float64) []float64 {
	o := make([]float64, len(x))
	for i, v := range x {
		r := (v - x0) / dx
		o[i] = math.Exp(-2 * math.Ln2 * r * r)
	}
	return o
}

// GaussianScan returns a scan of nnav gaussian spectra of nsig points
// each, shifted along the signal axis at every navigation step. The
// result holds one DataRaw named "mydata" with navigation dimension 0
// and axes "nav" and "sig".
func GaussianScan(name string, nnav, nsig int) (*DataScan, error) {
	if nnav < 1 || nsig < 2 {
		return nil, errors.Wrapf(ErrShape, "a scan needs at least 1 navigation and 2 signal points, have %d and %d", nnav, nsig)
	}
	x := make([]float64, nsig)
	floats.Span(x, -float64(nsig)/2, float64(nsig)/2-1)

	dat := sparse.ZerosDense(nnav, nsig)
	for i := 0; i < nnav; i++ {
		g := Gauss1D(x, 50*(float64(i)-float64(nnav)/2), 25/math.Sqrt2)
		copy(dat.Elements[i*nsig:(i+1)*nsig], g)
	}
	nav, err := NewLinearAxis("nav", "", 0, 1, nnav, 0)
	if err != nil {
		return nil, err
	}
	sig, err := NewAxis("sig", "", x, 1)
	if err != nil {
		return nil, err
	}
	d, _, err := NewDataRaw("mydata", []*sparse.DenseArray{dat}, WithNavIndexes(0), WithAxes(nav, sig), WithOrigin(name))
	if err != nil {
		return nil, err
	}
	return NewDataScan(name, d)
}
