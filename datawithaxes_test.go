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
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// cube returns data of shape (2, 3, 4) holding 0..23, with one axis per
// dimension and dimension 1 as navigation.
func cube(t *testing.T) *DataWithAxes {
	t.Helper()
	d, diag, err := NewDataRaw("cube", []*sparse.DenseArray{mustArray(t, seq(24), 2, 3, 4)},
		WithAxes(
			mustLinearAxis(t, "a", 0, 1, 2, 0),
			mustLinearAxis(t, "n", 10, 2, 3, 1),
			mustLinearAxis(t, "b", -1, 0.5, 4, 2),
		),
		WithNavIndexes(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(diag) != 0 {
		t.Fatalf("unexpected warnings %v", diag.Strings())
	}
	return d
}

func scanData(t *testing.T) *DataWithAxes {
	t.Helper()
	s, err := GaussianScan("scan", 10, 200)
	if err != nil {
		t.Fatal(err)
	}
	d, err := s.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDataRaw(t *testing.T) {
	d, diag, err := NewDataRaw("d", []*sparse.DenseArray{sparse.ZerosDense(10)})
	if err != nil {
		t.Fatal(err)
	}
	if len(diag) != 0 {
		t.Errorf("unexpected warnings %v", diag.Strings())
	}
	if d.Dim() != Data1D {
		t.Errorf("dim: have %v", d.Dim())
	}
	if !reflect.DeepEqual(d.Shape(), []int{10}) {
		t.Errorf("shape: have %v", d.Shape())
	}
	if !reflect.DeepEqual(d.Labels(), []string{"CH00"}) {
		t.Errorf("labels: have %v", d.Labels())
	}
	if d.Kind() != KindRaw || d.Source() != Raw {
		t.Errorf("have kind %v and source %v", d.Kind(), d.Source())
	}
}

func TestDataKindSource(t *testing.T) {
	for _, test := range []struct {
		kind   Kind
		source DataSource
		want   DataSource
	}{
		{kind: KindWithAxes, source: Calculated, want: Calculated},
		{kind: KindRaw, source: Calculated, want: Raw},
		{kind: KindFromPlugins, source: Calculated, want: Raw},
		{kind: KindCalculated, source: Raw, want: Calculated},
		{kind: KindFromRoi, source: Raw, want: Calculated},
	} {
		t.Run(test.kind.String(), func(t *testing.T) {
			d, _, err := NewData(test.kind, "d", test.source, []*sparse.DenseArray{sparse.ZerosDense(3)})
			if err != nil {
				t.Fatal(err)
			}
			if d.Source() != test.want {
				t.Errorf("have %v, want %v", d.Source(), test.want)
			}
		})
	}
	d, _, err := NewDataFromRoi("roi", []*sparse.DenseArray{sparse.ZerosDense(3)})
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != KindFromRoi || d.Source() != Calculated {
		t.Errorf("have %v", d)
	}
}

func TestDataWithAxesDim(t *testing.T) {
	d, _, err := NewDataRaw("d", []*sparse.DenseArray{sparse.ZerosDense(10)}, WithNavIndexes(0))
	if err != nil {
		t.Fatal(err)
	}
	if d.Dim() != DataND {
		t.Errorf("data with navigation dimensions should be DataND, have %v", d.Dim())
	}

	c := cube(t)
	if diag := c.SetNavIndexes(); len(diag) != 0 {
		t.Errorf("unexpected warnings %v", diag.Strings())
	}
	if c.Dim() != DataND || len(c.NavIndexes()) != 0 {
		t.Errorf("have %v with navigation %v", c.Dim(), c.NavIndexes())
	}

	e, _, err := NewDataRaw("e", []*sparse.DenseArray{sparse.ZerosDense(4, 5)}, WithAxes(mustLinearAxis(t, "x", 0, 1, 5, 1)))
	if err != nil {
		t.Fatal(err)
	}
	if e.Dim() != Data2D {
		t.Errorf("have %v", e.Dim())
	}
	if diag := e.SetNavIndexes(0); len(diag) != 1 {
		t.Errorf("dimension 0 has no axis: want 1 warning, have %v", diag.Strings())
	}
	if diag := e.SetNavIndexes(1); len(diag) != 0 || e.Dim() != DataND {
		t.Errorf("have %v with warnings %v", e.Dim(), diag.Strings())
	}
	if _, err := e.SetData([]*sparse.DenseArray{sparse.ZerosDense(5, 4)}); !errors.Is(err, ErrShape) {
		t.Errorf("want ErrShape, have %v", err)
	}
}

func TestDataWithAxesSpread(t *testing.T) {
	const n = 5
	x := mustAxis(t, "x", "", []float64{0.1, 0.9, 0.3, 0.5, 0.2}, 0)
	y := mustAxis(t, "y", "", []float64{1.5, -0.2, 0.7, 0.6, 0.1}, 0)
	y.SpreadOrder = 1

	t.Run("0D", func(t *testing.T) {
		d, diag, err := NewDataRaw("spread", []*sparse.DenseArray{mustArray(t, []float64{1, 2, 3, 4, 5})},
			WithDistribution(Spread), WithAxes(x, y), WithNavIndexes(0))
		if err != nil {
			t.Fatal(err)
		}
		if len(diag) != 0 {
			t.Errorf("unexpected warnings %v", diag.Strings())
		}
		if d.Dim() != DataND || d.Distribution() != Spread {
			t.Errorf("have %v, %v", d.Dim(), d.Distribution())
		}
		nav, _ := d.NavAxes()
		if len(nav) != 2 || nav[1].Label != "y" || !floats.Equal(nav[1].Data(), y.Data()) {
			t.Errorf("navigation axes: have %v", nav)
		}
		if s := d.DataDimension(); s != "(5|)" {
			t.Errorf("have %q", s)
		}
	})
	t.Run("1D", func(t *testing.T) {
		const nx = 8
		sig := mustLinearAxis(t, "sig", 0, 1, nx, 1)
		d, _, err := NewDataRaw("spread", []*sparse.DenseArray{sparse.ZerosDense(n, nx)},
			WithDistribution(Spread), WithAxes(x, sig), WithNavIndexes(0))
		if err != nil {
			t.Fatal(err)
		}
		if s := d.DataDimension(); s != "(5|8)" {
			t.Errorf("have %q", s)
		}
		sub, _, err := d.Inav(Range(1, 3))
		if err != nil {
			t.Fatal(err)
		}
		a, _, err := sub.AxisFromIndex(0, false)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.Equal(a.Data(), []float64{0.9, 0.3}) {
			t.Errorf("have %v", a.Data())
		}
		if sub.Distribution() != Spread {
			t.Error("slicing lost the distribution")
		}
	})
}

func TestInav(t *testing.T) {
	d := scanData(t)
	if s := d.String(); s != "<DataRaw, mydata, (10|200)>" {
		t.Errorf("have %q", s)
	}
	t.Run("single", func(t *testing.T) {
		r, _, err := d.Inav(At(3))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r.Shape(), []int{200}) || r.Dim() != Data1D || len(r.NavIndexes()) != 0 {
			t.Errorf("have shape %v, dim %v, navigation %v", r.Shape(), r.Dim(), r.NavIndexes())
		}
		if r.Kind() != KindWithAxes || r.Source() != Calculated || r.Origin != "scan" {
			t.Errorf("have kind %v, source %v, origin %q", r.Kind(), r.Source(), r.Origin)
		}
		sig, _, err := r.AxisFromIndex(0, false)
		if err != nil {
			t.Fatal(err)
		}
		if sig == nil || sig.Label != "sig" || sig.Size() != 200 {
			t.Errorf("have %v", sig)
		}
		want := mustArray(t, d.data[0].Elements[3*200:4*200])
		arrayCompare(r.data[0], want, testTolerance, "row", t)
	})
	t.Run("range", func(t *testing.T) {
		r, _, err := d.Inav(Range(2, 5))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r.Shape(), []int{3, 200}) || !reflect.DeepEqual(r.NavIndexes(), []int{0}) || r.Dim() != DataND {
			t.Errorf("have shape %v, navigation %v, dim %v", r.Shape(), r.NavIndexes(), r.Dim())
		}
		nav, _, _ := r.AxisFromIndex(0, false)
		if nav.Offset() != 2 || nav.Size() != 3 {
			t.Errorf("have offset %g, size %d", nav.Offset(), nav.Size())
		}
	})
	t.Run("errors", func(t *testing.T) {
		if _, _, err := d.Inav(At(0), At(0)); !errors.Is(err, ErrIndex) {
			t.Errorf("want ErrIndex, have %v", err)
		}
		if _, _, err := d.Inav(At(10)); !errors.Is(err, ErrIndex) {
			t.Errorf("want ErrIndex, have %v", err)
		}
	})
}

func TestIsig(t *testing.T) {
	d := scanData(t)
	t.Run("range", func(t *testing.T) {
		r, _, err := d.Isig(Range(10, 20))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r.Shape(), []int{10, 10}) || !reflect.DeepEqual(r.NavIndexes(), []int{0}) {
			t.Errorf("have shape %v, navigation %v", r.Shape(), r.NavIndexes())
		}
		sig, _, _ := r.AxisFromIndex(1, false)
		if sig.Offset() != -90 || sig.Size() != 10 {
			t.Errorf("have offset %g, size %d", sig.Offset(), sig.Size())
		}
	})
	t.Run("single", func(t *testing.T) {
		r, _, err := d.Isig(At(5))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r.Shape(), []int{10}) || r.Dim() != DataND {
			t.Errorf("have shape %v, dim %v", r.Shape(), r.Dim())
		}
		col := make([]float64, 10)
		for i := range col {
			col[i] = d.data[0].Elements[i*200+5]
		}
		arrayCompare(r.data[0], mustArray(t, col), testTolerance, "column", t)
	})
}

func TestSliceRenumbering(t *testing.T) {
	c := cube(t)
	t.Run("nav", func(t *testing.T) {
		r, _, err := c.Inav(At(1))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r.Shape(), []int{2, 4}) || len(r.NavIndexes()) != 0 {
			t.Errorf("have shape %v, navigation %v", r.Shape(), r.NavIndexes())
		}
		for index, label := range []string{"a", "b"} {
			a, _, err := r.AxisFromIndex(index, false)
			if err != nil {
				t.Fatal(err)
			}
			if a == nil || a.Label != label {
				t.Errorf("axis %d: have %v, want %s", index, a, label)
			}
		}
		arrayCompare(r.data[0], mustArray(t, []float64{4, 5, 6, 7, 16, 17, 18, 19}, 2, 4), testTolerance, "values", t)
	})
	t.Run("sig", func(t *testing.T) {
		r, _, err := c.Isig(At(0))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r.Shape(), []int{3, 4}) || !reflect.DeepEqual(r.NavIndexes(), []int{0}) {
			t.Errorf("have shape %v, navigation %v", r.Shape(), r.NavIndexes())
		}
		for index, label := range []string{"n", "b"} {
			a, _, _ := r.AxisFromIndex(index, false)
			if a == nil || a.Label != label {
				t.Errorf("axis %d: have %v, want %s", index, a, label)
			}
		}
		arrayCompare(r.data[0], mustArray(t, seq(12), 3, 4), testTolerance, "values", t)
	})
	t.Run("partial", func(t *testing.T) {
		r, _, err := c.Isig(All(), Range(1, 3))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r.Shape(), []int{2, 3, 2}) {
			t.Errorf("have shape %v", r.Shape())
		}
		b, _, _ := r.AxisFromIndex(2, false)
		if b.Offset() != -0.5 || b.Size() != 2 {
			t.Errorf("have offset %g, size %d", b.Offset(), b.Size())
		}
	})
	if !reflect.DeepEqual(c.Shape(), []int{2, 3, 4}) {
		t.Error("slicing modified the original data")
	}
}

func TestDeepCopyWithNewData(t *testing.T) {
	d := scanData(t)
	sums := make([]float64, 10)
	for i := range sums {
		sums[i] = floats.Sum(d.data[0].Elements[i*200 : (i+1)*200])
	}
	r, diag, err := d.DeepCopyWithNewData([]*sparse.DenseArray{mustArray(t, sums)}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(diag) != 0 {
		t.Errorf("unexpected warnings %v", diag.Strings())
	}
	if !reflect.DeepEqual(r.Shape(), []int{10}) || !reflect.DeepEqual(r.NavIndexes(), []int{0}) || r.Dim() != DataND {
		t.Errorf("have shape %v, navigation %v, dim %v", r.Shape(), r.NavIndexes(), r.Dim())
	}
	axes := r.Axes()
	if len(axes) != 1 || axes[0].Label != "nav" {
		t.Errorf("have axes %v", axes)
	}
	if r.Kind() != KindRaw || r.Name() != "mydata" || r.Origin != "scan" {
		t.Errorf("have %v from %q", r, r.Origin)
	}
	if !reflect.DeepEqual(d.Shape(), []int{10, 200}) || len(d.Axes()) != 2 {
		t.Error("the original data were modified")
	}

	t.Run("wrong_rank", func(t *testing.T) {
		_, _, err := d.DeepCopyWithNewData([]*sparse.DenseArray{sparse.ZerosDense(10, 2)}, 1)
		if !errors.Is(err, ErrShape) {
			t.Errorf("want ErrShape, have %v", err)
		}
	})
	t.Run("bad_index", func(t *testing.T) {
		_, _, err := d.DeepCopyWithNewData([]*sparse.DenseArray{sparse.ZerosDense(10)}, 2)
		if !errors.Is(err, ErrIndex) {
			t.Errorf("want ErrIndex, have %v", err)
		}
	})
	t.Run("scalar", func(t *testing.T) {
		r, _, err := d.DeepCopyWithNewData([]*sparse.DenseArray{sparse.ZerosDense(1)}, 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		if r.Dim() != Data0D || len(r.Axes()) != 0 {
			t.Errorf("have %v with axes %v", r.Dim(), r.Axes())
		}
	})
}

func TestTranspose(t *testing.T) {
	d, diag, err := NewDataRaw("img", []*sparse.DenseArray{mustArray(t, seq(6), 2, 3)},
		WithXAxis(mustLinearAxis(t, "x", 0, 1, 3, 0)),
		WithYAxis(mustLinearAxis(t, "y", 0, 1, 2, 0)))
	if err != nil {
		t.Fatal(err)
	}
	if len(diag) != 0 {
		t.Errorf("unexpected warnings %v", diag.Strings())
	}
	if err := d.Transpose(); err != nil {
		t.Fatal(err)
	}
	arrayCompare(d.data[0], mustArray(t, []float64{0, 3, 1, 4, 2, 5}, 3, 2), testTolerance, "transpose", t)
	if x, _, _ := d.AxisFromIndex(0, false); x == nil || x.Label != "x" {
		t.Errorf("have %v", x)
	}
	if y, _, _ := d.AxisFromIndex(1, false); y == nil || y.Label != "y" {
		t.Errorf("have %v", y)
	}
	if s := d.DataDimension(); s != "(|3, 2)" {
		t.Errorf("have %q", s)
	}

	one, _, err := NewDataRaw("line", []*sparse.DenseArray{sparse.ZerosDense(4)})
	if err != nil {
		t.Fatal(err)
	}
	if err := one.Transpose(); !errors.Is(err, ErrShape) {
		t.Errorf("want ErrShape, have %v", err)
	}
}

func TestDataWithAxesArithmetic(t *testing.T) {
	a := cube(t)
	b := a.Mul(3)
	s, err := b.Sub(a)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Equal(a.Mul(2)) {
		t.Error("3a-a should equal 2a")
	}
	if len(s.Axes()) != 3 || !reflect.DeepEqual(s.NavIndexes(), []int{1}) {
		t.Error("arithmetic lost the axes")
	}
	avg, err := a.Average(b, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !avg.Equal(a.Mul(2)) {
		t.Error("(3a + a)/2 should equal 2a")
	}
	sum, err := a.Add(a.Div(2))
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Equal(a.Mul(1.5)) {
		t.Error("a + a/2 should equal 1.5a")
	}
}

func TestDataWithAxesCopyEqual(t *testing.T) {
	a := cube(t)
	c := a.Copy()
	if !c.Equal(a) {
		t.Fatal("copy should be equal")
	}
	c.SetNavIndexes(0)
	if c.Equal(a) || !reflect.DeepEqual(a.NavIndexes(), []int{1}) {
		t.Error("copy shares the axes manager")
	}
	e := a.Copy()
	e.SetAxes(mustLinearAxis(t, "a", 0, 2, 2, 0))
	if e.Equal(a) {
		t.Error("different axes should not be equal")
	}
	nav, _ := a.NavAxesWithData()
	if len(nav) != 1 || !floats.Equal(nav[0].Data(), []float64{10, 12, 14}) {
		t.Errorf("have %v", nav)
	}
}

func TestInavSingleElementRange(t *testing.T) {
	d := scanData(t)
	r, _, err := d.Inav(Range(3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r.Shape(), []int{1, 200}) || !reflect.DeepEqual(r.NavIndexes(), []int{0}) {
		t.Errorf("a range should keep its dimension, have shape %v, navigation %v", r.Shape(), r.NavIndexes())
	}
	if have := r.DataDimension(); have != "(1|200)" {
		t.Errorf("have %s", have)
	}
}
