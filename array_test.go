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
	"testing"

	"github.com/cockroachdb/errors"
)

func TestSubArray(t *testing.T) {
	a := mustArray(t, seq(24), 2, 3, 4)
	for _, test := range []struct {
		name string
		sel  []dimSel
		want []float64
		dims []int
	}{
		{
			name: "middle",
			sel:  []dimSel{{start: 0, stop: 2}, {start: 1, stop: 2, drop: true}, {start: 0, stop: 4}},
			want: []float64{4, 5, 6, 7, 16, 17, 18, 19},
			dims: []int{2, 4},
		},
		{
			name: "block",
			sel:  []dimSel{{start: 1, stop: 2}, {start: 1, stop: 3}, {start: 2, stop: 4}},
			want: []float64{18, 19, 22, 23},
			dims: []int{1, 2, 2},
		},
		{
			name: "point",
			sel:  []dimSel{{start: 1, stop: 2, drop: true}, {start: 2, stop: 3, drop: true}, {start: 3, stop: 4, drop: true}},
			want: []float64{23},
			dims: []int{1},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			arrayCompare(subArray(a, test.sel), mustArray(t, test.want, test.dims...), testTolerance, test.name, t)
		})
	}
}

func TestTranspose2D(t *testing.T) {
	a := mustArray(t, seq(6), 2, 3)
	arrayCompare(transpose2D(a), mustArray(t, []float64{0, 3, 1, 4, 2, 5}, 3, 2), testTolerance, "transpose", t)
}

func TestNewArray(t *testing.T) {
	if _, err := NewArray([]float64{1, 2, 3}, 2, 2); !errors.Is(err, ErrShape) {
		t.Errorf("want ErrShape, have %v", err)
	}
	if _, err := NewArray(nil, 0); !errors.Is(err, ErrShape) {
		t.Errorf("want ErrShape, have %v", err)
	}
	e := []float64{1, 2}
	a, err := NewArray(e)
	if err != nil {
		t.Fatal(err)
	}
	e[0] = 10
	if a.Elements[0] != 1 {
		t.Error("NewArray shares its elements with the caller")
	}
}

func TestShapeString(t *testing.T) {
	for _, test := range []struct {
		shape []int
		want  string
	}{
		{shape: []int{10}, want: "(10,)"},
		{shape: []int{50, 100}, want: "(50, 100)"},
		{shape: nil, want: "()"},
	} {
		if have := shapeString(test.shape); have != test.want {
			t.Errorf("have %q, want %q", have, test.want)
		}
	}
}

func TestSliceResolve(t *testing.T) {
	for _, test := range []struct {
		s       Slice
		n       int
		want    dimSel
		wantErr error
	}{
		{s: At(2), n: 5, want: dimSel{start: 2, stop: 3, drop: true}},
		{s: At(-1), n: 5, want: dimSel{start: 4, stop: 5, drop: true}},
		{s: At(5), n: 5, wantErr: ErrIndex},
		{s: Range(1, 3), n: 5, want: dimSel{start: 1, stop: 3}},
		{s: Range(-2, 100), n: 5, want: dimSel{start: 3, stop: 5}},
		{s: All(), n: 5, want: dimSel{start: 0, stop: 5}},
		{s: Range(4, 2), n: 5, wantErr: ErrIndex},
	} {
		t.Run(test.s.String(), func(t *testing.T) {
			have, err := test.s.resolve(test.n)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("want %v, have %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if have != test.want {
				t.Errorf("have %+v, want %+v", have, test.want)
			}
		})
	}
}
