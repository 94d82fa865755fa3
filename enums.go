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

import "github.com/cockroachdb/errors"

// DataDim is the dimensionality class of a payload.
type DataDim int

// Dimensionality classes. The string names are stable and are used
// when data are serialized.
const (
	Data0D DataDim = iota
	Data1D
	Data2D
	DataND
)

var dataDimNames = []string{"Data0D", "Data1D", "Data2D", "DataND"}

// DataDims lists every dimensionality class in ascending order.
func DataDims() []DataDim { return []DataDim{Data0D, Data1D, Data2D, DataND} }

func (d DataDim) String() string {
	if d < 0 || int(d) >= len(dataDimNames) {
		return "DataDim(invalid)"
	}
	return dataDimNames[d]
}

// ParseDataDim returns the dimensionality class with the given name.
func ParseDataDim(s string) (DataDim, error) {
	i, err := parseEnum(s, dataDimNames)
	return DataDim(i), err
}

// dimFromShape classifies a payload shape.
func dimFromShape(shape []int) DataDim {
	switch {
	case len(shape) == 1 && shape[0] == 1:
		return Data0D
	case len(shape) == 1 && shape[0] > 1:
		return Data1D
	case len(shape) == 2:
		return Data2D
	default:
		return DataND
	}
}

// DataSource tells whether data come straight from an instrument or
// were computed.
type DataSource int

// Data sources.
const (
	Raw DataSource = iota
	Calculated
)

var dataSourceNames = []string{"raw", "calculated"}

func (s DataSource) String() string {
	if s < 0 || int(s) >= len(dataSourceNames) {
		return "DataSource(invalid)"
	}
	return dataSourceNames[s]
}

// ParseDataSource returns the source with the given name.
func ParseDataSource(s string) (DataSource, error) {
	i, err := parseEnum(s, dataSourceNames)
	return DataSource(i), err
}

// DataDistribution tells whether data lie on a regular grid (Uniform)
// or on scattered points (Spread).
type DataDistribution int

// Data distributions.
const (
	Uniform DataDistribution = iota
	Spread
)

var dataDistributionNames = []string{"uniform", "spread"}

func (d DataDistribution) String() string {
	if d < 0 || int(d) >= len(dataDistributionNames) {
		return "DataDistribution(invalid)"
	}
	return dataDistributionNames[d]
}

// ParseDataDistribution returns the distribution with the given name.
func ParseDataDistribution(s string) (DataDistribution, error) {
	i, err := parseEnum(s, dataDistributionNames)
	return DataDistribution(i), err
}

// Kind records which specialization of DataWithAxes a value was built
// as.
type Kind int

// Kinds of DataWithAxes.
const (
	KindWithAxes Kind = iota
	KindRaw
	KindFromPlugins
	KindCalculated
	KindFromRoi
)

var kindNames = []string{"DataWithAxes", "DataRaw", "DataFromPlugins", "DataCalculated", "DataFromRoi"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(invalid)"
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	i, err := parseEnum(s, kindNames)
	return Kind(i), err
}

// source returns the source forced by k, and false if k does not force
// one.
func (k Kind) source() (DataSource, bool) {
	switch k {
	case KindRaw, KindFromPlugins:
		return Raw, true
	case KindCalculated, KindFromRoi:
		return Calculated, true
	}
	return Raw, false
}

func parseEnum(s string, names []string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrType, "%q is not one of %v", s, names)
}
