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

// Package ncstore saves collections of labeled data to NetCDF files and
// loads them back.
package ncstore

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/acqdata"
)

// FileVersion identifies the file layout written by Save. Load rejects
// files written with a different layout.
const FileVersion = "1.0"

const (
	collectionData = "DataToExport"
	collectionScan = "DataScan"
)

// countVar holds the number of data items. Every file has it, so the
// header of an empty collection still defines a variable.
const (
	countVar = "ndata"
	countDim = "ndata_n"
)

func memberPrefix(i int) string { return fmt.Sprintf("data%02d.", i) }
func axisPrefix(i, j int) string { return fmt.Sprintf("data%02d.axis%02d.", i, j) }
func labelAttr(i, k int) string { return fmt.Sprintf("data%02d.label%02d", i, k) }
func channelVar(i, k int) string { return fmt.Sprintf("data%02d_ch%02d", i, k) }
func payloadDim(i, d int) string { return fmt.Sprintf("data%02d_dim%d", i, d) }
func axisVar(i, j int) string { return fmt.Sprintf("data%02d_axis%02d", i, j) }
func axisDim(i, j int) string { return axisVar(i, j) + "_n" }

// explicitAxis reports whether the coordinates of a are stored in a
// variable of their own.
func explicitAxis(a *acqdata.Axis) bool { return a.IsExplicit() && a.Size() > 0 }

// SaveFile writes dte to a new file at path. See Save. The file is
// removed if it cannot be written completely.
func SaveFile(path string, dte *acqdata.DataToExport, scan bool) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "ncstore")
	}
	err = Save(f, dte, scan)
	if err == nil {
		if err = cdf.UpdateNumRecs(f); err != nil {
			err = errors.Wrap(err, "ncstore")
		}
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "ncstore")
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// Save writes dte to w as a NetCDF file. If scan is true the file
// records that the collection is a DataScan.
func Save(w cdf.ReaderWriterAt, dte *acqdata.DataToExport, scan bool) error {
	members := dte.Data()
	axes := make([][]*acqdata.Axis, len(members))

	dims := []string{countDim}
	lengths := []int{1}
	for i, d := range members {
		for k, n := range d.Shape() {
			dims = append(dims, payloadDim(i, k))
			lengths = append(lengths, n)
		}
		axes[i] = d.Axes()
		for j, a := range axes[i] {
			if explicitAxis(a) {
				dims = append(dims, axisDim(i, j))
				lengths = append(lengths, a.Size())
			}
		}
	}

	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "acqdata labeled data file")
	h.AddAttribute("", "data_version", FileVersion)
	addString(h, "", "title", dte.Name())
	h.AddAttribute("", "timestamp", dte.Timestamp().Format(time.RFC3339Nano))
	if scan {
		h.AddAttribute("", "collection", collectionScan)
	} else {
		h.AddAttribute("", "collection", collectionData)
	}
	h.AddAttribute("", "ndata", []int32{int32(len(members))})
	h.AddVariable(countVar, []string{countDim}, []int32{0})
	h.AddAttribute(countVar, "description", "number of data items")
	for i, d := range members {
		defineMember(h, i, d, axes[i])
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return errors.Wrap(err, "ncstore: writing header")
	}
	if err := writeVar(f, countVar, []int32{int32(len(members))}, 1); err != nil {
		return errors.Wrap(err, "ncstore: writing item count")
	}
	for i, d := range members {
		for k, a := range d.Data() {
			if err := writeVar(f, channelVar(i, k), a.Elements, len(a.Elements)); err != nil {
				return errors.Wrapf(err, "ncstore: writing %s", d.FullName())
			}
		}
		for j, a := range axes[i] {
			if !explicitAxis(a) {
				continue
			}
			if err := writeVar(f, axisVar(i, j), a.Data(), a.Size()); err != nil {
				return errors.Wrapf(err, "ncstore: writing axis %q of %s", a.Label, d.FullName())
			}
		}
	}
	return nil
}

func defineMember(h *cdf.Header, i int, d *acqdata.DataWithAxes, axes []*acqdata.Axis) {
	p := memberPrefix(i)
	addString(h, "", p+"name", d.Name())
	addString(h, "", p+"origin", d.Origin)
	h.AddAttribute("", p+"kind", d.Kind().String())
	h.AddAttribute("", p+"source", d.Source().String())
	h.AddAttribute("", p+"dim", d.Dim().String())
	h.AddAttribute("", p+"distribution", d.Distribution().String())
	h.AddAttribute("", p+"timestamp", d.Timestamp().Format(time.RFC3339Nano))
	for k, l := range d.Labels() {
		addString(h, "", labelAttr(i, k), l)
	}
	h.AddAttribute("", p+"shape", int32s(d.Shape()))
	if nav := d.NavIndexes(); len(nav) > 0 {
		h.AddAttribute("", p+"nav_indexes", int32s(nav))
	}
	h.AddAttribute("", p+"naxes", []int32{int32(len(axes))})

	for j, a := range axes {
		ap := axisPrefix(i, j)
		addString(h, "", ap+"label", a.Label)
		addString(h, "", ap+"units", a.Units)
		h.AddAttribute("", ap+"index", []int32{int32(a.Index())})
		h.AddAttribute("", ap+"spread_order", []int32{int32(a.SpreadOrder)})
		h.AddAttribute("", ap+"offset", []float64{a.Offset()})
		h.AddAttribute("", ap+"scaling", []float64{a.Scaling()})
		h.AddAttribute("", ap+"size", []int32{int32(a.Size())})
		if explicitAxis(a) {
			h.AddAttribute("", ap+"explicit", []int32{1})
			v := axisVar(i, j)
			h.AddVariable(v, []string{axisDim(i, j)}, []float64{0})
			addString(h, v, "description", fmt.Sprintf("coordinates of axis %q of %s", a.Label, d.FullName()))
			addString(h, v, "units", a.Units)
		} else {
			h.AddAttribute("", ap+"explicit", []int32{0})
		}
	}

	dims := make([]string, len(d.Shape()))
	for k := range dims {
		dims[k] = payloadDim(i, k)
	}
	labels := d.Labels()
	for k := 0; k < d.Length(); k++ {
		v := channelVar(i, k)
		h.AddVariable(v, dims, []float64{0})
		addString(h, v, "description", fmt.Sprintf("%s channel %s", d.FullName(), labels[k]))
	}
}

// addString adds a string attribute unless value is empty.
func addString(h *cdf.Header, v, name, value string) {
	if value != "" {
		h.AddAttribute(v, name, value)
	}
}

func int32s(v []int) []int32 {
	o := make([]int32, len(v))
	for i, e := range v {
		o[i] = int32(e)
	}
	return o
}

// writeVar writes all n values of the fixed-size variable name.
func writeVar(f *cdf.File, name string, values interface{}, n int) error {
	if want := shapeSize(f.Header.Lengths(name)); want != n {
		return errors.Newf("variable %s holds %d values but %d were given", name, want, n)
	}
	written, err := f.Writer(name, nil, nil).Write(values)
	if errors.Is(err, io.EOF) && written == n {
		// The writer reports EOF once it reaches the end of the variable.
		err = nil
	}
	if err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	if written != n {
		return errors.Newf("wrote %d of %d values of %s", written, n, name)
	}
	return nil
}

func shapeSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// LoadFile reads the collection saved in the file at path. See Load.
func LoadFile(path string) (*acqdata.DataToExport, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, errors.Wrap(err, "ncstore")
	}
	defer f.Close()
	return Load(f)
}

// Load reads a collection written by Save. The returned bool reports
// whether the collection was saved as a DataScan.
func Load(r cdf.ReaderWriterAt) (*acqdata.DataToExport, bool, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, false, errors.Wrap(err, "ncstore: opening file")
	}
	h := f.Header
	if v := stringAttr(h, "", "data_version"); v != FileVersion {
		return nil, false, errors.Newf("ncstore: file version %q is incompatible with the required version %q", v, FileVersion)
	}
	var scan bool
	switch c := stringAttr(h, "", "collection"); c {
	case collectionData:
	case collectionScan:
		scan = true
	default:
		return nil, false, errors.Newf("ncstore: unknown collection type %q", c)
	}
	ts, err := time.Parse(time.RFC3339Nano, stringAttr(h, "", "timestamp"))
	if err != nil {
		return nil, false, errors.Wrap(err, "ncstore: collection timestamp")
	}
	n, err := intAttr(h, "ndata")
	if err != nil {
		return nil, false, err
	}
	vars := make(map[string]bool)
	for _, v := range h.Variables() {
		vars[v] = true
	}
	members := make([]*acqdata.DataWithAxes, n)
	for i := range members {
		if members[i], err = loadMember(f, vars, i); err != nil {
			return nil, false, errors.Wrapf(err, "ncstore: member %d", i)
		}
	}
	dte, err := acqdata.NewDataToExport(stringAttr(h, "", "title"), members...)
	if err != nil {
		return nil, false, errors.Wrap(err, "ncstore")
	}
	dte.SetTimestamp(ts)
	return dte, scan, nil
}

func loadMember(f *cdf.File, vars map[string]bool, i int) (*acqdata.DataWithAxes, error) {
	h := f.Header
	p := memberPrefix(i)
	kind, err := acqdata.ParseKind(stringAttr(h, "", p+"kind"))
	if err != nil {
		return nil, err
	}
	source, err := acqdata.ParseDataSource(stringAttr(h, "", p+"source"))
	if err != nil {
		return nil, err
	}
	dim, err := acqdata.ParseDataDim(stringAttr(h, "", p+"dim"))
	if err != nil {
		return nil, err
	}
	distribution, err := acqdata.ParseDataDistribution(stringAttr(h, "", p+"distribution"))
	if err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, stringAttr(h, "", p+"timestamp"))
	if err != nil {
		return nil, err
	}
	shape := intsAttr(h, p+"shape")

	var data []*sparse.DenseArray
	var labels []string
	for k := 0; vars[channelVar(i, k)]; k++ {
		v, err := readVar(f, channelVar(i, k))
		if err != nil {
			return nil, err
		}
		a, err := acqdata.NewArray(v, shape...)
		if err != nil {
			return nil, err
		}
		data = append(data, a)
		labels = append(labels, stringAttr(h, "", labelAttr(i, k)))
	}

	naxes, err := intAttr(h, p+"naxes")
	if err != nil {
		return nil, err
	}
	axes := make([]*acqdata.Axis, naxes)
	for j := range axes {
		if axes[j], err = loadAxis(f, i, j); err != nil {
			return nil, err
		}
	}

	d, diag, err := acqdata.NewData(kind, stringAttr(h, "", p+"name"), source, data,
		acqdata.WithOrigin(stringAttr(h, "", p+"origin")),
		acqdata.WithTimestamp(ts),
		acqdata.WithLabels(labels...),
		acqdata.WithDistribution(distribution),
		acqdata.WithAxes(axes...),
		acqdata.WithNavIndexes(intsAttr(h, p+"nav_indexes")...),
	)
	if err != nil {
		return nil, err
	}
	if len(diag) > 0 {
		return nil, errors.Newf("inconsistent metadata: %v", diag.Strings())
	}
	d.SetDim(dim)
	return d, nil
}

func loadAxis(f *cdf.File, i, j int) (*acqdata.Axis, error) {
	h := f.Header
	p := axisPrefix(i, j)
	index, err := intAttr(h, p+"index")
	if err != nil {
		return nil, err
	}
	spreadOrder, err := intAttr(h, p+"spread_order")
	if err != nil {
		return nil, err
	}
	size, err := intAttr(h, p+"size")
	if err != nil {
		return nil, err
	}
	offset, err := floatAttr(h, p+"offset")
	if err != nil {
		return nil, err
	}
	scaling, err := floatAttr(h, p+"scaling")
	if err != nil {
		return nil, err
	}
	a, err := acqdata.NewLinearAxis(stringAttr(h, "", p+"label"), stringAttr(h, "", p+"units"), offset, scaling, size, index)
	if err != nil {
		return nil, err
	}
	a.SpreadOrder = spreadOrder
	explicit, err := intAttr(h, p+"explicit")
	if err != nil {
		return nil, err
	}
	if explicit == 1 {
		v, err := readVar(f, axisVar(i, j))
		if err != nil {
			return nil, err
		}
		a.SetData(v)
	}
	return a, nil
}

func readVar(f *cdf.File, name string) ([]float64, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	v, ok := buf.([]float64)
	if !ok {
		return nil, errors.Newf("variable %s holds %T, not float64", name, buf)
	}
	return v, nil
}

// stringAttr returns the string attribute name of variable v, or "" if
// there is none.
func stringAttr(h *cdf.Header, v, name string) string {
	s, _ := h.GetAttribute(v, name).(string)
	return s
}

func intsAttr(h *cdf.Header, name string) []int {
	v, _ := h.GetAttribute("", name).([]int32)
	if len(v) == 0 {
		return nil
	}
	o := make([]int, len(v))
	for i, e := range v {
		o[i] = int(e)
	}
	return o
}

func intAttr(h *cdf.Header, name string) (int, error) {
	v := intsAttr(h, name)
	if len(v) != 1 {
		return 0, errors.Newf("missing or invalid attribute %q", name)
	}
	return v[0], nil
}

func floatAttr(h *cdf.Header, name string) (float64, error) {
	v, _ := h.GetAttribute("", name).([]float64)
	if len(v) != 1 {
		return 0, errors.Newf("missing or invalid attribute %q", name)
	}
	return v[0], nil
}
