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
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DataToExport is an ordered collection of DataWithAxes in which no two
// members share both name and origin.
type DataToExport struct {
	name      string
	timestamp time.Time
	data      []*DataWithAxes
}

// DataScan is a DataToExport holding the data of a scan, to be saved.
type DataScan struct {
	DataToExport
}

// NewDataToExport returns a collection holding data. The members are
// not copied; members without an origin get name as their origin.
func NewDataToExport(name string, data ...*DataWithAxes) (*DataToExport, error) {
	d := &DataToExport{name: name, timestamp: time.Now()}
	if err := d.SetData(data...); err != nil {
		return nil, err
	}
	return d, nil
}

// NewDataScan returns a scan collection holding data; see
// NewDataToExport.
func NewDataScan(name string, data ...*DataWithAxes) (*DataScan, error) {
	d, err := NewDataToExport(name, data...)
	if err != nil {
		return nil, err
	}
	return &DataScan{DataToExport: *d}, nil
}

// Name returns the identifier of the collection.
func (d *DataToExport) Name() string { return d.name }

// Timestamp returns the creation time of the collection.
func (d *DataToExport) Timestamp() time.Time { return d.timestamp }

// SetTimestamp changes the creation time of the collection.
func (d *DataToExport) SetTimestamp(t time.Time) { d.timestamp = t }

// Len returns the number of members.
func (d *DataToExport) Len() int { return len(d.data) }

// Data returns the members. The slice is new but the members are the
// ones held by d.
func (d *DataToExport) Data() []*DataWithAxes { return append([]*DataWithAxes{}, d.data...) }

// SetData replaces the members of d with data, which are not copied.
// Members without an origin get the name of d as their origin. Of
// several members sharing name and origin only the last is kept, at
// its own position.
func (d *DataToExport) SetData(data ...*DataWithAxes) error {
	for i, dd := range data {
		if dd == nil {
			return errors.Wrapf(ErrType, "member %d is nil", i)
		}
	}
	d.data = nil
	for _, dd := range data {
		if dd.Origin == "" {
			dd.Origin = d.name
		}
		d.insertLast(dd)
	}
	return nil
}

// keyIndex returns the position of the member named name with exactly
// the given origin, or -1.
func (d *DataToExport) keyIndex(name, origin string) int {
	for i, e := range d.data {
		if e.name == name && e.Origin == origin {
			return i
		}
	}
	return -1
}

// insertLast adds dd at the end of d, removing the member with the same
// name and origin if there is one.
func (d *DataToExport) insertLast(dd *DataWithAxes) {
	if i := d.keyIndex(dd.name, dd.Origin); i >= 0 {
		d.data = append(d.data[:i], d.data[i+1:]...)
	}
	d.data = append(d.data, dd)
}

// AffectNameToOriginIfNone sets the origin of every member without one
// to the name of d.
func (d *DataToExport) AffectNameToOriginIfNone() {
	for _, dd := range d.data {
		if dd.Origin == "" {
			dd.Origin = d.name
		}
	}
}

type appendKind int

const (
	appendSingle appendKind = iota
	appendList
	appendCollection
)

// Appendable is what can be appended to a DataToExport: a single
// DataWithAxes, a list of them or another collection. Create one with
// Single, List or Collection.
type Appendable struct {
	kind   appendKind
	single *DataWithAxes
	list   []*DataWithAxes
	coll   *DataToExport
}

// Single wraps one DataWithAxes for appending.
func Single(d *DataWithAxes) Appendable { return Appendable{kind: appendSingle, single: d} }

// List wraps several DataWithAxes for appending.
func List(d ...*DataWithAxes) Appendable {
	return Appendable{kind: appendList, list: append([]*DataWithAxes{}, d...)}
}

// Collection wraps the members of another collection for appending.
func Collection(c *DataToExport) Appendable { return Appendable{kind: appendCollection, coll: c} }

// Append adds copies of the wrapped data to the end of d. A member with
// the same name and origin as an appended item is removed first. Items
// without an origin get the name of d as their origin.
func (d *DataToExport) Append(a Appendable) error {
	switch a.kind {
	case appendSingle:
		return d.appendOne(a.single)
	case appendList:
		for _, dd := range a.list {
			if err := d.appendOne(dd); err != nil {
				return err
			}
		}
	case appendCollection:
		if a.coll == nil {
			return errors.Wrap(ErrType, "cannot append a nil collection")
		}
		for _, dd := range a.coll.Data() {
			if err := d.appendOne(dd); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(ErrType, "unknown appendable kind %d", a.kind)
	}
	return nil
}

func (d *DataToExport) appendOne(dd *DataWithAxes) error {
	if dd == nil {
		return errors.Wrap(ErrType, "cannot append nil data")
	}
	c := dd.Copy()
	if c.Origin == "" {
		c.Origin = d.name
	}
	d.insertLast(c)
	return nil
}

// Get returns member i.
func (d *DataToExport) Get(i int) (*DataWithAxes, error) {
	if i < 0 || i >= len(d.data) {
		return nil, errors.Wrapf(ErrIndex, "member %d of %d", i, len(d.data))
	}
	return d.data[i], nil
}

// Set replaces member i with dd, which is not copied. If dd has no
// origin it gets the name of d. Another member with the same name and
// origin as dd is removed, so dd may end up at position i-1.
func (d *DataToExport) Set(i int, dd *DataWithAxes) error {
	if i < 0 || i >= len(d.data) {
		return errors.Wrapf(ErrIndex, "member %d of %d", i, len(d.data))
	}
	if dd == nil {
		return errors.Wrap(ErrType, "member is nil")
	}
	if dd.Origin == "" {
		dd.Origin = d.name
	}
	d.data[i] = dd
	for j, e := range d.data {
		if j != i && e.name == dd.name && e.Origin == dd.Origin {
			d.data = append(d.data[:j], d.data[j+1:]...)
			break
		}
	}
	return nil
}

// Pop removes and returns member i.
func (d *DataToExport) Pop(i int) (*DataWithAxes, error) {
	dd, err := d.Get(i)
	if err != nil {
		return nil, err
	}
	d.data = append(d.data[:i], d.data[i+1:]...)
	return dd, nil
}

// Index returns the position of dd in d, or -1.
func (d *DataToExport) Index(dd *DataWithAxes) int {
	for i, e := range d.data {
		if e == dd {
			return i
		}
	}
	return -1
}

// IndexFromNameOrigin returns the position of the first member with the
// given name and origin, or -1. An empty origin matches any origin.
func (d *DataToExport) IndexFromNameOrigin(name, origin string) int {
	for i, e := range d.data {
		if e.name == name && (origin == "" || e.Origin == origin) {
			return i
		}
	}
	return -1
}

// DataFromNameOrigin returns the first member with the given name and
// origin, or nil. An empty origin matches any origin.
func (d *DataToExport) DataFromNameOrigin(name, origin string) *DataWithAxes {
	if i := d.IndexFromNameOrigin(name, origin); i >= 0 {
		return d.data[i]
	}
	return nil
}

// DataFromName returns the first member with the given name, or nil.
func (d *DataToExport) DataFromName(name string) *DataWithAxes {
	return d.DataFromNameOrigin(name, "")
}

// DataFromFullNames returns a collection of the members with the given
// origin/name full names, in the order given.
func (d *DataToExport) DataFromFullNames(fullNames []string, deepcopy bool) (*DataToExport, error) {
	var sel []*DataWithAxes
	for _, fn := range fullNames {
		parts := strings.SplitN(fn, "/", 2)
		if len(parts) != 2 {
			return nil, errors.Wrapf(ErrType, "%q is not of the form origin/name", fn)
		}
		var dd *DataWithAxes
		for _, e := range d.data {
			if e.name == parts[1] && e.Origin == parts[0] {
				dd = e
				break
			}
		}
		if dd == nil {
			return nil, errors.Wrapf(ErrIndex, "no data named %q", fn)
		}
		if deepcopy {
			dd = dd.Copy()
		}
		sel = append(sel, dd)
	}
	return NewDataToExport(d.name, sel...)
}

// DataFromDim returns a collection of the members of dimensionality
// dim, sorted by name.
func (d *DataToExport) DataFromDim(dim DataDim, deepcopy bool) *DataToExport {
	var sel []*DataWithAxes
	for _, dd := range d.data {
		if dd.dim == dim {
			if deepcopy {
				dd = dd.Copy()
			}
			sel = append(sel, dd)
		}
	}
	sort.SliceStable(sel, func(i, j int) bool { return sel[i].name < sel[j].name })
	return &DataToExport{name: d.name, timestamp: time.Now(), data: sel}
}

// DataFromDims returns a collection of copies of the members of the
// given dimensionalities, grouped by dimensionality in the given order.
func (d *DataToExport) DataFromDims(dims []DataDim, deepcopy bool) *DataToExport {
	o := &DataToExport{name: d.name, timestamp: time.Now()}
	for _, dim := range dims {
		// Append only fails on nil members, and d holds none.
		o.Append(Collection(d.DataFromDim(dim, deepcopy)))
	}
	return o
}

// DimPresents returns the dimensionalities found among the members.
func (d *DataToExport) DimPresents() []DataDim {
	var o []DataDim
	for _, dim := range DataDims() {
		for _, dd := range d.data {
			if dd.dim == dim {
				o = append(o, dim)
				break
			}
		}
	}
	return o
}

// Names returns the names of the members, restricted to the given
// dimensionalities if any are given.
func (d *DataToExport) Names(dims ...DataDim) []string {
	var o []string
	for _, dd := range d.filter(dims) {
		o = append(o, dd.name)
	}
	return o
}

// FullNames returns the origin/name full names of the members,
// restricted to the given dimensionalities if any are given.
func (d *DataToExport) FullNames(dims ...DataDim) []string {
	var o []string
	for _, dd := range d.filter(dims) {
		o = append(o, dd.FullName())
	}
	return o
}

func (d *DataToExport) filter(dims []DataDim) []*DataWithAxes {
	if len(dims) == 0 {
		return d.data
	}
	var o []*DataWithAxes
	for _, dim := range dims {
		o = append(o, d.DataFromDim(dim, false).data...)
	}
	return o
}

// Copy returns a deep copy of d.
func (d *DataToExport) Copy() *DataToExport {
	o := &DataToExport{name: d.name, timestamp: d.timestamp, data: make([]*DataWithAxes, len(d.data))}
	for i, dd := range d.data {
		o.data[i] = dd.Copy()
	}
	return o
}

// pairwise applies f to the members of d and other position by
// position.
func (d *DataToExport) pairwise(op string, other *DataToExport, f func(a, b *DataWithAxes) (*DataWithAxes, error)) (*DataToExport, error) {
	if other == nil || len(other.data) != len(d.data) {
		n := 0
		if other != nil {
			n = len(other.data)
		}
		return nil, errors.Wrapf(ErrLength, "%s: collections hold %d and %d members", op, len(d.data), n)
	}
	o := &DataToExport{name: d.name, timestamp: d.timestamp, data: make([]*DataWithAxes, len(d.data))}
	for i, dd := range d.data {
		r, err := f(dd, other.data[i])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: member %d", op, i)
		}
		o.data[i] = r
	}
	return o, nil
}

// Add returns the member-wise sum of d and other, matched by position.
func (d *DataToExport) Add(other *DataToExport) (*DataToExport, error) {
	return d.pairwise("add", other, (*DataWithAxes).Add)
}

// Sub returns the member-wise difference of d and other, matched by
// position.
func (d *DataToExport) Sub(other *DataToExport) (*DataToExport, error) {
	return d.pairwise("sub", other, (*DataWithAxes).Sub)
}

// Mul returns d with every member multiplied by s.
func (d *DataToExport) Mul(s float64) *DataToExport {
	o := &DataToExport{name: d.name, timestamp: d.timestamp, data: make([]*DataWithAxes, len(d.data))}
	for i, dd := range d.data {
		o.data[i] = dd.Mul(s)
	}
	return o
}

// Div returns d with every member divided by s.
func (d *DataToExport) Div(s float64) *DataToExport { return d.Mul(1 / s) }

// Average returns the member-wise weighted running average of d and
// other, matched by position; see DataBase.Average.
func (d *DataToExport) Average(other *DataToExport, weight int) (*DataToExport, error) {
	return d.pairwise("average", other, func(a, b *DataWithAxes) (*DataWithAxes, error) {
		return a.Average(b, weight)
	})
}

// Equal reports whether d and other have the same name and equal
// members in the same order.
func (d *DataToExport) Equal(other *DataToExport) bool {
	if other == nil || d.name != other.name || len(d.data) != len(other.data) {
		return false
	}
	for i, dd := range d.data {
		if !dd.Equal(other.data[i]) {
			return false
		}
	}
	return true
}

func (d *DataToExport) String() string {
	return fmt.Sprintf("DataToExport: %s <len:%d>", d.name, len(d.data))
}

func (d *DataScan) String() string {
	return fmt.Sprintf("DataScan: %s <len:%d>", d.name, len(d.data))
}
