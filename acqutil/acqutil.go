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

package acqutil

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/acqdata"
	"github.com/spatialmodel/acqdata/ncstore"
	"github.com/spf13/cast"
)

// reader loads the data files named on the command line.
var reader = ncstore.NewReader(ncstore.DefaultCacheSize)

// Generate writes a synthetic gaussian scan named name, with nnav
// spectra of nsig points, to the file at path.
func Generate(path, name string, nnav, nsig int) error {
	scan, err := acqdata.GaussianScan(name, nnav, nsig)
	if err != nil {
		return errors.Wrap(err, "acqdata: generating scan")
	}
	if err := ncstore.SaveFile(path, &scan.DataToExport, true); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"file": path, "nnav": nnav, "nsig": nsig}).Info("wrote synthetic scan")
	return nil
}

// Inspect writes a description of the data file at path to w.
func Inspect(ctx context.Context, w io.Writer, path string) error {
	dte, scan, err := reader.Load(ctx, path)
	if err != nil {
		return err
	}
	if scan {
		fmt.Fprintln(w, &acqdata.DataScan{DataToExport: *dte})
	} else {
		fmt.Fprintln(w, dte)
	}
	if dte.Len() == 0 {
		return nil
	}
	table := pterm.TableData{{"Name", "Kind", "Dim", "Source", "Distribution", "Shape", "Labels"}}
	for _, d := range dte.Data() {
		table = append(table, []string{
			d.FullName(),
			d.Kind().String(),
			d.Dim().String(),
			d.Source().String(),
			d.Distribution().String(),
			d.DataDimension(),
			strings.Join(d.Labels(), ", "),
		})
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(table).Srender()
	if err != nil {
		return errors.Wrap(err, "acqdata: rendering table")
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// ParseSelection parses a comma-separated list of selections such as
// "3,2:5,:-1". A position selects a single element; a range start:stop
// selects the elements start through stop-1, with either bound
// optional.
func ParseSelection(s string) ([]acqdata.Slice, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var o []acqdata.Slice
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		bounds := strings.Split(part, ":")
		switch len(bounds) {
		case 1:
			i, err := cast.ToIntE(part)
			if err != nil {
				return nil, errors.Wrapf(err, "acqdata: invalid selection %q", part)
			}
			o = append(o, acqdata.At(i))
		case 2:
			sl := acqdata.All()
			if b := strings.TrimSpace(bounds[0]); b != "" {
				start, err := cast.ToIntE(b)
				if err != nil {
					return nil, errors.Wrapf(err, "acqdata: invalid selection %q", part)
				}
				sl.Start = start
			}
			if b := strings.TrimSpace(bounds[1]); b != "" {
				stop, err := cast.ToIntE(b)
				if err != nil {
					return nil, errors.Wrapf(err, "acqdata: invalid selection %q", part)
				}
				sl.Stop = stop
			}
			o = append(o, sl)
		default:
			return nil, errors.Newf("acqdata: invalid selection %q", part)
		}
	}
	return o, nil
}

// SliceFile applies sel to the navigation dimensions (or the signal
// dimensions if navigation is false) of every data item in the file at
// in and saves the result to out.
func SliceFile(ctx context.Context, in, out string, navigation bool, sel []acqdata.Slice) error {
	dte, scan, err := reader.Load(ctx, in)
	if err != nil {
		return err
	}
	result, err := acqdata.NewDataToExport(dte.Name())
	if err != nil {
		return err
	}
	for _, d := range dte.Data() {
		var s *acqdata.DataWithAxes
		var diag acqdata.Diagnostics
		if navigation {
			s, diag, err = d.Inav(sel...)
		} else {
			s, diag, err = d.Isig(sel...)
		}
		if err != nil {
			return errors.Wrapf(err, "acqdata: slicing %s", d.FullName())
		}
		diag.Log(Log.WithField("data", d.FullName()))
		if err := result.Append(acqdata.Single(s)); err != nil {
			return err
		}
	}
	if err := ncstore.SaveFile(out, result, scan); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"input": in, "output": out}).Info("wrote sliced data")
	return nil
}

// Average writes the running average of the data files listed in inputs
// to the file at out. The files must hold the same number of data items
// with matching shapes. The result keeps the names of the last file.
func Average(ctx context.Context, out string, inputs []string) error {
	if len(inputs) == 0 {
		return errors.New("acqdata: no input files to average")
	}
	avg, scan, err := reader.Load(ctx, inputs[0])
	if err != nil {
		return err
	}
	for i, path := range inputs[1:] {
		next, _, err := reader.Load(ctx, path)
		if err != nil {
			return err
		}
		if avg, err = next.Average(avg, i+2); err != nil {
			return errors.Wrapf(err, "acqdata: averaging %s", path)
		}
		Log.WithField("file", path).Debug("averaged")
	}
	if err := ncstore.SaveFile(out, avg, scan); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"inputs": len(inputs), "output": out}).Info("wrote average")
	return nil
}
