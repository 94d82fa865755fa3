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

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Sentinel errors. Every error returned by this package wraps one of
// them, so they can be tested for with errors.Is.
var (
	// ErrShape indicates that payload arrays or operands disagree in shape.
	ErrShape = errors.New("acqdata: inconsistent shape")

	// ErrLength indicates that two containers of different lengths were
	// combined.
	ErrLength = errors.New("acqdata: inconsistent length")

	// ErrType indicates an argument of the wrong kind, such as an empty
	// payload or a negative axis index.
	ErrType = errors.New("acqdata: invalid argument")

	// ErrIndex indicates an out-of-range position or dimension index.
	ErrIndex = errors.New("acqdata: index out of range")
)

// Warning describes metadata that was repaired or ignored instead of
// causing a failure.
type Warning struct {
	Op  string // the operation that issued the warning
	Msg string
}

func (w Warning) String() string {
	return w.Op + ": " + w.Msg
}

// Diagnostics holds the warnings produced by an operation. A nil
// Diagnostics means that nothing needed to be repaired.
type Diagnostics []Warning

func (d *Diagnostics) warnf(op, format string, args ...interface{}) {
	*d = append(*d, Warning{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// Log writes each warning to l at warning level.
func (d Diagnostics) Log(l logrus.FieldLogger) {
	for _, w := range d {
		l.WithField("op", w.Op).Warn(w.Msg)
	}
}

// Strings returns the warnings as "op: message" strings.
func (d Diagnostics) Strings() []string {
	o := make([]string, len(d))
	for i, w := range d {
		o[i] = w.String()
	}
	return o
}
