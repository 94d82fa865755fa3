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

// Package acqdata is a labeled multidimensional data model for
// measurement acquisition. Payloads are lists of equal-shape dense arrays
// (DataBase), described by coordinate axes split into navigation and
// signal dimensions (DataWithAxes), and gathered into collections for
// saving or display (DataToExport, DataScan).
//
// Metadata that can be repaired, such as an axis whose length does not
// match the payload, is repaired and reported in the returned
// Diagnostics. Incompatible payloads are errors wrapping ErrShape,
// ErrLength, ErrType or ErrIndex.
package acqdata

// Version gives the version number.
const Version = "0.1.0"
