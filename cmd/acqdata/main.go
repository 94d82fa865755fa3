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

// Command acqdata is a command-line interface for creating, inspecting
// and processing files of labeled multidimensional measurement data.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/acqdata/acqutil"
)

func main() {
	if err := acqutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
