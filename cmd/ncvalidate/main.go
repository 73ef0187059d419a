/*
Copyright © 2018 the ncvalidate authors.
This file is part of ncvalidate.

ncvalidate is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncvalidate is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncvalidate.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command ncvalidate validates NetCDF files against a template NetCDF file.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/ncvalidate/ncvalidateutil"
)

func main() {
	if err := ncvalidateutil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
