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

package ncvalidateutil

import (
	"io"
	"os"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// writeGlider writes a NetCDF file with a single temperature variable.
// If units is false, the variable has no units attribute.
func writeGlider(t *testing.T, path string, units bool) {
	h := cdf.NewHeader([]string{"time"}, []int{5})
	h.AddAttribute("", "institution", "test value")
	h.AddVariable("temperature", []string{"time"}, []float32{})
	if units {
		h.AddAttribute("temperature", "units", "Celsius")
	}
	h.AddAttribute("temperature", "_FillValue", []float32{-999})
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	w := cf.Writer("temperature", []int{0}, []int{5})
	if _, err := w.Write([]float32{-3, 1, 2, 8, 15}); err != nil && err != io.EOF {
		t.Fatal(err)
	}
}

func nullLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}
