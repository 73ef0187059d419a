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

package ncvalidate

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type testAttr struct {
	name string
	val  interface{}
}

type testVar struct {
	name  string
	dims  []string
	data  interface{} // []uint8, string, []int16, []int32, []float32 or []float64
	attrs []testAttr
}

// testFile describes a NetCDF file to be written by write. A dimension
// of length 0 is the record dimension, and records is the number of
// records written to it.
type testFile struct {
	dims    []string
	lengths []int
	records int
	global  []string
	vars    []testVar
}

// gliderFile returns a description of a small file with one global
// attribute, one dimension and one variable.
func gliderFile() testFile {
	return testFile{
		dims:    []string{"time"},
		lengths: []int{10},
		global:  []string{"institution"},
		vars: []testVar{
			{
				name: "temperature",
				dims: []string{"time"},
				data: []float32{-3, 1, 2, 3, 4, 5, 6, 7, 8, 15},
				attrs: []testAttr{
					{"units", "Celsius"},
					{"_FillValue", []float32{-999}},
				},
			},
		},
	}
}

func (tf testFile) write(t *testing.T, path string) {
	h := cdf.NewHeader(tf.dims, tf.lengths)
	for _, a := range tf.global {
		h.AddAttribute("", a, "test value")
	}
	for _, v := range tf.vars {
		h.AddVariable(v.name, v.dims, v.data)
		for _, a := range v.attrs {
			h.AddAttribute(v.name, a.name, a.val)
		}
	}
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
	for _, v := range tf.vars {
		end := append([]int(nil), cf.Header.Lengths(v.name)...)
		if cf.Header.IsRecordVariable(v.name) {
			// Record variables are written up to the last index.
			end[0] = tf.records
			for i := range end {
				end[i]--
			}
		}
		start := make([]int, len(end))
		w := cf.Writer(v.name, start, end)
		if _, err := w.Write(v.data); err != nil && err != io.EOF {
			t.Fatalf("writing %s: %v", v.name, err)
		}
	}
	if tf.records > 0 {
		if err := cdf.UpdateNumRecs(f); err != nil {
			t.Fatal(err)
		}
	}
}

// recordFile returns a description of a file whose time dimension is the
// record dimension, holding n records.
func recordFile(n int) testFile {
	tf := testFile{
		dims:    []string{"time", "z"},
		lengths: []int{0, 2},
		records: n,
		global:  []string{"institution"},
		vars: []testVar{
			{name: "temperature", dims: []string{"time"}, data: make([]float64, n)},
			{name: "salinity", dims: []string{"time"}, data: make([]float32, n),
				attrs: []testAttr{{"_FillValue", []float32{-999}}}},
			{name: "profile", dims: []string{"time", "z"}, data: make([]int32, 2*n)},
			{name: "fixed", dims: []string{"z"}, data: []int16{7, 8}},
		},
	}
	for i := 0; i < n; i++ {
		tf.vars[0].data.([]float64)[i] = float64(i + 1)
		tf.vars[1].data.([]float32)[i] = float32(30 + i)
		tf.vars[2].data.([]int32)[2*i] = int32(10 * i)
		tf.vars[2].data.([]int32)[2*i+1] = int32(10*i + 1)
	}
	return tf
}

// tempDir returns a temporary directory and a function that removes it.
func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "ncvalidate_test")
	if err != nil {
		t.Fatal(err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

// writePair writes template and candidate files into dir and returns
// their paths.
func writePair(t *testing.T, dir string, template, candidate testFile) (string, string) {
	tp := filepath.Join(dir, "template.nc")
	cp := filepath.Join(dir, "candidate.nc")
	template.write(t, tp)
	candidate.write(t, cp)
	return tp, cp
}

func openPair(t *testing.T, tp, cp string) (*Dataset, *Dataset) {
	tds, err := OpenDataset(tp)
	if err != nil {
		t.Fatal(err)
	}
	cds, err := OpenDataset(cp)
	if err != nil {
		tds.Close()
		t.Fatal(err)
	}
	return tds, cds
}

func noBounds(t *testing.T) *RuleTable {
	r, err := ParseRules([]byte("[general]\n"), INI)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func nullLogger() (logrus.FieldLogger, *test.Hook) {
	l, hook := test.NewNullLogger()
	l.Level = logrus.DebugLevel
	return l, hook
}
