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
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

func dense(vals ...float64) *sparse.DenseArray {
	a := sparse.ZerosDense(len(vals))
	copy(a.Elements, vals)
	return a
}

func TestCheckContent(t *testing.T) {
	fill := &Sentinel{Attribute: "_FillValue", Value: -999}
	bounds := Bounds{Min: 0, Max: 10, HasMin: true, HasMax: true}
	nan := math.NaN()

	tests := []struct {
		name     string
		values   *sparse.DenseArray
		sentinel *Sentinel
		bounds   Bounds
		want     bool
	}{
		{name: "all fill", values: dense(-999, -999, -999), sentinel: fill, want: false},
		{name: "one not fill", values: dense(-999, -999, 3), sentinel: fill, want: true},
		{name: "constant without sentinel", values: dense(5, 5, 5), want: true},
		{name: "constant not sentinel", values: dense(5, 5, 5), sentinel: fill, want: true},
		{name: "single fill value", values: dense(-999), sentinel: fill, want: false},
		{name: "all NaN fill", values: dense(nan, nan), sentinel: &Sentinel{Attribute: "_FillValue", Value: nan}, want: false},
		{name: "no bounds", values: dense(1, 2, 3), want: true},

		// The range checks pass only when some value lies outside.
		{name: "spans bounds", values: dense(-3, 1, 2, 15), bounds: bounds, want: true},
		{name: "inside bounds", values: dense(1, 2, 3), bounds: bounds, want: false},
		{name: "below only", values: dense(-1, 5), bounds: bounds, want: false},
		{name: "above only", values: dense(5, 11), bounds: bounds, want: false},
		{name: "equal to bounds", values: dense(0, 10), bounds: bounds, want: false},
		{name: "min only", values: dense(-1, 5), bounds: Bounds{Min: 0, HasMin: true}, want: true},
		{name: "max only", values: dense(5, 11), bounds: Bounds{Max: 10, HasMax: true}, want: true},
		{name: "NaN ignored", values: dense(nan, -1, 11), bounds: bounds, want: true},
		{name: "all NaN bounded", values: dense(nan, nan), bounds: bounds, want: false},
		{name: "empty bounded", values: dense(), bounds: bounds, want: false},
		{name: "empty unbounded", values: dense(), want: true},
		{name: "fill checked first", values: dense(-999, -999), sentinel: fill, bounds: Bounds{Min: 0, HasMin: true}, want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			log, _ := nullLogger()
			if have := CheckContent("v", test.values, test.sentinel, test.bounds, log); have != test.want {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestCheckContentLogs(t *testing.T) {
	log, hook := nullLogger()
	fill := &Sentinel{Attribute: "_FillValue", Value: -999}
	if CheckContent("temperature", dense(-999, -999), fill, Bounds{}, log) {
		t.Fatal("should fail")
	}
	e := hook.LastEntry()
	if e == nil {
		t.Fatal("no log entry")
	}
	if e.Level != logrus.ErrorLevel {
		t.Errorf("have level %v, want error", e.Level)
	}
	if have, want := e.Data["category"], "Content"; have != want {
		t.Errorf("have category %v, want %v", have, want)
	}
	if have, want := e.Data["variable"], "temperature"; have != want {
		t.Errorf("have variable %v, want %v", have, want)
	}
}

func TestCountDistinct(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		vals []float64
		want int
	}{
		{vals: nil, want: 0},
		{vals: []float64{1, 1, 1}, want: 1},
		{vals: []float64{nan, nan}, want: 1},
		{vals: []float64{nan, 1}, want: 2},
		{vals: []float64{1, 2, 3}, want: 2},
	}
	for _, test := range tests {
		if have := countDistinct(test.vals, 2); have != test.want {
			t.Errorf("%v: have %d, want %d", test.vals, have, test.want)
		}
	}
}
