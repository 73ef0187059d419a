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

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// CheckContent reports whether the values of the variable called name are
// plausible. It fails if every value equals the declared sentinel, if no
// value is below b.Min, or if no value is above b.Max, checked in that
// order. A nil sentinel means none is declared.
//
// Note that the range checks fail when the values lie entirely inside
// the bounds.
func CheckContent(name string, values *sparse.DenseArray, sentinel *Sentinel, b Bounds, log logrus.FieldLogger) bool {
	log = log.WithFields(logrus.Fields{"category": Content.String(), "variable": name})
	vals := values.Elements

	if distinct := countDistinct(vals, 2); distinct == 1 {
		switch {
		case sentinel == nil:
			log.Warnf("all values of %s are %g and no missing value is declared", name, vals[0])
		case sameValue(vals[0], sentinel.Value):
			log.Errorf("ContentError: all values of %s equal %s (%g)", name, sentinel.Attribute, sentinel.Value)
			return false
		default:
			log.Warnf("all values of %s are %g", name, vals[0])
		}
	}

	numeric := withoutNaN(vals)
	if b.HasMin {
		if len(numeric) == 0 || !(floats.Min(numeric) < b.Min) {
			log.Errorf("ContentError: no value of %s is below the minimum %g", name, b.Min)
			return false
		}
		log.Debugf("%s has values below the minimum %g", name, b.Min)
	}

	if b.HasMax {
		if len(numeric) == 0 || !(floats.Max(numeric) > b.Max) {
			log.Errorf("ContentError: no value of %s is above the maximum %g", name, b.Max)
			return false
		}
		log.Debugf("%s has values above the maximum %g", name, b.Max)
	}
	return true
}

// countDistinct returns the number of distinct values in vals, counting
// no further than limit. All NaNs count as one value.
func countDistinct(vals []float64, limit int) int {
	seen := make(map[float64]struct{})
	nan := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			nan = 1
		} else {
			seen[v] = struct{}{}
		}
		if len(seen)+nan >= limit {
			break
		}
	}
	return len(seen) + nan
}

// withoutNaN returns vals, or a copy of vals with NaNs removed if there
// are any.
func withoutNaN(vals []float64) []float64 {
	for i, v := range vals {
		if math.IsNaN(v) {
			o := append([]float64(nil), vals[:i]...)
			for _, v := range vals[i+1:] {
				if !math.IsNaN(v) {
					o = append(o, v)
				}
			}
			return o
		}
	}
	return vals
}

func sameValue(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
