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
	"strings"

	"github.com/sirupsen/logrus"
)

// Compare checks candidate against template. Only the global attributes,
// dimensions and variables declared in the template are checked; extra
// entities in candidate are ignored. Every check is run and every
// discrepancy recorded before Compare returns. The returned error is
// non-nil only if rules cannot supply bounds for a variable.
func Compare(template, candidate *Dataset, rules *RuleTable, log logrus.FieldLogger) (*Report, error) {
	r := &Report{
		File:     candidate.Path,
		Template: template.Path,
		Valid:    true,
	}

	// 1. Global attributes.
	tAtts := template.GlobalAttributes()
	r.GlobalAttributesTotal = len(tAtts)
	for _, a := range tAtts {
		if !candidate.HasGlobalAttribute(a) {
			r.add(GlobalAttribute, a, "missing global attribute")
			log.WithField("category", GlobalAttribute.String()).
				Errorf(" GlobalAttributeError: Missing global attribute: %s", a)
			continue
		}
		r.GlobalAttributesMatched++
	}

	// 2. Dimensions. Only presence is checked.
	tDims := template.Dimensions()
	r.DimensionsTotal = len(tDims)
	for _, d := range tDims {
		if _, ok := candidate.DimensionSize(d); !ok {
			r.add(Dimension, d, "missing dimension")
			log.WithField("category", Dimension.String()).
				Errorf(" DimensionError: Missing dimension: %s", d)
			continue
		}
		r.DimensionsMatched++
	}

	// 3. Variables.
	tVars := template.Variables()
	r.VariablesTotal = len(tVars)
	for _, name := range tVars {
		tv, _ := template.Variable(name)
		cv, ok := candidate.Variable(name)
		if !ok {
			r.add(MissingVariable, name, "missing variable")
			log.WithField("category", MissingVariable.String()).
				Errorf(" VariableError: Missing variable: %s", name)
			continue
		}
		r.VariablesMatched++
		if err := compareVariable(r, tv, cv, rules, log.WithField("variable", name)); err != nil {
			return r, err
		}
	}
	return r, nil
}

// compareVariable runs the datatype, shape, attribute and content checks
// for a variable present in both files.
func compareVariable(r *Report, tv, cv *Variable, rules *RuleTable, log logrus.FieldLogger) error {
	if cv.Type != tv.Type {
		r.add(Datatype, cv.Name, "%s != %s", cv.Type, tv.Type)
		log.WithField("category", Datatype.String()).
			Errorf("  VariableError: Incorrect datatype for %s (%s!=%s)", cv.Name, cv.Type, tv.Type)
	}

	if !sameDims(tv.Dimensions, cv.Dimensions) {
		r.add(Shape, cv.Name, "(%s) != (%s)",
			strings.Join(cv.Dimensions, ", "), strings.Join(tv.Dimensions, ", "))
		log.WithField("category", Shape.String()).
			Errorf("  VariableError: Incorrect dimension for %s (%v!=%v)", cv.Name, tv.Dimensions, cv.Dimensions)
	}

	for _, a := range tv.Attributes() {
		if !cv.HasAttribute(a) {
			r.add(VariableAttribute, cv.Name+":"+a, "missing variable attribute")
			log.WithField("category", VariableAttribute.String()).
				Errorf("   VariableError: Missing attribute for %s: %s", cv.Name, a)
		}
	}

	if cv.Type == Char {
		log.Debugf("skipping content check for character variable %s", cv.Name)
		return nil
	}
	b, err := rules.Lookup(cv.Name)
	if err != nil {
		return err
	}
	log.Debugf("checking content of %s against rule %q %v", cv.Name, rules.Match(cv.Name), b)
	values, err := cv.Values()
	if err != nil {
		r.add(Content, cv.Name, "unreadable values: %v", err)
		log.WithField("category", Content.String()).
			Errorf("  ContentError: %v", err)
		return nil
	}
	if !CheckContent(cv.Name, values, cv.Sentinel(), b, log) {
		r.add(Content, cv.Name, "implausible content for bounds %v", b)
	}
	return nil
}

func sameDims(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
