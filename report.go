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
	"fmt"
	"io"
)

// Category is the kind of check a Discrepancy was found by.
type Category int

// These are the discrepancy categories.
const (
	GlobalAttribute Category = iota
	Dimension
	MissingVariable
	Datatype
	Shape
	VariableAttribute
	Content
)

func (c Category) String() string {
	switch c {
	case GlobalAttribute:
		return "GlobalAttribute"
	case Dimension:
		return "Dimension"
	case MissingVariable:
		return "Variable"
	case Datatype:
		return "Datatype"
	case Shape:
		return "Shape"
	case VariableAttribute:
		return "VariableAttribute"
	case Content:
		return "Content"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Discrepancy is a difference between a file and its template.
type Discrepancy struct {
	Category Category

	// Name is the attribute, dimension or variable the discrepancy
	// concerns. For variable attributes it is "variable:attribute".
	Name string

	Detail string
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%sError: %s: %s", d.Category, d.Name, d.Detail)
}

// Report is the result of validating one file.
type Report struct {
	// File and Template are the paths that were compared.
	File, Template string

	// TemplateFingerprint identifies the structure of the template.
	TemplateFingerprint string

	// Valid is true only if every check passed.
	Valid bool

	// OpenFailed is true if File could not be opened as a NetCDF
	// file, in which case OpenErr holds the reason and no checks
	// were run.
	OpenFailed bool
	OpenErr    error

	GlobalAttributesMatched, GlobalAttributesTotal int
	DimensionsMatched, DimensionsTotal             int
	VariablesMatched, VariablesTotal               int

	// Discrepancies are in the order they were found.
	Discrepancies []Discrepancy
}

func (r *Report) add(c Category, name, format string, args ...interface{}) {
	r.Valid = false
	r.Discrepancies = append(r.Discrepancies, Discrepancy{
		Category: c,
		Name:     name,
		Detail:   fmt.Sprintf(format, args...),
	})
}

// Count returns the number of discrepancies of category c.
func (r *Report) Count(c Category) int {
	var n int
	for _, d := range r.Discrepancies {
		if d.Category == c {
			n++
		}
	}
	return n
}

// WriteSummary writes the matched/total tallies to w.
func (r *Report) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d/%d required global attributes validated\n"+
		"%d/%d required dimensions validated\n"+
		"%d/%d required variables validated\n",
		r.GlobalAttributesMatched, r.GlobalAttributesTotal,
		r.DimensionsMatched, r.DimensionsTotal,
		r.VariablesMatched, r.VariablesTotal)
	return err
}
