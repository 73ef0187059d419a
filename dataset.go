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
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// DataType is the scalar type of a NetCDF classic variable.
type DataType int

// These are the NetCDF classic data types.
const (
	InvalidType DataType = iota
	Byte
	Char
	Short
	Int
	Float
	Double
)

func (t DataType) String() string {
	switch t {
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	}
	return fmt.Sprintf("<invalid type %d>", int(t))
}

// dataTypeOf maps the zero value returned by the cdf package for a variable
// to its data type. cdf reads both BYTE and CHAR data into []uint8, but
// returns an empty string as the zero value for CHAR variables.
func dataTypeOf(zero interface{}) DataType {
	switch zero.(type) {
	case []uint8:
		return Byte
	case string:
		return Char
	case []int16:
		return Short
	case []int32:
		return Int
	case []float32:
		return Float
	case []float64:
		return Double
	}
	return InvalidType
}

// Dataset is a read-only NetCDF classic file.
type Dataset struct {
	// Path is the location the dataset was opened from.
	Path string

	file *os.File
	cf   *cdf.File
	size int64
}

// OpenDataset opens the NetCDF file at path. The returned Dataset must
// be closed by the caller.
func OpenDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading netcdf header of %s: %v", path, err)
	}
	if errs := cf.Header.Check(); len(errs) > 0 {
		f.Close()
		return nil, fmt.Errorf("invalid netcdf header in %s: %v", path, errs[0])
	}
	return &Dataset{Path: path, file: f, cf: cf, size: fi.Size()}, nil
}

// Close releases the underlying file.
func (d *Dataset) Close() error {
	if d == nil || d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// GlobalAttributes returns the names of the global attributes.
func (d *Dataset) GlobalAttributes() []string {
	return d.cf.Header.Attributes("")
}

// HasGlobalAttribute returns whether the global attribute a exists.
func (d *Dataset) HasGlobalAttribute(a string) bool {
	return d.cf.Header.GetAttribute("", a) != nil
}

// Dimensions returns the names of all dimensions in declaration order.
func (d *Dataset) Dimensions() []string {
	return d.cf.Header.Dimensions("")
}

// DimensionSize returns the size of dimension dim. The size of the record
// dimension is the number of records present in the file.
func (d *Dataset) DimensionSize(dim string) (int, bool) {
	names := d.cf.Header.Dimensions("")
	lengths := d.cf.Header.Lengths("")
	for i, n := range names {
		if n != dim {
			continue
		}
		if lengths[i] == 0 {
			return d.numRecs(), true
		}
		return lengths[i], true
	}
	return 0, false
}

func (d *Dataset) numRecs() int {
	n := d.cf.Header.NumRecs(d.size)
	if n < 0 {
		return 0
	}
	return int(n)
}

// Variables returns the names of all variables in declaration order.
func (d *Dataset) Variables() []string {
	return d.cf.Header.Variables()
}

// Variable returns the variable called name, or false if there is none.
func (d *Dataset) Variable(name string) (*Variable, bool) {
	dims := d.cf.Header.Dimensions(name)
	if dims == nil {
		return nil, false
	}
	shape := append([]int(nil), d.cf.Header.Lengths(name)...)
	if d.cf.Header.IsRecordVariable(name) {
		shape[0] = d.numRecs()
	}
	return &Variable{
		Name:       name,
		Type:       dataTypeOf(d.cf.Header.ZeroValue(name, 0)),
		Dimensions: dims,
		Shape:      shape,
		ds:         d,
	}, true
}

// Variable is a named, typed, multi-dimensional array in a Dataset.
type Variable struct {
	Name string
	Type DataType

	// Dimensions holds the dimension names in axis order.
	Dimensions []string

	// Shape holds the length of each axis.
	Shape []int

	ds *Dataset
}

// Attributes returns the names of the attributes of v.
func (v *Variable) Attributes() []string {
	return v.ds.cf.Header.Attributes(v.Name)
}

// HasAttribute returns whether v has an attribute called a.
func (v *Variable) HasAttribute(a string) bool {
	return v.ds.cf.Header.GetAttribute(v.Name, a) != nil
}

// Attribute returns the value of attribute a, which is of type []uint8,
// string, []int16, []int32, []float32 or []float64, or nil if v does
// not have the attribute.
func (v *Variable) Attribute(a string) interface{} {
	return v.ds.cf.Header.GetAttribute(v.Name, a)
}

// sentinelAttributes are the attributes that can declare a missing-data
// value, in order of priority.
var sentinelAttributes = []string{"missing_value", "_FillValue", "fill_value"}

// Sentinel is a declared missing or fill value.
type Sentinel struct {
	Attribute string
	Value     float64
}

// Sentinel returns the first declared missing-data value of v, or nil
// if none of missing_value, _FillValue or fill_value is present or
// numeric.
func (v *Variable) Sentinel() *Sentinel {
	for _, a := range sentinelAttributes {
		val := v.Attribute(a)
		if val == nil {
			continue
		}
		if f, ok := firstFloat(val); ok {
			return &Sentinel{Attribute: a, Value: f}
		}
		return nil
	}
	return nil
}

// firstFloat returns the first element of an attribute value as a float64.
func firstFloat(val interface{}) (float64, bool) {
	switch vv := val.(type) {
	case []uint8:
		if len(vv) > 0 {
			return float64(int8(vv[0])), true
		}
	case []int16:
		if len(vv) > 0 {
			return float64(vv[0]), true
		}
	case []int32:
		if len(vv) > 0 {
			return float64(vv[0]), true
		}
	case []float32:
		if len(vv) > 0 {
			return float64(vv[0]), true
		}
	case []float64:
		if len(vv) > 0 {
			return vv[0], true
		}
	}
	return math.NaN(), false
}

// Values reads the full contents of v and returns them as a dense array
// with v's shape.
func (v *Variable) Values() (*sparse.DenseArray, error) {
	data := sparse.ZerosDense(v.Shape...)
	if len(data.Elements) == 0 {
		return data, nil
	}
	var r cdf.Reader
	if len(v.Shape) > 0 {
		end := make([]int, len(v.Shape))
		for i, l := range v.Shape {
			end[i] = l - 1
		}
		r = v.ds.cf.Reader(v.Name, nil, end)
	} else {
		r = v.ds.cf.Reader(v.Name, nil, nil)
	}
	if r == nil {
		return nil, fmt.Errorf("ncvalidate: variable %s not in %s", v.Name, v.ds.Path)
	}
	buf := r.Zero(len(data.Elements))
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("ncvalidate: reading variable %s: %v", v.Name, err)
	}
	switch vals := buf.(type) {
	case []uint8:
		for i, val := range vals {
			if v.Type == Byte {
				data.Elements[i] = float64(int8(val))
			} else {
				data.Elements[i] = float64(val)
			}
		}
	case []int16:
		for i, val := range vals {
			data.Elements[i] = float64(val)
		}
	case []int32:
		for i, val := range vals {
			data.Elements[i] = float64(val)
		}
	case []float32:
		for i, val := range vals {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, vals)
	default:
		return nil, fmt.Errorf("ncvalidate: variable %s has unsupported type %T", v.Name, buf)
	}
	return data, nil
}
