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

// Package ncvalidate checks that NetCDF files have the structure of a
// template file and that their contents are plausible.
package ncvalidate

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncvalidate/internal/hash"
)

// Version is the version of this software.
const Version = "1.0.0"

// DefaultTemplate is the template used when none is specified. It is a
// file conforming to the IOOS National Glider Data Assembly Center
// NetCDF specification.
const DefaultTemplate = "./templates/IOOS_Glider_NetCDF_v2.0.nc"

// DefaultRules is the rule file used when none is specified.
const DefaultRules = "./settings.cfg"

// Config holds the settings for a validation run.
type Config struct {
	// Template is the path of the template file.
	Template string

	// Rules is the path of the rule file.
	Rules string
}

// ValidateFile validates the NetCDF file at path against cfg.Template.
//
// If path is empty, does not exist or is not a NetCDF file, the returned
// report has OpenFailed set and no checks are run. An error is returned
// only if the template cannot be opened or the rule table is unusable,
// in which case no further files should be validated.
func ValidateFile(cfg Config, path string, rules *RuleTable, log logrus.FieldLogger) (*Report, error) {
	r := &Report{File: path, Template: cfg.Template}
	if path == "" {
		return r.openFailed(fmt.Errorf("no NetCDF file specified for validation"), log), nil
	}
	if _, err := os.Stat(path); err != nil {
		return r.openFailed(fmt.Errorf("invalid NetCDF file specified: %s", path), log), nil
	}

	template, err := OpenDataset(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("ncvalidate: opening template: %v", err)
	}
	defer template.Close()

	candidate, err := OpenDataset(path)
	if err != nil {
		return r.openFailed(err, log), nil
	}
	defer candidate.Close()

	r, err = Compare(template, candidate, rules, log)
	if err != nil {
		return nil, err
	}
	r.TemplateFingerprint = template.Fingerprint()
	return r, nil
}

func (r *Report) openFailed(err error, log logrus.FieldLogger) *Report {
	r.Valid = false
	r.OpenFailed = true
	r.OpenErr = err
	log.WithField("file", r.File).Error(err)
	return r
}

// structure is the part of a Dataset that is compared against a
// candidate file.
type structure struct {
	GlobalAttributes []string
	Dimensions       []string
	Variables        map[string]variableStructure
}

type variableStructure struct {
	Type       string
	Dimensions []string
	Attributes []string
	Sentinel   *Sentinel
}

// Fingerprint returns a hash of the structure of d: its global attribute,
// dimension and variable names, and each variable's type, dimensions,
// attribute names and missing-data value. Datasets with the same
// structure have the same fingerprint regardless of the order entities
// are declared in.
func (d *Dataset) Fingerprint() string {
	s := structure{
		GlobalAttributes: sorted(d.GlobalAttributes()),
		Dimensions:       sorted(d.Dimensions()),
		Variables:        make(map[string]variableStructure),
	}
	for _, name := range d.Variables() {
		v, _ := d.Variable(name)
		s.Variables[name] = variableStructure{
			Type:       v.Type.String(),
			Dimensions: v.Dimensions,
			Attributes: sorted(v.Attributes()),
			Sentinel:   v.Sentinel(),
		}
	}
	return hash.Hash(s)
}

func sorted(s []string) []string {
	o := append([]string(nil), s...)
	sort.Strings(o)
	return o
}
