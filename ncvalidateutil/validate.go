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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncvalidate"
)

// ErrNoFiles is returned when there are no files to validate.
var ErrNoFiles = errors.New("ncvalidate: no NetCDF files specified for validation")

// separator is printed after the result for each file.
var separator = strings.Repeat("-", 80)

// Validate validates each of files against cfg.Template using the bounds
// in cfg.Rules, writing a report for each file to w and diagnostics to log.
// The validity of individual files does not affect the returned error,
// which is only non-nil if the run could not be completed: when files is
// empty, or the rule file or template cannot be used.
func Validate(cfg ncvalidate.Config, files []string, w io.Writer, log logrus.FieldLogger) ([]*ncvalidate.Report, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	rules, err := ncvalidate.LoadRules(cfg.Rules)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded rules %v from %s", rules.Entries(), cfg.Rules)

	ctx := context.TODO()
	template, cleanup := maybeDownload(ctx, cfg.Template, log)
	defer cleanup()
	local := cfg
	local.Template = template

	var reports []*ncvalidate.Report
	for _, f := range files {
		r, err := validateOne(ctx, local, f, rules, log.WithField("file", f))
		if err != nil {
			return reports, err
		}
		r.File, r.Template = f, cfg.Template
		if err := writeReport(w, r); err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func validateOne(ctx context.Context, cfg ncvalidate.Config, f string, rules *ncvalidate.RuleTable, log logrus.FieldLogger) (*ncvalidate.Report, error) {
	path, cleanup := maybeDownload(ctx, f, log)
	defer cleanup()
	return ncvalidate.ValidateFile(cfg, path, rules, log)
}

// writeReport writes the summary of r to w.
func writeReport(w io.Writer, r *ncvalidate.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Validating file   : %s\n", r.File)
	fmt.Fprintf(&b, "Validating against: %s\n", r.Template)
	if r.OpenFailed {
		fmt.Fprintf(&b, "Could not open file: %v\n", r.OpenErr)
	} else {
		fmt.Fprintf(&b, "Template fingerprint: %s\n", r.TemplateFingerprint)
		r.WriteSummary(&b)
	}
	if r.Valid {
		fmt.Fprintf(&b, "Valid file: %s\n", r.File)
	} else {
		fmt.Fprintf(&b, "INVALID file: %s\n", r.File)
	}
	fmt.Fprintln(&b, separator)
	_, err := io.WriteString(w, b.String())
	return err
}
