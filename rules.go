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
	"io/ioutil"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-ini/ini"
	"github.com/spf13/cast"
)

// GeneralRule is the name of the rule that applies to variables that
// do not match any other rule.
const GeneralRule = "general"

// ConfigError is returned when a rule file is unusable.
type ConfigError struct {
	// Rule is the rule the problem was found in, if any.
	Rule string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("ncvalidate: rule configuration: %v", e.Err)
	}
	return fmt.Sprintf("ncvalidate: rule configuration [%s]: %v", e.Rule, e.Err)
}

// Bounds holds the plausible range of a variable's values.
type Bounds struct {
	Min, Max       float64
	HasMin, HasMax bool
}

func (b Bounds) String() string {
	min, max := "none", "none"
	if b.HasMin {
		min = fmt.Sprint(b.Min)
	}
	if b.HasMax {
		max = fmt.Sprint(b.Max)
	}
	return fmt.Sprintf("[%s, %s]", min, max)
}

// RuleEntry is a variable-name pattern and its bounds as written in the
// rule file. Bounds are parsed when the entry is matched.
type RuleEntry struct {
	Pattern  string
	re       *regexp.Regexp
	min, max interface{}
}

// RuleTable maps variable names to bounds. It is not modified after it
// is loaded, so it can be shared between validations.
type RuleTable struct {
	entries []RuleEntry
	general RuleEntry
}

// RuleFormat is the on-disk format of a rule file.
type RuleFormat int

// These are the supported rule file formats.
const (
	INI RuleFormat = iota
	TOML
)

// LoadRules reads the rule file at path. Files ending in ".toml" are
// read as TOML; anything else is read as INI.
func LoadRules(path string) (*RuleTable, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	format := INI
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = TOML
	}
	return ParseRules(b, format)
}

// ParseRules parses a rule file. Each section names a variable pattern,
// in which parentheses stand for square brackets, and holds optional
// "min" and "max" keys. The "general" section is required.
func ParseRules(b []byte, format RuleFormat) (*RuleTable, error) {
	var raw []RuleEntry
	var err error
	switch format {
	case INI:
		raw, err = parseINI(b)
	case TOML:
		raw, err = parseTOML(b)
	default:
		err = fmt.Errorf("invalid rule format %d", format)
	}
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	t := new(RuleTable)
	var haveGeneral bool
	for _, e := range raw {
		if e.Pattern == GeneralRule {
			t.general = e
			haveGeneral = true
			continue
		}
		e.re, err = compilePattern(e.Pattern)
		if err != nil {
			return nil, &ConfigError{Rule: e.Pattern, Err: err}
		}
		t.entries = append(t.entries, e)
	}
	if !haveGeneral {
		return nil, &ConfigError{Err: fmt.Errorf("missing required [%s] section", GeneralRule)}
	}
	return t, nil
}

// compilePattern converts a rule section name to a regular expression that
// must match a whole variable name.
func compilePattern(p string) (*regexp.Regexp, error) {
	p = strings.Replace(p, "(", "[", -1)
	p = strings.Replace(p, ")", "]", -1)
	return regexp.Compile("^(?:" + p + ")$")
}

func parseINI(b []byte) ([]RuleEntry, error) {
	f, err := ini.Load(b)
	if err != nil {
		return nil, err
	}
	var o []RuleEntry
	for _, s := range f.Sections() {
		if s.Name() == ini.DEFAULT_SECTION {
			continue
		}
		e := RuleEntry{Pattern: s.Name()}
		// Keys are read directly so that dotted section names do not
		// inherit from a parent section.
		for _, k := range s.Keys() {
			switch k.Name() {
			case "min":
				e.min = k.String()
			case "max":
				e.max = k.String()
			}
		}
		o = append(o, e)
	}
	return o, nil
}

func parseTOML(b []byte) ([]RuleEntry, error) {
	var sections map[string]map[string]interface{}
	md, err := toml.Decode(string(b), &sections)
	if err != nil {
		return nil, err
	}
	var o []RuleEntry
	for _, k := range md.Keys() {
		if len(k) != 1 {
			continue // keys within sections
		}
		s := sections[k[0]]
		o = append(o, RuleEntry{Pattern: k[0], min: s["min"], max: s["max"]})
	}
	return o, nil
}

// Entries returns the patterns of the table, not including the general
// rule, in the order they are matched.
func (t *RuleTable) Entries() []string {
	if t == nil {
		return nil
	}
	o := make([]string, len(t.entries))
	for i, e := range t.entries {
		o[i] = e.Pattern
	}
	return o
}

// Match returns the rule that applies to the variable called name.
func (t *RuleTable) Match(name string) string {
	return t.match(name).Pattern
}

func (t *RuleTable) match(name string) *RuleEntry {
	if t == nil {
		return &RuleEntry{Pattern: GeneralRule}
	}
	for i := range t.entries {
		if t.entries[i].re.MatchString(name) {
			return &t.entries[i]
		}
	}
	return &t.general
}

// Lookup returns the bounds for the variable called name: those of the
// first rule whose pattern matches the whole name, or those of the
// general rule if none does. A nil table has no bounds.
func (t *RuleTable) Lookup(name string) (Bounds, error) {
	e := t.match(name)
	var b Bounds
	var err error
	if e.min != nil {
		if b.Min, err = cast.ToFloat64E(e.min); err != nil {
			return b, &ConfigError{Rule: e.Pattern, Err: fmt.Errorf("min: %v", err)}
		}
		b.HasMin = true
	}
	if e.max != nil {
		if b.Max, err = cast.ToFloat64E(e.max); err != nil {
			return b, &ConfigError{Rule: e.Pattern, Err: fmt.Errorf("max: %v", err)}
		}
		b.HasMax = true
	}
	return b, nil
}
