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

// Package ncvalidateutil holds the command-line interface for ncvalidate.
package ncvalidateutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ncvalidate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ncvalidate.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "template",
			usage: `
              template is the NetCDF file that the files to be validated are
              compared against. It can be a local path, an http(s) URL, or a
              blob storage location (file://, gs://, or s3://).`,
			shorthand:  "t",
			defaultVal: ncvalidate.DefaultTemplate,
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
		{
			name: "rules",
			usage: `
              rules is the location of the file holding the plausible minimum
              and maximum values for each variable. Each section of the file is
              a variable name pattern, with parentheses standing in for square
              brackets, or 'general' for variables matching no other pattern.
              Files ending in .toml are read as TOML, others as INI.`,
			shorthand:  "r",
			defaultVal: ncvalidate.DefaultRules,
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether to print debugging information.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("NCVALIDATE")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	Root.AddCommand(versionCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ncvalidate: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "ncvalidate [flags] file...",
	Short: "Validate NetCDF files against a template.",
	Long: `ncvalidate compares each of the given NetCDF files against a template
NetCDF file. A file is valid if it has every global attribute, dimension and
variable of the template, if each variable has the template's data type,
dimensions and attributes, and if each variable's values pass the content
checks configured in the rule file.

Results are printed to standard output and diagnostics to standard error.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'NCVALIDATE_var' where 'var'
is the name of the variable to be set.`,
	Args:              cobra.ArbitraryArgs,
	DisableAutoGenTag: true,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := Validate(Config(Cfg), args, cmd.OutOrStdout(), newLogger(Cfg.GetBool("verbose")))
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ncvalidate.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ncvalidate v%s\n", ncvalidate.Version)
	},
	DisableAutoGenTag: true,
}

// Config returns the validation settings held in cfg, with environment
// variables expanded.
func Config(cfg *viper.Viper) ncvalidate.Config {
	return ncvalidate.Config{
		Template: os.ExpandEnv(cfg.GetString("template")),
		Rules:    os.ExpandEnv(cfg.GetString("rules")),
	}
}

// newLogger returns a logger that writes diagnostics to standard error.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stderr
	log.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	if verbose {
		log.Level = logrus.DebugLevel
	} else {
		log.Level = logrus.WarnLevel
	}
	return log
}
