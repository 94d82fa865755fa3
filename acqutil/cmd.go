/*
Copyright © 2023 the acqdata authors.
This file is part of acqdata.

acqdata is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

acqdata is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with acqdata.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package acqutil implements the acqdata command line interface.
package acqutil

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/acqdata"
	"github.com/spatialmodel/acqdata/ncstore"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log receives progress messages and repair warnings.
var Log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to acqdata.
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
			name: "loglevel",
			usage: `
              loglevel sets the verbosity of log messages: one of
              panic, fatal, error, warn, info, debug or trace.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "cachesize",
			usage: `
              cachesize is the number of data files kept in memory
              while a command runs.`,
			defaultVal: ncstore.DefaultCacheSize,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "input",
			usage: `
              input specifies the data file to read.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{inspectCmd.Flags(), sliceCmd.Flags()},
		},
		{
			name: "inputs",
			usage: `
              inputs specifies the data files to combine.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{averageCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output specifies the data file to write.`,
			shorthand:  "o",
			defaultVal: "acqdata.nc",
			flagsets:   []*pflag.FlagSet{generateCmd.Flags(), sliceCmd.Flags(), averageCmd.Flags()},
		},
		{
			name: "generate.nnav",
			usage: `
              generate.nnav is the number of navigation steps of the
              generated scan.`,
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{generateCmd.Flags()},
		},
		{
			name: "generate.nsig",
			usage: `
              generate.nsig is the number of points of each generated
              spectrum.`,
			defaultVal: 200,
			flagsets:   []*pflag.FlagSet{generateCmd.Flags()},
		},
		{
			name: "generate.name",
			usage: `
              generate.name is the name of the generated scan, also used
              as the origin of its data.`,
			defaultVal: "scan",
			flagsets:   []*pflag.FlagSet{generateCmd.Flags()},
		},
		{
			name: "slice.navigation",
			usage: `
              slice.navigation specifies whether the selection applies
              to the navigation dimensions (true) or to the signal
              dimensions (false).`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "slice.select",
			usage: `
              slice.select is a comma-separated list of selections, one
              per dimension: a position such as 3 keeps only that position
              and removes the dimension, a range such as 2:5, 2: or :5
              keeps part of it. Negative positions count from the end.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ACQDATA")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(configCmd)
	Root.AddCommand(generateCmd)
	Root.AddCommand(inspectCmd)
	Root.AddCommand(sliceCmd)
	Root.AddCommand(averageCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return errors.Wrap(err, "acqdata: problem reading configuration file")
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return errors.Wrap(err, "acqdata")
	}
	Log.SetLevel(level)
	if n := Cfg.GetInt("cachesize"); n != reader.CacheSize {
		reader = ncstore.NewReader(n)
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "acqdata",
	Short: "Labeled multidimensional measurement data.",
	Long: `acqdata creates, inspects and processes files of labeled multidimensional
measurement data: named collections of arrays whose dimensions are described by
axes and split into navigation and signal dimensions.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ACQDATA_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of acqdata.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "acqdata v%s\n", acqdata.Version)
	},
	DisableAutoGenTag: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration",
	Long: `config prints the configuration in effect, after reading the configuration
file, environment variables and command-line arguments, in TOML format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(Cfg.AllSettings())
	},
	DisableAutoGenTag: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic scan",
	Long: `generate writes a synthetic scan of gaussian spectra to the output file:
generate.nnav spectra of generate.nsig points each, shifted at every
navigation step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Generate(Cfg.GetString("output"), Cfg.GetString("generate.name"),
			Cfg.GetInt("generate.nnav"), Cfg.GetInt("generate.nsig"))
	},
	DisableAutoGenTag: true,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Describe the contents of a data file",
	Long: `inspect prints a table describing every data item of the input file: its full
name, kind, dimensionality, source, distribution, (navigation|signal) shape and
channel labels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Inspect(cmd.Context(), cmd.OutOrStdout(), Cfg.GetString("input"))
	},
	DisableAutoGenTag: true,
}

var sliceCmd = &cobra.Command{
	Use:   "slice",
	Short: "Select part of every data item of a file",
	Long: `slice applies slice.select to the navigation (or signal) dimensions of every
data item of the input file and writes the result to the output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := ParseSelection(Cfg.GetString("slice.select"))
		if err != nil {
			return err
		}
		return SliceFile(cmd.Context(), Cfg.GetString("input"), Cfg.GetString("output"), Cfg.GetBool("slice.navigation"), sel)
	},
	DisableAutoGenTag: true,
}

var averageCmd = &cobra.Command{
	Use:   "average",
	Short: "Average several data files",
	Long: `average computes the running average of the data files listed in inputs,
which must hold the same data items with the same shapes, and writes it to
the output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := cast.ToStringSliceE(Cfg.Get("inputs"))
		if err != nil {
			return errors.Wrap(err, "acqdata: invalid inputs")
		}
		return Average(cmd.Context(), Cfg.GetString("output"), inputs)
	},
	DisableAutoGenTag: true,
}
