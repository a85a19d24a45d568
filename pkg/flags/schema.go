// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package flags

import (
	"strings"

	"github.com/pingcap/distiller/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Schema collects the options recognized by one command line. Options are
// registered by independent contributors; conflicting names, aliases or
// shorthands are reported by Err and Bind instead of panicking.
type Schema struct {
	flags   *pflag.FlagSet
	aliases map[string]string

	groups       [][]string
	deprecations []deprecation

	// valueErr keeps the typed error of the last rejected value, pflag only
	// passes on its text.
	valueErr error
	err      error
}

type deprecation struct {
	name         string
	keys         []string
	replacements []string
}

// NewSchema creates an empty schema.
func NewSchema(name string) *Schema {
	s := &Schema{
		flags:   pflag.NewFlagSet(name, pflag.ContinueOnError),
		aliases: make(map[string]string),
	}
	s.flags.SetNormalizeFunc(s.normalize)
	return s
}

// normalize makes '_' and '-' interchangeable and resolves aliases to the
// canonical option name.
func (s *Schema) normalize(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ReplaceAll(name, "_", "-")
	if canonical, ok := s.aliases[name]; ok {
		return pflag.NormalizedName(canonical)
	}
	return pflag.NormalizedName(name)
}

func (s *Schema) reserve(name, shorthand string, aliases []string) bool {
	if s.err != nil {
		return false
	}
	seen := make(map[string]struct{}, len(aliases)+1)
	for _, n := range append([]string{name}, aliases...) {
		n = strings.ReplaceAll(n, "_", "-")
		_, dup := seen[n]
		if n == "" || dup || s.flags.Lookup(n) != nil {
			s.err = errors.ErrSchemaConflict.GenWithStackByArgs("--" + n)
			return false
		}
		seen[n] = struct{}{}
	}
	if len(shorthand) > 1 {
		s.err = errors.Errorf("shorthand %q of --%s is more than one ASCII character", shorthand, name)
		return false
	}
	if shorthand != "" && s.flags.ShorthandLookup(shorthand) != nil {
		s.err = errors.ErrSchemaConflict.GenWithStackByArgs("-" + shorthand)
		return false
	}
	for _, alias := range aliases {
		s.aliases[strings.ReplaceAll(alias, "_", "-")] = name
	}
	return true
}

type checkedValue struct {
	pflag.Value
	name   string
	schema *Schema
}

func (v *checkedValue) Set(value string) error {
	if err := v.Value.Set(value); err != nil {
		v.schema.valueErr = errors.Annotatef(err, "invalid argument %q for --%s", value, v.name)
		return err
	}
	return nil
}

// Var registers an option backed by a custom value.
func (s *Schema) Var(value pflag.Value, name, shorthand, usage string, aliases ...string) {
	if !s.reserve(name, shorthand, aliases) {
		return
	}
	s.flags.VarP(&checkedValue{Value: value, name: name, schema: s}, name, shorthand, usage)
}

// OptionalArg registers a string option which may also be given bare, in
// which case the target is left empty. A value must be attached with '='.
func (s *Schema) OptionalArg(p *string, name, usage string, aliases ...string) {
	if !s.reserve(name, "", aliases) {
		return
	}
	s.flags.VarP(NewOptionalArg(p), name, "", usage)
	s.flags.Lookup(name).NoOptDefVal = bareArg
}

// ListVar registers a list option taking zero or more values. Given bare
// it sets an empty list, values must then be attached with '='.
func (s *Schema) ListVar(value pflag.Value, name, usage string, aliases ...string) {
	if !s.reserve(name, "", aliases) {
		return
	}
	s.flags.VarP(&checkedValue{Value: value, name: name, schema: s}, name, "", usage)
	s.flags.Lookup(name).NoOptDefVal = bareArg
}

// BoolVar registers a boolean switch.
func (s *Schema) BoolVar(p *bool, name, shorthand string, value bool, usage string, aliases ...string) {
	if !s.reserve(name, shorthand, aliases) {
		return
	}
	s.flags.BoolVarP(p, name, shorthand, value, usage)
}

// IntVar registers an integer option.
func (s *Schema) IntVar(p *int, name, shorthand string, value int, usage string, aliases ...string) {
	if !s.reserve(name, shorthand, aliases) {
		return
	}
	s.flags.IntVarP(p, name, shorthand, value, usage)
}

// Float64Var registers a float option.
func (s *Schema) Float64Var(p *float64, name, shorthand string, value float64, usage string, aliases ...string) {
	if !s.reserve(name, shorthand, aliases) {
		return
	}
	s.flags.Float64VarP(p, name, shorthand, value, usage)
}

// StringVar registers a string option.
func (s *Schema) StringVar(p *string, name, shorthand string, value string, usage string, aliases ...string) {
	if !s.reserve(name, shorthand, aliases) {
		return
	}
	s.flags.StringVarP(p, name, shorthand, value, usage)
}

// StringSliceVar registers a list of strings.
func (s *Schema) StringSliceVar(p *[]string, name, shorthand string, value []string, usage string, aliases ...string) {
	if !s.reserve(name, shorthand, aliases) {
		return
	}
	s.flags.StringSliceVarP(p, name, shorthand, value, usage)
}

// MutuallyExclusive declares that at most one of names may be set.
func (s *Schema) MutuallyExclusive(names ...string) {
	s.groups = append(s.groups, names)
}

// Deprecate registers a hidden option which is still accepted but whose
// value is dropped. Using it only logs a warning pointing at replacements.
func (s *Schema) Deprecate(name, shorthand string, aliases []string, replacements ...string) {
	if !s.reserve(name, shorthand, aliases) {
		return
	}
	s.flags.VarP(discardValue{}, name, shorthand, "")
	s.flags.Lookup(name).Hidden = true

	keys := []string{"--" + name}
	for _, alias := range aliases {
		keys = append(keys, "--"+alias)
	}
	if shorthand != "" {
		keys = append(keys, "-"+shorthand)
	}
	s.deprecations = append(s.deprecations, deprecation{
		name:         name,
		keys:         keys,
		replacements: replacements,
	})
}

// Err returns the first registration error, if any.
func (s *Schema) Err() error {
	return s.err
}

// Bind installs the schema on cmd. Mutual exclusion is enforced by cobra
// when the command executes, and flag errors are turned into argument
// errors.
func (s *Schema) Bind(cmd *cobra.Command) error {
	if s.err != nil {
		return s.err
	}
	for _, group := range s.groups {
		for _, name := range group {
			if s.flags.Lookup(name) == nil {
				return errors.Errorf("mutually exclusive group %v refers to unknown option --%s", group, name)
			}
		}
	}

	cmd.SetGlobalNormalizationFunc(s.normalize)
	cmd.Flags().AddFlagSet(s.flags)
	for _, group := range s.groups {
		cmd.MarkFlagsMutuallyExclusive(group...)
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return s.classify(err)
	})
	return nil
}

func (s *Schema) classify(err error) error {
	if s.valueErr != nil {
		err = s.valueErr
	}
	if _, ok := errors.RFCCode(err); ok {
		return err
	}
	return errors.WrapError(errors.ErrArgumentParse, err, "command line flags")
}

// WarnDeprecated logs one warning for every deprecated option that was
// used. It must run after parsing.
func (s *Schema) WarnDeprecated(logger *zap.Logger) {
	for _, d := range s.deprecations {
		if !s.flags.Changed(d.name) {
			continue
		}
		logger.Warn("arguments have been deprecated and ignored",
			zap.Strings("deprecated", d.keys),
			zap.Strings("replacements", d.replacements))
	}
}

// Changed reports whether the option was set on the command line.
func (s *Schema) Changed(name string) bool {
	return s.flags.Changed(name)
}

// Values returns the effective value of every visible option as text.
func (s *Schema) Values() map[string]string {
	values := make(map[string]string)
	s.flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		values[f.Name] = f.Value.String()
	})
	return values
}
