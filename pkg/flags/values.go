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
	"math"
	"strconv"
	"strings"

	"github.com/pingcap/distiller/pkg/errors"
	"github.com/spf13/pflag"
)

// Interval is a numeric bound pair. Each side is either inclusive or
// exclusive.
type Interval struct {
	Min          float64
	Max          float64
	MinExclusive bool
	MaxExclusive bool
}

// Fraction returns the unit interval with the requested exclusivity.
func Fraction(minExclusive, maxExclusive bool) Interval {
	return Interval{Min: 0, Max: 1, MinExclusive: minExclusive, MaxExclusive: maxExclusive}
}

// AtLeast returns the interval [min, +Inf).
func AtLeast(min float64) Interval {
	return Interval{Min: min, Max: math.Inf(1)}
}

// Contains reports whether v lies in the interval.
func (i Interval) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if i.MinExclusive && v <= i.Min || !i.MinExclusive && v < i.Min {
		return false
	}
	if i.MaxExclusive && v >= i.Max || !i.MaxExclusive && v > i.Max {
		return false
	}
	return true
}

func (i Interval) String() string {
	left, right := "[", "]"
	if i.MinExclusive {
		left = "("
	}
	if i.MaxExclusive || math.IsInf(i.Max, 1) {
		right = ")"
	}
	return left + formatFloat(i.Min) + ", " + formatFloat(i.Max) + right
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type floatRangeValue struct {
	p      *float64
	bounds Interval
}

// NewFloatRange returns a float value which rejects anything outside bounds.
func NewFloatRange(p *float64, value float64, bounds Interval) pflag.Value {
	*p = value
	return &floatRangeValue{p: p, bounds: bounds}
}

func (v *floatRangeValue) Set(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.Trace(err)
	}
	if !v.bounds.Contains(f) {
		return errors.ErrArgumentOutOfRange.GenWithStackByArgs(s, v.bounds.String())
	}
	*v.p = f
	return nil
}

func (v *floatRangeValue) String() string { return formatFloat(*v.p) }

func (v *floatRangeValue) Type() string { return "float" }

type intRangeValue struct {
	p      *int
	bounds Interval
}

// NewIntRange returns an int value which rejects anything outside bounds.
func NewIntRange(p *int, value int, bounds Interval) pflag.Value {
	*p = value
	return &intRangeValue{p: p, bounds: bounds}
}

func (v *intRangeValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.Trace(err)
	}
	if !v.bounds.Contains(float64(n)) {
		return errors.ErrArgumentOutOfRange.GenWithStackByArgs(s, v.bounds.String())
	}
	*v.p = n
	return nil
}

func (v *intRangeValue) String() string { return strconv.Itoa(*v.p) }

func (v *intRangeValue) Type() string { return "int" }

// optionalIntValue leaves the target nil until the flag is set, so callers
// can tell "not given" apart from any concrete number.
type optionalIntValue struct {
	p **int
}

// NewOptionalInt returns an int value whose target stays nil unless set.
func NewOptionalInt(p **int) pflag.Value {
	*p = nil
	return &optionalIntValue{p: p}
}

func (v *optionalIntValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.Trace(err)
	}
	*v.p = &n
	return nil
}

func (v *optionalIntValue) String() string {
	if *v.p == nil {
		return ""
	}
	return strconv.Itoa(**v.p)
}

func (v *optionalIntValue) Type() string { return "int" }

type choiceValue struct {
	p        *string
	choices  []string
	foldCase bool
}

// NewChoice returns a string value restricted to choices. With foldCase the
// input is lower-cased before it is matched.
func NewChoice(p *string, value string, choices []string, foldCase bool) pflag.Value {
	*p = value
	return &choiceValue{p: p, choices: choices, foldCase: foldCase}
}

func (v *choiceValue) Set(s string) error {
	if v.foldCase {
		s = strings.ToLower(s)
	}
	for _, c := range v.choices {
		if c == s {
			*v.p = s
			return nil
		}
	}
	return errors.ErrInvalidChoice.GenWithStackByArgs(s, strings.Join(v.choices, ", "))
}

func (v *choiceValue) String() string { return *v.p }

func (v *choiceValue) Type() string { return "string" }

type deviceListValue struct {
	p *[]int
}

// NewDeviceList returns a value parsing a comma separated list of device
// ids. The target stays nil until set.
func NewDeviceList(p *[]int) pflag.Value {
	*p = nil
	return &deviceListValue{p: p}
}

func (v *deviceListValue) Set(s string) error {
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id < 0 {
			return errors.Errorf("invalid device id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return errors.New("empty device id list")
	}
	*v.p = ids
	return nil
}

func (v *deviceListValue) String() string {
	if *v.p == nil {
		return ""
	}
	parts := make([]string, 0, len(*v.p))
	for _, id := range *v.p {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

func (v *deviceListValue) Type() string { return "devices" }

// bareArg is what pflag passes to Set when an option taking an optional
// argument is given bare. NUL can not be part of a process argument, so it
// never collides with a real value.
const bareArg = "\x00"

type optionalArgValue struct {
	p *string
}

// NewOptionalArg returns a string value for a flag that may be given
// without an argument. A bare flag leaves the target empty.
func NewOptionalArg(p *string) pflag.Value {
	*p = ""
	return &optionalArgValue{p: p}
}

func (v *optionalArgValue) Set(s string) error {
	if s == bareArg {
		*v.p = ""
		return nil
	}
	*v.p = s
	return nil
}

func (v *optionalArgValue) String() string { return *v.p }

func (v *optionalArgValue) Type() string { return "string" }

// discardValue accepts and drops anything. It backs deprecated flags.
type discardValue struct{}

func (discardValue) Set(string) error { return nil }

func (discardValue) String() string { return "" }

func (discardValue) Type() string { return "string" }

type floatListValue struct {
	p       *[]float64
	changed bool
}

// NewFloatList returns a list value. Each occurrence of the flag may carry
// comma separated numbers; the first occurrence replaces the default.
func NewFloatList(p *[]float64, value []float64) pflag.Value {
	*p = value
	return &floatListValue{p: p}
}

func (v *floatListValue) Set(s string) error {
	if s == bareArg {
		s = ""
	}
	var out []float64
	if v.changed {
		out = *v.p
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return errors.Trace(err)
		}
		out = append(out, f)
	}
	if out == nil {
		out = []float64{}
	}
	*v.p = out
	v.changed = true
	return nil
}

func (v *floatListValue) String() string {
	parts := make([]string, 0, len(*v.p))
	for _, f := range *v.p {
		parts = append(parts, formatFloat(f))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (v *floatListValue) Type() string { return "floats" }

type stringListValue struct {
	p       *[]string
	changed bool
}

// NewStringList returns a list of strings with the same rules as
// NewFloatList.
func NewStringList(p *[]string, value []string) pflag.Value {
	*p = value
	return &stringListValue{p: p}
}

func (v *stringListValue) Set(s string) error {
	if s == bareArg {
		s = ""
	}
	var out []string
	if v.changed {
		out = *v.p
	}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if out == nil {
		out = []string{}
	}
	*v.p = out
	v.changed = true
	return nil
}

func (v *stringListValue) String() string {
	return "[" + strings.Join(*v.p, ",") + "]"
}

func (v *stringListValue) Type() string { return "strings" }
