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

// Package flags builds command line schemas on top of pflag and cobra.
//
// A Schema is filled by any number of contributors, each declaring its own
// options, aliases, mutually exclusive groups and deprecated spellings.
// Registration never panics: conflicts are collected and reported when the
// schema is bound to a command. Validation happens inside the option values
// so an out-of-range or unknown value fails parsing with a typed error.
package flags
