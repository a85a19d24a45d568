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

package errors

import (
	"github.com/pingcap/errors"
)

// errors
var (
	// argument parsing related errors
	ErrArgumentParse = errors.Normalize(
		"failed to parse arguments: %s",
		errors.RFCCodeText("DST:ErrArgumentParse"),
	)
	ErrArgumentOutOfRange = errors.Normalize(
		"value %s is out of range %s",
		errors.RFCCodeText("DST:ErrArgumentOutOfRange"),
	)
	ErrInvalidChoice = errors.Normalize(
		"invalid choice %q (choose from %s)",
		errors.RFCCodeText("DST:ErrInvalidChoice"),
	)
	ErrSchemaConflict = errors.Normalize(
		"option %s conflicts with an already registered option",
		errors.RFCCodeText("DST:ErrSchemaConflict"),
	)

	// run planning related errors
	ErrInvalidPrintPeriod = errors.Normalize(
		"print_period argument must be greater or equal to 1",
		errors.RFCCodeText("DST:ErrInvalidPrintPeriod"),
	)
	ErrDecodeExtrasFailed = errors.Normalize(
		"decode extras file %s failed",
		errors.RFCCodeText("DST:ErrDecodeExtrasFailed"),
	)
	ErrDatasetNotFound = errors.Normalize(
		"dataset directory %s not found",
		errors.RFCCodeText("DST:ErrDatasetNotFound"),
	)
)
