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

// Error is a normalized error carrying an RFC code.
type Error = errors.Error

// WrapError generates a new error based on given `*errors.Error`, wraps the err
// as cause error. args fill the message of rfcError, the cause is appended
// after it.
// If given `err` is nil, returns a nil error, which is a the different behavior
// against `Wrap` function in pingcap/errors.
func WrapError(rfcError *errors.Error, err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return rfcError.Wrap(err).GenWithStackByArgs(args...)
}

// RFCCode returns a RFCCode for an error, or false if the error has no code
// anywhere in its cause chain.
func RFCCode(err error) (errors.RFCErrorCode, bool) {
	type rfcCoder interface {
		RFCCode() errors.RFCErrorCode
	}
	for err != nil {
		if coder, ok := err.(rfcCoder); ok {
			return coder.RFCCode(), true
		}
		switch e := err.(type) {
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Cause() error }:
			err = e.Cause()
		default:
			err = nil
		}
	}
	return "", false
}

// Is reports whether err carries the RFC code of target.
func Is(err error, target *errors.Error) bool {
	code, ok := RFCCode(err)
	return ok && code == target.RFCCode()
}

// IsArgumentError reports whether err was produced while parsing or
// validating command line arguments.
func IsArgumentError(err error) bool {
	return Is(err, ErrArgumentParse) ||
		Is(err, ErrArgumentOutOfRange) ||
		Is(err, ErrInvalidChoice)
}

// Errors re-exported from pingcap/errors so callers only import this package.
var (
	Trace     = errors.Trace
	Annotate  = errors.Annotate
	Annotatef = errors.Annotatef
	Errorf    = errors.Errorf
	New       = errors.New
	Cause     = errors.Cause
)
