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

package classifier

import (
	"math"

	"github.com/pingcap/distiller/pkg/config"
	"github.com/pingcap/distiller/pkg/errors"
)

// ResolvePrintPeriod returns the number of mini-batches between progress
// prints.
//
// An explicit period is used as is. Otherwise the period is derived from
// the number of prints per epoch (frequency, or DefaultPrintFrequency) and
// the number of batches in an epoch. When the result is not positive it
// falls back to 1, unless the user asked for the period or frequency
// explicitly, in which case ErrInvalidPrintPeriod is returned.
func ResolvePrintPeriod(period, frequency *int, samples, batchSize int) (int, error) {
	var (
		candidate int
		resolved  bool
	)
	if period != nil {
		candidate, resolved = *period, true
	} else {
		printsPerEpoch := config.DefaultPrintFrequency
		if frequency != nil {
			printsPerEpoch = *frequency
		}
		// Zero divisors leave the period unresolved.
		if batchSize != 0 && printsPerEpoch != 0 {
			batches := int(math.Ceil(float64(samples) / float64(batchSize)))
			candidate, resolved = floorDiv(batches, printsPerEpoch), true
		}
	}

	if !resolved || candidate < 1 {
		if period == nil && frequency == nil {
			return 1, nil
		}
		return 0, errors.ErrInvalidPrintPeriod.GenWithStackByArgs()
	}
	return candidate, nil
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
