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

package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/distiller/pkg/errors"
)

// Extras is the supplementary configuration passed with --extras.
type Extras struct {
	Experiment ExperimentExtras `toml:"experiment" json:"experiment"`
	Dataset    DatasetExtras    `toml:"dataset" json:"dataset"`
}

// ExperimentExtras describes the run for bookkeeping.
type ExperimentExtras struct {
	Tags  []string `toml:"tags" json:"tags"`
	Notes string   `toml:"notes" json:"notes"`
}

// DatasetExtras overrides what would otherwise be discovered from the
// dataset directory.
type DatasetExtras struct {
	// TrainSamples is the number of training samples before any validation
	// split. Zero means count the files on disk.
	TrainSamples int `toml:"train-samples" json:"train_samples"`
	// TestSamples is the number of test samples. Zero means count the
	// files on disk.
	TestSamples int `toml:"test-samples" json:"test_samples"`
}

// LoadExtras decodes the extras file strictly. Unknown keys are an error.
func LoadExtras(path string) (*Extras, error) {
	extras := &Extras{}
	if err := strictDecodeFile(path, extras); err != nil {
		return nil, errors.WrapError(errors.ErrDecodeExtrasFailed, err, path)
	}
	if err := extras.validate(); err != nil {
		return nil, errors.WrapError(errors.ErrDecodeExtrasFailed, err, path)
	}
	return extras, nil
}

func (e *Extras) validate() error {
	if e.Dataset.TrainSamples < 0 {
		return errors.Errorf("dataset.train-samples must be >= 0: %d", e.Dataset.TrainSamples)
	}
	if e.Dataset.TestSamples < 0 {
		return errors.Errorf("dataset.test-samples must be >= 0: %d", e.Dataset.TestSamples)
	}
	return nil
}

// strictDecodeFile decodes the toml file strictly. If any item in the file
// is not mapped into cfg, an error listing them is returned.
func strictDecodeFile(path string, cfg interface{}) error {
	metaData, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Trace(err)
	}

	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		var b strings.Builder
		for i, item := range undecoded {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.String())
		}
		return errors.Errorf("file %s contained unknown configuration options: %s", path, b.String())
	}
	return nil
}
