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
	"math"

	"github.com/pingcap/distiller/pkg/automl"
	"github.com/pingcap/distiller/pkg/distillation"
	"github.com/pingcap/distiller/pkg/pruning"
	"github.com/pingcap/distiller/pkg/quantization"
)

const (
	// DefaultPrintFrequency is the number of progress prints per epoch used
	// when neither a period nor a frequency is given.
	DefaultPrintFrequency = 10
	// DefaultLoadersCount is the minimum number of data loading workers, and
	// the number used per GPU.
	DefaultLoadersCount = 5

	DefaultArch      = "resnet18"
	DefaultEpochs    = 90
	DefaultBatchSize = 256
	DefaultOutputDir = "logs"
)

// RunConfig is the configuration of one compression run. It is produced
// once from the command line and must be treated as read-only afterwards.
// Pointer fields are nil when the option was not given.
type RunConfig struct {
	// Data is the dataset root directory.
	Data    string
	Arch    string
	Loaders *int
	Epochs  int

	BatchSize int

	LR             float64
	Momentum       float64
	WeightDecay    float64
	ResetOptimizer bool

	// At most one of PrintFrequency and PrintPeriod is set.
	PrintFrequency *int
	PrintPeriod    *int

	// At most one of Resume and LoadStateDict is set.
	Resume        string
	LoadStateDict string

	Evaluate            bool
	Pretrained          bool
	ActivationStats     []string
	MasksSparsity       bool
	LogParamsHistograms bool
	// Summary asks for a model summary instead of training.
	Summary string
	// Compress is the compression schedule file. It is empty when the
	// built-in schedule is used.
	Compress         string
	Sensitivity      string
	SensitivityRange []float64
	Extras           string
	Deterministic    bool

	// GPUs is nil when all available devices should be used.
	GPUs   []int
	UseCPU bool

	Name      string
	OutputDir string

	ValidationSplit    float64
	EffectiveTrainSize float64
	EffectiveValidSize float64
	EffectiveTestSize  float64

	DisplayConfusion     bool
	EarlyExitLossWeights []float64
	EarlyExitThresholds  []float64
	NumBestScores        int
	LoadSerialized       bool
	Thinnify             bool

	Distillation  distillation.Config
	Quantization  quantization.PostTrainConfig
	GreedyPruning pruning.GreedyConfig
	AutoML        automl.Config

	// Values is the effective value of every option, keyed by its canonical
	// name.
	Values map[string]string
}

// NewDefaultRunConfig returns a RunConfig holding every default value.
func NewDefaultRunConfig() *RunConfig {
	return &RunConfig{
		Arch:               DefaultArch,
		Epochs:             DefaultEpochs,
		BatchSize:          DefaultBatchSize,
		LR:                 0.1,
		Momentum:           0.9,
		WeightDecay:        1e-4,
		ActivationStats:    []string{},
		SensitivityRange:   []float64{0.0, 0.95, 0.05},
		OutputDir:          DefaultOutputDir,
		ValidationSplit:    0,
		EffectiveTrainSize: 1.0,
		EffectiveValidSize: 1.0,
		EffectiveTestSize:  1.0,
		NumBestScores:      1,

		Distillation:  distillation.NewDefaultConfig(),
		Quantization:  quantization.NewDefaultPostTrainConfig(),
		GreedyPruning: pruning.NewDefaultGreedyConfig(),
		AutoML:        automl.NewDefaultConfig(),
	}
}

// EffectiveLoaders returns the number of data loading workers. An explicit
// --loaders wins; deterministic runs use a single loader; otherwise
// DefaultLoadersCount per GPU with DefaultLoadersCount as the floor.
func (c *RunConfig) EffectiveLoaders(availableGPUs int) int {
	if c.Loaders != nil {
		return *c.Loaders
	}
	if c.Deterministic {
		return 1
	}
	gpus := availableGPUs
	switch {
	case c.UseCPU:
		gpus = 0
	case c.GPUs != nil:
		gpus = len(c.GPUs)
	}
	return max(DefaultLoadersCount, DefaultLoadersCount*gpus)
}

// SensitivityLevels expands SensitivityRange [start, stop, step] into the
// sparsity levels of the half-open range [start, stop).
func (c *RunConfig) SensitivityLevels() []float64 {
	if len(c.SensitivityRange) != 3 {
		return nil
	}
	start, stop, step := c.SensitivityRange[0], c.SensitivityRange[1], c.SensitivityRange[2]
	if step <= 0 || start >= stop {
		return []float64{}
	}
	n := int(math.Ceil((stop - start) / step))
	levels := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		levels = append(levels, start+float64(i)*step)
	}
	return levels
}
