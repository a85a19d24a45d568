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

package pruning

import (
	"github.com/pingcap/distiller/pkg/flags"
)

var finetuningPolicies = []string{"constant", "linear-grow"}

// GreedyConfig holds the options of the greedy filter pruner.
type GreedyConfig struct {
	Enabled          bool
	FinetuneEpochs   int
	TargetDensity    float64
	PruningStep      float64
	FinetuningPolicy string
}

// NewDefaultGreedyConfig returns the default greedy pruner configuration.
func NewDefaultGreedyConfig() GreedyConfig {
	return GreedyConfig{
		FinetuneEpochs:   1,
		TargetDensity:    0.5,
		PruningStep:      0.10,
		FinetuningPolicy: "constant",
	}
}

// AddGreedyPrunerArgs declares the greedy filter pruner options.
func AddGreedyPrunerArgs(s *flags.Schema, cfg *GreedyConfig) {
	s.BoolVar(&cfg.Enabled, "greedy", "", cfg.Enabled,
		"greedy filter pruning")
	s.Var(flags.NewIntRange(&cfg.FinetuneEpochs, cfg.FinetuneEpochs, flags.AtLeast(0)), "greedy-ft-epochs", "",
		"number of epochs to fine-tune each discovered network")
	s.Var(flags.NewFloatRange(&cfg.TargetDensity, cfg.TargetDensity, flags.Fraction(true, false)), "greedy-target-density", "",
		"target density of the network we are seeking")
	s.Var(flags.NewFloatRange(&cfg.PruningStep, cfg.PruningStep, flags.Fraction(true, true)), "greedy-pruning-step", "",
		"size of each pruning step (as a fraction of [0..1])")
	s.Var(flags.NewChoice(&cfg.FinetuningPolicy, cfg.FinetuningPolicy, finetuningPolicies, true), "greedy-finetuning-policy", "",
		"policy used for determining how long to fine-tune")
}
