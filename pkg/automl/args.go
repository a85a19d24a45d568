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

package automl

import (
	"github.com/pingcap/distiller/pkg/flags"
)

var (
	protocols = []string{
		"mac-constrained", "param-constrained", "accuracy-guaranteed",
		"mac-constrained-experimental", "punish-agent",
	}
	prunePatterns = []string{"filters", "channels"}
	pruneMethods  = []string{"l1-rank", "stochastic-l1-rank", "fm-reconstruction"}
	rlLibraries   = []string{"coach", "spinningup", "hanlab", "random"}
	agentAlgos    = []string{
		"ClippedPPO-continuous", "ClippedPPO-discrete", "TD3", "DDPG", "Random-policy",
	}
)

// Config holds the automated deep compression options.
type Config struct {
	Enabled          bool
	Protocol         string
	FinetuneEpochs   int
	FinetuneFreq     *int
	RewardFreq       *int
	PrunePattern     string
	PruneMethod      string
	RLLibrary        string
	AgentAlgo        string
	TargetDensity    float64
	HeatupEpisodes   int
	TrainingEpisodes int
}

// NewDefaultConfig returns the default AutoML configuration.
func NewDefaultConfig() Config {
	return Config{
		Protocol:         "mac-constrained",
		FinetuneEpochs:   1,
		PrunePattern:     "filters",
		PruneMethod:      "l1-rank",
		AgentAlgo:        "ClippedPPO-continuous",
		HeatupEpisodes:   100,
		TrainingEpisodes: 700,
	}
}

// AddArgs declares the AutoML options.
func AddArgs(s *flags.Schema, cfg *Config) {
	s.BoolVar(&cfg.Enabled, "amc", "", cfg.Enabled,
		"AutoML compression")
	s.Var(flags.NewChoice(&cfg.Protocol, cfg.Protocol, protocols, true), "amc-protocol", "",
		"compression-policy search protocol")
	s.Var(flags.NewIntRange(&cfg.FinetuneEpochs, cfg.FinetuneEpochs, flags.AtLeast(0)), "amc-ft-epochs", "",
		"the number of epochs to fine-tune each discovered network")
	s.Var(flags.NewOptionalInt(&cfg.FinetuneFreq), "amc-ft-frequency", "",
		"how many action-steps between fine-tuning; by default there is no fine-tuning between steps")
	s.Var(flags.NewOptionalInt(&cfg.RewardFreq), "amc-reward-frequency", "",
		"reward computation frequency (measured in agent steps)")
	s.Var(flags.NewChoice(&cfg.PrunePattern, cfg.PrunePattern, prunePatterns, true), "amc-prune-pattern", "",
		"the pruning pattern")
	s.Var(flags.NewChoice(&cfg.PruneMethod, cfg.PruneMethod, pruneMethods, true), "amc-prune-method", "",
		"the pruning method")
	s.Var(flags.NewChoice(&cfg.RLLibrary, cfg.RLLibrary, rlLibraries, true), "amc-rllib", "",
		"reinforcement learning library")
	s.Var(flags.NewChoice(&cfg.AgentAlgo, cfg.AgentAlgo, agentAlgos, false), "amc-agent-algo", "",
		"the agent algorithm to use")
	s.Var(flags.NewFloatRange(&cfg.TargetDensity, cfg.TargetDensity, flags.Fraction(true, false)), "amc-target-density", "",
		"target density of the network we are seeking")
	s.Var(flags.NewIntRange(&cfg.HeatupEpisodes, cfg.HeatupEpisodes, flags.AtLeast(0)), "amc-heatup-episodes", "",
		"the number of episodes for heatup/exploration")
	s.Var(flags.NewIntRange(&cfg.TrainingEpisodes, cfg.TrainingEpisodes, flags.AtLeast(0)), "amc-training-episodes", "",
		"the number of episodes for training/exploitation")
}
