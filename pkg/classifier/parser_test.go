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
	"fmt"
	"strings"
	"testing"

	"github.com/pingcap/distiller/pkg/config"
	"github.com/pingcap/distiller/pkg/errors"
	"github.com/pingcap/distiller/pkg/models"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func parse(t *testing.T, args ...string) (config.RunConfig, error) {
	t.Helper()
	return Parse(zap.NewNop(), models.AllModelNames(), args)
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t, "/data/imagenet")
	require.NoError(t, err)
	require.Equal(t, "/data/imagenet", cfg.Data)
	require.Equal(t, "resnet18", cfg.Arch)
	require.Nil(t, cfg.Loaders)
	require.Equal(t, 90, cfg.Epochs)
	require.Equal(t, 256, cfg.BatchSize)
	require.Equal(t, 0.1, cfg.LR)
	require.Equal(t, 0.9, cfg.Momentum)
	require.Equal(t, 1e-4, cfg.WeightDecay)
	require.Nil(t, cfg.PrintFrequency)
	require.Nil(t, cfg.PrintPeriod)
	require.Empty(t, cfg.Resume)
	require.Empty(t, cfg.LoadStateDict)
	require.Empty(t, cfg.ActivationStats)
	require.Empty(t, cfg.Summary)
	require.Empty(t, cfg.Compress)
	require.Empty(t, cfg.Sensitivity)
	require.Equal(t, []float64{0.0, 0.95, 0.05}, cfg.SensitivityRange)
	require.Nil(t, cfg.GPUs)
	require.False(t, cfg.UseCPU)
	require.Equal(t, "logs", cfg.OutputDir)
	require.Equal(t, 0.0, cfg.ValidationSplit)
	require.Equal(t, 1.0, cfg.EffectiveTrainSize)
	require.Equal(t, 1.0, cfg.EffectiveValidSize)
	require.Equal(t, 1.0, cfg.EffectiveTestSize)
	require.Nil(t, cfg.EarlyExitLossWeights)
	require.Nil(t, cfg.EarlyExitThresholds)
	require.Equal(t, 1, cfg.NumBestScores)

	require.Equal(t, 1.0, cfg.Distillation.Temperature)
	require.Equal(t, "sym", cfg.Quantization.Mode)
	require.Equal(t, "constant", cfg.GreedyPruning.FinetuningPolicy)
	require.Equal(t, "mac-constrained", cfg.AutoML.Protocol)

	require.Equal(t, "resnet18", cfg.Values["arch"])
	require.Equal(t, "256", cfg.Values["batch-size"])
	require.NotContains(t, cfg.Values, "workers")
	require.NotContains(t, cfg.Values, "print-freq")
}

func TestParseArchCaseInsensitive(t *testing.T) {
	t.Parallel()

	for _, name := range models.AllModelNames() {
		cfg, err := parse(t, "--arch", strings.ToUpper(name), "data")
		require.NoError(t, err, name)
		require.Equal(t, name, cfg.Arch)
	}

	cfg, err := parse(t, "-a", "ResNet50", "data")
	require.NoError(t, err)
	require.Equal(t, "resnet50", cfg.Arch)

	_, err = parse(t, "--arch", "transformer", "data")
	require.True(t, errors.Is(err, errors.ErrInvalidChoice))
	require.Contains(t, err.Error(), "--arch")
}

func TestParseFractions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		option  string
		value   string
		wantErr bool
	}{
		{"--validation-split", "0", false},
		{"--validation-split", "0.999", false},
		{"--validation-split", "1.0", true},
		{"--validation-split", "-0.01", true},
		{"--vs", "0.1", false},
		{"--effective-train-size", "0.0", true},
		{"--effective-train-size", "0.001", false},
		{"--effective-train-size", "1.0", false},
		{"--effective-train-size", "1.5", true},
		{"--effective-valid-size", "0", true},
		{"--evs", "0.5", false},
		{"--effective-test-size", "1", false},
		{"--etes", "0", true},
		{"--etrs", "1", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.option+"="+tt.value, func(t *testing.T) {
			t.Parallel()
			_, err := parse(t, tt.option, tt.value, "data")
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, errors.ErrArgumentOutOfRange))
			require.True(t, errors.IsArgumentError(err))
		})
	}

	cfg, err := parse(t, "--vs=0.2", "--etrs=0.5", "data")
	require.NoError(t, err)
	require.Equal(t, 0.2, cfg.ValidationSplit)
	require.Equal(t, 0.5, cfg.EffectiveTrainSize)
}

func TestParseMutuallyExclusive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"resume alone", []string{"--resume", "ckpt.pth"}, false},
		{"state dict alone", []string{"--load-state-dict", "ckpt.pth"}, false},
		{"resume and state dict", []string{"--resume", "a.pth", "--load-state-dict", "b.pth"}, true},
		{"print period alone", []string{"--print-period", "10"}, false},
		{"print frequency alone", []string{"--print-frequency", "4"}, false},
		{"print period and frequency", []string{"--print-period", "10", "--print-frequency", "4"}, true},
		{"gpus alone", []string{"--gpus", "0,1"}, false},
		{"cpu alone", []string{"--use-cpu"}, false},
		{"gpus and cpu", []string{"--gpus", "0", "--use-cpu"}, true},
		{"stats file and calibration", []string{"--qe-stats-file", "s.yaml", "--qe-calibration", "0.05"}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parse(t, append(tt.args, "data")...)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.IsArgumentError(err))
			for _, arg := range tt.args {
				if strings.HasPrefix(arg, "--") {
					require.Contains(t, err.Error(), strings.TrimPrefix(arg, "--"))
				}
			}
		})
	}

	cfg, err := parse(t, "--resume", "ckpt.pth", "--print-period", "7", "data")
	require.NoError(t, err)
	require.Equal(t, "ckpt.pth", cfg.Resume)
	require.Equal(t, 7, *cfg.PrintPeriod)
	require.Nil(t, cfg.PrintFrequency)
}

func TestParseDeprecated(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	cfg, err := Parse(zap.New(core), models.AllModelNames(),
		[]string{"-j", "4", "-p", "3", "--valid-size", "0.2", "data"})
	require.NoError(t, err)
	require.Nil(t, cfg.Loaders)
	require.Nil(t, cfg.PrintPeriod)
	require.Equal(t, 0.0, cfg.ValidationSplit)

	entries := logs.All()
	require.Len(t, entries, 3)
	replacements := make([]string, 0, len(entries))
	for _, entry := range entries {
		require.Equal(t, zapcore.WarnLevel, entry.Level)
		replacements = append(replacements, fmt.Sprint(entry.ContextMap()["replacements"]))
	}
	require.Contains(t, replacements[0], "--validation-split")
	require.Contains(t, replacements[1], "--print-period")
	require.Contains(t, replacements[2], "--loaders")
	require.Contains(t, fmt.Sprint(entries[2].ContextMap()["deprecated"]), "-j")
}

func TestParseWorkersDoesNotSetLoaders(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	cfg, err := Parse(zap.New(core), models.AllModelNames(), []string{"--workers", "4", "data"})
	require.NoError(t, err)
	require.Nil(t, cfg.Loaders)
	require.Equal(t, 1, logs.Len())

	cfg, err = parse(t, "--loaders", "4", "data")
	require.NoError(t, err)
	require.Equal(t, 4, *cfg.Loaders)
}

func TestParseAliases(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t,
		"--learning-rate", "0.01", "--wd", "5e-4", "--reset-lr",
		"--param-hist", "--confusion", "--det",
		"--sense", "FILTER", "--sense-range", "0.1,0.9,0.2",
		"--out-dir", "/tmp/out", "-n", "exp1",
		"--act-stats=train,valid",
		"--earlyexit_lossweights=0.1,0.3", "--earlyexit-thresholds=1.2", "--earlyexit-thresholds=0.9",
		"-b", "128", "-e",
		"data")
	require.NoError(t, err)
	require.Equal(t, 0.01, cfg.LR)
	require.Equal(t, 5e-4, cfg.WeightDecay)
	require.True(t, cfg.ResetOptimizer)
	require.True(t, cfg.LogParamsHistograms)
	require.True(t, cfg.DisplayConfusion)
	require.True(t, cfg.Deterministic)
	require.Equal(t, "filter", cfg.Sensitivity)
	require.Equal(t, []float64{0.1, 0.9, 0.2}, cfg.SensitivityRange)
	require.Equal(t, "/tmp/out", cfg.OutputDir)
	require.Equal(t, "exp1", cfg.Name)
	require.Equal(t, []string{"train", "valid"}, cfg.ActivationStats)
	require.Equal(t, []float64{0.1, 0.3}, cfg.EarlyExitLossWeights)
	require.Equal(t, []float64{1.2, 0.9}, cfg.EarlyExitThresholds)
	require.Equal(t, 128, cfg.BatchSize)
	require.True(t, cfg.Evaluate)
}

func TestParseSummaryAndCompress(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t, "--summary", "PNG_W_PARAMS", "data")
	require.NoError(t, err)
	require.Equal(t, "png_w_params", cfg.Summary)

	_, err = parse(t, "--summary", "layers", "data")
	require.True(t, errors.Is(err, errors.ErrInvalidChoice))

	cfg, err = parse(t, "--compress", "data")
	require.NoError(t, err)
	require.Empty(t, cfg.Compress)
	require.Equal(t, "data", cfg.Data)

	cfg, err = parse(t, "--compress=schedules/agp.yaml", "data")
	require.NoError(t, err)
	require.Equal(t, "schedules/agp.yaml", cfg.Compress)

	cfg, err = parse(t, "--compress=builtin", "data")
	require.NoError(t, err)
	require.Equal(t, "builtin", cfg.Compress)
}

func TestParseListsWithoutValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "loss weights before data", args: []string{"--earlyexit-lossweights", "data"}},
		{name: "loss weights after data", args: []string{"data", "--earlyexit-lossweights"}},
		{name: "thresholds", args: []string{"--earlyexit-thresholds", "data"}},
		{name: "activation stats", args: []string{"--activation-stats", "data"}},
		{name: "activation stats alias", args: []string{"data", "--act-stats"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := parse(t, tt.args...)
			require.NoError(t, err)
			require.Equal(t, "data", cfg.Data)
			require.Empty(t, cfg.ActivationStats)
			require.Empty(t, cfg.EarlyExitLossWeights)
			require.Empty(t, cfg.EarlyExitThresholds)
		})
	}

	cfg, err := parse(t, "--earlyexit-lossweights", "--earlyexit-thresholds=0.8", "data")
	require.NoError(t, err)
	require.NotNil(t, cfg.EarlyExitLossWeights)
	require.Empty(t, cfg.EarlyExitLossWeights)
	require.Equal(t, []float64{0.8}, cfg.EarlyExitThresholds)
}

func TestParseErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		once string
	}{
		{name: "mutually exclusive", args: []string{"--resume", "a", "--load-state-dict", "b", "data"}, once: "were all set"},
		{name: "unknown flag", args: []string{"--bogus", "data"}, once: "--bogus"},
		{name: "malformed int", args: []string{"--epochs=ten", "data"}, once: "--epochs"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parse(t, tt.args...)
			require.True(t, errors.Is(err, errors.ErrArgumentParse), "%v", err)
			msg := err.Error()
			require.NotContains(t, msg, "%!")
			require.Equal(t, 1, strings.Count(msg, tt.once), msg)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing data", nil},
		{"two data dirs", []string{"a", "b"}},
		{"unknown flag", []string{"--no-such-flag", "data"}},
		{"bad int", []string{"--epochs", "many", "data"}},
		{"zero batch size", []string{"--batch-size", "0", "data"}},
		{"short sensitivity range", []string{"--sense-range", "0.1,0.5", "data"}},
		{"bad sensitivity", []string{"--sensitivity", "kernel", "data"}},
		{"bad gpus", []string{"--gpus", "zero", "data"}},
		{"bad teacher", []string{"--kd-teacher", "bert", "data"}},
		{"agent algo is case sensitive", []string{"--amc-agent-algo", "td3", "data"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parse(t, tt.args...)
			require.Error(t, err)
			require.True(t, errors.IsArgumentError(err), err.Error())
		})
	}
}

func TestParseHelp(t *testing.T) {
	t.Parallel()
	_, err := parse(t, "--help")
	require.ErrorIs(t, err, pflag.ErrHelp)
}

func TestParseContributors(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t,
		"--kd-teacher", "ResNet50", "--kd-temp", "4", "--kd-dw", "0.7", "--kd-pretrained",
		"--qe", "--qem", "ASYM_U", "--qeba", "4", "--qencl", "fc,conv1", "--qe-calibration", "0.05",
		"--greedy", "--greedy-target-density", "0.4", "--greedy-finetuning-policy", "linear-grow",
		"--amc", "--amc-protocol", "accuracy-guaranteed", "--amc-agent-algo", "TD3", "--amc-ft-frequency", "10",
		"data")
	require.NoError(t, err)
	require.Equal(t, "resnet50", cfg.Distillation.Teacher)
	require.True(t, cfg.Distillation.Enabled())
	require.Equal(t, 4.0, cfg.Distillation.Temperature)
	require.Equal(t, 0.7, cfg.Distillation.DistillWeight)
	require.True(t, cfg.Distillation.Pretrained)
	require.True(t, cfg.Quantization.QuantizeEval)
	require.Equal(t, "asym_u", cfg.Quantization.Mode)
	require.Equal(t, 4, cfg.Quantization.BitsActs)
	require.Equal(t, []string{"fc", "conv1"}, cfg.Quantization.NoClipLayers)
	require.Equal(t, 0.05, cfg.Quantization.CalibrationSamples)
	require.True(t, cfg.GreedyPruning.Enabled)
	require.Equal(t, 0.4, cfg.GreedyPruning.TargetDensity)
	require.Equal(t, "linear-grow", cfg.GreedyPruning.FinetuningPolicy)
	require.True(t, cfg.AutoML.Enabled)
	require.Equal(t, "accuracy-guaranteed", cfg.AutoML.Protocol)
	require.Equal(t, "TD3", cfg.AutoML.AgentAlgo)
	require.Equal(t, 10, *cfg.AutoML.FinetuneFreq)
	require.Nil(t, cfg.AutoML.RewardFreq)
}

func TestSchemaHasNoCollisions(t *testing.T) {
	t.Parallel()
	p := NewParser(zap.NewNop(), models.AllModelNames())
	require.NoError(t, p.schema.Err())
}

func TestParseResultIsIndependent(t *testing.T) {
	t.Parallel()
	first, err := parse(t, "--act-stats=train", "data")
	require.NoError(t, err)
	second, err := parse(t, "data")
	require.NoError(t, err)
	require.Equal(t, []string{"train"}, first.ActivationStats)
	require.Empty(t, second.ActivationStats)
}
