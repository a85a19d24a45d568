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
	"io"
	"strings"

	"github.com/pingcap/distiller/pkg/automl"
	"github.com/pingcap/distiller/pkg/config"
	"github.com/pingcap/distiller/pkg/distillation"
	"github.com/pingcap/distiller/pkg/errors"
	"github.com/pingcap/distiller/pkg/flags"
	"github.com/pingcap/distiller/pkg/pruning"
	"github.com/pingcap/distiller/pkg/quantization"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	// SummaryChoices are the model summaries --summary can print.
	SummaryChoices = []string{"sparsity", "compute", "model", "modules", "png", "png_w_params", "onnx"}
	// SensitivityChoices are the pruning granularities --sensitivity can test.
	SensitivityChoices = []string{"element", "filter", "channel"}
)


// Parser turns command line arguments into a config.RunConfig. A Parser is
// good for a single parse.
type Parser struct {
	logger *zap.Logger
	schema *flags.Schema
	cfg    *config.RunConfig
}

// NewParser builds the full schema: the run options followed by the
// distillation, post-training quantization, greedy pruning and AutoML
// contributions. archNames is the allow-list for --arch and --kd-teacher.
// A nil logger means the global logger at the time of parsing.
func NewParser(logger *zap.Logger, archNames []string) *Parser {
	p := &Parser{
		logger: logger,
		schema: flags.NewSchema("classifier"),
		cfg:    config.NewDefaultRunConfig(),
	}
	addRunArgs(p.schema, p.cfg, archNames)
	distillation.AddArgs(p.schema, &p.cfg.Distillation, archNames, true)
	quantization.AddPostTrainArgs(p.schema, &p.cfg.Quantization)
	pruning.AddGreedyPrunerArgs(p.schema, &p.cfg.GreedyPruning)
	automl.AddArgs(p.schema, &p.cfg.AutoML)
	return p
}

func addRunArgs(s *flags.Schema, cfg *config.RunConfig, archNames []string) {
	s.Var(flags.NewChoice(&cfg.Arch, cfg.Arch, archNames, true), "arch", "a",
		fmt.Sprintf("model architecture: %s", strings.Join(archNames, " | ")))
	s.Var(flags.NewOptionalInt(&cfg.Loaders), "loaders", "",
		fmt.Sprintf("number of data loading workers (default: max(%d, %d per GPU). 1 if deterministic is set.)",
			config.DefaultLoadersCount, config.DefaultLoadersCount))
	s.IntVar(&cfg.Epochs, "epochs", "", cfg.Epochs, "number of total epochs to run")
	s.Var(flags.NewIntRange(&cfg.BatchSize, cfg.BatchSize, flags.AtLeast(1)), "batch-size", "b",
		"mini-batch size")

	s.Float64Var(&cfg.LR, "lr", "", cfg.LR, "initial learning rate", "learning-rate")
	s.Float64Var(&cfg.Momentum, "momentum", "", cfg.Momentum, "momentum")
	s.Float64Var(&cfg.WeightDecay, "weight-decay", "", cfg.WeightDecay, "weight decay", "wd")
	s.BoolVar(&cfg.ResetOptimizer, "reset-optimizer", "", cfg.ResetOptimizer,
		"override optimizer if resumed from checkpoint", "reset-lr")

	s.Var(flags.NewOptionalInt(&cfg.PrintFrequency), "print-frequency", "",
		fmt.Sprintf("print frequency (default: %d prints per epoch)", config.DefaultPrintFrequency))
	s.Var(flags.NewOptionalInt(&cfg.PrintPeriod), "print-period", "",
		"print every `N` mini-batches")
	s.MutuallyExclusive("print-frequency", "print-period")

	s.StringVar(&cfg.Resume, "resume", "", cfg.Resume,
		"`PATH` to latest checkpoint")
	s.StringVar(&cfg.LoadStateDict, "load-state-dict", "", cfg.LoadStateDict,
		"load only state dict field from checkpoint at given `PATH`")
	s.MutuallyExclusive("resume", "load-state-dict")

	s.BoolVar(&cfg.Evaluate, "evaluate", "e", cfg.Evaluate, "evaluate model on validation set")
	s.BoolVar(&cfg.Pretrained, "pretrained", "", cfg.Pretrained, "use pre-trained model")
	s.ListVar(flags.NewStringList(&cfg.ActivationStats, cfg.ActivationStats), "activation-stats",
		"collect activation statistics on phases: train, valid, and/or test, as --activation-stats=train,valid (WARNING: this slows down training)",
		"act-stats")
	s.BoolVar(&cfg.MasksSparsity, "masks-sparsity", "", cfg.MasksSparsity,
		"print masks sparsity table at end of each epoch")
	s.BoolVar(&cfg.LogParamsHistograms, "log-params-histograms", "", cfg.LogParamsHistograms,
		"log the parameter tensors histograms to file (WARNING: this can use significant disk space)",
		"param-hist")
	s.Var(flags.NewChoice(&cfg.Summary, cfg.Summary, SummaryChoices, true), "summary", "",
		fmt.Sprintf("print a summary of the model, and exit - options: %s", strings.Join(SummaryChoices, " | ")))
	s.OptionalArg(&cfg.Compress, "compress",
		"configuration file for pruning the model, as --compress=FILE (given bare, use the built-in schedule)")
	s.Var(flags.NewChoice(&cfg.Sensitivity, cfg.Sensitivity, SensitivityChoices, true), "sensitivity", "",
		"test the sensitivity of layers to pruning", "sense")
	s.Var(flags.NewFloatList(&cfg.SensitivityRange, cfg.SensitivityRange), "sensitivity-range", "",
		"range of sparsities to test during sensitivity analysis, as start,stop,step (stop excluded)",
		"sense-range")
	s.StringVar(&cfg.Extras, "extras", "", cfg.Extras, "file with extra configuration information")
	s.BoolVar(&cfg.Deterministic, "deterministic", "", cfg.Deterministic,
		"ensure deterministic execution for re-producible results", "det")

	s.Var(flags.NewDeviceList(&cfg.GPUs), "gpus", "",
		"comma-separated list of GPU device IDs to be used (default: use all available devices)")
	s.BoolVar(&cfg.UseCPU, "use-cpu", "", cfg.UseCPU, "force use of CPU only")
	s.MutuallyExclusive("gpus", "use-cpu")

	s.StringVar(&cfg.Name, "name", "n", cfg.Name, "experiment name")
	s.StringVar(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir,
		"path to dump logs and checkpoints", "out-dir")
	s.Var(flags.NewFloatRange(&cfg.ValidationSplit, cfg.ValidationSplit, flags.Fraction(false, true)),
		"validation-split", "", "portion of training dataset to set aside for validation", "vs")
	s.Var(flags.NewFloatRange(&cfg.EffectiveTrainSize, cfg.EffectiveTrainSize, flags.Fraction(true, false)),
		"effective-train-size", "",
		"portion of training dataset to be used in each epoch, applied after --validation-split", "etrs")
	s.Var(flags.NewFloatRange(&cfg.EffectiveValidSize, cfg.EffectiveValidSize, flags.Fraction(true, false)),
		"effective-valid-size", "",
		"portion of validation dataset to be used in each epoch, applied after --validation-split", "evs")
	s.Var(flags.NewFloatRange(&cfg.EffectiveTestSize, cfg.EffectiveTestSize, flags.Fraction(true, false)),
		"effective-test-size", "", "portion of test dataset to be used in each epoch", "etes")
	s.BoolVar(&cfg.DisplayConfusion, "display-confusion", "", cfg.DisplayConfusion,
		"display the confusion matrix", "confusion")
	s.ListVar(flags.NewFloatList(&cfg.EarlyExitLossWeights, nil), "earlyexit-lossweights",
		"list of loss weights for early exits (e.g. --earlyexit-lossweights=0.1,0.3)")
	s.ListVar(flags.NewFloatList(&cfg.EarlyExitThresholds, nil), "earlyexit-thresholds",
		"list of early exit thresholds (e.g. --earlyexit-thresholds=1.2,0.9)")
	s.IntVar(&cfg.NumBestScores, "num-best-scores", "", cfg.NumBestScores,
		"number of best scores to track and report")
	s.BoolVar(&cfg.LoadSerialized, "load-serialized", "", cfg.LoadSerialized,
		"load a model without DataParallel wrapping it")
	s.BoolVar(&cfg.Thinnify, "thinnify", "", cfg.Thinnify,
		"physically remove zero-filters and create a smaller model")

	s.Deprecate("valid-size", "", []string{"validation-size"}, "--validation-split", "--vs")
	s.Deprecate("print-freq", "p", nil, "--print-period")
	s.Deprecate("workers", "j", nil, "--loaders")
}

// Command returns a cobra command carrying the schema. run receives the
// parsed configuration after every flag check has passed.
func (p *Parser) Command(run func(cmd *cobra.Command, cfg config.RunConfig) error) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "classifier [flags] DIR",
		Short: "Image classification model compression",
		Long: "Train, evaluate and compress image classification models.\n" +
			"DIR is the path to the dataset.",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.ErrArgumentParse.GenWithStackByArgs(
					fmt.Sprintf("expected exactly one dataset directory DIR, got %d positional arguments", len(args)))
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := p.finish(args[0])
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}
	if err := p.schema.Bind(cmd); err != nil {
		return nil, errors.Trace(err)
	}
	return cmd, nil
}

// finish runs the checks which need the whole command line and drops the
// values of deprecated options.
func (p *Parser) finish(data string) (config.RunConfig, error) {
	if len(p.cfg.SensitivityRange) != 3 {
		return config.RunConfig{}, errors.ErrArgumentParse.GenWithStackByArgs(
			fmt.Sprintf("--sensitivity-range expects 3 values (start,stop,step), got %d", len(p.cfg.SensitivityRange)))
	}

	logger := p.logger
	if logger == nil {
		logger = log.L()
	}
	p.schema.WarnDeprecated(logger)

	p.cfg.Data = data
	p.cfg.Values = p.schema.Values()
	return *p.cfg, nil
}

// Parse parses args into a RunConfig. It returns pflag.ErrHelp when help was
// requested. Every failure caused by the arguments is an argument error,
// see errors.IsArgumentError.
func Parse(logger *zap.Logger, archNames []string, args []string) (config.RunConfig, error) {
	var (
		parsed config.RunConfig
		ran    bool
	)
	cmd, err := NewParser(logger, archNames).Command(func(_ *cobra.Command, cfg config.RunConfig) error {
		parsed, ran = cfg, true
		return nil
	})
	if err != nil {
		return config.RunConfig{}, err
	}
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		return config.RunConfig{}, AsArgumentError(err)
	}
	if !ran {
		return config.RunConfig{}, pflag.ErrHelp
	}
	return parsed, nil
}

// AsArgumentError gives errors that cobra raises on its own, such as
// violated mutually exclusive groups, the argument error code.
func AsArgumentError(err error) error {
	if _, ok := errors.RFCCode(err); ok {
		return err
	}
	return errors.WrapError(errors.ErrArgumentParse, err, "command line")
}
