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

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pingcap/distiller/pkg/classifier"
	"github.com/pingcap/distiller/pkg/config"
	"github.com/pingcap/distiller/pkg/dataset"
	"github.com/pingcap/distiller/pkg/errors"
	"github.com/pingcap/distiller/pkg/models"
	"github.com/pingcap/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type plan struct {
	arch         string
	family       string
	trainSamples int
	validSamples int
	testSamples  int
	loaders      int
	printPeriod  int
	sensitivity  []float64
	extras       *config.Extras
}

func buildPlan(cfg config.RunConfig, availableGPUs int) (*plan, error) {
	p := &plan{
		arch:    cfg.Arch,
		loaders: cfg.EffectiveLoaders(availableGPUs),
		extras:  &config.Extras{},
	}
	p.family, _ = models.DatasetOf(cfg.Arch)

	if cfg.Extras != "" {
		extras, err := config.LoadExtras(cfg.Extras)
		if err != nil {
			return nil, errors.Trace(err)
		}
		p.extras = extras
	}

	total, test, err := countSamples(cfg.Data, p.extras.Dataset, cfg.Evaluate)
	if err != nil {
		return nil, errors.Trace(err)
	}
	p.trainSamples, p.validSamples = dataset.SplitSizes(
		total, cfg.ValidationSplit, cfg.EffectiveTrainSize, cfg.EffectiveValidSize)
	p.testSamples = dataset.SubsetLength(test, cfg.EffectiveTestSize)

	samples := p.trainSamples
	if cfg.Evaluate {
		samples = p.testSamples
	}
	period, err := classifier.ResolvePrintPeriod(cfg.PrintPeriod, cfg.PrintFrequency, samples, cfg.BatchSize)
	if err != nil {
		return nil, errors.Trace(err)
	}
	p.printPeriod = period

	if cfg.Sensitivity != "" {
		p.sensitivity = cfg.SensitivityLevels()
	}
	return p, nil
}

// countSamples sizes both splits, preferring the counts given in extras.
// A missing test split only disables evaluation, unless evaluating is the
// whole run.
func countSamples(root string, extras config.DatasetExtras, evaluate bool) (train, test int, err error) {
	train, test = extras.TrainSamples, extras.TestSamples

	var g errgroup.Group
	if train == 0 {
		g.Go(func() error {
			n, err := dataset.CountSamples(root, dataset.TrainSplit)
			train = n
			return errors.Trace(err)
		})
	}
	if test == 0 {
		g.Go(func() error {
			n, err := dataset.CountSamples(root, dataset.TestSplit)
			if !evaluate && errors.Is(err, errors.ErrDatasetNotFound) {
				log.Warn("test split not found, evaluation is skipped", zap.Error(err))
				return nil
			}
			test = n
			return errors.Trace(err)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return train, test, nil
}

func (p *plan) print(out io.Writer) {
	fmt.Fprintf(out, "arch: %s\n", p.arch)
	if p.family != "" {
		fmt.Fprintf(out, "dataset family: %s\n", p.family)
	}
	fmt.Fprintf(out, "samples: train=%d valid=%d test=%d\n", p.trainSamples, p.validSamples, p.testSamples)
	fmt.Fprintf(out, "loaders: %d\n", p.loaders)
	fmt.Fprintf(out, "print period: %d\n", p.printPeriod)
	if p.sensitivity != nil {
		levels := make([]string, 0, len(p.sensitivity))
		for _, l := range p.sensitivity {
			levels = append(levels, fmt.Sprintf("%.2f", l))
		}
		fmt.Fprintf(out, "sensitivity levels: %s\n", strings.Join(levels, " "))
	}
	if len(p.extras.Experiment.Tags) > 0 {
		fmt.Fprintf(out, "tags: %s\n", strings.Join(p.extras.Experiment.Tags, ", "))
	}
}

func printOptions(out io.Writer, values map[string]string) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s = %s\n", name, values[name])
	}
}
