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
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pingcap/distiller/pkg/classifier"
	"github.com/pingcap/distiller/pkg/config"
	"github.com/pingcap/distiller/pkg/errors"
	"github.com/pingcap/distiller/pkg/models"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	ExitCodeExecuteFailed = 1
	ExitCodeInvalidArgs   = 2
)

const (
	FlagLogLevel = "log-level"
	FlagLogFile  = "log-file"
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFromError returns the code of the first ExitError in the chain,
// or fallback.
func exitCodeFromError(err error, fallback int) int {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return fallback
}

func main() {
	cmd, err := newRootCommand(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitCodeExecuteFailed)
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// Anything cobra returns without an exit code was rejected while
		// parsing the command line.
		os.Exit(exitCodeFromError(err, ExitCodeInvalidArgs))
	}
}

type options struct {
	logLevel string
	logFile  string
}

func newRootCommand(out io.Writer) (*cobra.Command, error) {
	o := &options{}
	parser := classifier.NewParser(nil, models.AllModelNames())
	cmd, err := parser.Command(func(cmd *cobra.Command, cfg config.RunConfig) error {
		if err := run(cmd.OutOrStdout(), cfg, visibleGPUCount()); err != nil {
			return &ExitError{Code: ExitCodeExecuteFailed, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	cmd.PersistentFlags().StringVar(&o.logLevel, FlagLogLevel, "info", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&o.logFile, FlagLogFile, "", "log file path (default: stderr)")
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return initLogger(o.logLevel, o.logFile)
	}
	cmd.SetOut(out)
	return cmd, nil
}

func initLogger(level, file string) error {
	lg, props, err := log.InitLogger(&log.Config{
		Level: level,
		File:  log.FileLogConfig{Filename: file},
	})
	if err != nil {
		return errors.Annotate(err, "init logger failed")
	}
	log.ReplaceGlobals(lg, props)
	return nil
}

func run(out io.Writer, cfg config.RunConfig, availableGPUs int) error {
	if cfg.Summary != "" {
		log.Info("model summary requested, skipping training",
			zap.String("summary", cfg.Summary),
			zap.String("arch", cfg.Arch))
		printOptions(out, cfg.Values)
		return nil
	}

	p, err := buildPlan(cfg, availableGPUs)
	if err != nil {
		return errors.Trace(err)
	}
	log.Info("run plan resolved",
		zap.String("name", cfg.Name),
		zap.String("arch", cfg.Arch),
		zap.String("data", cfg.Data),
		zap.Int("trainSamples", p.trainSamples),
		zap.Int("validSamples", p.validSamples),
		zap.Int("testSamples", p.testSamples),
		zap.Int("loaders", p.loaders),
		zap.Int("printPeriod", p.printPeriod),
		zap.Any("options", cfg.Values))
	p.print(out)
	return nil
}

// visibleGPUCount counts the devices listed in CUDA_VISIBLE_DEVICES.
func visibleGPUCount() int {
	devices := strings.TrimSpace(os.Getenv("CUDA_VISIBLE_DEVICES"))
	if devices == "" {
		return 0
	}
	count := 0
	for _, d := range strings.Split(devices, ",") {
		d = strings.TrimSpace(d)
		if d == "" || strings.HasPrefix(d, "-") {
			// a negative id hides every device after it
			break
		}
		count++
	}
	return count
}
