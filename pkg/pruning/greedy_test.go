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
	"io"
	"testing"

	"github.com/pingcap/distiller/pkg/errors"
	"github.com/pingcap/distiller/pkg/flags"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (GreedyConfig, error) {
	t.Helper()
	cfg := NewDefaultGreedyConfig()
	s := flags.NewSchema("greedy")
	AddGreedyPrunerArgs(s, &cfg)
	cmd := &cobra.Command{
		Use:           "greedy",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          func(*cobra.Command, []string) error { return nil },
	}
	require.NoError(t, s.Bind(cmd))
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cfg, cmd.Execute()
}

func TestAddGreedyPrunerArgs(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t)
	require.NoError(t, err)
	require.Equal(t, NewDefaultGreedyConfig(), cfg)
	require.False(t, cfg.Enabled)

	cfg, err = parse(t, "--greedy", "--greedy-ft-epochs=3", "--greedy-target-density=1",
		"--greedy_pruning_step", "0.05", "--greedy-finetuning-policy=Linear-Grow")
	require.NoError(t, err)
	require.True(t, cfg.Enabled)
	require.Equal(t, 3, cfg.FinetuneEpochs)
	require.Equal(t, 1.0, cfg.TargetDensity)
	require.Equal(t, 0.05, cfg.PruningStep)
	require.Equal(t, "linear-grow", cfg.FinetuningPolicy)
}

func TestAddGreedyPrunerArgsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		target *errors.Error
	}{
		{name: "zero density", args: []string{"--greedy-target-density=0"}, target: errors.ErrArgumentOutOfRange},
		{name: "density above one", args: []string{"--greedy-target-density=1.01"}, target: errors.ErrArgumentOutOfRange},
		{name: "zero step", args: []string{"--greedy-pruning-step=0"}, target: errors.ErrArgumentOutOfRange},
		{name: "full step", args: []string{"--greedy-pruning-step=1"}, target: errors.ErrArgumentOutOfRange},
		{name: "negative epochs", args: []string{"--greedy-ft-epochs=-1"}, target: errors.ErrArgumentOutOfRange},
		{name: "unknown policy", args: []string{"--greedy-finetuning-policy=exponential"}, target: errors.ErrInvalidChoice},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parse(t, tt.args...)
			require.True(t, errors.Is(err, tt.target), "%v", err)
		})
	}
}
