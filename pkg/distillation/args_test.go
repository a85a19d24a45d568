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

package distillation

import (
	"io"
	"testing"

	"github.com/pingcap/distiller/pkg/flags"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, enablePretrained bool, args ...string) (Config, error) {
	t.Helper()
	cfg := NewDefaultConfig()
	s := flags.NewSchema("distillation")
	AddArgs(s, &cfg, []string{"resnet18", "resnet50"}, enablePretrained)
	cmd := &cobra.Command{
		Use:           "kd",
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

func TestAddArgs(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t, true)
	require.NoError(t, err)
	require.False(t, cfg.Enabled())
	require.Equal(t, 1.0, cfg.Temperature)

	cfg, err = parse(t, true, "--kd-teacher=ResNet50", "--kd-pretrained",
		"--kd-temp=4", "--kd-dw=0.7", "--kd-sw=0.3", "--kd-start-epoch=2")
	require.NoError(t, err)
	require.True(t, cfg.Enabled())
	require.Equal(t, "resnet50", cfg.Teacher)
	require.True(t, cfg.Pretrained)
	require.Equal(t, 4.0, cfg.Temperature)
	require.Equal(t, 0.7, cfg.DistillWeight)
	require.Equal(t, 0.3, cfg.StudentWeight)
	require.Equal(t, 2, cfg.StartEpoch)
}

func TestAddArgsInvalid(t *testing.T) {
	t.Parallel()

	_, err := parse(t, true, "--kd-teacher=vgg16")
	require.Error(t, err)

	_, err = parse(t, false, "--kd-pretrained")
	require.ErrorContains(t, err, "kd-pretrained")
}
