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
	"github.com/pingcap/distiller/pkg/flags"
)

// Config holds the knowledge distillation options.
type Config struct {
	Teacher     string
	Pretrained  bool
	Resume      string
	Temperature float64
	// Loss weights of the distillation, student and teacher terms.
	DistillWeight float64
	StudentWeight float64
	TeacherWeight float64
	StartEpoch    int
}

// NewDefaultConfig returns the default distillation configuration.
func NewDefaultConfig() Config {
	return Config{
		Temperature:   1.0,
		DistillWeight: 0.5,
		StudentWeight: 0.5,
		TeacherWeight: 0.0,
	}
}

// Enabled reports whether a teacher model was requested.
func (c *Config) Enabled() bool {
	return c.Teacher != ""
}

// AddArgs declares the distillation options. The teacher architecture is
// checked against archNames. --kd-pretrained is only offered when
// enablePretrained is set.
func AddArgs(s *flags.Schema, cfg *Config, archNames []string, enablePretrained bool) {
	s.Var(flags.NewChoice(&cfg.Teacher, cfg.Teacher, archNames, true), "kd-teacher", "",
		"model `ARCH` to use as teacher")
	if enablePretrained {
		s.BoolVar(&cfg.Pretrained, "kd-pretrained", "", cfg.Pretrained,
			"use pre-trained model for teacher")
	}
	s.StringVar(&cfg.Resume, "kd-resume", "", cfg.Resume,
		"`PATH` to checkpoint from which to load teacher weights")
	s.Float64Var(&cfg.Temperature, "kd-temperature", "", cfg.Temperature,
		"knowledge distillation softmax temperature", "kd-temp")
	s.Float64Var(&cfg.DistillWeight, "kd-distill-wt", "", cfg.DistillWeight,
		"weight for distillation loss", "kd-dw")
	s.Float64Var(&cfg.StudentWeight, "kd-student-wt", "", cfg.StudentWeight,
		"weight for student vs. labels loss", "kd-sw")
	s.Float64Var(&cfg.TeacherWeight, "kd-teacher-wt", "", cfg.TeacherWeight,
		"weight for teacher vs. labels loss", "kd-tw")
	s.IntVar(&cfg.StartEpoch, "kd-start-epoch", "", cfg.StartEpoch,
		"epoch from which to enable distillation")
}
