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

package quantization

import (
	"github.com/pingcap/distiller/pkg/flags"
)

// Linear quantization modes.
var modeChoices = []string{"sym", "asym_s", "asym_u"}

// Activation clipping modes.
var clipChoices = []string{"none", "avg", "n_std", "gauss", "laplace"}

var backendChoices = []string{"fbgemm", "qnnpack"}

// PostTrainConfig holds the post-training quantization options.
type PostTrainConfig struct {
	QuantizeEval       bool
	Mode               string
	ModeActs           string
	ModeWeights        string
	BitsActs           int
	BitsWeights        int
	BitsAccum          int
	ClipActs           string
	ClipNStds          float64
	NoClipLayers       []string
	NoQuantLayers      []string
	PerChannel         bool
	ScaleApproxBits    *int
	SaveFPWeights      bool
	ConvertPyTorch     bool
	PyTorchBackend     string
	ConfigFile         string
	StatsFile          string
	CalibrationSamples float64
	Dynamic            bool
	LAPQ               bool
}

// NewDefaultPostTrainConfig returns the default post-training quantization
// configuration.
func NewDefaultPostTrainConfig() PostTrainConfig {
	return PostTrainConfig{
		Mode:           "sym",
		BitsActs:       8,
		BitsWeights:    8,
		BitsAccum:      32,
		ClipActs:       "none",
		NoClipLayers:   []string{},
		NoQuantLayers:  []string{},
		PyTorchBackend: "fbgemm",
	}
}

// AddPostTrainArgs declares the post-training quantization options.
func AddPostTrainArgs(s *flags.Schema, cfg *PostTrainConfig) {
	s.BoolVar(&cfg.QuantizeEval, "quantize-eval", "", cfg.QuantizeEval,
		"apply linear quantization to model before evaluation", "qe")
	s.Var(flags.NewChoice(&cfg.Mode, cfg.Mode, modeChoices, true), "qe-mode", "",
		"default linear quantization mode (for weights and activations)", "qem")
	s.Var(flags.NewChoice(&cfg.ModeActs, cfg.ModeActs, modeChoices, true), "qe-mode-acts", "",
		"linear quantization mode for activations, overrides --qe-mode", "qema")
	s.Var(flags.NewChoice(&cfg.ModeWeights, cfg.ModeWeights, modeChoices, true), "qe-mode-wts", "",
		"linear quantization mode for weights, overrides --qe-mode", "qemw")
	s.Var(flags.NewIntRange(&cfg.BitsActs, cfg.BitsActs, flags.AtLeast(0)), "qe-bits-acts", "",
		"number of bits for quantization of activations; 0 disables", "qeba")
	s.Var(flags.NewIntRange(&cfg.BitsWeights, cfg.BitsWeights, flags.AtLeast(0)), "qe-bits-wts", "",
		"number of bits for quantization of weights; 0 disables", "qebw")
	s.Var(flags.NewIntRange(&cfg.BitsAccum, cfg.BitsAccum, flags.AtLeast(0)), "qe-bits-accum", "",
		"number of bits for quantization of the accumulator")
	s.Var(flags.NewChoice(&cfg.ClipActs, cfg.ClipActs, clipChoices, true), "qe-clip-acts", "",
		"activations clipping mode", "qeca")
	s.Float64Var(&cfg.ClipNStds, "qe-clip-n-stds", "", cfg.ClipNStds,
		"when --qe-clip-acts is n_std, the number of standard deviations to clip at")
	s.StringSliceVar(&cfg.NoClipLayers, "qe-no-clip-layers", "", cfg.NoClipLayers,
		"`LAYER` names for which not to clip activations", "qencl")
	s.StringSliceVar(&cfg.NoQuantLayers, "qe-no-quant-layers", "", cfg.NoQuantLayers,
		"`LAYER` names to keep in full precision", "qenql")
	s.BoolVar(&cfg.PerChannel, "qe-per-channel", "", cfg.PerChannel,
		"enable per-channel quantization of weights", "qepc")
	s.Var(flags.NewOptionalInt(&cfg.ScaleApproxBits), "qe-scale-approx-bits", "",
		"enable scale factor approximation using integer multiply + bit shift with this many bits", "qesab")
	s.BoolVar(&cfg.SaveFPWeights, "qe-save-fp-weights", "", cfg.SaveFPWeights,
		"keep a copy of the floating-point weights")
	s.BoolVar(&cfg.ConvertPyTorch, "qe-convert-pytorch", "", cfg.ConvertPyTorch,
		"convert the quantized model to a native framework model", "qept")
	s.Var(flags.NewChoice(&cfg.PyTorchBackend, cfg.PyTorchBackend, backendChoices, true), "qe-pytorch-backend", "",
		"quantized kernels backend used after conversion")
	s.StringVar(&cfg.ConfigFile, "qe-config-file", "", cfg.ConfigFile,
		"`PATH` to a quantizer configuration file; other --qe options are ignored when set")
	s.StringVar(&cfg.StatsFile, "qe-stats-file", "", cfg.StatsFile,
		"`PATH` to a file with pre-collected activation statistics")
	s.Var(flags.NewFloatRange(&cfg.CalibrationSamples, cfg.CalibrationSamples, flags.Fraction(true, false)), "qe-calibration", "",
		"run the model to collect activation statistics on this `PORTION` of the test set")
	s.MutuallyExclusive("qe-stats-file", "qe-calibration")
	s.BoolVar(&cfg.Dynamic, "qe-dynamic", "", cfg.Dynamic,
		"apply dynamic quantization to activations")
	s.BoolVar(&cfg.LAPQ, "qe-lapq", "", cfg.LAPQ,
		"search quantization clipping values with loss-aware post-training quantization")
}
