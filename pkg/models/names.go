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

package models

import (
	"sort"
	"strings"
)

// Dataset families the architectures are built for.
const (
	ImageNet = "imagenet"
	CIFAR10  = "cifar10"
	MNIST    = "mnist"
)

var imagenetModels = []string{
	"alexnet",
	"densenet121", "densenet161", "densenet169", "densenet201",
	"googlenet", "inception_v3",
	"mobilenet", "mobilenet_v2", "mobilenet_025", "mobilenet_050", "mobilenet_075",
	"resnet18", "resnet34", "resnet50", "resnet101", "resnet152",
	"preact_resnet18", "preact_resnet34", "preact_resnet50", "preact_resnet101", "preact_resnet152",
	"resnext50_32x4d", "resnext101_32x8d",
	"shufflenet_v2_x0_5", "shufflenet_v2_x1_0",
	"squeezenet1_0", "squeezenet1_1",
	"vgg11", "vgg11_bn", "vgg13", "vgg13_bn", "vgg16", "vgg16_bn", "vgg19", "vgg19_bn",
	"wide_resnet50_2", "wide_resnet101_2",
}

var cifar10Models = []string{
	"plain20_cifar",
	"preact_resnet20_cifar", "preact_resnet32_cifar", "preact_resnet44_cifar",
	"preact_resnet56_cifar", "preact_resnet110_cifar",
	"resnet20_cifar", "resnet32_cifar", "resnet44_cifar", "resnet56_cifar", "resnet110_cifar",
	"resnet20_cifar_earlyexit", "resnet32_cifar_earlyexit", "resnet44_cifar_earlyexit",
	"resnet56_cifar_earlyexit", "resnet110_cifar_earlyexit",
	"simplenet_cifar",
	"vgg11_cifar", "vgg13_cifar", "vgg16_cifar", "vgg19_cifar",
}

var mnistModels = []string{
	"simplenet_mnist", "simplenet_v2_mnist",
}

// AllModelNames returns the sorted names of every known architecture.
func AllModelNames() []string {
	names := make([]string, 0, len(imagenetModels)+len(cifar10Models)+len(mnistModels))
	names = append(names, imagenetModels...)
	names = append(names, cifar10Models...)
	names = append(names, mnistModels...)
	sort.Strings(names)
	return names
}

// DatasetOf returns the dataset family an architecture belongs to, or
// false for unknown names.
func DatasetOf(arch string) (string, bool) {
	arch = strings.ToLower(arch)
	for _, group := range []struct {
		dataset string
		names   []string
	}{
		{ImageNet, imagenetModels},
		{CIFAR10, cifar10Models},
		{MNIST, mnistModels},
	} {
		for _, name := range group.names {
			if name == arch {
				return group.dataset, true
			}
		}
	}
	return "", false
}
