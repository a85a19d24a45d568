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

package dataset

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pingcap/distiller/pkg/errors"
)

// Split directory names of an image-folder dataset.
const (
	TrainSplit = "train"
	TestSplit  = "val"
)

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".ppm": {}, ".bmp": {},
	".pgm": {}, ".tif": {}, ".tiff": {}, ".webp": {},
}

// CountSamples counts the image files of one split of an image-folder
// dataset laid out as <root>/<split>/<class>/<image>.
func CountSamples(root, split string) (int, error) {
	dir := filepath.Join(root, split)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return 0, errors.ErrDatasetNotFound.GenWithStackByArgs(dir)
	}

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Trace(err)
	}
	return count, nil
}

// SplitSizes returns the number of training and validation samples used per
// epoch. validationSplit of the training set is set aside for validation
// first, then the effective size fractions are applied to each part.
func SplitSizes(total int, validationSplit, effectiveTrain, effectiveValid float64) (train, valid int) {
	if total <= 0 {
		return 0, 0
	}
	valid = int(math.Floor(validationSplit * float64(total)))
	train = total - valid
	return SubsetLength(train, effectiveTrain), SubsetLength(valid, effectiveValid)
}

// SubsetLength returns the number of samples kept when only fraction of n
// is used.
func SubsetLength(n int, fraction float64) int {
	return int(math.Floor(float64(n) * fraction))
}
