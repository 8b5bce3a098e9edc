// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package labeled provides labeled multidimensional arrays and datasets.
//
// A DataArray is a buffer plus ordered dimension names, coordinates,
// attributes and an optional name. A Dataset is a named collection of
// DataArrays sharing coordinates.
//
// Example:
//
//	temp, _ := labeled.FromSlice([]float32{280, 281, 282}, tensor.Shape{3}, "time")
//	ds, _ := labeled.NewDataset(map[string]*labeled.DataArray{"temp": temp}, nil, nil)
package labeled

import (
	internallabeled "github.com/born-ml/labeled/internal/labeled"
	"github.com/born-ml/labeled/tensor"
)

// Attrs is a free-form attribute mapping.
type Attrs = internallabeled.Attrs

// Coords maps coordinate names to variables.
type Coords = internallabeled.Coords

// Variable is a buffer with named dimensions.
type Variable = internallabeled.Variable

// DataArray is a labeled array.
type DataArray = internallabeled.DataArray

// Dataset is a named collection of labeled arrays.
type Dataset = internallabeled.Dataset

// Lazy is a host buffer loaded on first access.
type Lazy = internallabeled.Lazy

// Loader produces the contents of a Lazy buffer.
type Loader = internallabeled.Loader

// NewVariable creates a variable.
func NewVariable(dims []string, data tensor.Buffer, attrs Attrs) (*Variable, error) {
	return internallabeled.NewVariable(dims, data, attrs)
}

// Coord builds a 1-D host coordinate along dim.
func Coord[T tensor.DType](dim string, values []T) (*Variable, error) {
	return internallabeled.Coord(dim, values)
}

// NewDataArray creates a labeled array.
func NewDataArray(data tensor.Buffer, coords Coords, dims []string, name string, attrs Attrs) (*DataArray, error) {
	return internallabeled.NewDataArray(data, coords, dims, name, attrs)
}

// FromSlice builds a host-resident DataArray without coordinates.
func FromSlice[T tensor.DType](values []T, shape tensor.Shape, dims ...string) (*DataArray, error) {
	return internallabeled.FromSlice(values, shape, dims...)
}

// Values returns the host values of a DataArray.
func Values[T tensor.DType](da *DataArray) ([]T, error) {
	return internallabeled.Values[T](da)
}

// NewDataset creates a dataset.
func NewDataset(vars map[string]*DataArray, coords Coords, attrs Attrs) (*Dataset, error) {
	return internallabeled.NewDataset(vars, coords, attrs)
}

// NewLazy declares a lazily loaded buffer.
func NewLazy(shape tensor.Shape, dtype tensor.DataType, loader Loader) *Lazy {
	return internallabeled.NewLazy(shape, dtype, loader)
}
