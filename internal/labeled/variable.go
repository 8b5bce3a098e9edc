// Package labeled implements labeled multidimensional arrays and collections of them.
package labeled

import (
	"fmt"

	"github.com/born-ml/labeled/internal/tensor"
)

// Attrs is a free-form attribute mapping.
type Attrs map[string]any

// Coords maps a coordinate name to its variable.
type Coords map[string]*Variable

// Variable is a buffer with named dimensions. Coordinates are variables.
type Variable struct {
	dims  []string
	data  tensor.Buffer
	attrs Attrs
}

// NewVariable creates a variable, checking that dims matches the buffer rank.
func NewVariable(dims []string, data tensor.Buffer, attrs Attrs) (*Variable, error) {
	if data == nil {
		return nil, fmt.Errorf("labeled: variable has no data")
	}
	if err := checkDims(dims, data.Shape()); err != nil {
		return nil, err
	}
	return &Variable{dims: dims, data: data, attrs: attrs}, nil
}

// Coord builds a 1-D host coordinate along dim.
func Coord[T tensor.DType](dim string, values []T) (*Variable, error) {
	raw, err := tensor.FromSlice(values, tensor.Shape{len(values)})
	if err != nil {
		return nil, err
	}
	return NewVariable([]string{dim}, raw, nil)
}

// Dims returns the dimension names.
func (v *Variable) Dims() []string {
	return v.dims
}

// Data returns the underlying buffer.
func (v *Variable) Data() tensor.Buffer {
	return v.data
}

// Attrs returns the attribute mapping.
func (v *Variable) Attrs() Attrs {
	return v.attrs
}

// Shape returns the buffer shape.
func (v *Variable) Shape() tensor.Shape {
	return v.data.Shape()
}

// asHost returns v itself if already host-resident, else a host copy.
func (v *Variable) asHost() (*Variable, error) {
	if _, ok := v.data.(*tensor.RawTensor); ok {
		return v, nil
	}
	raw, err := tensor.Materialize(v.data)
	if err != nil {
		return nil, err
	}
	return &Variable{dims: v.dims, data: raw, attrs: v.attrs}, nil
}

func checkDims(dims []string, shape tensor.Shape) error {
	if len(dims) != len(shape) {
		return fmt.Errorf("labeled: %d dimension names for data with shape %v", len(dims), shape)
	}
	seen := make(map[string]struct{}, len(dims))
	for _, d := range dims {
		if d == "" {
			return fmt.Errorf("labeled: empty dimension name")
		}
		if _, dup := seen[d]; dup {
			return fmt.Errorf("labeled: duplicate dimension %q", d)
		}
		seen[d] = struct{}{}
	}
	return nil
}

// mergeSizes records the size of each of dims in sizes, failing on conflicts.
func mergeSizes(sizes map[string]int, dims []string, shape tensor.Shape, what string) error {
	for i, d := range dims {
		if n, ok := sizes[d]; ok && n != shape[i] {
			return fmt.Errorf("labeled: %s has size %d along %q, expected %d", what, shape[i], d, n)
		}
		sizes[d] = shape[i]
	}
	return nil
}
