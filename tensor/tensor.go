// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/labeled/internal/tensor"
)

// DType is a constraint for buffer element types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType represents the runtime data type of a buffer.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Device represents where buffer data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
	Mock   Device = tensor.Mock
)

// Shape represents the dimensions of a buffer.
// Example: Shape{2, 3, 4} represents a 3D buffer with dimensions 2×3×4.
type Shape = tensor.Shape

// Buffer is the storage behind a labeled array.
type Buffer = tensor.Buffer

// HostReader is implemented by buffers that can produce a host copy of themselves.
type HostReader = tensor.HostReader

// RawTensor is a host-resident buffer.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32()  // Zero-copy typed view
//	sum := raw.Checksum()    // xxHash64 of the bytes
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled host buffer.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a host buffer holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Values returns a typed zero-copy view of a host buffer.
// Panics if T does not match the buffer's dtype.
func Values[T DType](r *RawTensor) []T {
	return tensor.Values[T](r)
}

// Materialize returns buf as host memory.
func Materialize(buf Buffer) (*RawTensor, error) {
	return tensor.Materialize(buf)
}
