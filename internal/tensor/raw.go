package tensor

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Device represents where buffer data resides.
type Device int

// Supported devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
	Mock
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	case Mock:
		return "Mock"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted shared byte buffer.
// Clones share it; the bytes are dropped when the last reference is released.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// RawTensor is a host-resident buffer: contiguous row-major bytes plus
// shape and dtype. It is the only buffer variant whose bytes are directly
// addressable by Go code.
type RawTensor struct {
	buffer *tensorBuffer
	shape  Shape
	stride []int
	dtype  DataType
}

// NewRaw creates a zero-filled host buffer with the given shape and type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		buffer: newTensorBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// NewRawFromBytes creates a host buffer holding a copy of data.
// data may be longer than required (device reads are padded); the excess is ignored.
func NewRawFromBytes(shape Shape, dtype DataType, data []byte) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(data) < raw.ByteSize() {
		return nil, fmt.Errorf("shape %v (%s) requires %d bytes, but got %d",
			shape, dtype, raw.ByteSize(), len(data))
	}
	copy(raw.buffer.data, data[:raw.ByteSize()])
	return raw, nil
}

// FromSlice creates a host buffer from a Go slice.
// The slice is copied into the buffer's memory.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(Values[T](raw), data)
	return raw, nil
}

// Values returns a typed zero-copy view of the buffer.
// Panics if T does not match the buffer's dtype.
func Values[T DType](r *RawTensor) []T {
	if want := DataTypeOf[T](); r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	n := r.NumElements()
	if n == 0 {
		return []T{}
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.buffer.data[0])), n)
}

// Shape returns the buffer's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the buffer's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the buffer's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device always reports CPU.
func (r *RawTensor) Device() Device {
	return CPU
}

// IsDeviceResident always reports false.
func (r *RawTensor) IsDeviceResident() bool {
	return false
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 { return Values[float32](r) }

// AsFloat64 interprets the data as []float64.
// Panics if the dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 { return Values[float64](r) }

// AsInt32 interprets the data as []int32.
// Panics if the dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 { return Values[int32](r) }

// AsInt64 interprets the data as []int64.
// Panics if the dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 { return Values[int64](r) }

// AsUint8 interprets the data as []uint8.
// Panics if the dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 { return Values[uint8](r) }

// AsBool interprets the data as []bool.
// Panics if the dtype is not Bool.
func (r *RawTensor) AsBool() []bool { return Values[bool](r) }

// Clone creates a shallow copy that shares the buffer (reference counted).
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
	}
}

// Release decrements the reference count and drops the bytes if it reaches 0.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this tensor is the only reference to the buffer.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}

// Checksum returns the xxHash64 of the buffer bytes.
// Two buffers with equal shape, dtype and checksum hold the same values
// with overwhelming probability; the CLI uses it to verify round trips.
func (r *RawTensor) Checksum() uint64 {
	return xxhash.Sum64(r.buffer.data)
}

// Equal reports whether both buffers have the same dtype, shape and bytes.
func (r *RawTensor) Equal(other *RawTensor) bool {
	if other == nil {
		return false
	}
	return r.dtype == other.dtype &&
		r.shape.Equal(other.shape) &&
		bytes.Equal(r.buffer.data, other.buffer.data)
}

// String returns a short description of the buffer.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor(shape=%v, dtype=%s)", r.shape, r.dtype)
}
