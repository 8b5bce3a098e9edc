// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device provides device-resident buffers and the backends that own them.
//
// Backends:
//   - Mock: host-memory backed device for development and tests
//   - WebGPU: GPU storage buffers via go-webgpu (windows builds)
//
// Example:
//
//	import (
//	    "github.com/born-ml/labeled/device"
//	    "github.com/born-ml/labeled/tensor"
//	)
//
//	func main() {
//	    gpu := device.NewMock(device.WithCapacity(64 << 20))
//	    raw, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
//	    arr, err := device.Upload(gpu, raw)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer arr.Release()
//	    host, _ := arr.ReadHost()
//	}
package device

import (
	internaldevice "github.com/born-ml/labeled/internal/device"
	"github.com/born-ml/labeled/tensor"
)

// Backend owns device memory and implements the transfer primitives.
type Backend = internaldevice.Backend

// Info describes a backend.
type Info = internaldevice.Info

// Handle identifies one device allocation.
type Handle = internaldevice.Handle

// Array is a device-resident buffer.
type Array = internaldevice.Array

// Mock is a host-memory backed device.
type Mock = internaldevice.Mock

// MockOption configures a Mock backend.
type MockOption = internaldevice.MockOption

// MockStats reports Mock allocation and transfer counters.
type MockStats = internaldevice.MockStats

// WebGPU is the WebGPU backend.
type WebGPU = internaldevice.WebGPU

// Errors returned by backends.
var (
	ErrNoBackend          = internaldevice.ErrNoBackend
	ErrBackendUnavailable = internaldevice.ErrBackendUnavailable
	ErrUnknownBackend     = internaldevice.ErrUnknownBackend
	ErrOutOfMemory        = internaldevice.ErrOutOfMemory
	ErrInvalidHandle      = internaldevice.ErrInvalidHandle
)

// Compile-time check that Array is a tensor.Buffer.
var _ tensor.Buffer = (*Array)(nil)

// NewMock creates a mock backend.
func NewMock(opts ...MockOption) *Mock {
	return internaldevice.NewMock(opts...)
}

// WithCapacity bounds the mock backend's live bytes. 0 disables the limit.
func WithCapacity(bytes uint64) MockOption {
	return internaldevice.WithCapacity(bytes)
}

// NewWebGPU creates a WebGPU backend. Call Release() when done.
//
// Returns ErrBackendUnavailable if WebGPU initialization fails (e.g., no
// compatible GPU, or an unsupported platform).
func NewWebGPU() (*WebGPU, error) {
	return internaldevice.NewWebGPU()
}

// WebGPUAvailable checks if WebGPU is available on the current system.
func WebGPUAvailable() bool {
	return internaldevice.WebGPUAvailable()
}

// Open creates a backend by kind name ("mock" or "webgpu").
func Open(kind string, capacityBytes uint64) (Backend, error) {
	return internaldevice.Open(kind, capacityBytes)
}

// Upload copies buf to backend b.
func Upload(b Backend, buf tensor.Buffer) (*Array, error) {
	return internaldevice.Upload(b, buf)
}

// SetDefault registers the process-wide default backend. Passing nil clears it.
func SetDefault(b Backend) {
	internaldevice.SetDefault(b)
}

// Default returns the registered default backend, if any.
func Default() (Backend, bool) {
	return internaldevice.Default()
}
