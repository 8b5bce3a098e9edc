package device

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/born-ml/labeled/internal/tensor"
	"github.com/sirupsen/logrus"
)

// Array is a device-resident buffer. Its bytes live in memory owned by a
// Backend and are only reachable through ReadHost.
type Array struct {
	handle  Handle
	shape   tensor.Shape
	dtype   tensor.DataType
	backend Backend

	mu       sync.Mutex // Protects released
	released bool
}

var (
	_ tensor.Buffer     = (*Array)(nil)
	_ tensor.HostReader = (*Array)(nil)
)

// Upload copies buf to backend b and returns the device-resident array.
//
// An Array already owned by b is returned unchanged, so calling Upload
// repeatedly is safe and keeps buffer identity. Arrays owned by another
// backend are routed through host memory. Any other buffer is materialized
// on the host first. Backend errors are returned unwrapped.
func Upload(b Backend, buf tensor.Buffer) (*Array, error) {
	if b == nil {
		return nil, ErrNoBackend
	}
	if arr, ok := buf.(*Array); ok && sameBackend(arr.backend, b) {
		return arr, nil
	}

	host, err := tensor.Materialize(buf)
	if err != nil {
		return nil, err
	}

	handle, err := b.WriteBuffer(host.Data())
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"backend": b.Info().Name,
		"handle":  handle.String(),
		"bytes":   handle.Size,
		"shape":   host.Shape(),
	}).Debug("Host-to-device transfer")

	arr := &Array{
		handle:  handle,
		shape:   host.Shape().Clone(),
		dtype:   host.DType(),
		backend: b,
	}

	// Hand the allocation back if the caller never releases it.
	runtime.SetFinalizer(arr, func(a *Array) {
		a.Release()
	})

	return arr, nil
}

// sameBackend reports whether a and b are the same backend.
// Backends of a non-comparable type never match.
func sameBackend(a, b Backend) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Shape returns the array's shape.
func (a *Array) Shape() tensor.Shape {
	return a.shape
}

// DType returns the array's data type.
func (a *Array) DType() tensor.DataType {
	return a.dtype
}

// Device returns the kind of the owning backend.
func (a *Array) Device() tensor.Device {
	return a.backend.Kind()
}

// IsDeviceResident always reports true.
func (a *Array) IsDeviceResident() bool {
	return true
}

// Backend returns the backend that owns the allocation.
func (a *Array) Backend() Backend {
	return a.backend
}

// Handle returns the allocation handle.
func (a *Array) Handle() Handle {
	return a.handle
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// ByteSize returns the payload size in bytes.
func (a *Array) ByteSize() int {
	return a.NumElements() * a.dtype.Size()
}

// ReadHost copies the array to host memory and returns a new host buffer.
// The device allocation is left untouched.
func (a *Array) ReadHost() (*tensor.RawTensor, error) {
	a.mu.Lock()
	released := a.released
	a.mu.Unlock()
	if released {
		return nil, fmt.Errorf("%w: %s was released", ErrInvalidHandle, a.handle)
	}

	data, err := a.backend.ReadBuffer(a.handle)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"backend": a.backend.Info().Name,
		"handle":  a.handle.String(),
		"bytes":   a.handle.Size,
	}).Debug("Device-to-host transfer")

	return tensor.NewRawFromBytes(a.shape, a.dtype, data)
}

// Release returns the allocation to the backend. Safe to call more than once.
func (a *Array) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return
	}
	a.released = true
	a.backend.ReleaseBuffer(a.handle)
}

// IsReleased reports whether Release has been called.
func (a *Array) IsReleased() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}

// String returns a short description of the array.
func (a *Array) String() string {
	return fmt.Sprintf("device.Array(shape=%v, dtype=%s, device=%s)", a.shape, a.dtype, a.Device())
}
