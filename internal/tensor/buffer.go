package tensor

import "fmt"

// Buffer is the storage behind a labeled array.
//
// Implementations:
//   - *RawTensor: host-resident memory
//   - *device.Array: memory owned by a device backend
//   - *labeled.Lazy: host data produced on demand
//
// Residency is a capability of the buffer itself, so callers never need to
// inspect concrete types to decide where the data lives.
type Buffer interface {
	Shape() Shape
	DType() DataType
	Device() Device
	IsDeviceResident() bool
}

// HostReader is implemented by buffers that are not plain host memory but
// can produce a host copy of themselves (device arrays, lazy loaders).
type HostReader interface {
	// ReadHost returns the buffer contents as a host buffer.
	// For device-resident buffers this is a device-to-host transfer.
	ReadHost() (*RawTensor, error)
}

// Compile-time check that RawTensor is a Buffer.
var _ Buffer = (*RawTensor)(nil)

// Materialize returns buf as host memory.
// Host buffers are returned as-is; anything else must implement HostReader.
func Materialize(buf Buffer) (*RawTensor, error) {
	switch b := buf.(type) {
	case *RawTensor:
		return b, nil
	case HostReader:
		return b.ReadHost()
	case nil:
		return nil, fmt.Errorf("tensor: nil buffer")
	default:
		return nil, fmt.Errorf("tensor: buffer %T cannot be materialized on host", buf)
	}
}
