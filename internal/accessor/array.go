// Package accessor converts labeled arrays and datasets between host memory
// and device memory.
//
// Adapters are cheap values wrapping a single container. They hold no state
// of their own and every conversion returns a new container.
package accessor

import (
	"errors"
	"fmt"

	"github.com/born-ml/labeled/internal/device"
	"github.com/born-ml/labeled/internal/labeled"
	"github.com/born-ml/labeled/internal/tensor"
)

// ErrNotDeviceResident is returned by Get when the wrapped buffer is not on a device.
var ErrNotDeviceResident = errors.New("accessor: buffer is not device-resident")

// ArrayAdapter exposes device conversions for a single DataArray.
type ArrayAdapter struct {
	da      *labeled.DataArray
	backend device.Backend // nil = device.Default()
}

// Array wraps da. ToDevice uses the default backend unless On is called.
func Array(da *labeled.DataArray) ArrayAdapter {
	return ArrayAdapter{da: da}
}

// On returns an adapter that moves data to backend b.
func (a ArrayAdapter) On(b device.Backend) ArrayAdapter {
	a.backend = b
	return a
}

// IsDeviceResident reports whether the wrapped array's buffer lives on a device.
func (a ArrayAdapter) IsDeviceResident() bool {
	return a.da.Data().IsDeviceResident()
}

// ToDevice returns a new DataArray whose buffer is a device copy of the
// original. Arrays already on a device keep their buffer unless On selected
// a different backend. Coordinates, dims, name and attrs are shared with
// the original. Backend failures are returned as-is.
func (a ArrayAdapter) ToDevice() (*labeled.DataArray, error) {
	b := a.backend
	if arr, ok := a.da.Data().(*device.Array); ok && b == nil {
		b = arr.Backend()
	}
	b, err := resolve(b)
	if err != nil {
		return nil, err
	}
	arr, err := device.Upload(b, a.da.Data())
	if err != nil {
		return nil, err
	}
	return labeled.NewDataArray(arr, a.da.Coords(), a.da.Dims(), a.da.Name(), a.da.Attrs())
}

// ToHost returns a new host-resident DataArray.
// Device buffers are read back and wrapped with the same metadata;
// anything else goes through DataArray.AsHost.
func (a ArrayAdapter) ToHost() (*labeled.DataArray, error) {
	if !a.IsDeviceResident() {
		return a.da.AsHost()
	}
	raw, err := a.Get()
	if err != nil {
		return nil, err
	}
	return labeled.NewDataArray(raw, a.da.Coords(), a.da.Dims(), a.da.Name(), a.da.Attrs())
}

// Get copies the device buffer to host memory and returns it without
// rebuilding a DataArray. Fails with ErrNotDeviceResident for host buffers.
func (a ArrayAdapter) Get() (*tensor.RawTensor, error) {
	buf := a.da.Data()
	reader, ok := buf.(tensor.HostReader)
	if !buf.IsDeviceResident() || !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDeviceResident, a.da)
	}
	return reader.ReadHost()
}

// ArrayToDevice is shorthand for Array(da).ToDevice().
func ArrayToDevice(da *labeled.DataArray) (*labeled.DataArray, error) {
	return Array(da).ToDevice()
}

func resolve(b device.Backend) (device.Backend, error) {
	if b != nil {
		return b, nil
	}
	if b, ok := device.Default(); ok {
		return b, nil
	}
	return nil, device.ErrNoBackend
}
