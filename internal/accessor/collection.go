package accessor

import (
	"github.com/born-ml/labeled/internal/device"
	"github.com/born-ml/labeled/internal/labeled"
)

// CollectionAdapter exposes device conversions for a Dataset by applying
// the ArrayAdapter to every variable.
type CollectionAdapter struct {
	ds      *labeled.Dataset
	backend device.Backend
}

// Collection wraps ds. ToDevice uses the default backend unless On is called.
func Collection(ds *labeled.Dataset) CollectionAdapter {
	return CollectionAdapter{ds: ds}
}

// On returns an adapter that moves data to backend b.
func (c CollectionAdapter) On(b device.Backend) CollectionAdapter {
	c.backend = b
	return c
}

// IsDeviceResident reports whether every variable is device-resident.
// An empty dataset is device-resident.
func (c CollectionAdapter) IsDeviceResident() bool {
	for _, name := range c.ds.Names() {
		da, _ := c.ds.Var(name)
		if !Array(da).IsDeviceResident() {
			return false
		}
	}
	return true
}

// ToDevice moves every variable to the device and rebuilds the dataset with
// the same coordinates and attributes. Variables already on a device stay
// where they are unless On selected a backend. If a variable fails, the
// device arrays uploaded for earlier variables are released.
func (c CollectionAdapter) ToDevice() (*labeled.Dataset, error) {
	var uploaded []*device.Array
	ds, err := c.ds.Map(func(_ string, da *labeled.DataArray) (*labeled.DataArray, error) {
		moved, err := Array(da).On(c.backend).ToDevice()
		if err != nil {
			return nil, err
		}
		if arr, ok := moved.Data().(*device.Array); ok && moved.Data() != da.Data() {
			uploaded = append(uploaded, arr)
		}
		return moved, nil
	})
	if err != nil {
		for _, arr := range uploaded {
			arr.Release()
		}
		return nil, err
	}
	return ds, nil
}

// ToHost returns a host-resident dataset. Fully device-resident datasets are
// read back variable by variable; mixed or host datasets go through
// Dataset.AsHost.
func (c CollectionAdapter) ToHost() (*labeled.Dataset, error) {
	if !c.IsDeviceResident() {
		return c.ds.AsHost()
	}
	return c.ds.Map(func(_ string, da *labeled.DataArray) (*labeled.DataArray, error) {
		return Array(da).ToHost()
	})
}

// DatasetToDevice is shorthand for Collection(ds).ToDevice().
func DatasetToDevice(ds *labeled.Dataset) (*labeled.Dataset, error) {
	return Collection(ds).ToDevice()
}
