// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package accessor converts labeled arrays and datasets between host and
// device memory.
//
// Example:
//
//	import (
//	    "github.com/born-ml/labeled/accessor"
//	    "github.com/born-ml/labeled/device"
//	)
//
//	func main() {
//	    device.SetDefault(device.NewMock())
//
//	    gpu, err := accessor.ArrayToDevice(da)       // or accessor.Array(da).ToDevice()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(accessor.Array(gpu).IsDeviceResident()) // true
//	    host, _ := accessor.Array(gpu).ToHost()
//	}
package accessor

import (
	internalaccessor "github.com/born-ml/labeled/internal/accessor"
	"github.com/born-ml/labeled/labeled"
)

// ArrayAdapter exposes device conversions for a DataArray.
type ArrayAdapter = internalaccessor.ArrayAdapter

// CollectionAdapter exposes device conversions for a Dataset.
type CollectionAdapter = internalaccessor.CollectionAdapter

// ErrNotDeviceResident is returned by ArrayAdapter.Get for host buffers.
var ErrNotDeviceResident = internalaccessor.ErrNotDeviceResident

// Array wraps a DataArray.
func Array(da *labeled.DataArray) ArrayAdapter {
	return internalaccessor.Array(da)
}

// Collection wraps a Dataset.
func Collection(ds *labeled.Dataset) CollectionAdapter {
	return internalaccessor.Collection(ds)
}

// ArrayToDevice is shorthand for Array(da).ToDevice().
func ArrayToDevice(da *labeled.DataArray) (*labeled.DataArray, error) {
	return internalaccessor.ArrayToDevice(da)
}

// DatasetToDevice is shorthand for Collection(ds).ToDevice().
func DatasetToDevice(ds *labeled.Dataset) (*labeled.Dataset, error) {
	return internalaccessor.DatasetToDevice(ds)
}
