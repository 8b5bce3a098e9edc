// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the buffer types behind labeled arrays.
//
// # Overview
//
// A labeled array stores its values in a Buffer. Two families exist:
//   - host-resident buffers (RawTensor, and lazy buffers that load into one)
//   - device-resident buffers owned by a device backend (see package device)
//
// Residency is a capability of the buffer:
//
//	raw, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
//	raw.IsDeviceResident() // false
//
// # Supported Data Types
//
// The DType constraint covers float32, float64, int32, int64, uint8 and bool.
//
// # Memory Management
//
// RawTensor buffers are reference counted. Clone shares the bytes and
// Release drops them once the last reference is gone.
package tensor
