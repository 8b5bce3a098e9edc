//go:build !windows

package device

import "github.com/born-ml/labeled/internal/tensor"

// WebGPU is only implemented on windows builds; elsewhere NewWebGPU fails.
type WebGPU struct{}

// NewWebGPU returns ErrBackendUnavailable on this platform.
func NewWebGPU() (*WebGPU, error) {
	return nil, ErrBackendUnavailable
}

// WebGPUAvailable always reports false on this platform.
func WebGPUAvailable() bool {
	return false
}

// Info describes the backend.
func (w *WebGPU) Info() Info {
	return Info{
		Name:        "webgpu",
		Kind:        tensor.WebGPU.String(),
		Description: "WebGPU backend stub (unsupported platform)",
	}
}

// Kind returns tensor.WebGPU.
func (w *WebGPU) Kind() tensor.Device {
	return tensor.WebGPU
}

// WriteBuffer always fails with ErrBackendUnavailable.
func (w *WebGPU) WriteBuffer(_ []byte) (Handle, error) {
	return Handle{}, ErrBackendUnavailable
}

// ReadBuffer always fails with ErrBackendUnavailable.
func (w *WebGPU) ReadBuffer(_ Handle) ([]byte, error) {
	return nil, ErrBackendUnavailable
}

// ReleaseBuffer is a no-op.
func (w *WebGPU) ReleaseBuffer(_ Handle) {}

// Release is a no-op.
func (w *WebGPU) Release() {}
