//go:build windows

package device

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/born-ml/labeled/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/google/uuid"
)

// Verify that WebGPU implements Backend.
var _ Backend = (*WebGPU)(nil)

// WebGPU is a backend whose allocations are WebGPU storage buffers.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO bindings.
type WebGPU struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	mu      sync.Mutex
	buffers map[uuid.UUID]*wgpu.Buffer
	sizes   map[uuid.UUID]uint64 // Aligned allocation sizes
}

// NewWebGPU creates a WebGPU backend on the default high-performance adapter.
// Returns ErrBackendUnavailable if WebGPU cannot be initialized.
func NewWebGPU() (backend *WebGPU, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("%w: native library not available: %v", ErrBackendUnavailable, r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: failed to request adapter: %v", ErrBackendUnavailable, adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: failed to request device: %v", ErrBackendUnavailable, deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: failed to get queue", ErrBackendUnavailable)
	}

	return &WebGPU{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		buffers:  make(map[uuid.UUID]*wgpu.Buffer),
		sizes:    make(map[uuid.UUID]uint64),
	}, nil
}

// WebGPUAvailable checks if a WebGPU adapter can be acquired on this system.
func WebGPUAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()

	return true
}

// Info describes the backend.
func (w *WebGPU) Info() Info {
	return Info{
		Name:        "webgpu",
		Kind:        tensor.WebGPU.String(),
		Description: "WebGPU storage buffers via go-webgpu",
	}
}

// Kind returns tensor.WebGPU.
func (w *WebGPU) Kind() tensor.Device {
	return tensor.WebGPU
}

// alignedSize rounds up to the 4-byte copy alignment WebGPU requires.
// Zero-sized buffers are not allowed, so the minimum is 4.
func alignedSize(size uint64) uint64 {
	aligned := (size + 3) &^ 3
	if aligned == 0 {
		aligned = 4
	}
	return aligned
}

// WriteBuffer creates a storage buffer mapped at creation and fills it with data.
func (w *WebGPU) WriteBuffer(data []byte) (Handle, error) {
	size := alignedSize(uint64(len(data)))

	buffer := w.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	if buffer == nil {
		return Handle{}, fmt.Errorf("%w: failed to allocate %d bytes", ErrOutOfMemory, size)
	}

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	h := newHandle(uint64(len(data)))

	w.mu.Lock()
	w.buffers[h.ID] = buffer
	w.sizes[h.ID] = size
	w.mu.Unlock()

	return h, nil
}

// ReadBuffer reads an allocation back through a staging buffer, since
// storage buffers can't be mapped directly. The result keeps the padding.
func (w *WebGPU) ReadBuffer(h Handle) ([]byte, error) {
	w.mu.Lock()
	srcBuffer, ok := w.buffers[h.ID]
	size := w.sizes[h.ID]
	w.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}

	stagingBuffer := w.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := w.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	w.queue.Submit(cmdBuffer)

	if err := stagingBuffer.MapAsync(w.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)
	stagingBuffer.Unmap()

	return result, nil
}

// ReleaseBuffer releases the storage buffer.
func (w *WebGPU) ReleaseBuffer(h Handle) {
	w.mu.Lock()
	buffer, ok := w.buffers[h.ID]
	delete(w.buffers, h.ID)
	delete(w.sizes, h.ID)
	w.mu.Unlock()

	if ok {
		buffer.Release()
	}
}

// Release releases every live allocation and the WebGPU objects.
// Must be called when the backend is no longer needed.
func (w *WebGPU) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, buffer := range w.buffers {
		buffer.Release()
		delete(w.buffers, id)
		delete(w.sizes, id)
	}

	if w.queue != nil {
		w.queue.Release()
		w.queue = nil
	}
	if w.device != nil {
		w.device.Release()
		w.device = nil
	}
	if w.adapter != nil {
		w.adapter.Release()
		w.adapter = nil
	}
	if w.instance != nil {
		w.instance.Release()
		w.instance = nil
	}
}
