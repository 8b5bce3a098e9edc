// Package device implements device-resident buffers and the backends that own their memory.
package device

import (
	"fmt"
	"strings"
	"sync"

	"github.com/born-ml/labeled/internal/tensor"
	"github.com/google/uuid"
)

// Backend owns device memory. It is responsible for allocation and for the
// two transfer primitives; everything above it only moves bytes through it.
//
// Implementations should be pointer types. Upload recognizes an Array that
// is already on a backend by comparing backends, and values of a
// non-comparable type never compare equal, so their arrays are copied.
type Backend interface {
	Info() Info
	Kind() tensor.Device

	// WriteBuffer allocates device memory and copies data into it (host-to-device).
	WriteBuffer(data []byte) (Handle, error)
	// ReadBuffer copies the allocation back to host memory (device-to-host).
	// The result may be longer than Handle.Size when the backend pads allocations.
	ReadBuffer(h Handle) ([]byte, error)
	// ReleaseBuffer frees the allocation. Releasing twice is a no-op.
	ReleaseBuffer(h Handle)
}

// Info describes a backend implementation.
type Info struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
	MemoryBytes uint64 `yaml:"memoryBytes"`
}

// Handle identifies one allocation made by a backend.
type Handle struct {
	ID   uuid.UUID
	Size uint64 // Requested size in bytes, before any backend padding.
}

func newHandle(size uint64) Handle {
	return Handle{ID: uuid.New(), Size: size}
}

// String returns the handle id.
func (h Handle) String() string {
	return h.ID.String()
}

var (
	defaultMu      sync.RWMutex
	defaultBackend Backend
)

// SetDefault registers the process-wide default backend. Passing nil clears it.
func SetDefault(b Backend) {
	defaultMu.Lock()
	defaultBackend = b
	defaultMu.Unlock()
}

// Default returns the registered default backend, if any.
func Default() (Backend, bool) {
	defaultMu.RLock()
	b := defaultBackend
	defaultMu.RUnlock()
	return b, b != nil
}

// Open creates a backend by kind name ("mock" or "webgpu").
// capacityBytes bounds the mock backend; 0 keeps its default.
func Open(kind string, capacityBytes uint64) (Backend, error) {
	switch strings.ToLower(kind) {
	case "mock", "":
		var opts []MockOption
		if capacityBytes > 0 {
			opts = append(opts, WithCapacity(capacityBytes))
		}
		return NewMock(opts...), nil
	case "webgpu":
		gpu, err := NewWebGPU()
		if err != nil {
			return nil, err
		}
		return gpu, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
