package device

import (
	"fmt"
	"sync"

	"github.com/born-ml/labeled/internal/tensor"
	"github.com/google/uuid"
	"github.com/pbnjay/memory"
)

// Verify that Mock implements Backend.
var _ Backend = (*Mock)(nil)

// Mock is a host-memory backed device for development and tests.
// It behaves like a real device from the caller's point of view: bytes are
// only reachable through ReadBuffer, and allocations beyond the configured
// capacity fail with ErrOutOfMemory.
type Mock struct {
	mu       sync.Mutex
	capacity uint64 // 0 = unlimited
	buffers  map[uuid.UUID][]byte
	stats    MockStats
}

// MockStats reports allocation and transfer counters of a Mock backend.
type MockStats struct {
	Allocations uint64
	Releases    uint64
	Writes      uint64
	Reads       uint64
	LiveBuffers int
	LiveBytes   uint64
	PeakBytes   uint64
}

// MockOption configures a Mock backend.
type MockOption func(*Mock)

// WithCapacity bounds the total live bytes. 0 disables the limit.
func WithCapacity(bytes uint64) MockOption {
	return func(m *Mock) {
		m.capacity = bytes
	}
}

// NewMock returns a mock backend.
// By default its capacity is a quarter of system memory, or unlimited when
// the system size cannot be determined.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		capacity: memory.TotalMemory() / 4,
		buffers:  make(map[uuid.UUID][]byte),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Info returns a description of the mock device.
func (m *Mock) Info() Info {
	return Info{
		Name:        "mock",
		Kind:        tensor.Mock.String(),
		Description: "Host-memory backed mock device",
		MemoryBytes: m.capacity,
	}
}

// Kind returns tensor.Mock.
func (m *Mock) Kind() tensor.Device {
	return tensor.Mock
}

// Capacity returns the configured byte limit (0 = unlimited).
func (m *Mock) Capacity() uint64 {
	return m.capacity
}

// WriteBuffer copies data into a new allocation.
func (m *Mock) WriteBuffer(data []byte) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := uint64(len(data))
	if m.capacity > 0 && m.stats.LiveBytes+size > m.capacity {
		return Handle{}, fmt.Errorf("%w: requested %d bytes, %d of %d in use",
			ErrOutOfMemory, size, m.stats.LiveBytes, m.capacity)
	}

	h := newHandle(size)
	m.buffers[h.ID] = append([]byte(nil), data...)

	m.stats.Allocations++
	m.stats.Writes++
	m.stats.LiveBuffers++
	m.stats.LiveBytes += size
	if m.stats.LiveBytes > m.stats.PeakBytes {
		m.stats.PeakBytes = m.stats.LiveBytes
	}

	return h, nil
}

// ReadBuffer returns a copy of the allocation.
func (m *Mock) ReadBuffer(h Handle) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.buffers[h.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	m.stats.Reads++

	return append([]byte(nil), buf...), nil
}

// ReleaseBuffer frees the allocation.
func (m *Mock) ReleaseBuffer(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.buffers[h.ID]
	if !ok {
		return
	}
	delete(m.buffers, h.ID)

	m.stats.Releases++
	m.stats.LiveBuffers--
	m.stats.LiveBytes -= uint64(len(buf))
}

// Stats returns a snapshot of the counters.
func (m *Mock) Stats() MockStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
