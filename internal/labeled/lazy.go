package labeled

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/born-ml/labeled/internal/tensor"
)

// Loader produces the host contents of a Lazy buffer.
type Loader func() (*tensor.RawTensor, error)

// Lazy is a host buffer whose contents are produced on first access
// (a file read, a computation). It is not device-resident.
type Lazy struct {
	shape  tensor.Shape
	dtype  tensor.DataType
	loader Loader

	once   sync.Once
	loaded atomic.Bool
	raw    *tensor.RawTensor
	err    error
}

var (
	_ tensor.Buffer     = (*Lazy)(nil)
	_ tensor.HostReader = (*Lazy)(nil)
)

// NewLazy declares a lazily loaded buffer of the given shape and type.
func NewLazy(shape tensor.Shape, dtype tensor.DataType, loader Loader) *Lazy {
	return &Lazy{shape: shape.Clone(), dtype: dtype, loader: loader}
}

// Shape returns the declared shape.
func (l *Lazy) Shape() tensor.Shape { return l.shape }

// DType returns the declared data type.
func (l *Lazy) DType() tensor.DataType { return l.dtype }

// Device always reports CPU.
func (l *Lazy) Device() tensor.Device { return tensor.CPU }

// IsDeviceResident always reports false.
func (l *Lazy) IsDeviceResident() bool { return false }

// ReadHost runs the loader once and caches its result.
// The loaded buffer must match the declared shape and dtype.
func (l *Lazy) ReadHost() (*tensor.RawTensor, error) {
	l.once.Do(func() {
		raw, err := l.loader()
		switch {
		case err != nil:
			l.err = err
		case raw == nil:
			l.err = fmt.Errorf("labeled: lazy loader returned no data")
		case raw.DType() != l.dtype || !raw.Shape().Equal(l.shape):
			l.err = fmt.Errorf("labeled: lazy loader returned %s%v, declared %s%v",
				raw.DType(), raw.Shape(), l.dtype, l.shape)
		default:
			l.raw = raw
			l.loaded.Store(true)
		}
	})
	return l.raw, l.err
}

// IsLoaded reports whether the loader has already run successfully.
func (l *Lazy) IsLoaded() bool {
	return l.loaded.Load()
}
