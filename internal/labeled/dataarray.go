package labeled

import (
	"fmt"
	"strings"

	"github.com/born-ml/labeled/internal/tensor"
)

// DataArray is a buffer plus ordered dimension names, coordinates,
// attributes and an optional name.
//
// A DataArray is immutable by convention: conversions return new arrays
// that share the metadata maps of the original.
type DataArray struct {
	data   tensor.Buffer
	dims   []string
	coords Coords
	name   string
	attrs  Attrs
}

// NewDataArray creates a labeled array.
//
// dims must name every axis of data exactly once. Every coordinate must be
// indexed by a subset of dims and agree with data on the size of each of them.
// coords and attrs are kept by reference.
func NewDataArray(data tensor.Buffer, coords Coords, dims []string, name string, attrs Attrs) (*DataArray, error) {
	if data == nil {
		return nil, fmt.Errorf("labeled: data array %q has no data", name)
	}
	if err := checkDims(dims, data.Shape()); err != nil {
		return nil, err
	}

	sizes := make(map[string]int, len(dims))
	if err := mergeSizes(sizes, dims, data.Shape(), "data"); err != nil {
		return nil, err
	}
	if err := checkCoords(coords, sizes, true); err != nil {
		return nil, err
	}

	return &DataArray{
		data:   data,
		dims:   dims,
		coords: coords,
		name:   name,
		attrs:  attrs,
	}, nil
}

// FromSlice builds a host-resident DataArray without coordinates.
func FromSlice[T tensor.DType](values []T, shape tensor.Shape, dims ...string) (*DataArray, error) {
	raw, err := tensor.FromSlice(values, shape)
	if err != nil {
		return nil, err
	}
	return NewDataArray(raw, nil, dims, "", nil)
}

// checkCoords validates coordinate variables against known dim sizes.
// With strict set, coordinates may only use dims already present in sizes.
func checkCoords(coords Coords, sizes map[string]int, strict bool) error {
	for cname, c := range coords {
		if c == nil {
			return fmt.Errorf("labeled: coordinate %q is nil", cname)
		}
		for i, d := range c.Dims() {
			n, ok := sizes[d]
			if !ok {
				if strict {
					return fmt.Errorf("labeled: coordinate %q uses dimension %q not present in the array", cname, d)
				}
				sizes[d] = c.Shape()[i]
				continue
			}
			if n != c.Shape()[i] {
				return fmt.Errorf("labeled: coordinate %q has size %d along %q, expected %d",
					cname, c.Shape()[i], d, n)
			}
		}
	}
	return nil
}

// Data returns the underlying buffer.
func (da *DataArray) Data() tensor.Buffer {
	return da.data
}

// Dims returns the dimension names in axis order.
func (da *DataArray) Dims() []string {
	return da.dims
}

// Coords returns the coordinate mapping.
func (da *DataArray) Coords() Coords {
	return da.coords
}

// Name returns the array name ("" if unnamed).
func (da *DataArray) Name() string {
	return da.name
}

// Attrs returns the attribute mapping.
func (da *DataArray) Attrs() Attrs {
	return da.attrs
}

// Shape returns the buffer shape.
func (da *DataArray) Shape() tensor.Shape {
	return da.data.Shape()
}

// DType returns the buffer data type.
func (da *DataArray) DType() tensor.DataType {
	return da.data.DType()
}

// Sizes maps each dimension name to its length.
func (da *DataArray) Sizes() map[string]int {
	shape := da.data.Shape()
	sizes := make(map[string]int, len(da.dims))
	for i, d := range da.dims {
		sizes[d] = shape[i]
	}
	return sizes
}

// AsHost returns a copy of the array whose data and coordinates are host
// buffers. Device buffers are read back, lazy buffers are loaded, host
// buffers are reused. Coordinates already on the host keep their mapping.
func (da *DataArray) AsHost() (*DataArray, error) {
	raw, err := tensor.Materialize(da.data)
	if err != nil {
		return nil, fmt.Errorf("labeled: data array %q: %w", da.name, err)
	}
	coords, err := coordsAsHost(da.coords)
	if err != nil {
		return nil, err
	}
	return NewDataArray(raw, coords, da.dims, da.name, da.attrs)
}

// Values returns the host values of the array.
// Fails if the data is not host-resident; call AsHost first.
func Values[T tensor.DType](da *DataArray) ([]T, error) {
	raw, ok := da.data.(*tensor.RawTensor)
	if !ok {
		return nil, fmt.Errorf("labeled: data array %q is not host-resident", da.name)
	}
	if want := tensor.DataTypeOf[T](); raw.DType() != want {
		return nil, fmt.Errorf("labeled: data array %q has dtype %s, not %s", da.name, raw.DType(), want)
	}
	return tensor.Values[T](raw), nil
}

// String returns a short description of the array.
func (da *DataArray) String() string {
	var b strings.Builder
	b.WriteString("<DataArray")
	if da.name != "" {
		fmt.Fprintf(&b, " %q", da.name)
	}
	fmt.Fprintf(&b, " (%s)", strings.Join(da.dims, ", "))
	fmt.Fprintf(&b, " %s %v on %s>", da.data.DType(), da.data.Shape(), da.data.Device())
	return b.String()
}

func coordsAsHost(coords Coords) (Coords, error) {
	var out Coords
	for name, c := range coords {
		host, err := c.asHost()
		if err != nil {
			return nil, fmt.Errorf("labeled: coordinate %q: %w", name, err)
		}
		if host == c {
			continue
		}
		if out == nil {
			out = make(Coords, len(coords))
			for k, v := range coords {
				out[k] = v
			}
		}
		out[name] = host
	}
	if out == nil {
		return coords, nil
	}
	return out, nil
}
