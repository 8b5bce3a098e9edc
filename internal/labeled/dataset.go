package labeled

import (
	"fmt"
	"sort"
)

// Dataset is a named collection of labeled arrays sharing coordinates.
type Dataset struct {
	vars   map[string]*DataArray
	coords Coords
	attrs  Attrs
}

// NewDataset creates a dataset.
//
// Variables sharing a dimension name must agree on its size, and so must the
// shared coordinates. The variable map is copied; coords and attrs are kept
// by reference.
func NewDataset(vars map[string]*DataArray, coords Coords, attrs Attrs) (*Dataset, error) {
	sizes := make(map[string]int)
	members := make(map[string]*DataArray, len(vars))

	for _, name := range sortedNames(vars) {
		da := vars[name]
		if name == "" {
			return nil, fmt.Errorf("labeled: dataset variable with empty name")
		}
		if da == nil {
			return nil, fmt.Errorf("labeled: dataset variable %q is nil", name)
		}
		if err := mergeSizes(sizes, da.Dims(), da.Shape(), fmt.Sprintf("variable %q", name)); err != nil {
			return nil, err
		}
		members[name] = da
	}
	if err := checkCoords(coords, sizes, false); err != nil {
		return nil, err
	}

	return &Dataset{vars: members, coords: coords, attrs: attrs}, nil
}

// Vars returns a copy of the variable mapping.
func (ds *Dataset) Vars() map[string]*DataArray {
	out := make(map[string]*DataArray, len(ds.vars))
	for k, v := range ds.vars {
		out[k] = v
	}
	return out
}

// Names returns the variable names in sorted order.
func (ds *Dataset) Names() []string {
	return sortedNames(ds.vars)
}

// Var returns the named variable.
func (ds *Dataset) Var(name string) (*DataArray, bool) {
	da, ok := ds.vars[name]
	return da, ok
}

// Len returns the number of variables.
func (ds *Dataset) Len() int {
	return len(ds.vars)
}

// Coords returns the shared coordinate mapping.
func (ds *Dataset) Coords() Coords {
	return ds.coords
}

// Attrs returns the attribute mapping.
func (ds *Dataset) Attrs() Attrs {
	return ds.attrs
}

// Sizes maps every dimension used by a variable or coordinate to its length.
func (ds *Dataset) Sizes() map[string]int {
	sizes := make(map[string]int)
	for _, da := range ds.vars {
		for d, n := range da.Sizes() {
			sizes[d] = n
		}
	}
	for _, c := range ds.coords {
		for i, d := range c.Dims() {
			sizes[d] = c.Shape()[i]
		}
	}
	return sizes
}

// Map applies fn to every variable and builds a dataset with the same
// coordinates and attributes. The first error aborts the mapping.
func (ds *Dataset) Map(fn func(name string, da *DataArray) (*DataArray, error)) (*Dataset, error) {
	out := make(map[string]*DataArray, len(ds.vars))
	for _, name := range ds.Names() {
		da, err := fn(name, ds.vars[name])
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		out[name] = da
	}
	return NewDataset(out, ds.coords, ds.attrs)
}

// AsHost returns a copy of the dataset in which every variable and
// coordinate is host-resident. Mixed datasets are handled uniformly.
func (ds *Dataset) AsHost() (*Dataset, error) {
	coords, err := coordsAsHost(ds.coords)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*DataArray, len(ds.vars))
	for _, name := range ds.Names() {
		da, err := ds.vars[name].AsHost()
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		out[name] = da
	}
	return NewDataset(out, coords, ds.attrs)
}

func sortedNames(vars map[string]*DataArray) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
