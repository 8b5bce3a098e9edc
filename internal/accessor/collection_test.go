package accessor

import (
	"testing"

	"github.com/born-ml/labeled/internal/device"
	"github.com/born-ml/labeled/internal/labeled"
	"github.com/born-ml/labeled/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hostDataset(t *testing.T) *labeled.Dataset {
	t.Helper()

	u, err := labeled.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, "y", "x")
	require.NoError(t, err)
	v, err := labeled.FromSlice([]float64{-1, -2, -3, -4}, tensor.Shape{2, 2}, "y", "x")
	require.NoError(t, err)
	x, err := labeled.Coord("x", []int32{100, 200})
	require.NoError(t, err)

	ds, err := labeled.NewDataset(
		map[string]*labeled.DataArray{"u": u, "v": v},
		labeled.Coords{"x": x},
		labeled.Attrs{"source": "test"},
	)
	require.NoError(t, err)
	return ds
}

func TestCollectionIsDeviceResident(t *testing.T) {
	m := device.NewMock()
	ds := hostDataset(t)

	assert.False(t, Collection(ds).IsDeviceResident())

	onDevice, err := Collection(ds).On(m).ToDevice()
	require.NoError(t, err)
	assert.True(t, Collection(onDevice).IsDeviceResident())

	// Flip one member back to the host.
	u, _ := onDevice.Var("u")
	uHost, err := Array(u).ToHost()
	require.NoError(t, err)
	v, _ := onDevice.Var("v")

	mixed, err := labeled.NewDataset(map[string]*labeled.DataArray{"u": uHost, "v": v},
		onDevice.Coords(), onDevice.Attrs())
	require.NoError(t, err)
	assert.False(t, Collection(mixed).IsDeviceResident())
}

func TestCollectionEmptyIsDeviceResident(t *testing.T) {
	ds, err := labeled.NewDataset(nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, Collection(ds).IsDeviceResident())
}

func TestCollectionRoundTrip(t *testing.T) {
	m := device.NewMock()
	ds := hostDataset(t)

	onDevice, err := Collection(ds).On(m).ToDevice()
	require.NoError(t, err)
	assert.Equal(t, ds.Names(), onDevice.Names())
	assert.Equal(t, ds.Attrs(), onDevice.Attrs())
	assert.Same(t, ds.Coords()["x"], onDevice.Coords()["x"])
	assert.Equal(t, uint64(2), m.Stats().Allocations)

	back, err := Collection(onDevice).ToHost()
	require.NoError(t, err)
	assert.False(t, Collection(back).IsDeviceResident())

	for _, name := range ds.Names() {
		orig, _ := ds.Var(name)
		got, ok := back.Var(name)
		require.True(t, ok, name)

		want, err := labeled.Values[float64](orig)
		require.NoError(t, err)
		have, err := labeled.Values[float64](got)
		require.NoError(t, err)
		assert.Equal(t, want, have, name)
	}
}

func TestCollectionToHostMixed(t *testing.T) {
	m := device.NewMock()
	ds := hostDataset(t)

	u, _ := ds.Var("u")
	uDev, err := Array(u).On(m).ToDevice()
	require.NoError(t, err)
	v, _ := ds.Var("v")

	mixed, err := labeled.NewDataset(map[string]*labeled.DataArray{"u": uDev, "v": v}, ds.Coords(), ds.Attrs())
	require.NoError(t, err)

	back, err := Collection(mixed).ToHost()
	require.NoError(t, err)
	assert.False(t, Collection(back).IsDeviceResident())

	vBack, _ := back.Var("v")
	assert.Same(t, v.Data(), vBack.Data())
}

func TestCollectionToDevicePropagatesErrors(t *testing.T) {
	// Room for one 32-byte member only.
	m := device.NewMock(device.WithCapacity(40))

	_, err := Collection(hostDataset(t)).On(m).ToDevice()
	require.ErrorIs(t, err, device.ErrOutOfMemory)
	assert.Contains(t, err.Error(), `variable "v"`)
}

func TestCollectionNoBackend(t *testing.T) {
	device.SetDefault(nil)
	_, err := Collection(hostDataset(t)).ToDevice()
	require.ErrorIs(t, err, device.ErrNoBackend)
}

func TestDatasetToDeviceShorthandMatchesAdapter(t *testing.T) {
	device.SetDefault(device.NewMock())
	defer device.SetDefault(nil)

	ds := hostDataset(t)

	viaAdapter, err := Collection(ds).ToDevice()
	require.NoError(t, err)
	viaShorthand, err := DatasetToDevice(ds)
	require.NoError(t, err)

	assert.Equal(t, viaAdapter.Names(), viaShorthand.Names())
	assert.Equal(t, viaAdapter.Coords(), viaShorthand.Coords())
	assert.Equal(t, viaAdapter.Attrs(), viaShorthand.Attrs())

	for _, name := range ds.Names() {
		a, _ := viaAdapter.Var(name)
		b, _ := viaShorthand.Var(name)
		ra, err := Array(a).Get()
		require.NoError(t, err)
		rb, err := Array(b).Get()
		require.NoError(t, err)
		assert.True(t, ra.Equal(rb), name)
	}
}

func TestCollectionToDeviceOnDeviceDatasetWithoutDefault(t *testing.T) {
	m := device.NewMock()
	onDevice, err := Collection(hostDataset(t)).On(m).ToDevice()
	require.NoError(t, err)

	device.SetDefault(nil)
	again, err := Collection(onDevice).ToDevice()
	require.NoError(t, err)
	for _, name := range onDevice.Names() {
		want, _ := onDevice.Var(name)
		got, _ := again.Var(name)
		assert.Same(t, want.Data(), got.Data(), name)
	}
	assert.Equal(t, uint64(2), m.Stats().Allocations)
}

func TestCollectionToDeviceReleasesOnError(t *testing.T) {
	// Room for one 32-byte member only.
	m := device.NewMock(device.WithCapacity(40))

	_, err := Collection(hostDataset(t)).On(m).ToDevice()
	require.ErrorIs(t, err, device.ErrOutOfMemory)

	stats := m.Stats()
	assert.Equal(t, uint64(1), stats.Allocations)
	assert.Equal(t, uint64(1), stats.Releases)
	assert.Equal(t, 0, stats.LiveBuffers)
	assert.Equal(t, uint64(0), stats.LiveBytes)
}

func TestCollectionToDeviceKeepsExistingArraysOnError(t *testing.T) {
	m := device.NewMock(device.WithCapacity(40))
	ds := hostDataset(t)

	// u is already on the device and fills most of it.
	u, _ := ds.Var("u")
	uDev, err := Array(u).On(m).ToDevice()
	require.NoError(t, err)
	v, _ := ds.Var("v")
	mixed, err := labeled.NewDataset(map[string]*labeled.DataArray{"u": uDev, "v": v}, ds.Coords(), ds.Attrs())
	require.NoError(t, err)

	_, err = Collection(mixed).On(m).ToDevice()
	require.ErrorIs(t, err, device.ErrOutOfMemory)
	assert.False(t, uDev.Data().(*device.Array).IsReleased())
}
