package device

import (
	"testing"

	"github.com/born-ml/labeled/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadReadHostRoundTrip(t *testing.T) {
	m := NewMock()
	host, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)

	arr, err := Upload(m, host)
	require.NoError(t, err)
	defer arr.Release()

	assert.True(t, arr.IsDeviceResident())
	assert.Equal(t, tensor.Mock, arr.Device())
	assert.True(t, arr.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, tensor.Float32, arr.DType())
	assert.Equal(t, 24, arr.ByteSize())
	assert.Same(t, m, arr.Backend().(*Mock))

	back, err := arr.ReadHost()
	require.NoError(t, err)
	assert.True(t, back.Equal(host))
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, back.AsFloat32())
}

func TestUploadIsIdempotentOnSameBackend(t *testing.T) {
	m := NewMock()
	host, _ := tensor.FromSlice([]int32{7, 8}, tensor.Shape{2})

	arr, err := Upload(m, host)
	require.NoError(t, err)

	again, err := Upload(m, arr)
	require.NoError(t, err)
	assert.Same(t, arr, again)
	assert.Equal(t, uint64(1), m.Stats().Allocations)
}

func TestUploadAcrossBackends(t *testing.T) {
	src := NewMock()
	dst := NewMock()
	host, _ := tensor.FromSlice([]float64{0.5, 1.5}, tensor.Shape{2})

	arr, err := Upload(src, host)
	require.NoError(t, err)

	moved, err := Upload(dst, arr)
	require.NoError(t, err)
	assert.NotSame(t, arr, moved)
	assert.Equal(t, uint64(1), src.Stats().Reads)
	assert.Equal(t, uint64(1), dst.Stats().Allocations)

	back, err := moved.ReadHost()
	require.NoError(t, err)
	assert.True(t, back.Equal(host))
}

func TestUploadPropagatesBackendError(t *testing.T) {
	m := NewMock(WithCapacity(4))
	host, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2})

	_, err := Upload(m, host)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestUploadNilBackend(t *testing.T) {
	host, _ := tensor.FromSlice([]float64{1}, tensor.Shape{1})
	_, err := Upload(nil, host)
	require.ErrorIs(t, err, ErrNoBackend)
}

func TestUploadEmpty(t *testing.T) {
	m := NewMock()
	host, err := tensor.NewRaw(tensor.Shape{0, 3}, tensor.Float32)
	require.NoError(t, err)

	arr, err := Upload(m, host)
	require.NoError(t, err)

	back, err := arr.ReadHost()
	require.NoError(t, err)
	assert.True(t, back.Shape().Equal(tensor.Shape{0, 3}))
	assert.Empty(t, back.AsFloat32())
}

func TestArrayRelease(t *testing.T) {
	m := NewMock()
	host, _ := tensor.FromSlice([]uint8{1, 2, 3}, tensor.Shape{3})

	arr, err := Upload(m, host)
	require.NoError(t, err)

	arr.Release()
	arr.Release()
	assert.True(t, arr.IsReleased())
	assert.Equal(t, uint64(1), m.Stats().Releases)
	assert.Equal(t, 0, m.Stats().LiveBuffers)

	_, err = arr.ReadHost()
	require.ErrorIs(t, err, ErrInvalidHandle)
}

// taggedBackend is a Backend of a non-comparable type.
type taggedBackend struct {
	*Mock
	tags map[string]string
}

func TestUploadNonComparableBackend(t *testing.T) {
	b := taggedBackend{Mock: NewMock(), tags: map[string]string{"zone": "a"}}
	host, _ := tensor.FromSlice([]int64{1, 2}, tensor.Shape{2})

	arr, err := Upload(b, host)
	require.NoError(t, err)

	var again *Array
	require.NotPanics(t, func() {
		again, err = Upload(b, arr)
	})
	require.NoError(t, err)
	assert.NotSame(t, arr, again)

	back, err := again.ReadHost()
	require.NoError(t, err)
	assert.True(t, back.Equal(host))
}

func TestSameBackend(t *testing.T) {
	a, b := NewMock(), NewMock()
	assert.True(t, sameBackend(a, a))
	assert.False(t, sameBackend(a, b))
	assert.False(t, sameBackend(a, nil))

	tagged := taggedBackend{Mock: a, tags: map[string]string{}}
	assert.False(t, sameBackend(tagged, tagged))
	assert.False(t, sameBackend(tagged, a))
}
