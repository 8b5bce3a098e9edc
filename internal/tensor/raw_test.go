package tensor

import (
	"testing"
)

func TestNewRawZeroFilled(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if raw.NumElements() != 6 {
		t.Errorf("NumElements = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize = %d, want 24", raw.ByteSize())
	}
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
	if raw.IsDeviceResident() {
		t.Error("host buffer must not report device residency")
	}
	if raw.Device() != CPU {
		t.Errorf("Device = %v, want CPU", raw.Device())
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, -1}, Float64); err == nil {
		t.Error("expected error for negative dimension")
	}
}

func TestNewRawEmpty(t *testing.T) {
	raw, err := NewRaw(Shape{0, 4}, Int32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if got := raw.AsInt32(); len(got) != 0 {
		t.Errorf("AsInt32 length = %d, want 0", len(got))
	}
}

func TestFromSlice(t *testing.T) {
	raw, err := FromSlice([]int64{1, 2, 3, 4}, Shape{2, 2})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if raw.DType() != Int64 {
		t.Errorf("DType = %v, want int64", raw.DType())
	}

	data := raw.AsInt64()
	data[0] = 42
	if raw.AsInt64()[0] != 42 {
		t.Error("AsInt64 should return zero-copy slice")
	}

	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}); err == nil {
		t.Error("expected element count mismatch error")
	}
}

func TestValuesWrongTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32)
	defer func() {
		if recover() == nil {
			t.Error("Values with mismatched type should panic")
		}
	}()
	_ = Values[float64](raw)
}

func TestNewRawFromBytes(t *testing.T) {
	src, _ := FromSlice([]float32{1.5, -2, 3}, Shape{3})

	// Padded input, as returned by aligned device reads.
	padded := append(append([]byte(nil), src.Data()...), 0, 0, 0, 0)
	raw, err := NewRawFromBytes(Shape{3}, Float32, padded)
	if err != nil {
		t.Fatalf("NewRawFromBytes failed: %v", err)
	}
	if !raw.Equal(src) {
		t.Errorf("got %v, want %v", raw.AsFloat32(), src.AsFloat32())
	}

	padded[0] = 0xff
	if !raw.Equal(src) {
		t.Error("NewRawFromBytes must copy its input")
	}

	if _, err := NewRawFromBytes(Shape{4}, Float32, src.Data()); err == nil {
		t.Error("expected short input error")
	}
}

func TestRawTensorCloneSharesBuffer(t *testing.T) {
	raw, _ := FromSlice([]uint8{1, 2, 3}, Shape{3})
	clone := raw.Clone()

	if raw.IsUnique() {
		t.Error("buffer should be shared after Clone")
	}
	clone.AsUint8()[1] = 9
	if raw.AsUint8()[1] != 9 {
		t.Error("Clone should share the underlying bytes")
	}

	clone.Release()
	if !raw.IsUnique() {
		t.Error("buffer should be unique after releasing the clone")
	}
}

func TestRawTensorChecksum(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2, 3}, Shape{3})
	b, _ := FromSlice([]float64{1, 2, 3}, Shape{3})
	c, _ := FromSlice([]float64{1, 2, 4}, Shape{3})

	if a.Checksum() != b.Checksum() {
		t.Error("equal buffers should have equal checksums")
	}
	if a.Checksum() == c.Checksum() {
		t.Error("different buffers should have different checksums")
	}
}

func TestRawTensorEqual(t *testing.T) {
	a, _ := FromSlice([]int32{1, 2, 3, 4}, Shape{2, 2})
	b, _ := FromSlice([]int32{1, 2, 3, 4}, Shape{4})
	c, _ := FromSlice([]int32{1, 2, 3, 4}, Shape{2, 2})

	if a.Equal(b) {
		t.Error("buffers with different shapes should not be equal")
	}
	if !a.Equal(c) {
		t.Error("identical buffers should be equal")
	}
	if a.Equal(nil) {
		t.Error("nil is never equal")
	}
}

func TestDeviceString(t *testing.T) {
	tests := []struct {
		device Device
		want   string
	}{
		{CPU, "CPU"},
		{CUDA, "CUDA"},
		{WebGPU, "WebGPU"},
		{Mock, "Mock"},
		{Device(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.device.String(); got != tt.want {
			t.Errorf("Device(%d).String() = %q, want %q", tt.device, got, tt.want)
		}
	}
}

type fakeReader struct {
	raw *RawTensor
}

func (f *fakeReader) Shape() Shape { return f.raw.Shape() }
func (f *fakeReader) DType() DataType { return f.raw.DType() }
func (f *fakeReader) Device() Device { return Mock }
func (f *fakeReader) IsDeviceResident() bool { return true }
func (f *fakeReader) ReadHost() (*RawTensor, error) { return f.raw.Clone(), nil }

type opaqueBuffer struct{}

func (opaqueBuffer) Shape() Shape { return Shape{2} }
func (opaqueBuffer) DType() DataType { return Float32 }
func (opaqueBuffer) Device() Device { return Mock }
func (opaqueBuffer) IsDeviceResident() bool { return true }

func TestMaterialize(t *testing.T) {
	raw, _ := FromSlice([]float32{1, 2}, Shape{2})

	got, err := Materialize(raw)
	if err != nil || got != raw {
		t.Errorf("host buffer should be returned as-is, got %v, %v", got, err)
	}

	got, err = Materialize(&fakeReader{raw: raw})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if !got.Equal(raw) {
		t.Error("HostReader result should be returned")
	}

	if _, err := Materialize(nil); err == nil {
		t.Error("expected error for nil buffer")
	}
	if _, err := Materialize(opaqueBuffer{}); err == nil {
		t.Error("expected error for buffer without host capability")
	}
}
