package native

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestTextureRegionLayout(t *testing.T) {
	tests := []struct {
		name      string
		region    TextureRegion
		wantRow   uint32
		wantPitch uint32
		wantSize  int
	}{
		{"rgba 64", TextureRegion{Width: 64, Height: 2, BytesPerPixel: 4}, 256, 256, 512},
		{"rgba 10", TextureRegion{Width: 10, Height: 3, BytesPerPixel: 4}, 40, 256, 120},
		{"rgba16f 40", TextureRegion{Width: 40, Height: 1, BytesPerPixel: 8}, 320, 512, 320},
		{"r8 1x1", TextureRegion{Width: 1, Height: 1, BytesPerPixel: 1}, 1, 256, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.RowBytes(); got != tt.wantRow {
				t.Errorf("RowBytes() = %d, want %d", got, tt.wantRow)
			}
			if got := tt.region.alignedRowBytes(); got != tt.wantPitch {
				t.Errorf("alignedRowBytes() = %d, want %d", got, tt.wantPitch)
			}
			if got := tt.region.Size(); got != tt.wantSize {
				t.Errorf("Size() = %d, want %d", got, tt.wantSize)
			}
		})
	}
}

func TestStripRowPadding(t *testing.T) {
	src := make([]byte, 2*8)
	copy(src[0:], []byte{1, 2, 3})
	copy(src[8:], []byte{4, 5, 6})

	dst := make([]byte, 6)
	stripRowPadding(dst, src, 3, 8, 2)
	if want := []byte{1, 2, 3, 4, 5, 6}; !bytes.Equal(dst, want) {
		t.Errorf("stripRowPadding() = %v, want %v", dst, want)
	}

	tight := []byte{9, 8, 7, 6}
	dst = make([]byte, 4)
	stripRowPadding(dst, tight, 2, 2, 2)
	if !bytes.Equal(dst, tight) {
		t.Errorf("stripRowPadding(tight) = %v, want %v", dst, tight)
	}
}

func TestCopyTextureToBuffersValidation(t *testing.T) {
	e := newTestExecutor(t)
	region := TextureRegion{Width: 4, Height: 4, BytesPerPixel: 4}

	tests := []struct {
		name    string
		dst     [][]byte
		regions []TextureRegion
	}{
		{"count mismatch", [][]byte{make([]byte, 64)}, nil},
		{"empty region", [][]byte{nil}, []TextureRegion{{Width: 0, Height: 4, BytesPerPixel: 4}}},
		{"short destination", [][]byte{make([]byte, 63)}, []TextureRegion{region}},
		{"long destination", [][]byte{make([]byte, 65)}, []TextureRegion{region}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.CopyTextureToBuffers(nil, tt.dst, tt.regions)
			if !errors.Is(err, ErrInvalidRegion) {
				t.Errorf("CopyTextureToBuffers() error = %v, want %v", err, ErrInvalidRegion)
			}
		})
	}

	if err := e.CopyTextureToBuffers(nil, nil, nil); err != nil {
		t.Errorf("CopyTextureToBuffers(no regions) error = %v", err)
	}
}

func TestCopyTextureToBuffers(t *testing.T) {
	e := newTestExecutor(t)

	tex, err := e.Device().CreateTexture(&hal.TextureDescriptor{
		Label:         "capture",
		Size:          hal.Extent3D{Width: 8, Height: 8, DepthOrArrayLayers: 1},
		MipLevelCount: 2,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageCopySrc | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	defer e.Device().DestroyTexture(tex)

	regions := []TextureRegion{
		{MipLevel: 0, Width: 8, Height: 8, BytesPerPixel: 4},
		{MipLevel: 1, Width: 4, Height: 4, BytesPerPixel: 4},
	}
	dst := [][]byte{make([]byte, regions[0].Size()), make([]byte, regions[1].Size())}
	if err := e.CopyTextureToBuffers(tex, dst, regions); err != nil {
		t.Fatalf("CopyTextureToBuffers() error = %v", err)
	}
	if len(dst[0]) != 256 || len(dst[1]) != 64 {
		t.Errorf("destination lengths = %d, %d, want 256, 64", len(dst[0]), len(dst[1]))
	}

	e.Close()
	if err := e.CopyTextureToBuffers(tex, dst, regions); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CopyTextureToBuffers() after Close error = %v, want %v", err, ErrNotInitialized)
	}
}
