package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row pitch alignment required for
// texture-to-buffer copies (WebGPU and DX12).
const copyPitchAlignment = 256

// TextureRegion selects the part of a texture copied by CopyTextureToBuffers.
type TextureRegion struct {
	// MipLevel is the mip level to copy.
	MipLevel uint32

	// Width and Height are the size of the level in texels.
	Width, Height uint32

	// BytesPerPixel is the texel size of the texture format.
	BytesPerPixel uint32
}

// RowBytes returns the tightly packed byte length of one row.
func (r TextureRegion) RowBytes() uint32 {
	return r.Width * r.BytesPerPixel
}

// Size returns the tightly packed byte length of the region.
func (r TextureRegion) Size() int {
	return int(r.RowBytes()) * int(r.Height)
}

// alignedRowBytes returns the row pitch used in the staging buffer.
func (r TextureRegion) alignedRowBytes() uint32 {
	return (r.RowBytes() + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// CopyTextureToBuffers copies each region of tex into the matching dst
// buffer, tightly packed, in one submission.
//
// tex must have been created with gputypes.TextureUsageCopySrc and be in
// the copy-source state. len(dst[i]) must equal regions[i].Size().
// The call blocks until the GPU has finished the copy.
func (e *Executor) CopyTextureToBuffers(tex hal.Texture, dst [][]byte, regions []TextureRegion) error {
	if len(dst) != len(regions) {
		return fmt.Errorf("%w: %d destinations for %d regions", ErrInvalidRegion, len(dst), len(regions))
	}
	for i, r := range regions {
		if r.Width == 0 || r.Height == 0 || r.BytesPerPixel == 0 {
			return fmt.Errorf("%w: region %d is empty", ErrInvalidRegion, i)
		}
		if len(dst[i]) != r.Size() {
			return fmt.Errorf("%w: region %d needs %d bytes, destination has %d",
				ErrInvalidRegion, i, r.Size(), len(dst[i]))
		}
	}
	if len(regions) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}

	staging := make([]hal.Buffer, 0, len(regions))
	defer func() {
		for _, buf := range staging {
			e.device.DestroyBuffer(buf)
		}
	}()
	for i, r := range regions {
		buf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("gfxbuf_texture_readback_%d", i),
			Size:  uint64(r.alignedRowBytes()) * uint64(r.Height),
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("native: create staging buffer: %w", err)
		}
		staging = append(staging, buf)
	}

	err := e.submit("gfxbuf_texture_readback", func(enc hal.CommandEncoder) {
		for i, r := range regions {
			enc.CopyTextureToBuffer(tex, staging[i], []hal.BufferTextureCopy{{
				BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: r.alignedRowBytes(), RowsPerImage: r.Height},
				TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: r.MipLevel},
				Size:         hal.Extent3D{Width: r.Width, Height: r.Height, DepthOrArrayLayers: 1},
			}})
		}
	})
	if err != nil {
		return err
	}

	for i, r := range regions {
		pitch := r.alignedRowBytes()
		readback := make([]byte, uint64(pitch)*uint64(r.Height))
		if err := e.readStaging(staging[i], readback); err != nil {
			return fmt.Errorf("native: readback region %d: %w", i, err)
		}
		stripRowPadding(dst[i], readback, r.RowBytes(), pitch, r.Height)
	}
	return nil
}

// stripRowPadding copies rows of rowBytes from src, laid out with the given
// pitch, into dst tightly packed.
func stripRowPadding(dst, src []byte, rowBytes, pitch, rows uint32) {
	if rowBytes == pitch {
		copy(dst, src)
		return
	}
	for row := uint32(0); row < rows; row++ {
		srcOff := int(row) * int(pitch)
		dstOff := int(row) * int(rowBytes)
		copy(dst[dstOff:dstOff+int(rowBytes)], src[srcOff:srcOff+int(rowBytes)])
	}
}
