package backend

import (
	"fmt"
	"sync"

	"github.com/gogpu/gfxbuf/gpucore"
)

// Mirror holds host copies of buffer contents keyed by buffer ID.
//
// The software executor stores buffers in a Mirror directly. The wgpu-native
// executors keep one next to their device buffers, so a resize can re-upload
// the surviving prefix and reads need no buffer mapping.
//
// Mirror is safe for concurrent use.
type Mirror struct {
	mu   sync.Mutex
	data map[gpucore.BufferID][]byte
}

// NewMirror returns an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{data: make(map[gpucore.BufferID][]byte)}
}

// Alloc stores size zeroed bytes under id.
func (m *Mirror) Alloc(id gpucore.BufferID, size uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = make([]byte, size)
}

// Resize reallocates id to size bytes keeping the prefix and returns the
// new contents. The returned slice must not be modified.
func (m *Mirror) Resize(id gpucore.BufferID, size uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.data[id]
	if !ok {
		return nil, fmt.Errorf("backend: resize unknown buffer %d", id)
	}
	data := make([]byte, size)
	copy(data, old)
	m.data[id] = data
	return data, nil
}

// Write applies an executor update to the copy of rec and returns the bytes
// written and their offset.
//
// An indirect record updated with size 0 has its draw table encoded at
// offset 0; the table must fit in the buffer.
func (m *Mirror) Write(rec *gpucore.BufferRecord, src []byte, offset, size uint64) ([]byte, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, written, at, err := m.patch(rec, src, offset, size)
	if err != nil {
		return nil, 0, err
	}
	copy(data[at:], written)
	return written, at, nil
}

// Update is Write for a copy that mirrors device memory. upload receives
// the changed bytes widened to 4-byte boundaries and their offset, and the
// copy is changed only if upload succeeds. upload is not called when
// nothing is written.
func (m *Mirror) Update(rec *gpucore.BufferRecord, src []byte, offset, size uint64,
	upload func(span []byte, at uint64) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, written, at, err := m.patch(rec, src, offset, size)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		return nil
	}

	start := at &^ 3
	end := AlignUp(at+uint64(len(written)), 4)
	span := make([]byte, end-start)
	copy(span, data[start:min(end, uint64(len(data)))])
	copy(span[at-start:], written)
	if err := upload(span, start); err != nil {
		return err
	}
	copy(data[at:], written)
	return nil
}

// Reallocate is Resize for a copy that mirrors device memory. upload
// receives the new contents zero-padded to a multiple of 4 bytes, and the
// copy is resized only if upload succeeds.
func (m *Mirror) Reallocate(id gpucore.BufferID, size uint64, upload func(data []byte) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.data[id]
	if !ok {
		return fmt.Errorf("backend: resize unknown buffer %d", id)
	}
	data := make([]byte, AlignUp(size, 4))
	copy(data[:size], old)
	if len(data) > 0 {
		if err := upload(data); err != nil {
			return err
		}
	}
	m.data[id] = data[:size]
	return nil
}

// patch validates an update of rec and returns the stored copy, the bytes
// to write and their offset. It must be called with m.mu held.
func (m *Mirror) patch(rec *gpucore.BufferRecord, src []byte, offset, size uint64) ([]byte, []byte, uint64, error) {
	data, ok := m.data[rec.ID]
	if !ok {
		return nil, nil, 0, fmt.Errorf("backend: update unknown buffer %d", rec.ID)
	}

	if rec.IsIndirect() && size == 0 {
		args := gpucore.EncodeIndirect(rec.Indirects.DrawInfos)
		if len(args) > len(data) {
			return nil, nil, 0, fmt.Errorf("backend: draw table needs %d bytes, buffer %d has %d",
				len(args), rec.ID, len(data))
		}
		return data, args, 0, nil
	}

	if offset+size > uint64(len(data)) {
		return nil, nil, 0, fmt.Errorf("backend: update [%d, %d) exceeds buffer %d of %d bytes",
			offset, offset+size, rec.ID, len(data))
	}
	return data, src[:size], offset, nil
}

// Read returns a copy of size bytes at rec.Offset+offset.
func (m *Mirror) Read(rec *gpucore.BufferRecord, offset, size uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.data[rec.ID]
	if !ok {
		return nil, fmt.Errorf("backend: read unknown buffer %d", rec.ID)
	}
	start := rec.Offset + offset
	if start+size > uint64(len(data)) {
		return nil, fmt.Errorf("backend: read [%d, %d) exceeds buffer %d of %d bytes",
			start, start+size, rec.ID, len(data))
	}
	out := make([]byte, size)
	copy(out, data[start:start+size])
	return out, nil
}

// Free drops the copy of id. Unknown IDs are ignored.
func (m *Mirror) Free(id gpucore.BufferID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
}

// Len returns the number of buffers held.
func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Clear drops all copies.
func (m *Mirror) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
}

// AlignUp rounds n up to a multiple of align, which must be a power of two.
func AlignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}
