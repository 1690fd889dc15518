package backend

import (
	"sync/atomic"

	"github.com/gogpu/gfxbuf/gpucore"
)

// SoftwareExecutor keeps buffer contents in host memory.
//
// It is the always-available fallback and the reference for what GPU
// executors must do: resize preserves the leading bytes, indirect buffers
// hold their encoded draw table, and reads address the root allocation at
// the record's view offset.
type SoftwareExecutor struct {
	nextID atomic.Uint64
	mem    *Mirror
	closed atomic.Bool
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() (gpucore.Executor, error) {
		return NewSoftwareExecutor(), nil
	})
}

// NewSoftwareExecutor creates a new host-memory executor.
func NewSoftwareExecutor() *SoftwareExecutor {
	return &SoftwareExecutor{mem: NewMirror()}
}

// Name returns the backend identifier.
func (e *SoftwareExecutor) Name() string {
	return BackendSoftware
}

// CreateBuffer allocates rec.Size zeroed bytes and assigns rec.ID.
func (e *SoftwareExecutor) CreateBuffer(rec *gpucore.BufferRecord) error {
	if e.closed.Load() {
		return ErrNotInitialized
	}
	rec.ID = gpucore.BufferID(e.nextID.Add(1))
	e.mem.Alloc(rec.ID, rec.Size)
	return nil
}

// ResizeBuffer reallocates the buffer to rec.Size bytes, keeping the prefix.
func (e *SoftwareExecutor) ResizeBuffer(rec *gpucore.BufferRecord) error {
	_, err := e.mem.Resize(rec.ID, rec.Size)
	return err
}

// UpdateBuffer copies size bytes of src to offset. For indirect buffers
// updated with size 0 the draw table is encoded at the start instead.
func (e *SoftwareExecutor) UpdateBuffer(rec *gpucore.BufferRecord, src []byte, offset, size uint64) error {
	_, _, err := e.mem.Write(rec, src, offset, size)
	return err
}

// DestroyBuffer releases the buffer. Unknown IDs are ignored.
func (e *SoftwareExecutor) DestroyBuffer(rec *gpucore.BufferRecord) {
	e.mem.Free(rec.ID)
}

// ReadBuffer returns a copy of size bytes at rec.Offset+offset.
func (e *SoftwareExecutor) ReadBuffer(rec *gpucore.BufferRecord, offset, size uint64) ([]byte, error) {
	return e.mem.Read(rec, offset, size)
}

// Live returns the number of buffers currently allocated.
func (e *SoftwareExecutor) Live() int {
	return e.mem.Len()
}

// Close releases all buffers. The executor must not be used afterwards.
func (e *SoftwareExecutor) Close() {
	e.mem.Clear()
	e.closed.Store(true)
}
