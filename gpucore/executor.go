package gpucore

// Executor realizes buffer records as device memory.
//
// This interface is the only contact point between the resource layer and a
// concrete GPU API. Implementations translate records into native objects and
// keep an ID table so that handles stay stable across ResizeBuffer.
//
// Calls may only enqueue work: the resource layer updates its bookkeeping
// immediately and does not assume device-side completion before the next
// frame boundary.
//
// Resource lifecycle:
//   - CreateBuffer allocates rec.Size bytes and sets rec.ID. Size may be 0.
//   - ResizeBuffer reallocates to rec.Size under the same ID. Never called
//     with rec.Size == 0.
//   - UpdateBuffer copies size bytes from src into device memory at offset.
//     For indirect buffers the executor also encodes rec.Indirects.
//   - DestroyBuffer releases the allocation. It must tolerate records whose
//     resize history included zero-length states.
type Executor interface {
	// CreateBuffer allocates device memory for rec and stores the handle in rec.ID.
	CreateBuffer(rec *BufferRecord) error

	// ResizeBuffer reallocates the device memory behind rec.ID to rec.Size bytes.
	ResizeBuffer(rec *BufferRecord) error

	// UpdateBuffer copies size bytes of src into the allocation at offset.
	UpdateBuffer(rec *BufferRecord, src []byte, offset, size uint64) error

	// DestroyBuffer releases the allocation behind rec.ID.
	DestroyBuffer(rec *BufferRecord)
}

// Reader is implemented by executors that can copy device memory back to
// the host. It may stall until the device has finished pending work.
type Reader interface {
	// ReadBuffer returns size bytes starting at offset within rec's allocation.
	// For view records offset is relative to rec.Offset.
	ReadBuffer(rec *BufferRecord, offset, size uint64) ([]byte, error)
}

// Named is implemented by executors that report a backend name.
type Named interface {
	Name() string
}

// NameOf returns the executor's backend name, or "unknown".
func NameOf(e Executor) string {
	if n, ok := e.(Named); ok {
		return n.Name()
	}
	return "unknown"
}
