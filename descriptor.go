package gfxbuf

// Descriptor is the input to Buffer.Initialize. It is either a BufferInfo,
// which creates a buffer with its own device memory, or a BufferViewInfo,
// which aliases a range of an existing buffer.
type Descriptor interface {
	descriptor()
}

// BufferInfo describes a new buffer.
type BufferInfo struct {
	// Label is an optional debug name passed to the executor.
	Label string

	// Usage is the set of roles the buffer is created for.
	// Including gputypes.BufferUsageIndirect gives the buffer a draw table.
	Usage BufferUsage

	// MemoryKind selects device-local or host-visible memory.
	MemoryKind MemoryKind

	// Size is the byte length. Zero is allowed.
	Size uint64

	// Stride is the byte length of one element.
	// Zero means the whole buffer is one element (Stride = Size).
	Stride uint64

	// Flags selects optional behaviors such as BufferFlagShadowCopy.
	Flags BufferFlags
}

// BufferViewInfo describes a view into an existing buffer.
//
// The view shares the parent's device allocation and must not outlive it:
// once the parent is destroyed, using the view is undefined.
type BufferViewInfo struct {
	// Buffer is the parent. A view of a view aliases the root parent.
	Buffer *Buffer

	// Offset is the byte offset of the range within Buffer.
	Offset uint64

	// Range is the byte length of the view. Must be non-zero.
	Range uint64
}

func (BufferInfo) descriptor()     {}
func (BufferViewInfo) descriptor() {}
