package gpucore

import "github.com/gogpu/gputypes"

// BufferID is an opaque handle to a realized device allocation.
//
// Executors keep a table from IDs to their native objects. Resizing a buffer
// may replace the native object, but the ID stays the same, so a view that
// borrows its parent's ID keeps addressing the live allocation.
type BufferID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// MemoryKind classifies where a buffer's memory lives.
type MemoryKind uint32

// Memory kinds.
const (
	// MemoryKindDevice is device-local memory, not directly visible to the host.
	MemoryKindDevice MemoryKind = 1 << 0

	// MemoryKindHost is host-visible memory.
	MemoryKindHost MemoryKind = 1 << 1
)

// String returns the string representation of MemoryKind.
func (k MemoryKind) String() string {
	switch k {
	case 0:
		return "None"
	case MemoryKindDevice:
		return "Device"
	case MemoryKindHost:
		return "Host"
	case MemoryKindDevice | MemoryKindHost:
		return "Device|Host"
	default:
		return "Unknown"
	}
}

// BufferRecord is the backend-facing description of a buffer.
//
// The resource layer owns the record and keeps Size, Shadow and Indirects
// current before every executor call. Executors own ID: CreateBuffer sets it
// and DestroyBuffer may clear it.
//
// A view's record carries its parent's ID plus Offset. Executors never see a
// view record in CreateBuffer, ResizeBuffer, UpdateBuffer or DestroyBuffer.
type BufferRecord struct {
	// ID identifies the device allocation. InvalidID before creation.
	ID BufferID

	// Label is an optional debug name.
	Label string

	// Usage is the set of roles the buffer is created for.
	Usage gputypes.BufferUsage

	// MemoryKind is the requested memory class.
	MemoryKind MemoryKind

	// Size is the current byte length.
	Size uint64

	// Stride is the byte length of one element.
	Stride uint64

	// Offset is the byte offset into the parent's allocation (views only).
	Offset uint64

	// Shadow is the host copy, nil unless the buffer keeps one.
	Shadow []byte

	// Indirects is the draw table of an indirect buffer, nil otherwise.
	// Shared between a parent and its views.
	Indirects *IndirectBuffer
}

// IsIndirect reports whether the record describes an indirect-draw buffer.
func (r *BufferRecord) IsIndirect() bool {
	return r.Usage.Contains(gputypes.BufferUsageIndirect)
}
