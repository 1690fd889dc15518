package gfxbuf

import (
	"strings"

	"github.com/gogpu/gfxbuf/gpucore"
	"github.com/gogpu/gputypes"
)

// BufferUsage is the set of roles a buffer is created for
// (vertex, index, uniform, storage, indirect, copy source/destination).
type BufferUsage = gputypes.BufferUsage

// MemoryKind classifies buffer memory as device-local or host-visible.
type MemoryKind = gpucore.MemoryKind

// Memory kinds.
const (
	MemoryKindDevice = gpucore.MemoryKindDevice
	MemoryKindHost   = gpucore.MemoryKindHost
)

// DrawInfo describes one draw call stored in an indirect buffer.
type DrawInfo = gpucore.DrawInfo

// IndirectBuffer is the draw table owned by an indirect-draw buffer.
type IndirectBuffer = gpucore.IndirectBuffer

// BufferFlags is a bitmask of optional buffer behaviors.
type BufferFlags uint32

// Buffer flags.
const (
	// BufferFlagNone requests no optional behavior.
	BufferFlagNone BufferFlags = 0

	// BufferFlagShadowCopy keeps a host-side copy of the buffer contents,
	// resized together with the buffer and written by every Update.
	BufferFlagShadowCopy BufferFlags = 1 << 0
)

// Has reports whether all bits of f are set.
func (b BufferFlags) Has(f BufferFlags) bool {
	return b&f == f
}

// String returns the string representation of BufferFlags.
func (b BufferFlags) String() string {
	if b == BufferFlagNone {
		return "None"
	}
	var parts []string
	if b.Has(BufferFlagShadowCopy) {
		parts = append(parts, "ShadowCopy")
		b &^= BufferFlagShadowCopy
	}
	if b != 0 {
		parts = append(parts, "Unknown")
	}
	return strings.Join(parts, "|")
}
