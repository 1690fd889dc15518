// Package gpucore defines the contract between gfxbuf buffer resources and
// the GPU backends that realize them.
//
// The resource layer never talks to a graphics API directly. It describes
// each buffer with a [BufferRecord] and forwards four operations to an
// [Executor]:
//
//	               +-----------------+
//	               |     gfxbuf      |
//	               | (Buffer, views, |
//	               |  memory ledger) |
//	               +--------+--------+
//	                        | BufferRecord
//	         +--------------+--------------+
//	         |              |              |
//	+--------v-----+ +------v-------+ +----v---------+
//	|   software   | |    native    | | rust/cogent  |
//	| (host bytes) | | (wgpu/hal)   | | (wgpu-native)|
//	+--------------+ +--------------+ +--------------+
//
// # Resource Management
//
// Device allocations are identified by opaque [BufferID] values. Executors
// map IDs to native objects and may swap the object behind an ID when a
// buffer is resized, which is what lets buffer views borrow their parent's
// ID without owning it.
//
// # Indirect Draws
//
// Buffers created with the indirect usage carry an [IndirectBuffer]. Executors
// encode it with [EncodeIndirect] when the buffer is updated.
package gpucore
