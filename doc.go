// Package gfxbuf provides backend-agnostic GPU buffer resources for Go.
//
// # Overview
//
// gfxbuf manages device memory used for vertex, index, uniform, storage and
// indirect-draw data. A Buffer forwards its lifecycle (create, resize, update,
// destroy) to a gpucore.Executor, so the same code runs on the wgpu HAL, on
// wgpu-native, or on a pure Go software device. It is designed to sit under
// the GoGPU ecosystem and shares its device through gpucontext.
//
// # Quick Start
//
//	import "github.com/gogpu/gfxbuf"
//
//	// Open the best available backend ($GFXBUF_BACKEND overrides)
//	dev, err := gfxbuf.OpenDevice("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	// 32 vertices of 32 bytes, with a host copy for read-back
//	vb, err := dev.CreateBuffer(gfxbuf.BufferInfo{
//	    Label:  "vertices",
//	    Usage:  gputypes.BufferUsageVertex,
//	    Size:   1024,
//	    Stride: 32,
//	    Flags:  gfxbuf.BufferFlagShadowCopy,
//	})
//	vb.Update(data)
//	vb.Resize(2048) // keeps the first 1024 bytes
//	vb.Destroy()
//
// # Views
//
// A view aliases a byte range of another buffer without allocating:
//
//	v, err := dev.CreateView(vb, 128, 32)
//
// Views borrow the parent's buffer ID, so they keep addressing the live
// allocation after the parent is resized. Resizing or updating a view is
// rejected with ErrViewImmutable. A view must not outlive its parent.
//
// # Indirect Draws
//
// A buffer created with gputypes.BufferUsageIndirect owns a draw table.
// UpdateIndirect replaces the table and the executor encodes it into
// indirect arguments (gpucore.IndirectStride bytes per draw).
//
// # Memory Accounting
//
// Every device allocation and shadow copy is recorded in a MemoryStatus,
// either the process-wide one returned by Memory or one set with
// WithMemoryStatus. Totals return to zero once all buffers are destroyed.
//
// # Backends
//
// Executors register themselves with the backend package on import:
//
//	import _ "github.com/gogpu/gfxbuf/backend/native" // Pure Go, wgpu HAL
//	import _ "github.com/gogpu/gfxbuf/backend/rust"   // wgpu-native, -tags rust
//	import _ "github.com/gogpu/gfxbuf/backend/cogent" // wgpu-native via cgo, -tags cogent
//
// The software backend is always available.
//
// # Thread Safety
//
// Buffer and Device are not safe for concurrent use; drive them from one
// goroutine. MemoryStatus may be read from any goroutine.
package gfxbuf
