// Package rust provides a buffer executor using go-webgpu/webgpu.
//
// This backend drives the wgpu-native Rust WebGPU implementation via FFI
// bindings, on Vulkan, Metal or DX12 depending on the platform.
//
// # Architecture Overview
//
//	gfxbuf.Buffer -> gpucore.BufferRecord -> Executor -> wgpu-native (Rust) -> Vulkan/Metal/DX12
//
// The Executor keeps a host mirror of every buffer. Resizing allocates a new
// device buffer, uploads the surviving prefix from the mirror and swaps it in
// under the same buffer ID, so views keep addressing the live allocation.
// Queue writes are widened to 4-byte boundaries from the mirror.
//
// # Registration and Selection
//
// The rust backend is registered when this package is imported with the
// "rust" build tag:
//
//	// Build with: go build -tags rust
//	import _ "github.com/gogpu/gfxbuf/backend/rust"
//
// The backend is preferred over cogent, native and software backends when
// it opens. Without the tag a stub is compiled whose factory returns
// ErrNotCompiled, so backend.Default moves on.
//
// # Dependencies
//
// This backend requires wgpu-native library:
//   - Windows: wgpu_native.dll
//   - Linux: libwgpu_native.so
//   - macOS: libwgpu_native.dylib
//
// Download from: https://github.com/gfx-rs/wgpu-native/releases
//
// # Thread Safety
//
// Executor is safe for concurrent use from multiple goroutines.
package rust
