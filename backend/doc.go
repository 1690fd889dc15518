// Package backend provides the registry of buffer executors.
//
// An executor realizes gfxbuf buffers on a device: it creates, resizes,
// updates and destroys the native buffer behind each gpucore.BufferRecord.
// This package holds the registry and the always-available host-memory
// executor; GPU executors live in subpackages and register themselves
// on import.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is automatically registered on import:
//
//	import _ "github.com/gogpu/gfxbuf/backend/native"
//
// # Backend Selection
//
// Use Default() to open the best available backend, or Open() to request
// a specific backend by name:
//
//	// Open the default (best available) backend
//	exec, err := backend.Default()
//
//	// Or request a specific backend
//	exec, err := backend.Open(backend.BackendSoftware)
//
// Setting GFXBUF_BACKEND overrides the priority order in Default.
//
// # Available Backends
//
//   - "software": host memory (always available)
//   - "native": Pure Go GPU via gogpu/wgpu HAL (Vulkan)
//   - "rust": wgpu-native via go-webgpu/webgpu (build tag rust)
//   - "cogent": wgpu-native via cogentcore/webgpu (build tag cogent)
package backend
