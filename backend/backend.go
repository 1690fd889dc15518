package backend

import (
	"errors"

	"github.com/gogpu/gfxbuf/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or no registered backend could be opened.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned by executors used after Close.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the host-memory executor.
	BackendSoftware = "software"
	// BackendNative is the name of the Pure Go GPU executor (gogpu/wgpu HAL).
	BackendNative = "native"
	// BackendRust is the name of the Rust GPU executor (go-webgpu/webgpu FFI).
	BackendRust = "rust"
	// BackendCogent is the name of the cogentcore/webgpu executor.
	BackendCogent = "cogent"
)

// EnvBackend names the environment variable that forces Default to open a
// specific backend.
const EnvBackend = "GFXBUF_BACKEND"

// Factory opens a new executor.
//
// Factories of GPU backends acquire an adapter and a device, so they can fail
// on machines without a suitable driver. The returned executor should
// implement gpucore.Named, and Close() when it owns device resources.
type Factory func() (gpucore.Executor, error)
