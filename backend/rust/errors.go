package rust

import "errors"

// Package errors for rust backend.
var (
	// ErrNotInitialized is returned when the executor is used after Close.
	ErrNotInitialized = errors.New("rust: executor not initialized")

	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("rust: no GPU adapter available")

	// ErrLibraryNotFound is returned when wgpu-native library is not found.
	ErrLibraryNotFound = errors.New("rust: wgpu-native library not found")

	// ErrBufferCreation is returned when the device refuses a buffer.
	ErrBufferCreation = errors.New("rust: buffer creation failed")

	// ErrUnknownBuffer is returned for a record whose ID this executor
	// did not create or has already destroyed.
	ErrUnknownBuffer = errors.New("rust: unknown buffer")

	// ErrNotCompiled is returned by the registered factory when the package
	// was built without the rust tag.
	ErrNotCompiled = errors.New("rust: backend not compiled in (build with -tags rust)")
)
