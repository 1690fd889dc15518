package cogent

import "errors"

var (
	// ErrNotInitialized is returned when the executor is used after Close.
	ErrNotInitialized = errors.New("cogent: executor not initialized")

	// ErrNoInstance is returned when wgpu-native cannot create an instance.
	ErrNoInstance = errors.New("cogent: instance creation failed")

	// ErrNoGPU is returned when no adapter matches the request.
	ErrNoGPU = errors.New("cogent: no GPU adapter available")

	// ErrUnknownBuffer is returned for a record this executor did not create.
	ErrUnknownBuffer = errors.New("cogent: unknown buffer")

	// ErrNotCompiled is returned by the registered factory when the package
	// was built without the cogent tag.
	ErrNotCompiled = errors.New("cogent: backend not compiled in (build with -tags cogent)")
)
