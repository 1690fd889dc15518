package native

import "errors"

// Package errors for native backend.
var (
	// ErrNotInitialized is returned when the executor is used after Close.
	ErrNotInitialized = errors.New("native: executor not initialized")

	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrUnknownBuffer is returned for a record whose ID this executor did
	// not create or has already destroyed.
	ErrUnknownBuffer = errors.New("native: unknown buffer")

	// ErrGPUTimeout is returned when a submitted copy does not finish in time.
	ErrGPUTimeout = errors.New("native: timed out waiting for GPU")

	// ErrNilProvider is returned by NewFromProvider for a nil provider.
	ErrNilProvider = errors.New("native: nil DeviceProvider")

	// ErrNoHAL is returned when a provider does not expose HAL objects.
	ErrNoHAL = errors.New("native: provider does not expose HAL device and queue")

	// ErrInvalidRegion is returned for a readback region that is empty or
	// does not match its destination buffer.
	ErrInvalidRegion = errors.New("native: invalid readback region")
)
