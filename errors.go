package gfxbuf

import "errors"

// Buffer errors.
var (
	// ErrInvalidDescriptor is returned when Initialize receives a malformed
	// descriptor (nil descriptor, zero view range, size not a multiple of stride).
	ErrInvalidDescriptor = errors.New("gfxbuf: invalid buffer descriptor")

	// ErrAlreadyInitialized is returned when Initialize is called twice.
	ErrAlreadyInitialized = errors.New("gfxbuf: buffer already initialized")

	// ErrParentNotReady is returned when a view is requested over a parent
	// that has not been created or has been destroyed.
	ErrParentNotReady = errors.New("gfxbuf: view parent not initialized or destroyed")

	// ErrViewImmutable is returned when Resize or Update is called on a view.
	// The call is a no-op; views provide read/bind access only.
	ErrViewImmutable = errors.New("gfxbuf: operation not supported on buffer views")

	// ErrBufferDestroyed is returned when operating on a destroyed or
	// uninitialized buffer.
	ErrBufferDestroyed = errors.New("gfxbuf: buffer has been destroyed")

	// ErrOutOfRange is returned when an update or read-back range does not
	// fit in the source slice or the buffer.
	ErrOutOfRange = errors.New("gfxbuf: range out of bounds")

	// ErrNotIndirect is returned by UpdateIndirect on a buffer created without
	// the indirect usage.
	ErrNotIndirect = errors.New("gfxbuf: buffer has no indirect draw table")

	// ErrReadbackUnsupported is returned by ReadBack when the buffer has no
	// shadow copy and the executor cannot read device memory.
	ErrReadbackUnsupported = errors.New("gfxbuf: read-back not supported")

	// ErrNilExecutor is returned when a device has no executor.
	ErrNilExecutor = errors.New("gfxbuf: executor is nil")
)
