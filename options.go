package gfxbuf

import "log/slog"

// DeviceOption configures a Device during creation.
// Use functional options to customize Device behavior.
//
// Example:
//
//	// Process-wide ledger and the package logger
//	dev := gfxbuf.NewDevice(exec)
//
//	// Isolated ledger (useful in tests)
//	dev := gfxbuf.NewDevice(exec, gfxbuf.WithMemoryStatus(&gfxbuf.MemoryStatus{}))
type DeviceOption func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	memory      *MemoryStatus
	logger      *slog.Logger
	labelPrefix string
}

// defaultDeviceOptions returns the default device options.
func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		memory: Memory(), // process-wide ledger
		logger: nil,      // falls back to Logger() at call time
	}
}

// WithMemoryStatus makes the device account its buffers in m instead of
// the process-wide ledger returned by Memory.
func WithMemoryStatus(m *MemoryStatus) DeviceOption {
	return func(o *deviceOptions) {
		if m != nil {
			o.memory = m
		}
	}
}

// WithLogger sets a device-specific logger. Without it the device logs
// through the package logger configured by SetLogger.
func WithLogger(l *slog.Logger) DeviceOption {
	return func(o *deviceOptions) {
		o.logger = l
	}
}

// WithLabelPrefix prepends prefix to every buffer label passed to the
// executor, which helps tell devices apart in GPU debuggers.
func WithLabelPrefix(prefix string) DeviceOption {
	return func(o *deviceOptions) {
		o.labelPrefix = prefix
	}
}

// UpdateOption configures a Buffer.Update call.
type UpdateOption func(*updateOptions)

// updateOptions holds the destination offset and optional explicit length.
type updateOptions struct {
	offset    uint64
	length    uint64
	hasLength bool
}

// WithOffset sets the byte offset in the buffer where the update starts.
// The default is 0.
func WithOffset(offset uint64) UpdateOption {
	return func(o *updateOptions) {
		o.offset = offset
	}
}

// WithLength sets the number of bytes to copy from the source.
//
// Without it the length is inferred: zero for indirect-draw buffers, whose
// draw table is updated through UpdateIndirect, and len(src) otherwise.
func WithLength(length uint64) UpdateOption {
	return func(o *updateOptions) {
		o.length = length
		o.hasLength = true
	}
}
