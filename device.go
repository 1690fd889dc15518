package gfxbuf

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gfxbuf/backend"
	"github.com/gogpu/gfxbuf/gpucore"
)

// Device binds buffers to an executor and a memory ledger.
//
// A Device is driven from a single goroutine, typically the one running the
// frame loop. It does no locking of its own.
type Device struct {
	exec        gpucore.Executor
	memory      *MemoryStatus
	logger      *slog.Logger
	labelPrefix string
}

// NewDevice creates a device that forwards buffer operations to exec.
func NewDevice(exec gpucore.Executor, opts ...DeviceOption) *Device {
	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Device{
		exec:        exec,
		memory:      o.memory,
		logger:      o.logger,
		labelPrefix: o.labelPrefix,
	}
}

// OpenDevice creates a device on a registered backend.
//
// An empty name selects the default backend (see backend.Default), which
// honors the GFXBUF_BACKEND environment variable.
func OpenDevice(name string, opts ...DeviceOption) (*Device, error) {
	var (
		exec gpucore.Executor
		err  error
	)
	if name == "" {
		exec, err = backend.Default()
	} else {
		exec, err = backend.Open(name)
	}
	if err != nil {
		return nil, fmt.Errorf("gfxbuf: open device: %w", err)
	}

	d := NewDevice(exec, opts...)
	d.Logger().Info("gfxbuf: device opened", "backend", gpucore.NameOf(exec))
	return d, nil
}

// Executor returns the executor buffers are realized with.
func (d *Device) Executor() gpucore.Executor {
	return d.exec
}

// Memory returns the ledger this device accounts its buffers in.
func (d *Device) Memory() *MemoryStatus {
	return d.memory
}

// Name returns the backend name of the executor.
func (d *Device) Name() string {
	return gpucore.NameOf(d.exec)
}

// NewBuffer returns an uninitialized buffer bound to d.
// Call Initialize before using it.
func (d *Device) NewBuffer() *Buffer {
	return &Buffer{device: d}
}

// CreateBuffer creates and initializes a buffer from info, which is either
// a BufferInfo or a BufferViewInfo.
func (d *Device) CreateBuffer(info Descriptor) (*Buffer, error) {
	b := d.NewBuffer()
	if err := b.Initialize(info); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateView creates a view of size bytes at offset within parent.
func (d *Device) CreateView(parent *Buffer, offset, size uint64) (*Buffer, error) {
	return d.CreateBuffer(BufferViewInfo{Buffer: parent, Offset: offset, Range: size})
}

// Close releases the executor if it owns device resources.
// Buffers created by d must be destroyed first.
func (d *Device) Close() {
	if c, ok := d.exec.(interface{ Close() }); ok {
		c.Close()
	}
}

// Logger returns the device logger, or the package logger when none was set.
func (d *Device) Logger() *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return Logger()
}

// label applies the device label prefix.
func (d *Device) label(l string) string {
	if d.labelPrefix == "" {
		return l
	}
	return d.labelPrefix + l
}
