//go:build rust

package rust

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/gfxbuf/backend"
	"github.com/gogpu/gfxbuf/gpucore"
	"github.com/gogpu/gputypes"
)

// init registers the rust backend on package import.
func init() {
	backend.Register(backend.BackendRust, func() (gpucore.Executor, error) {
		return Open()
	})
}

// Executor realizes gfxbuf buffers with wgpu-native through go-webgpu/webgpu.
//
// Contents are mirrored on the host: a resize allocates a new device buffer
// and re-uploads the surviving prefix, and ReadBuffer is served from the
// mirror without mapping device memory.
type Executor struct {
	mu sync.Mutex

	// GPU resources (go-webgpu/webgpu)
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    bufferQueue

	buffers backend.Table[*wgpu.Buffer]
	mirror  *backend.Mirror

	gpuInfo *GPUInfo
	closed  bool
}

// bufferQueue is the part of *wgpu.Queue the executor uploads through.
type bufferQueue interface {
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error
	Release()
}

// GPUInfo contains information about the selected GPU.
type GPUInfo struct {
	Vendor       string
	Architecture string
	Device       string
	Description  string
	BackendType  string
	AdapterType  string
	VendorID     uint32
	DeviceID     uint32
}

// Open initializes wgpu-native and opens a device on the high-performance
// adapter.
func Open() (*Executor, error) {
	// Step 1: Initialize wgpu-native library
	if err := wgpu.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLibraryNotFound, err)
	}

	// Step 2: Create Instance
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("rust: instance creation failed: %w", err)
	}

	// Step 3: Request Adapter (prefer high performance GPU)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}

	// Step 4: Create Device
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("rust: device creation failed: %w", err)
	}

	// Step 5: Get Queue
	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("rust: queue retrieval failed")
	}

	e := &Executor{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		mirror:   backend.NewMirror(),
	}
	e.gpuInfo = e.getGPUInfo()
	e.logGPUInfo()
	return e, nil
}

// Name returns the backend identifier.
func (e *Executor) Name() string {
	return backend.BackendRust
}

// CreateBuffer allocates a device buffer of rec.Size bytes.
func (e *Executor) CreateBuffer(rec *gpucore.BufferRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}

	buf := e.newBuffer(rec)
	if buf == nil {
		return fmt.Errorf("%w: %q (%d bytes)", ErrBufferCreation, rec.Label, rec.Size)
	}
	rec.ID = e.buffers.Add(buf)
	e.mirror.Alloc(rec.ID, rec.Size)
	return nil
}

// ResizeBuffer replaces the device buffer behind rec.ID with one of
// rec.Size bytes holding the old contents' prefix.
func (e *Executor) ResizeBuffer(rec *gpucore.BufferRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}
	if _, ok := e.buffers.Get(rec.ID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, rec.ID)
	}

	buf := e.newBuffer(rec)
	if buf == nil {
		return fmt.Errorf("%w: resize %q to %d bytes", ErrBufferCreation, rec.Label, rec.Size)
	}
	err := e.mirror.Reallocate(rec.ID, rec.Size, func(data []byte) error {
		return e.queue.WriteBuffer(buf, 0, data)
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("rust: resize buffer %q: %w", rec.Label, err)
	}

	old, _ := e.buffers.Swap(rec.ID, buf)
	old.Release()
	return nil
}

// UpdateBuffer uploads size bytes of src at offset, or the encoded draw
// table of an indirect record.
func (e *Executor) UpdateBuffer(rec *gpucore.BufferRecord, src []byte, offset, size uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}

	buf, ok := e.buffers.Get(rec.ID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, rec.ID)
	}
	err := e.mirror.Update(rec, src, offset, size, func(span []byte, at uint64) error {
		return e.queue.WriteBuffer(buf, at, span)
	})
	if err != nil {
		return fmt.Errorf("rust: write buffer %q: %w", rec.Label, err)
	}
	return nil
}

// DestroyBuffer releases the device buffer. Unknown IDs are ignored.
func (e *Executor) DestroyBuffer(rec *gpucore.BufferRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if buf, ok := e.buffers.Remove(rec.ID); ok {
		buf.Release()
	}
	e.mirror.Free(rec.ID)
}

// ReadBuffer returns size bytes at rec.Offset+offset from the host mirror.
func (e *Executor) ReadBuffer(rec *gpucore.BufferRecord, offset, size uint64) ([]byte, error) {
	return e.mirror.Read(rec, offset, size)
}

// Close releases all buffers and GPU resources.
// The executor should not be used after Close is called.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	for _, buf := range e.buffers.Drain() {
		buf.Release()
	}
	e.mirror.Clear()

	// Release resources in reverse order of creation
	if e.queue != nil {
		e.queue.Release()
		e.queue = nil
	}
	if e.device != nil {
		e.device.Release()
		e.device = nil
	}
	if e.adapter != nil {
		e.adapter.Release()
		e.adapter = nil
	}
	if e.instance != nil {
		e.instance.Release()
		e.instance = nil
	}

	e.closed = true
	backend.Logger().Debug("rust: executor closed")
}

// GPUInfoData returns information about the selected GPU.
func (e *Executor) GPUInfoData() *GPUInfo {
	return e.gpuInfo
}

// Device returns the GPU device, or nil after Close.
func (e *Executor) Device() *wgpu.Device {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.device
}

// Buffer returns the device buffer currently behind id.
// The result is invalidated by the next resize of that buffer.
func (e *Executor) Buffer(id gpucore.BufferID) *wgpu.Buffer {
	buf, _ := e.buffers.Get(id)
	return buf
}

// newBuffer creates a device buffer sized for rec. Queue writes are
// 4-byte granular, so the allocation is rounded up.
func (e *Executor) newBuffer(rec *gpucore.BufferRecord) *wgpu.Buffer {
	return e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsage(rec.Usage | gputypes.BufferUsageCopyDst),
		Size:  backend.AlignUp(rec.Size, 4),
	})
}

// getGPUInfo retrieves information about the adapter.
func (e *Executor) getGPUInfo() *GPUInfo {
	if e.adapter == nil {
		return nil
	}

	info, err := e.adapter.GetInfo()
	if err != nil {
		return nil
	}

	return &GPUInfo{
		Vendor:       info.Vendor,
		Architecture: info.Architecture,
		Device:       info.Device,
		Description:  info.Description,
		BackendType:  backendTypeToString(info.BackendType),
		AdapterType:  adapterTypeToString(info.AdapterType),
		VendorID:     info.VendorID,
		DeviceID:     info.DeviceID,
	}
}

// logGPUInfo logs information about the selected GPU.
func (e *Executor) logGPUInfo() {
	if e.gpuInfo == nil {
		return
	}
	backend.Logger().Info("rust: executor initialized",
		"gpu", e.gpuInfo.Device,
		"description", e.gpuInfo.Description,
		"backend", e.gpuInfo.BackendType,
		"type", e.gpuInfo.AdapterType,
		"vendor", e.gpuInfo.Vendor,
		"vendorID", fmt.Sprintf("0x%04X", e.gpuInfo.VendorID),
		"deviceID", fmt.Sprintf("0x%04X", e.gpuInfo.DeviceID))
}

// backendTypeToString converts wgpu backend type to string.
func backendTypeToString(bt wgpu.BackendType) string {
	switch bt {
	case wgpu.BackendTypeNull:
		return "Null"
	case wgpu.BackendTypeWebGPU:
		return "WebGPU"
	case wgpu.BackendTypeD3D11:
		return "D3D11"
	case wgpu.BackendTypeD3D12:
		return "D3D12"
	case wgpu.BackendTypeMetal:
		return "Metal"
	case wgpu.BackendTypeVulkan:
		return "Vulkan"
	case wgpu.BackendTypeOpenGL:
		return "OpenGL"
	case wgpu.BackendTypeOpenGLES:
		return "OpenGLES"
	default:
		return "Unknown"
	}
}

// adapterTypeToString converts wgpu adapter type to string.
func adapterTypeToString(at wgpu.AdapterType) string {
	switch at {
	case wgpu.AdapterTypeDiscreteGPU:
		return "DiscreteGPU"
	case wgpu.AdapterTypeIntegratedGPU:
		return "IntegratedGPU"
	case wgpu.AdapterTypeCPU:
		return "CPU"
	default:
		return "Unknown"
	}
}
