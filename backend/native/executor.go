package native

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gfxbuf/backend"
	"github.com/gogpu/gfxbuf/gpucore"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

const (
	// waitTimeout bounds every wait for a submission.
	waitTimeout = 5 * time.Second

	// pollInterval is the sleep between completion polls.
	pollInterval = 100 * time.Microsecond
)

// init registers the native backend on package import.
func init() {
	backend.Register(backend.BackendNative, func() (gpucore.Executor, error) {
		return Open()
	})
}

// deviceBuffer is a HAL buffer and its allocated size.
type deviceBuffer struct {
	buf  hal.Buffer
	size uint64
}

// Executor realizes gfxbuf buffers as gogpu/wgpu HAL buffers.
//
// Allocations are rounded up to 4 bytes, and to at least 4 bytes, since HAL
// backends reject empty buffers and copy in 4-byte units. Resize copies the
// surviving prefix on the GPU and swaps the new buffer in under the same ID.
// Queue writes are widened to 4-byte words, reading back the bytes around an
// unaligned write first. ReadBuffer and CopyTextureToBuffers block until the
// GPU finishes.
//
// Thread Safety: Executor is safe for concurrent use from multiple goroutines.
type Executor struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	// external is set when the device belongs to someone else.
	external bool

	buffers backend.Table[deviceBuffer]
	closed  bool
}

// New creates an executor on an existing device and queue.
// Close releases the executor's buffers but not the device.
func New(device hal.Device, queue hal.Queue) *Executor {
	return &Executor{device: device, queue: queue, external: true}
}

// Open creates an instance on the Vulkan HAL backend and opens a device on
// the first discrete or integrated GPU, falling back to the first adapter.
func Open() (*Executor, error) {
	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	backend.Logger().Info("native: executor initialized", "adapter", selected.Info.Name)
	return &Executor{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}, nil
}

// Name returns the backend identifier.
func (e *Executor) Name() string {
	return backend.BackendNative
}

// Device returns the HAL device.
func (e *Executor) Device() hal.Device {
	return e.device
}

// Queue returns the HAL queue.
func (e *Executor) Queue() hal.Queue {
	return e.queue
}

// Buffer returns the HAL buffer currently behind id, for binding.
// The result is invalidated by the next resize of that buffer.
func (e *Executor) Buffer(id gpucore.BufferID) hal.Buffer {
	db, ok := e.buffers.Get(id)
	if !ok {
		return nil
	}
	return db.buf
}

// Live returns the number of buffers currently allocated.
func (e *Executor) Live() int {
	return e.buffers.Len()
}

// CreateBuffer allocates a HAL buffer for rec and assigns rec.ID.
func (e *Executor) CreateBuffer(rec *gpucore.BufferRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}

	db, err := e.allocate(rec)
	if err != nil {
		return err
	}
	rec.ID = e.buffers.Add(db)
	backend.Logger().Debug("native: buffer created", "id", rec.ID, "label", rec.Label, "size", db.size)
	return nil
}

// ResizeBuffer replaces the HAL buffer behind rec.ID with one sized for
// rec.Size, copying min(old, new) bytes on the GPU.
func (e *Executor) ResizeBuffer(rec *gpucore.BufferRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}

	old, ok := e.buffers.Get(rec.ID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, rec.ID)
	}
	db, err := e.allocate(rec)
	if err != nil {
		return err
	}

	// The old buffer is destroyed only after the copy has completed.
	if err := e.copyBuffer(old.buf, db.buf, min(old.size, db.size)); err != nil {
		e.device.DestroyBuffer(db.buf)
		return fmt.Errorf("native: resize %q: %w", rec.Label, err)
	}
	e.buffers.Swap(rec.ID, db)
	e.device.DestroyBuffer(old.buf)

	backend.Logger().Debug("native: buffer resized", "id", rec.ID, "from", old.size, "to", db.size)
	return nil
}

// UpdateBuffer writes size bytes of src at offset. An indirect record
// updated with size 0 has its draw table encoded at offset 0.
func (e *Executor) UpdateBuffer(rec *gpucore.BufferRecord, src []byte, offset, size uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}

	db, ok := e.buffers.Get(rec.ID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, rec.ID)
	}

	data := src[:size]
	if rec.IsIndirect() && size == 0 {
		data = gpucore.EncodeIndirect(rec.Indirects.DrawInfos)
		offset = 0
	}
	if len(data) == 0 {
		return nil
	}
	end := offset + uint64(len(data))
	if end > db.size {
		return fmt.Errorf("native: write [%d, %d) exceeds buffer %d of %d bytes",
			offset, end, rec.ID, db.size)
	}

	// db.size is a multiple of 4, so the widened span stays in bounds.
	if start, stop := offset&^3, backend.AlignUp(end, 4); start != offset || stop != end {
		span, err := e.readRange(db.buf, start, stop-start)
		if err != nil {
			return fmt.Errorf("native: write buffer %q: %w", rec.Label, err)
		}
		copy(span[offset-start:], data)
		data, offset = span, start
	}

	if err := e.queue.WriteBuffer(db.buf, offset, data); err != nil {
		return fmt.Errorf("native: write buffer %q: %w", rec.Label, err)
	}
	return nil
}

// DestroyBuffer releases the HAL buffer. Unknown IDs are ignored.
func (e *Executor) DestroyBuffer(rec *gpucore.BufferRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if db, ok := e.buffers.Remove(rec.ID); ok {
		e.device.DestroyBuffer(db.buf)
	}
}

// ReadBuffer copies size bytes at rec.Offset+offset into a staging buffer
// and reads them back, waiting for the GPU.
func (e *Executor) ReadBuffer(rec *gpucore.BufferRecord, offset, size uint64) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrNotInitialized
	}

	db, ok := e.buffers.Get(rec.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBuffer, rec.ID)
	}
	start := rec.Offset + offset
	if start+size > db.size {
		return nil, fmt.Errorf("native: read [%d, %d) exceeds buffer %d of %d bytes",
			start, start+size, rec.ID, db.size)
	}
	if size == 0 {
		return []byte{}, nil
	}

	// Buffer copies move whole 4-byte words.
	copyStart := start &^ 3
	readback, err := e.readRange(db.buf, copyStart, backend.AlignUp(start+size, 4)-copyStart)
	if err != nil {
		return nil, err
	}
	lead := start - copyStart
	return readback[lead : lead+size], nil
}

// Close destroys all buffers and, unless the device was supplied to New,
// the device and instance.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	for _, db := range e.buffers.Drain() {
		e.device.DestroyBuffer(db.buf)
	}
	if !e.external {
		if e.device != nil {
			e.device.Destroy()
		}
		if e.instance != nil {
			e.instance.Destroy()
		}
	}
	e.device, e.queue, e.instance = nil, nil, nil
	e.closed = true
}

// allocate creates a HAL buffer sized for rec. Copy usages are always added
// so the buffer can be resized and read back.
func (e *Executor) allocate(rec *gpucore.BufferRecord) (deviceBuffer, error) {
	size := max(backend.AlignUp(rec.Size, 4), 4)
	buf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: rec.Label,
		Size:  size,
		Usage: rec.Usage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return deviceBuffer{}, fmt.Errorf("native: create buffer %q (%d bytes): %w", rec.Label, size, err)
	}
	return deviceBuffer{buf: buf, size: size}, nil
}

// copyBuffer copies size bytes from src to dst and waits for completion.
func (e *Executor) copyBuffer(src, dst hal.Buffer, size uint64) error {
	return e.submit("gfxbuf_resize", func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(src, dst, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: size},
		})
	})
}

// readRange copies size bytes at offset of buf into a staging buffer and
// maps it. offset and size must be multiples of 4.
func (e *Executor) readRange(buf hal.Buffer, offset, size uint64) ([]byte, error) {
	staging, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gfxbuf_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create staging buffer: %w", err)
	}
	defer e.device.DestroyBuffer(staging)

	err = e.submit("gfxbuf_readback", func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(buf, staging, []hal.BufferCopy{
			{SrcOffset: offset, DstOffset: 0, Size: size},
		})
	})
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	if err := e.readStaging(staging, out); err != nil {
		return nil, fmt.Errorf("native: readback: %w", err)
	}
	return out, nil
}

// readStaging maps the first len(dst) bytes of a MapRead buffer and copies
// them into dst.
func (e *Executor) readStaging(staging hal.Buffer, dst []byte) error {
	mapping, err := e.device.MapBuffer(staging, 0, uint64(len(dst)))
	if err != nil {
		return err
	}
	copy(dst, unsafe.Slice((*byte)(mapping.Ptr), len(dst)))
	return e.device.UnmapBuffer(staging)
}

// submit records commands with record, submits them and polls the queue
// until the submission completes.
func (e *Executor) submit(label string, record func(hal.CommandEncoder)) error {
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	record(encoder)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	index, err := e.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	deadline := time.Now().Add(waitTimeout)
	for e.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return ErrGPUTimeout
		}
		time.Sleep(pollInterval)
	}
	return nil
}
