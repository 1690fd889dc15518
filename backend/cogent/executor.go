//go:build cogent

package cogent

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gfxbuf/backend"
	"github.com/gogpu/gfxbuf/gpucore"
	"github.com/gogpu/gputypes"
)

func init() {
	backend.Register(backend.BackendCogent, func() (gpucore.Executor, error) {
		return Open(false)
	})
}

// Executor realizes gfxbuf buffers with wgpu-native through
// cogentcore/webgpu. Like the rust executor it mirrors contents on the host
// and re-uploads the prefix on resize.
type Executor struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    bufferQueue

	buffers backend.Table[*wgpu.Buffer]
	mirror  *backend.Mirror
	closed  bool
}

// bufferQueue is the part of *wgpu.Queue the executor uploads through.
type bufferQueue interface {
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error
	Release()
}

// Open requests an adapter and a device. forceFallback selects the
// software adapter, which is useful on headless CI machines.
func Open(forceFallback bool) (*Executor, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, ErrNoInstance
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallback,
		PowerPreference:      wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "gfxbuf device",
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("cogent: device creation failed: %w", err)
	}

	backend.Logger().Info("cogent: executor initialized", "fallback", forceFallback)
	return &Executor{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		mirror:   backend.NewMirror(),
	}, nil
}

// Name returns the backend identifier.
func (e *Executor) Name() string {
	return backend.BackendCogent
}

// CreateBuffer allocates a device buffer of rec.Size bytes.
func (e *Executor) CreateBuffer(rec *gpucore.BufferRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}

	buf, err := e.newBuffer(rec)
	if err != nil {
		return err
	}
	rec.ID = e.buffers.Add(buf)
	e.mirror.Alloc(rec.ID, rec.Size)
	return nil
}

// ResizeBuffer swaps in a device buffer of rec.Size bytes holding the old
// contents' prefix.
func (e *Executor) ResizeBuffer(rec *gpucore.BufferRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrNotInitialized
	}
	if _, ok := e.buffers.Get(rec.ID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, rec.ID)
	}

	buf, err := e.newBuffer(rec)
	if err != nil {
		return err
	}
	err = e.mirror.Reallocate(rec.ID, rec.Size, func(data []byte) error {
		return e.queue.WriteBuffer(buf, 0, data)
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("cogent: resize buffer %q: %w", rec.Label, err)
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
		return fmt.Errorf("cogent: write buffer %q: %w", rec.Label, err)
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

// Buffer returns the device buffer currently behind id, for binding.
func (e *Executor) Buffer(id gpucore.BufferID) *wgpu.Buffer {
	buf, _ := e.buffers.Get(id)
	return buf
}

// Close releases all buffers and the device.
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

	if e.queue != nil {
		e.queue.Release()
	}
	if e.device != nil {
		e.device.Release()
	}
	if e.adapter != nil {
		e.adapter.Release()
	}
	if e.instance != nil {
		e.instance.Release()
	}
	e.queue, e.device, e.adapter, e.instance = nil, nil, nil, nil
	e.closed = true
}

func (e *Executor) newBuffer(rec *gpucore.BufferRecord) (*wgpu.Buffer, error) {
	buf, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            rec.Label,
		Size:             backend.AlignUp(rec.Size, 4),
		Usage:            wgpu.BufferUsage(rec.Usage | gputypes.BufferUsageCopyDst),
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("cogent: create buffer %q (%d bytes): %w", rec.Label, rec.Size, err)
	}
	return buf, nil
}
