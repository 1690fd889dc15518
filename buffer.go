package gfxbuf

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/gogpu/gfxbuf/gpucore"
	"github.com/gogpu/gputypes"
)

// Buffer is a GPU buffer resource for vertex, index, uniform or indirect data.
//
// A Buffer either owns a device allocation, created through its Device's
// executor, or is a view aliasing a byte range of another buffer's
// allocation. Views borrow the parent's handle and never allocate, resize,
// update or release device memory.
//
// A buffer created with BufferFlagShadowCopy keeps a host copy of its
// contents, resized together with the buffer and written by every Update.
//
// Lifecycle:
//  1. Obtain via Device.NewBuffer (or Device.CreateBuffer, which also initializes)
//  2. Initialize with a BufferInfo or a BufferViewInfo
//  3. Resize and Update as needed (non-view buffers only)
//  4. Destroy when no longer needed; Destroy is idempotent
//
// A view must be destroyed before its parent. After the parent is destroyed
// the view's handle is invalid and using it is undefined; this is not
// checked at runtime.
//
// Buffer is not safe for concurrent use.
type Buffer struct {
	device *Device

	usage      BufferUsage
	memoryKind MemoryKind
	flags      BufferFlags
	size       uint64
	stride     uint64
	count      uint64

	// shadow is the host copy, nil unless BufferFlagShadowCopy was set.
	shadow []byte

	// rec is the backend-facing record; nil before Initialize and after Destroy.
	rec *gpucore.BufferRecord

	// indirect is the draw table of a non-view indirect buffer.
	indirect *IndirectBuffer

	isView     bool
	viewOffset uint64

	// deviceBytes is the device allocation currently accounted in the ledger.
	deviceBytes uint64
}

// Initialize creates the buffer from info.
//
// With a BufferInfo the buffer gets its own device allocation: Stride
// defaults to Size, Count is Size/Stride, an indirect usage adds an empty
// draw table and BufferFlagShadowCopy adds a zero-filled host copy.
//
// With a BufferViewInfo the buffer aliases Range bytes of the parent at
// Offset. It copies the parent's usage, memory kind and flags, has
// Size = Stride = Range and Count = 1, and allocates nothing.
//
// Returns ErrInvalidDescriptor or ErrParentNotReady for malformed input and
// the executor's error if device allocation fails. On error the buffer is
// left uninitialized and the ledger is unchanged.
func (b *Buffer) Initialize(info Descriptor) error {
	if b.device == nil || b.device.exec == nil {
		return ErrNilExecutor
	}
	if b.rec != nil {
		return ErrAlreadyInitialized
	}

	switch d := info.(type) {
	case BufferInfo:
		return b.initBuffer(d)
	case *BufferInfo:
		if d == nil {
			return fmt.Errorf("%w: nil BufferInfo", ErrInvalidDescriptor)
		}
		return b.initBuffer(*d)
	case BufferViewInfo:
		return b.initView(d)
	case *BufferViewInfo:
		if d == nil {
			return fmt.Errorf("%w: nil BufferViewInfo", ErrInvalidDescriptor)
		}
		return b.initView(*d)
	default:
		return fmt.Errorf("%w: unsupported descriptor %T", ErrInvalidDescriptor, info)
	}
}

func (b *Buffer) initBuffer(info BufferInfo) error {
	stride := info.Stride
	if stride == 0 {
		stride = info.Size
	}
	stride = max(stride, 1)
	if info.Size%stride != 0 {
		return fmt.Errorf("%w: size %d is not a multiple of stride %d",
			ErrInvalidDescriptor, info.Size, stride)
	}

	rec := &gpucore.BufferRecord{
		Label:      b.device.label(info.Label),
		Usage:      info.Usage,
		MemoryKind: info.MemoryKind,
		Size:       info.Size,
		Stride:     stride,
	}

	var indirect *IndirectBuffer
	if info.Usage.Contains(gputypes.BufferUsageIndirect) {
		indirect = &IndirectBuffer{}
		rec.Indirects = indirect
	}

	var shadow []byte
	if info.Flags.Has(BufferFlagShadowCopy) {
		shadow = make([]byte, info.Size)
		rec.Shadow = shadow
	}

	if err := b.device.exec.CreateBuffer(rec); err != nil {
		return fmt.Errorf("gfxbuf: create buffer %q: %w", rec.Label, err)
	}

	b.usage = info.Usage
	b.memoryKind = info.MemoryKind
	b.flags = info.Flags
	b.size = info.Size
	b.stride = stride
	b.count = info.Size / stride
	b.shadow = shadow
	b.indirect = indirect
	b.isView = false
	b.viewOffset = 0
	b.rec = rec

	mem := b.device.memory
	if shadow != nil {
		mem.addHost(int64(len(shadow))) //nolint:gosec // slice length fits int64
	}
	b.deviceBytes = info.Size
	mem.addDevice(int64(info.Size)) //nolint:gosec // sizes are bounded by device limits
	mem.addBuffer(1)

	b.device.Logger().Debug("gfxbuf: buffer created",
		"label", rec.Label, "id", rec.ID, "size", b.size, "stride", b.stride,
		"count", b.count, "shadow", shadow != nil)
	return nil
}

func (b *Buffer) initView(info BufferViewInfo) error {
	parent := info.Buffer
	if parent == nil || parent.rec == nil {
		return ErrParentNotReady
	}
	if info.Range == 0 {
		return fmt.Errorf("%w: view range is 0", ErrInvalidDescriptor)
	}
	if info.Offset > parent.size || info.Range > parent.size-info.Offset {
		return fmt.Errorf("%w: view [%d, %d) exceeds parent size %d",
			ErrInvalidDescriptor, info.Offset, info.Offset+info.Range, parent.size)
	}

	// A view of a view addresses the root allocation.
	offset := info.Offset
	if parent.isView {
		offset += parent.viewOffset
	}

	b.usage = parent.usage
	b.memoryKind = parent.memoryKind
	b.flags = parent.flags
	b.size = info.Range
	b.stride = info.Range
	b.count = 1
	b.shadow = nil
	b.indirect = nil
	b.isView = true
	b.viewOffset = offset
	b.deviceBytes = 0
	b.rec = &gpucore.BufferRecord{
		ID:         parent.rec.ID,
		Label:      parent.rec.Label,
		Usage:      parent.usage,
		MemoryKind: parent.memoryKind,
		Size:       info.Range,
		Stride:     info.Range,
		Offset:     offset,
		Indirects:  parent.rec.Indirects,
	}

	b.device.Logger().Debug("gfxbuf: buffer view created",
		"parent", parent.rec.ID, "offset", offset, "range", info.Range)
	return nil
}

// Resize changes the buffer size to size bytes.
//
// The stride is kept and Count is recomputed as size / stride, truncating:
// a 64-byte buffer of stride 32 resized to 40 bytes has Count 1, and the
// trailing 8 bytes hold no whole element. A shadow copy is reallocated
// keeping min(old, new) leading bytes. The device allocation is resized only
// when size > 0; resizing to 0 keeps the previous allocation (and its ledger
// entry) until the next non-zero resize or Destroy.
//
// Resizing a destroyed buffer or view returns ErrBufferDestroyed. Resizing
// a live view logs a warning and returns ErrViewImmutable without changing
// anything. Resizing to the current size is a no-op. If the
// executor fails, the buffer keeps its previous size and contents.
func (b *Buffer) Resize(size uint64) error {
	if b.rec == nil {
		return ErrBufferDestroyed
	}
	if b.isView {
		b.warnView("resize")
		return ErrViewImmutable
	}

	oldSize := b.size
	if size == oldSize {
		return nil
	}

	var shadow []byte
	if b.shadow != nil {
		shadow = make([]byte, size)
		copy(shadow, b.shadow)
	}

	rec := b.rec
	prevSize, prevShadow := rec.Size, rec.Shadow
	rec.Size = size
	if shadow != nil {
		rec.Shadow = shadow
	}

	mem := b.device.memory
	if size > 0 {
		if err := b.device.exec.ResizeBuffer(rec); err != nil {
			rec.Size, rec.Shadow = prevSize, prevShadow
			return fmt.Errorf("gfxbuf: resize buffer %q to %d: %w", rec.Label, size, err)
		}
		mem.addDevice(-int64(b.deviceBytes)) //nolint:gosec // sizes are bounded by device limits
		mem.addDevice(int64(size))           //nolint:gosec // sizes are bounded by device limits
		b.deviceBytes = size
	}

	if shadow != nil {
		mem.addHost(-int64(len(b.shadow))) //nolint:gosec // slice length fits int64
		mem.addHost(int64(len(shadow)))    //nolint:gosec // slice length fits int64
		b.shadow = shadow
	}

	b.size = size
	b.count = size / b.stride

	b.device.Logger().Debug("gfxbuf: buffer resized",
		"label", rec.Label, "id", rec.ID, "from", oldSize, "to", size, "count", b.count)
	return nil
}

// Update copies bytes from src into the buffer.
//
// The destination offset defaults to 0 (WithOffset). The length is taken
// from WithLength, or inferred as 0 for indirect-draw buffers and len(src)
// otherwise. A shadow copy is written first unless src already shares its
// backing array; the update is then always forwarded to the executor.
//
// Updating a destroyed buffer or view returns ErrBufferDestroyed. Updating
// a live view logs a warning and returns ErrViewImmutable.
// Returns ErrOutOfRange if the length exceeds src or the range exceeds the
// buffer.
func (b *Buffer) Update(src []byte, opts ...UpdateOption) error {
	if b.rec == nil {
		return ErrBufferDestroyed
	}
	if b.isView {
		b.warnView("update")
		return ErrViewImmutable
	}

	var o updateOptions
	for _, opt := range opts {
		opt(&o)
	}

	var size uint64
	switch {
	case o.hasLength:
		size = o.length
	case b.indirect != nil:
		size = 0
	default:
		size = uint64(len(src))
	}

	if size > uint64(len(src)) {
		return fmt.Errorf("%w: length %d exceeds source length %d", ErrOutOfRange, size, len(src))
	}
	if o.offset > b.size || size > b.size-o.offset {
		return fmt.Errorf("%w: [%d, %d) exceeds buffer size %d", ErrOutOfRange, o.offset, o.offset+size, b.size)
	}

	if b.shadow != nil && size > 0 && !sharesBacking(src, b.shadow) {
		copy(b.shadow[o.offset:o.offset+size], src[:size])
	}

	if err := b.device.exec.UpdateBuffer(b.rec, src, o.offset, size); err != nil {
		return fmt.Errorf("gfxbuf: update buffer %q: %w", b.rec.Label, err)
	}
	return nil
}

// UpdateIndirect replaces the draw table of an indirect-draw buffer with
// draws and forwards the change to the executor. If the executor fails,
// the previous table is restored.
func (b *Buffer) UpdateIndirect(draws []DrawInfo) error {
	if b.rec == nil {
		return ErrBufferDestroyed
	}
	if b.isView {
		b.warnView("update")
		return ErrViewImmutable
	}
	if b.indirect == nil {
		return ErrNotIndirect
	}

	prev := b.indirect.DrawInfos
	b.indirect.DrawInfos = slices.Clone(draws)
	if err := b.device.exec.UpdateBuffer(b.rec, nil, 0, 0); err != nil {
		b.indirect.DrawInfos = prev
		return fmt.Errorf("gfxbuf: update draw table %q: %w", b.rec.Label, err)
	}
	return nil
}

// Destroy releases the buffer.
//
// A buffer owning device memory asks the executor to release it and removes
// its allocation and shadow copy from the ledger. A view releases nothing.
// Destroy is idempotent.
func (b *Buffer) Destroy() {
	if b.rec == nil {
		b.shadow = nil
		return
	}

	mem := b.device.memory
	if !b.isView {
		b.device.exec.DestroyBuffer(b.rec)
		mem.addDevice(-int64(b.deviceBytes)) //nolint:gosec // sizes are bounded by device limits
		mem.addBuffer(-1)
		b.device.Logger().Debug("gfxbuf: buffer destroyed", "label", b.rec.Label, "id", b.rec.ID, "size", b.size)
	}
	if b.shadow != nil {
		mem.addHost(-int64(len(b.shadow))) //nolint:gosec // slice length fits int64
	}

	b.shadow = nil
	b.indirect = nil
	b.deviceBytes = 0
	b.rec = nil
}

// ReadBack returns a copy of size bytes starting at offset.
//
// The shadow copy is used when present. Otherwise the executor must
// implement gpucore.Reader; the read may wait for pending device work.
// Views read from their parent's allocation.
func (b *Buffer) ReadBack(offset, size uint64) ([]byte, error) {
	if b.rec == nil {
		return nil, ErrBufferDestroyed
	}
	if offset > b.size || size > b.size-offset {
		return nil, fmt.Errorf("%w: [%d, %d) exceeds buffer size %d", ErrOutOfRange, offset, offset+size, b.size)
	}

	if b.shadow != nil {
		out := make([]byte, size)
		copy(out, b.shadow[offset:offset+size])
		return out, nil
	}

	r, ok := b.device.exec.(gpucore.Reader)
	if !ok {
		return nil, ErrReadbackUnsupported
	}
	data, err := r.ReadBuffer(b.rec, offset, size)
	if err != nil {
		return nil, fmt.Errorf("gfxbuf: read back %q: %w", b.rec.Label, err)
	}
	return data, nil
}

// Usage returns the buffer usage flags.
func (b *Buffer) Usage() BufferUsage { return b.usage }

// MemoryKind returns the memory class of the buffer.
func (b *Buffer) MemoryKind() MemoryKind { return b.memoryKind }

// Flags returns the buffer flags.
func (b *Buffer) Flags() BufferFlags { return b.flags }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Stride returns the byte length of one element.
func (b *Buffer) Stride() uint64 { return b.stride }

// Count returns the number of elements, Size/Stride. Always 1 for views.
func (b *Buffer) Count() uint64 { return b.count }

// IsView reports whether the buffer aliases another buffer's memory.
func (b *Buffer) IsView() bool { return b.isView }

// ViewOffset returns the byte offset of a view within the root allocation.
// Zero for non-view buffers.
func (b *Buffer) ViewOffset() uint64 { return b.viewOffset }

// Destroyed reports whether the buffer is uninitialized or destroyed.
func (b *Buffer) Destroyed() bool { return b.rec == nil }

// Device returns the device the buffer belongs to.
func (b *Buffer) Device() *Device { return b.device }

// ID returns the backend handle, or gpucore.InvalidID when destroyed.
// A view returns its parent's handle.
func (b *Buffer) ID() gpucore.BufferID {
	if b.rec == nil {
		return gpucore.InvalidID
	}
	return b.rec.ID
}

// Label returns the label passed to the executor.
func (b *Buffer) Label() string {
	if b.rec == nil {
		return ""
	}
	return b.rec.Label
}

// Shadow returns the host shadow copy, or nil if the buffer has none.
// The slice aliases the buffer's storage until the next Resize or Destroy.
func (b *Buffer) Shadow() []byte { return b.shadow }

// IndirectBuffer returns the draw table, or nil if the buffer is not an
// indirect-draw buffer or is a view.
func (b *Buffer) IndirectBuffer() *IndirectBuffer { return b.indirect }

// Record returns the backend-facing record, or nil when destroyed.
// Executors and bind code read it; callers must not modify it.
func (b *Buffer) Record() *gpucore.BufferRecord { return b.rec }

// String returns a short description of the buffer.
func (b *Buffer) String() string {
	if b.rec == nil {
		return "Buffer[destroyed]"
	}
	if b.isView {
		return fmt.Sprintf("BufferView[id=%d offset=%d size=%d]", b.rec.ID, b.viewOffset, b.size)
	}
	return fmt.Sprintf("Buffer[id=%d size=%d stride=%d count=%d]", b.rec.ID, b.size, b.stride, b.count)
}

// warnView reports an unsupported operation on a view.
func (b *Buffer) warnView(op string) {
	if b.device == nil {
		return
	}
	b.device.Logger().Warn("gfxbuf: cannot "+op+" buffer views", "offset", b.viewOffset, "size", b.size)
}

// sharesBacking reports whether a and b overlap in memory.
func sharesBacking(a, b []byte) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return false
	}
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return a0 < b0+uintptr(cap(b)) && b0 < a0+uintptr(cap(a))
}
