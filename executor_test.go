package gfxbuf

import (
	"errors"

	"github.com/gogpu/gfxbuf/gpucore"
)

var errInjected = errors.New("injected failure")

// updateCall records one UpdateBuffer invocation.
type updateCall struct {
	id     gpucore.BufferID
	data   []byte
	offset uint64
	size   uint64
}

// recordingExecutor is an in-memory executor that counts calls and keeps
// device contents so tests can observe what reached the backend.
type recordingExecutor struct {
	nextID   gpucore.BufferID
	contents map[gpucore.BufferID][]byte

	creates  int
	resizes  int
	updates  []updateCall
	destroys int

	failCreate bool
	failResize bool
	failUpdate bool
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{contents: make(map[gpucore.BufferID][]byte)}
}

func (e *recordingExecutor) Name() string { return "recording" }

func (e *recordingExecutor) CreateBuffer(rec *gpucore.BufferRecord) error {
	if e.failCreate {
		return errInjected
	}
	e.creates++
	e.nextID++
	rec.ID = e.nextID
	e.contents[rec.ID] = make([]byte, rec.Size)
	return nil
}

func (e *recordingExecutor) ResizeBuffer(rec *gpucore.BufferRecord) error {
	if e.failResize {
		return errInjected
	}
	e.resizes++
	old := e.contents[rec.ID]
	grown := make([]byte, rec.Size)
	copy(grown, old)
	e.contents[rec.ID] = grown
	return nil
}

func (e *recordingExecutor) UpdateBuffer(rec *gpucore.BufferRecord, src []byte, offset, size uint64) error {
	if e.failUpdate {
		return errInjected
	}
	e.updates = append(e.updates, updateCall{
		id:     rec.ID,
		data:   append([]byte(nil), src[:size]...),
		offset: offset,
		size:   size,
	})
	if rec.IsIndirect() {
		e.contents[rec.ID] = gpucore.EncodeIndirect(rec.Indirects.DrawInfos)
		return nil
	}
	copy(e.contents[rec.ID][offset:], src[:size])
	return nil
}

func (e *recordingExecutor) DestroyBuffer(rec *gpucore.BufferRecord) {
	e.destroys++
	delete(e.contents, rec.ID)
}

func (e *recordingExecutor) ReadBuffer(rec *gpucore.BufferRecord, offset, size uint64) ([]byte, error) {
	data, ok := e.contents[rec.ID]
	if !ok {
		return nil, errInjected
	}
	start := rec.Offset + offset
	return append([]byte(nil), data[start:start+size]...), nil
}

// testDevice returns a device over a fresh recording executor and an
// isolated ledger.
func testDevice() (*Device, *recordingExecutor, *MemoryStatus) {
	exec := newRecordingExecutor()
	mem := &MemoryStatus{}
	return NewDevice(exec, WithMemoryStatus(mem)), exec, mem
}
