package gpucore

import "encoding/binary"

// IndirectStride is the byte size of one encoded draw in an indirect buffer.
// It matches the indexed-draw argument layout; non-indexed draws are padded.
const IndirectStride = 20

// DrawInfo describes one draw call consumed by the device from an indirect
// buffer. A DrawInfo with IndexCount > 0 is an indexed draw.
type DrawInfo struct {
	VertexCount   uint32
	FirstVertex   uint32
	IndexCount    uint32
	FirstIndex    uint32
	VertexOffset  int32
	InstanceCount uint32
	FirstInstance uint32
}

// Indexed reports whether the draw uses an index buffer.
func (d DrawInfo) Indexed() bool {
	return d.IndexCount > 0
}

// IndirectBuffer is the draw table owned by an indirect-draw buffer.
type IndirectBuffer struct {
	DrawInfos []DrawInfo
}

// Len returns the number of draws in the table.
func (ib *IndirectBuffer) Len() int {
	if ib == nil {
		return 0
	}
	return len(ib.DrawInfos)
}

// Reset empties the table, keeping its capacity.
func (ib *IndirectBuffer) Reset() {
	ib.DrawInfos = ib.DrawInfos[:0]
}

// EncodeIndirect packs draws into little-endian indirect arguments,
// IndirectStride bytes per draw.
//
// Indexed draws use the DrawIndexedIndirect layout
// (indexCount, instanceCount, firstIndex, baseVertex, firstInstance).
// Non-indexed draws use the DrawIndirect layout
// (vertexCount, instanceCount, firstVertex, firstInstance) plus 4 bytes of padding.
// An InstanceCount of 0 means a non-instanced draw and is encoded as 1.
func EncodeIndirect(draws []DrawInfo) []byte {
	out := make([]byte, len(draws)*IndirectStride)
	for i, d := range draws {
		b := out[i*IndirectStride : (i+1)*IndirectStride]
		instances := d.InstanceCount
		if instances == 0 {
			instances = 1
		}
		if d.Indexed() {
			binary.LittleEndian.PutUint32(b[0:], d.IndexCount)
			binary.LittleEndian.PutUint32(b[4:], instances)
			binary.LittleEndian.PutUint32(b[8:], d.FirstIndex)
			binary.LittleEndian.PutUint32(b[12:], uint32(d.VertexOffset)) //nolint:gosec // two's complement is the wire format
			binary.LittleEndian.PutUint32(b[16:], d.FirstInstance)
		} else {
			binary.LittleEndian.PutUint32(b[0:], d.VertexCount)
			binary.LittleEndian.PutUint32(b[4:], instances)
			binary.LittleEndian.PutUint32(b[8:], d.FirstVertex)
			binary.LittleEndian.PutUint32(b[12:], d.FirstInstance)
		}
	}
	return out
}
