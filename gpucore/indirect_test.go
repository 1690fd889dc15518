package gpucore

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestEncodeIndirect(t *testing.T) {
	tests := []struct {
		name string
		draw DrawInfo
		want [5]uint32
	}{
		{
			name: "non-indexed",
			draw: DrawInfo{VertexCount: 36, FirstVertex: 4, InstanceCount: 2, FirstInstance: 1},
			want: [5]uint32{36, 2, 4, 1, 0},
		},
		{
			name: "non-instanced defaults to one instance",
			draw: DrawInfo{VertexCount: 3},
			want: [5]uint32{3, 1, 0, 0, 0},
		},
		{
			name: "indexed",
			draw: DrawInfo{IndexCount: 6, FirstIndex: 12, VertexOffset: -2, InstanceCount: 5, FirstInstance: 3},
			want: [5]uint32{6, 5, 12, 0xFFFFFFFE, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeIndirect([]DrawInfo{tt.draw})
			if len(got) != IndirectStride {
				t.Fatalf("len = %d, want %d", len(got), IndirectStride)
			}
			for i, w := range tt.want {
				if v := binary.LittleEndian.Uint32(got[i*4:]); v != w {
					t.Errorf("word %d = %d, want %d", i, v, w)
				}
			}
		})
	}
}

func TestEncodeIndirect_Multiple(t *testing.T) {
	draws := []DrawInfo{{VertexCount: 3}, {IndexCount: 6}, {VertexCount: 9}}
	got := EncodeIndirect(draws)
	if len(got) != 3*IndirectStride {
		t.Fatalf("len = %d, want %d", len(got), 3*IndirectStride)
	}
	if v := binary.LittleEndian.Uint32(got[IndirectStride:]); v != 6 {
		t.Errorf("second draw index count = %d, want 6", v)
	}
	if v := binary.LittleEndian.Uint32(got[2*IndirectStride:]); v != 9 {
		t.Errorf("third draw vertex count = %d, want 9", v)
	}
}

func TestEncodeIndirect_Empty(t *testing.T) {
	if got := EncodeIndirect(nil); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestIndirectBuffer_LenReset(t *testing.T) {
	var nilTable *IndirectBuffer
	if nilTable.Len() != 0 {
		t.Error("nil table Len should be 0")
	}

	ib := &IndirectBuffer{DrawInfos: []DrawInfo{{VertexCount: 1}, {VertexCount: 2}}}
	if ib.Len() != 2 {
		t.Errorf("Len = %d, want 2", ib.Len())
	}
	ib.Reset()
	if ib.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", ib.Len())
	}
}

func TestMemoryKind_String(t *testing.T) {
	tests := []struct {
		kind MemoryKind
		want string
	}{
		{0, "None"},
		{MemoryKindDevice, "Device"},
		{MemoryKindHost, "Host"},
		{MemoryKindDevice | MemoryKindHost, "Device|Host"},
		{MemoryKind(8), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("MemoryKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestBufferRecord_IsIndirect(t *testing.T) {
	rec := &BufferRecord{Usage: gputypes.BufferUsageIndirect | gputypes.BufferUsageCopyDst}
	if !rec.IsIndirect() {
		t.Error("IsIndirect = false, want true")
	}
	rec.Usage = gputypes.BufferUsageVertex
	if rec.IsIndirect() {
		t.Error("IsIndirect = true, want false")
	}
}
