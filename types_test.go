package gfxbuf

import "testing"

func TestBufferFlags(t *testing.T) {
	tests := []struct {
		flags      BufferFlags
		wantShadow bool
		wantString string
	}{
		{BufferFlagNone, false, "None"},
		{BufferFlagShadowCopy, true, "ShadowCopy"},
		{BufferFlagShadowCopy | 1<<4, true, "ShadowCopy|Unknown"},
		{1 << 5, false, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.wantString, func(t *testing.T) {
			if got := tt.flags.Has(BufferFlagShadowCopy); got != tt.wantShadow {
				t.Errorf("Has(ShadowCopy) = %v, want %v", got, tt.wantShadow)
			}
			if got := tt.flags.String(); got != tt.wantString {
				t.Errorf("String = %q, want %q", got, tt.wantString)
			}
		})
	}
}

func TestDescriptorVariants(t *testing.T) {
	// Both value and pointer forms satisfy Descriptor.
	for _, d := range []Descriptor{BufferInfo{}, &BufferInfo{}, BufferViewInfo{}, &BufferViewInfo{}} {
		if d == nil {
			t.Fatal("nil descriptor")
		}
	}
}
