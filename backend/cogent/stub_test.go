//go:build !cogent

package cogent

import (
	"errors"
	"testing"

	"github.com/gogpu/gfxbuf/backend"
)

func TestStubFactory(t *testing.T) {
	if _, err := backend.Open(backend.BackendCogent); !errors.Is(err, ErrNotCompiled) {
		t.Errorf("Open(cogent) = %v, want ErrNotCompiled", err)
	}
}
