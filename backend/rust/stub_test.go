//go:build !rust

package rust

import (
	"errors"
	"testing"

	"github.com/gogpu/gfxbuf/backend"
)

func TestStubFactory(t *testing.T) {
	if !backend.IsRegistered(backend.BackendRust) {
		t.Fatal("rust backend should be registered even without the rust tag")
	}
	if _, err := backend.Open(backend.BackendRust); !errors.Is(err, ErrNotCompiled) {
		t.Errorf("Open(rust) = %v, want ErrNotCompiled", err)
	}
}
