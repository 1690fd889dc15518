//go:build !rust

package rust

import (
	"github.com/gogpu/gfxbuf/backend"
	"github.com/gogpu/gfxbuf/gpucore"
)

// init registers a failing factory when rust tag is not set.
// This allows code to compile without the rust backend while
// backend.Default skips it and moves on to the next backend.
func init() {
	backend.Register(backend.BackendRust, func() (gpucore.Executor, error) {
		return nil, ErrNotCompiled
	})
}
