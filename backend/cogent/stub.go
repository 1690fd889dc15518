//go:build !cogent

package cogent

import (
	"github.com/gogpu/gfxbuf/backend"
	"github.com/gogpu/gfxbuf/gpucore"
)

func init() {
	backend.Register(backend.BackendCogent, func() (gpucore.Executor, error) {
		return nil, ErrNotCompiled
	})
}
