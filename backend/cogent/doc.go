// Package cogent provides a buffer executor on cogentcore/webgpu, the cgo
// binding to wgpu-native.
//
// Build with the "cogent" tag and import for side effects:
//
//	import _ "github.com/gogpu/gfxbuf/backend/cogent"
//
// Without the tag the registered factory returns ErrNotCompiled.
package cogent
