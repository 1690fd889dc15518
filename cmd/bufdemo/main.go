// Command bufdemo exercises the gfxbuf buffer lifecycle on a chosen backend.
//
// It creates a vertex buffer, aliases part of it with a view, updates and
// resizes it, fills an indirect draw table and prints the memory ledger after
// every step.
//
// Usage:
//
//	bufdemo -backend software -v
//	GFXBUF_BACKEND=native bufdemo
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/gogpu/gfxbuf"
	"github.com/gogpu/gfxbuf/backend"
	"github.com/gogpu/gfxbuf/gpucore"
	"github.com/gogpu/gputypes"

	// Register GPU backends.
	_ "github.com/gogpu/gfxbuf/backend/cogent"
	_ "github.com/gogpu/gfxbuf/backend/native"
	_ "github.com/gogpu/gfxbuf/backend/rust"
)

func main() {
	var (
		name    = flag.String("backend", "", "backend name (default: best available, or $"+backend.EnvBackend+")")
		verbose = flag.Bool("v", false, "log buffer lifecycle at debug level")
		verts   = flag.Int("verts", 32, "number of vertices in the demo buffer")
		workers = flag.Int("workers", runtime.NumCPU(), "vertex generation workers")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	gfxbuf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	log.Printf("available backends: %s", strings.Join(backend.Available(), ", "))

	dev, err := gfxbuf.OpenDevice(*name, gfxbuf.WithLabelPrefix("bufdemo/"))
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Close()

	pool := worker.NewDynamicWorkerPool(max(*workers, 1), 64, time.Second)

	if err := run(dev, pool, max(*verts, 1)); err != nil {
		log.Fatalf("Demo failed: %v", err)
	}
	log.Printf("done on %s backend, ledger: %s", dev.Name(), dev.Memory().Snapshot())
}

const (
	// vertexStride is the size of one demo vertex: position (vec4) and UV (vec4).
	vertexStride = 32

	// chunkVerts is the number of vertices generated per worker task.
	chunkVerts = 256
)

func run(dev *gfxbuf.Device, pool worker.DynamicWorkerPool, verts int) error {
	mem := dev.Memory()
	report := func(step string) {
		log.Printf("%-24s %s", step, mem.Snapshot())
	}
	report("start")

	size := uint64(verts) * vertexStride //nolint:gosec // verts comes from a flag
	vb, err := dev.CreateBuffer(gfxbuf.BufferInfo{
		Label:      "vertices",
		Usage:      gputypes.BufferUsageVertex,
		MemoryKind: gfxbuf.MemoryKindDevice,
		Size:       size,
		Stride:     vertexStride,
		Flags:      gfxbuf.BufferFlagShadowCopy,
	})
	if err != nil {
		return err
	}
	defer vb.Destroy()
	report(fmt.Sprintf("create %d vertices", vb.Count()))

	if err := vb.Update(circleVertices(pool, verts)); err != nil {
		return err
	}
	report("upload")

	view, err := dev.CreateView(vb, 4*vertexStride, vertexStride)
	if err != nil {
		return err
	}
	report("view " + view.String())

	if err := view.Resize(2 * vertexStride); err != nil {
		log.Printf("resize through view rejected: %v", err)
	}
	view.Destroy()
	report("destroy view")

	if err := vb.Resize(2 * size); err != nil {
		return err
	}
	report(fmt.Sprintf("grow to %d vertices", vb.Count()))

	first, err := vb.ReadBack(0, vertexStride)
	if err != nil {
		return err
	}
	log.Printf("vertex 0 after grow: x=%.3f y=%.3f",
		math.Float32frombits(binary.LittleEndian.Uint32(first[0:])),
		math.Float32frombits(binary.LittleEndian.Uint32(first[4:])))

	draws, err := dev.CreateBuffer(gfxbuf.BufferInfo{
		Label:  "draws",
		Usage:  gputypes.BufferUsageIndirect,
		Size:   2 * gpucore.IndirectStride,
		Stride: gpucore.IndirectStride,
	})
	if err != nil {
		return err
	}
	defer draws.Destroy()

	err = draws.UpdateIndirect([]gfxbuf.DrawInfo{
		{VertexCount: uint32(verts), InstanceCount: 1}, //nolint:gosec // verts comes from a flag
		{VertexCount: 3, FirstVertex: 0, InstanceCount: 4},
	})
	if err != nil {
		return err
	}
	report(fmt.Sprintf("indirect %d draws", draws.IndirectBuffer().Len()))
	return nil
}

// circleVertices lays out n vertices on the unit circle, vertexStride bytes
// each. Chunks of chunkVerts vertices are filled on the worker pool.
func circleVertices(pool worker.DynamicWorkerPool, n int) []byte {
	out := make([]byte, n*vertexStride)

	// pool.Wait blocks until workers idle-exit, so the barrier is a WaitGroup.
	var wg sync.WaitGroup
	for id, start := 0, 0; start < n; id, start = id+1, start+chunkVerts {
		end := min(start+chunkVerts, n)
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					putVertex(out[i*vertexStride:], i, n)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return out
}

// putVertex writes vertex i of n: position on the unit circle and U = i/n.
func putVertex(b []byte, i, n int) {
	angle := 2 * math.Pi * float64(i) / float64(n)
	v := [8]float32{
		float32(math.Cos(angle)), float32(math.Sin(angle)), 0, 1,
		float32(i) / float32(n), 0, 0, 0,
	}
	for j, f := range v {
		binary.LittleEndian.PutUint32(b[j*4:], math.Float32bits(f))
	}
}
