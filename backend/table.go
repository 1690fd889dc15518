package backend

import (
	"sync"

	"github.com/gogpu/gfxbuf/gpucore"
)

// Table maps buffer IDs to native buffer objects.
//
// IDs start at 1 and are never reused, so a stale record cannot address a
// newer buffer. Swap replaces the object behind an ID, which is how resize
// keeps views pointing at the live allocation.
//
// Table is safe for concurrent use.
type Table[B any] struct {
	mu    sync.Mutex
	next  gpucore.BufferID
	items map[gpucore.BufferID]B
}

// Add stores b under a fresh ID.
func (t *Table[B]) Add(b B) gpucore.BufferID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.items == nil {
		t.items = make(map[gpucore.BufferID]B)
	}
	t.next++
	t.items[t.next] = b
	return t.next
}

// Get returns the object stored under id.
func (t *Table[B]) Get(id gpucore.BufferID) (B, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.items[id]
	return b, ok
}

// Swap replaces the object under id and returns the previous one.
// It reports false, storing nothing, if id is unknown.
func (t *Table[B]) Swap(id gpucore.BufferID, b B) (B, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	old, ok := t.items[id]
	if ok {
		t.items[id] = b
	}
	return old, ok
}

// Remove deletes id and returns its object.
func (t *Table[B]) Remove(id gpucore.BufferID) (B, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.items[id]
	delete(t.items, id)
	return b, ok
}

// Drain removes and returns all objects.
func (t *Table[B]) Drain() []B {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]B, 0, len(t.items))
	for id, b := range t.items {
		out = append(out, b)
		delete(t.items, id)
	}
	return out
}

// Len returns the number of stored objects.
func (t *Table[B]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}
