// Package arena implements a chunked bump allocator: a pool of fixed-size
// chunks carved out on demand, growing by doubling, torn down all at once.
// It backs the node storage of a simulation instance so that
// an elaborated module's lifetime is a single allocate/release pair instead
// of per-object garbage.
package arena

import (
	"unsafe"

	"github.com/pkg/errors"
)

const defaultChunkSize = 4096

// chunk is one contiguous block of storage.
type chunk struct {
	mem  []byte
	used int
}

func (c *chunk) remaining() int { return len(c.mem) - c.used }

// Arena is a growable collection of chunks. The zero value is not usable;
// use New.
type Arena struct {
	chunks    []*chunk
	chunkSize int
	released  bool
}

// New creates an Arena whose first chunk holds at least initialHint bytes
// (rounded up to defaultChunkSize).
func New(initialHint int) *Arena {
	size := defaultChunkSize
	for size < initialHint {
		size *= 2
	}
	return &Arena{chunkSize: defaultChunkSize, chunks: []*chunk{{mem: make([]byte, size)}}}
}

// align rounds up n to a multiple of a, where a is a power of two.
func align(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// Alloc reserves n bytes aligned to alignment (must be a power of two, e.g.
// unsafe.Alignof(T{})) and returns the backing slice. It panics if the
// arena has been released or if n <= 0.
func (a *Arena) Alloc(n, alignment int) []byte {
	if a.released {
		panic(errors.New("arena: allocate after release"))
	}
	if n <= 0 {
		panic(errors.New("arena: non-positive allocation size"))
	}
	last := a.chunks[len(a.chunks)-1]
	start := align(last.used, alignment)
	if start+n <= len(last.mem) {
		last.used = start + n
		return last.mem[start : start+n]
	}
	size := a.chunkSize
	for size < n {
		size *= 2
	}
	a.chunkSize = size
	nc := &chunk{mem: make([]byte, size)}
	nc.used = n
	a.chunks = append(a.chunks, nc)
	return nc.mem[:n]
}

// findChunk linear-scans the chunk list to locate the chunk that backs old,
// for validation; Grow does not need the chunk itself since old already
// carries everything needed to copy out of.
func (a *Arena) findChunk(old []byte) *chunk {
	if len(old) == 0 {
		return nil
	}
	p := uintptr(unsafe.Pointer(&old[0]))
	for _, c := range a.chunks {
		if len(c.mem) == 0 {
			continue
		}
		base := uintptr(unsafe.Pointer(&c.mem[0]))
		if p >= base && p < base+uintptr(len(c.mem)) {
			return c
		}
	}
	return nil
}

// Grow reallocates the region backing old (found by a linear scan of
// chunks) into a fresh allocation of newLen bytes, copying the overlapping
// prefix. The original region is left in place; it is reclaimed only when
// the whole arena is released.
func (a *Arena) Grow(old []byte, newLen, alignment int) []byte {
	if a.findChunk(old) == nil && len(old) > 0 {
		panic(errors.New("arena: grow of a region not owned by this arena"))
	}
	next := a.Alloc(newLen, alignment)
	copy(next, old)
	return next
}

// AllocSlice reserves room for n values of T, aligned to T's own alignment
// requirement, and returns it as a typed slice backed by arena storage.
func AllocSlice[T any](a *Arena, n int) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	alignment := int(unsafe.Alignof(zero))
	if n <= 0 {
		n = 1
	}
	buf := a.Alloc(size*n, alignment)
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}

// Release drops every chunk. The Arena must not be used afterward.
func (a *Arena) Release() {
	a.chunks = nil
	a.released = true
}

// ChunkCount reports the number of chunks currently held, for tests that
// assert on growth behavior.
func (a *Arena) ChunkCount() int { return len(a.chunks) }
