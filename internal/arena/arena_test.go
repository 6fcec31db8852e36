package arena

import (
	"testing"
	"unsafe"
)

func TestAllocReturnsDistinctRegions(t *testing.T) {
	a := New(64)
	x := a.Alloc(8, 8)
	y := a.Alloc(8, 8)
	for i := range x {
		x[i] = 0xAA
	}
	for i := range y {
		y[i] = 0xBB
	}
	for i, b := range x {
		if b != 0xAA {
			t.Fatalf("x[%d] clobbered by y's allocation: %x", i, b)
		}
	}
}

func TestAllocRespectsAlignment(t *testing.T) {
	a := New(64)
	a.Alloc(1, 1) // misalign the cursor by one byte
	buf := a.Alloc(16, 8)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	if addr%8 != 0 {
		t.Fatalf("allocation not 8-byte aligned: addr=%x", addr)
	}
}

func TestAllocGrowsIntoNewChunkWhenCurrentIsFull(t *testing.T) {
	a := New(64) // rounds up to defaultChunkSize (4096)
	if a.ChunkCount() != 1 {
		t.Fatalf("expected 1 chunk initially, got %d", a.ChunkCount())
	}
	a.Alloc(4096, 1)
	if a.ChunkCount() != 1 {
		t.Fatalf("expected the first allocation to exactly fill the chunk, got %d chunks", a.ChunkCount())
	}
	a.Alloc(1, 1)
	if a.ChunkCount() != 2 {
		t.Fatalf("expected a second chunk after the first filled up, got %d", a.ChunkCount())
	}
}

func TestAllocNonPositiveSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a non-positive allocation size")
		}
	}()
	a := New(64)
	a.Alloc(0, 1)
}

func TestAllocAfterReleasePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic allocating from a released arena")
		}
	}()
	a := New(64)
	a.Release()
	a.Alloc(8, 8)
}

func TestGrowCopiesPrefixAndPreservesOriginal(t *testing.T) {
	a := New(64)
	buf := a.Alloc(4, 1)
	copy(buf, []byte{1, 2, 3, 4})
	grown := a.Grow(buf, 8, 1)
	if len(grown) != 8 {
		t.Fatalf("grown length = %d, want 8", len(grown))
	}
	for i, want := range []byte{1, 2, 3, 4} {
		if grown[i] != want {
			t.Fatalf("grown[%d] = %d, want %d", i, grown[i], want)
		}
	}
	if buf[0] != 1 {
		t.Fatalf("original region mutated: %v", buf)
	}
}

func TestGrowOfForeignRegionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic growing a region this arena never allocated")
		}
	}()
	a := New(64)
	foreign := make([]byte, 4)
	a.Grow(foreign, 8, 1)
}

func TestAllocSliceReturnsUsableTypedSlice(t *testing.T) {
	type point struct{ X, Y int64 }
	a := New(64)
	pts := AllocSlice[point](a, 4)
	if len(pts) != 4 {
		t.Fatalf("len = %d, want 4", len(pts))
	}
	for i := range pts {
		pts[i].X = int64(i)
		pts[i].Y = int64(i * 2)
	}
	for i, p := range pts {
		if p.X != int64(i) || p.Y != int64(i*2) {
			t.Fatalf("pts[%d] = %+v", i, p)
		}
	}
}
