package rt

import (
	"encoding/binary"
)

// ---------------------------------------------------------------------------
// Heap: raw allocator and byte-addressed memory
// ---------------------------------------------------------------------------

// Allocator is the narrow allocation contract the boxed scalar store
// consumes. Allocate never returns address 0; exhaustion is a fatal trap,
// not an error return.
type Allocator interface {
	Allocate(size int32) int32
	Release(addr int32)
}

// Heap is the default Allocator: a growable byte arena addressed by int32
// word handles, with a per-size free list so released records are reused.
//
// The heap is single-threaded by construction, like the rest of the kernel;
// there is no internal locking.
type Heap struct {
	mem []byte
	brk int32 // next bump address
	max int32 // hard ceiling; growing past it traps

	// allocated maps live addresses to their allocation size.
	// Used to validate Release and to enumerate live records.
	allocated map[int32]int32

	// free maps allocation size to reusable addresses.
	free map[int32][]int32
}

// heapAlign is the allocation granularity. Address 0 is reserved so that a
// zero handle is never a valid record.
const heapAlign = 8

// Default heap sizing, overridable via manifest configuration.
const (
	DefaultHeapBytes    = 64 * 1024
	DefaultHeapMaxBytes = 16 * 1024 * 1024
)

// NewHeap creates a heap with the given initial and maximum sizes in bytes.
// Non-positive arguments select the defaults.
func NewHeap(initial, max int32) *Heap {
	if initial <= 0 {
		initial = DefaultHeapBytes
	}
	if max <= 0 {
		max = DefaultHeapMaxBytes
	}
	if max < initial {
		max = initial
	}
	return &Heap{
		mem:       make([]byte, initial),
		brk:       heapAlign, // skip address 0
		max:       max,
		allocated: make(map[int32]int32),
		free:      make(map[int32][]int32),
	}
}

// Allocate returns the address of a fresh region of at least size bytes.
// The region's contents are zeroed. Exhaustion traps.
func (h *Heap) Allocate(size int32) int32 {
	if size <= 0 {
		trap(TrapBadHandle, "allocate %d bytes", size)
	}
	size = (size + heapAlign - 1) &^ (heapAlign - 1)

	// Reuse a released region of the same size if one exists.
	if list := h.free[size]; len(list) > 0 {
		addr := list[len(list)-1]
		h.free[size] = list[:len(list)-1]
		h.allocated[addr] = size
		zero(h.mem[addr : addr+size])
		return addr
	}

	if h.brk+size > int32(len(h.mem)) {
		h.grow(h.brk + size)
	}
	addr := h.brk
	h.brk += size
	h.allocated[addr] = size
	return addr
}

// Release returns a region to the free list. Releasing an address that is
// not live is a trap.
func (h *Heap) Release(addr int32) {
	size, ok := h.allocated[addr]
	if !ok {
		trap(TrapBadHandle, "release of non-live address %d", addr)
	}
	delete(h.allocated, addr)
	h.free[size] = append(h.free[size], addr)
}

// grow extends the arena to hold at least need bytes, doubling up to the
// configured maximum.
func (h *Heap) grow(need int32) {
	next := int32(len(h.mem))
	for next < need {
		next *= 2
	}
	if next > h.max {
		next = h.max
	}
	if next < need {
		trap(TrapHeapExhausted, "need %d bytes, maximum is %d", need, h.max)
	}
	grown := make([]byte, next)
	copy(grown, h.mem)
	h.mem = grown
}

// ---------------------------------------------------------------------------
// Byte-addressed load/store
// ---------------------------------------------------------------------------

// LoadUint32 reads a little-endian 32-bit word at addr+offset.
func (h *Heap) LoadUint32(addr, offset int32) uint32 {
	h.check(addr, offset, 4)
	return binary.LittleEndian.Uint32(h.mem[addr+offset:])
}

// StoreUint32 writes a little-endian 32-bit word at addr+offset.
func (h *Heap) StoreUint32(addr, offset int32, v uint32) {
	h.check(addr, offset, 4)
	binary.LittleEndian.PutUint32(h.mem[addr+offset:], v)
}

// LoadUint64 reads a little-endian 64-bit word at addr+offset.
func (h *Heap) LoadUint64(addr, offset int32) uint64 {
	h.check(addr, offset, 8)
	return binary.LittleEndian.Uint64(h.mem[addr+offset:])
}

// StoreUint64 writes a little-endian 64-bit word at addr+offset.
func (h *Heap) StoreUint64(addr, offset int32, v uint64) {
	h.check(addr, offset, 8)
	binary.LittleEndian.PutUint64(h.mem[addr+offset:], v)
}

// Bytes returns a view of n bytes of arena memory starting at addr+offset.
// The view is invalidated by the next allocation that grows the arena.
func (h *Heap) Bytes(addr, offset, n int32) []byte {
	h.check(addr, offset, n)
	return h.mem[addr+offset : addr+offset+n]
}

// check traps on any access outside the allocated portion of the arena.
func (h *Heap) check(addr, offset, n int32) {
	at := addr + offset
	if addr <= 0 || at < heapAlign || at+n > h.brk {
		trap(TrapBadHandle, "access of %d bytes at %d+%d", n, addr, offset)
	}
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

// LiveCount returns the number of live allocations.
func (h *Heap) LiveCount() int {
	return len(h.allocated)
}

// LiveSize returns the size of the live allocation at addr, or 0 if addr is
// not live.
func (h *Heap) LiveSize(addr int32) int32 {
	return h.allocated[addr]
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
