package rt

// ---------------------------------------------------------------------------
// Boxed scalar store
// ---------------------------------------------------------------------------

// Record layout. The first 8 bytes are the runtime header used by the
// reference-counting collector; the scalar payload always sits at a fixed
// offset past it.
const (
	refcountOffset = 0 // uint32 reference count
	sizeOffset     = 4 // uint32 record size in bytes
	payloadOffset  = 8 // 8-byte scalar payload
	recordSize     = 16
)

// Kind tags a live record in the store's table. The payload region itself
// carries no tag; the kind lives in the handle's static type and in the
// store's bookkeeping (needed for snapshots).
type Kind byte

const (
	KindInt64 Kind = iota + 1
	KindFloat64
)

// BoxedInt64 is a handle to a heap record holding a signed 64-bit integer.
// The payload is immutable after construction.
type BoxedInt64 struct {
	addr int32
}

// BoxedFloat64 is a handle to a heap record holding an IEEE-754 double.
// The payload is immutable after construction.
type BoxedFloat64 struct {
	addr int32
}

// Addr returns the record's base address. Exposed for snapshot capture.
func (b BoxedInt64) Addr() int32 { return b.addr }

// Addr returns the record's base address. Exposed for snapshot capture.
func (b BoxedFloat64) Addr() int32 { return b.addr }

// Store allocates and reads fixed-layout boxes for 64-bit integers and
// 64-bit floats. All arithmetic over boxed scalars goes through the Int64
// and Float64 operation sets.
type Store struct {
	heap Allocator

	// kinds tracks every live record so snapshots can enumerate the heap
	// and Release can reject foreign handles.
	kinds map[int32]Kind

	// Int64 and Float64 are the operation contracts over the two boxed
	// scalar types.
	Int64   Int64Ops
	Float64 Float64Ops
}

// NewStore creates a boxed scalar store backed by the given allocator.
// The float special constants (infinity, NaN) are constructed here, once,
// from their raw bit patterns.
func NewStore(heap Allocator) *Store {
	s := &Store{
		heap:  heap,
		kinds: make(map[int32]Kind),
	}
	s.Int64 = Int64Ops{s: s}
	s.Float64 = Float64Ops{s: s}
	s.Float64.inf = s.rawBoxFloat64(infinityBits)
	s.Float64.nan = s.rawBoxFloat64(nanBits)
	return s
}

// Heap returns the store's backing allocator.
func (s *Store) Heap() Allocator { return s.heap }

// ---------------------------------------------------------------------------
// Construction and unboxing
// ---------------------------------------------------------------------------

// newRecord allocates a record, writes the header (refcount 1, record size)
// and the raw payload bits, and registers it in the live table.
func (s *Store) newRecord(kind Kind, bits uint64) int32 {
	addr := s.heap.Allocate(recordSize)
	mem := s.memory()
	mem.StoreUint32(addr, refcountOffset, 1)
	mem.StoreUint32(addr, sizeOffset, recordSize)
	mem.StoreUint64(addr, payloadOffset, bits)
	s.kinds[addr] = kind
	return addr
}

// BoxInt64 allocates a fresh box holding i.
func (s *Store) BoxInt64(i int64) BoxedInt64 {
	return BoxedInt64{addr: s.newRecord(KindInt64, uint64(i))}
}

// BoxFloat64 allocates a fresh box holding f.
func (s *Store) BoxFloat64(f float64) BoxedFloat64 {
	return BoxedFloat64{addr: s.newRecord(KindFloat64, float64ToBits(f))}
}

// rawBoxFloat64 writes exact payload bits into a fresh float box without
// going through floating-point arithmetic. Used for infinity and NaN so the
// bit patterns are platform-independent, and by snapshot restore.
func (s *Store) rawBoxFloat64(bits uint64) BoxedFloat64 {
	return BoxedFloat64{addr: s.newRecord(KindFloat64, bits)}
}

// rawBoxInt64 writes exact payload bits into a fresh integer box.
func (s *Store) rawBoxInt64(bits uint64) BoxedInt64 {
	return BoxedInt64{addr: s.newRecord(KindInt64, bits)}
}

// Int64Value reads the raw payload of an integer box. The handle must be
// live; foreign handles are undefined behavior at this layer.
func (s *Store) Int64Value(b BoxedInt64) int64 {
	return int64(s.memory().LoadUint64(b.addr, payloadOffset))
}

// Float64Value reads the raw payload of a float box.
func (s *Store) Float64Value(b BoxedFloat64) float64 {
	return float64FromBits(s.memory().LoadUint64(b.addr, payloadOffset))
}

// Float64Bits reads the payload bit pattern of a float box without
// converting through a float64. NaN payload bits are preserved.
func (s *Store) Float64Bits(b BoxedFloat64) uint64 {
	return s.memory().LoadUint64(b.addr, payloadOffset)
}

// ---------------------------------------------------------------------------
// Reference counting
// ---------------------------------------------------------------------------

// Retain increments a record's reference count.
func (s *Store) Retain(addr int32) {
	mem := s.memory()
	mem.StoreUint32(addr, refcountOffset, mem.LoadUint32(addr, refcountOffset)+1)
}

// Release decrements a record's reference count, returning the record to
// the allocator when the count reaches zero. Releasing a handle the store
// does not own is a trap.
func (s *Store) Release(addr int32) {
	if _, ok := s.kinds[addr]; !ok {
		trap(TrapBadHandle, "release of foreign box %d", addr)
	}
	mem := s.memory()
	rc := mem.LoadUint32(addr, refcountOffset)
	if rc <= 1 {
		delete(s.kinds, addr)
		s.heap.Release(addr)
		return
	}
	mem.StoreUint32(addr, refcountOffset, rc-1)
}

// Refcount returns a record's current reference count.
func (s *Store) Refcount(addr int32) uint32 {
	return s.memory().LoadUint32(addr, refcountOffset)
}

// ---------------------------------------------------------------------------
// Live record enumeration (snapshot support)
// ---------------------------------------------------------------------------

// Record describes one live boxed scalar: its address, kind, raw payload
// bits, and reference count.
type Record struct {
	Addr     int32
	Kind     Kind
	Bits     uint64
	Refcount uint32
}

// LiveRecords returns every live record in the store. Order is unspecified.
func (s *Store) LiveRecords() []Record {
	mem := s.memory()
	records := make([]Record, 0, len(s.kinds))
	for addr, kind := range s.kinds {
		records = append(records, Record{
			Addr:     addr,
			Kind:     kind,
			Bits:     mem.LoadUint64(addr, payloadOffset),
			Refcount: mem.LoadUint32(addr, refcountOffset),
		})
	}
	return records
}

// RestoreRecord re-creates a record from snapshot data, preserving the
// payload bit pattern and reference count. The restored record gets a fresh
// address; snapshot restore is value-preserving, not address-preserving.
func (s *Store) RestoreRecord(r Record) int32 {
	var addr int32
	switch r.Kind {
	case KindInt64:
		addr = s.rawBoxInt64(r.Bits).addr
	case KindFloat64:
		addr = s.rawBoxFloat64(r.Bits).addr
	default:
		trap(TrapBadHandle, "restore of unknown record kind %d", r.Kind)
	}
	if r.Refcount > 0 {
		s.memory().StoreUint32(addr, refcountOffset, r.Refcount)
	}
	return addr
}

// memory returns the heap's byte-addressed accessor. The default Heap is
// its own accessor; a custom Allocator must also implement Memory.
func (s *Store) memory() Memory {
	return s.heap.(Memory)
}

// Memory is the byte-addressed load/store contract the store requires of
// its allocator.
type Memory interface {
	LoadUint32(addr, offset int32) uint32
	StoreUint32(addr, offset int32, v uint32)
	LoadUint64(addr, offset int32) uint64
	StoreUint64(addr, offset int32, v uint64)
}
