package rt

import (
	"math"
	"testing"
)

func newTestStore() *Store {
	return NewStore(NewHeap(0, 0))
}

// ---------------------------------------------------------------------------
// Boxing round trips
// ---------------------------------------------------------------------------

func TestInt64BoxRoundTrip(t *testing.T) {
	s := newTestStore()
	tests := []int64{
		0, 1, -1, 42, -42,
		math.MaxInt64, math.MinInt64,
		math.MaxInt64 - 1, math.MinInt64 + 1,
	}
	for _, n := range tests {
		b := s.BoxInt64(n)
		if got := s.Int64Value(b); got != n {
			t.Errorf("Int64Value(BoxInt64(%d)) = %d", n, got)
		}
	}
}

func TestFloat64BoxRoundTrip(t *testing.T) {
	s := newTestStore()
	tests := []float64{
		0.0, math.Copysign(0, -1), 1.0, -1.0,
		3.14159265358979, -3.14159265358979,
		math.MaxFloat64, math.SmallestNonzeroFloat64,
		math.Inf(1), math.Inf(-1),
	}
	for _, f := range tests {
		b := s.BoxFloat64(f)
		got := s.Float64Value(b)
		if got != f && !(math.IsNaN(got) && math.IsNaN(f)) {
			t.Errorf("Float64Value(BoxFloat64(%v)) = %v", f, got)
		}
	}
}

func TestFloat64NaNBitPatternPreserved(t *testing.T) {
	s := newTestStore()
	nan := s.Float64.NaN()
	if got := s.Float64Bits(nan); got != 0x7FF8000000000001 {
		t.Errorf("NaN payload bits = %#x, want 0x7FF8000000000001", got)
	}
	if !math.IsNaN(s.Float64Value(nan)) {
		t.Error("NaN box did not unbox to a NaN")
	}
}

func TestFloat64InfinityBitPattern(t *testing.T) {
	s := newTestStore()
	inf := s.Float64.Infinity()
	if got := s.Float64Bits(inf); got != 0x7FF0000000000000 {
		t.Errorf("infinity payload bits = %#x, want 0x7FF0000000000000", got)
	}
	if !math.IsInf(s.Float64Value(inf), 1) {
		t.Error("infinity box did not unbox to +Inf")
	}
}

// ---------------------------------------------------------------------------
// Aliasing and immutability
// ---------------------------------------------------------------------------

func TestEqualPayloadsDistinctBoxes(t *testing.T) {
	s := newTestStore()
	a := s.BoxInt64(7)
	b := s.BoxInt64(7)
	if a.Addr() == b.Addr() {
		t.Fatal("two boxings returned the same record")
	}
	if !s.Int64.Eq(a, b) {
		t.Error("payload equality should hold across distinct boxes")
	}
}

func TestOperationsAllocateFreshBoxes(t *testing.T) {
	s := newTestStore()
	a := s.BoxInt64(10)
	b := s.BoxInt64(3)
	sum := s.Int64.Add(a, b)
	if sum.Addr() == a.Addr() || sum.Addr() == b.Addr() {
		t.Error("Add mutated an operand record instead of allocating")
	}
	if got := s.Int64Value(a); got != 10 {
		t.Errorf("operand payload changed: %d", got)
	}
}

// ---------------------------------------------------------------------------
// Reference counting
// ---------------------------------------------------------------------------

func TestRetainRelease(t *testing.T) {
	s := newTestStore()
	b := s.BoxInt64(5)
	if rc := s.Refcount(b.Addr()); rc != 1 {
		t.Fatalf("fresh box refcount = %d, want 1", rc)
	}

	s.Retain(b.Addr())
	if rc := s.Refcount(b.Addr()); rc != 2 {
		t.Errorf("refcount after Retain = %d, want 2", rc)
	}

	s.Release(b.Addr())
	if rc := s.Refcount(b.Addr()); rc != 1 {
		t.Errorf("refcount after Release = %d, want 1", rc)
	}

	heap := s.Heap().(*Heap)
	live := heap.LiveCount()
	s.Release(b.Addr())
	if heap.LiveCount() != live-1 {
		t.Error("final Release did not return the record to the allocator")
	}
}

func TestReleaseForeignHandleTraps(t *testing.T) {
	s := newTestStore()
	expectTrap(t, TrapBadHandle, func() { s.Release(999) })
}

// ---------------------------------------------------------------------------
// Live record enumeration
// ---------------------------------------------------------------------------

func TestLiveRecords(t *testing.T) {
	s := newTestStore()
	base := len(s.LiveRecords()) // the two shared float constants
	s.BoxInt64(1)
	f := s.BoxFloat64(2.5)
	s.Retain(f.Addr())

	records := s.LiveRecords()
	if len(records) != base+2 {
		t.Fatalf("LiveRecords = %d entries, want %d", len(records), base+2)
	}
	for _, r := range records {
		if r.Addr == f.Addr() {
			if r.Kind != KindFloat64 {
				t.Errorf("kind = %v, want KindFloat64", r.Kind)
			}
			if r.Refcount != 2 {
				t.Errorf("refcount = %d, want 2", r.Refcount)
			}
			if r.Bits != float64ToBits(2.5) {
				t.Errorf("bits = %#x", r.Bits)
			}
		}
	}
}

func TestRestoreRecordPreservesBitsAndRefcount(t *testing.T) {
	s := newTestStore()
	addr := s.RestoreRecord(Record{Kind: KindFloat64, Bits: 0x7FF8000000000001, Refcount: 3})
	if got := s.Refcount(addr); got != 3 {
		t.Errorf("restored refcount = %d, want 3", got)
	}
	found := false
	for _, r := range s.LiveRecords() {
		if r.Addr == addr {
			found = true
			if r.Bits != 0x7FF8000000000001 {
				t.Errorf("restored bits = %#x", r.Bits)
			}
		}
	}
	if !found {
		t.Error("restored record not live")
	}
}
