// Package snapshot captures and restores the boxed scalar heap as a
// CBOR-encoded wire format.
package snapshot

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/petrel-lang/petrel/rt"
)

// Box kinds on the wire. Decoupled from rt.Kind so the wire format stays
// stable if the in-memory tags ever change.
const (
	WireInt64   byte = 1
	WireFloat64 byte = 2
)

// BoxRecord is one live boxed scalar on the wire: its kind, exact payload
// bit pattern, and reference count. NaN payloads round-trip bit-for-bit.
type BoxRecord struct {
	Kind     byte   `cbor:"kind"`
	Bits     uint64 `cbor:"bits"`
	Refcount uint32 `cbor:"refcount"`
}

// Snapshot is a point-in-time capture of every live boxed scalar.
type Snapshot struct {
	ID        string      `cbor:"id"`
	CreatedAt time.Time   `cbor:"created-at"`
	Records   []BoxRecord `cbor:"records"`
}

// Capture enumerates the store's live records into a fresh snapshot with a
// new UUID. Records are ordered by heap address so equal heaps produce
// identical encodings.
func Capture(st *rt.Store) *Snapshot {
	live := st.LiveRecords()
	sort.Slice(live, func(i, j int) bool { return live[i].Addr < live[j].Addr })

	records := make([]BoxRecord, 0, len(live))
	for _, r := range live {
		rec := BoxRecord{Bits: r.Bits, Refcount: r.Refcount}
		switch r.Kind {
		case rt.KindInt64:
			rec.Kind = WireInt64
		case rt.KindFloat64:
			rec.Kind = WireFloat64
		default:
			continue
		}
		records = append(records, rec)
	}

	return &Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Records:   records,
	}
}

// Restore re-creates every record of snap in the store, preserving payload
// bits and reference counts. Restored records get fresh addresses.
func Restore(st *rt.Store, snap *Snapshot) error {
	for i, rec := range snap.Records {
		var kind rt.Kind
		switch rec.Kind {
		case WireInt64:
			kind = rt.KindInt64
		case WireFloat64:
			kind = rt.KindFloat64
		default:
			return fmt.Errorf("snapshot: record %d has unknown kind %d", i, rec.Kind)
		}
		st.RestoreRecord(rt.Record{
			Kind:     kind,
			Bits:     rec.Bits,
			Refcount: rec.Refcount,
		})
	}
	return nil
}
