package rt

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ---------------------------------------------------------------------------
// Console gather-write helper
// ---------------------------------------------------------------------------

// iovecSize is the size of one I/O-vector descriptor in the staging buffer:
// a 32-bit buffer address followed by a 32-bit length.
const iovecSize = 8

// ConsoleWrite writes segments to sink as a single gather write.
//
// The segments are staged in one transient raw heap buffer (not a boxed
// scalar): n I/O-vector descriptors followed by the segment bytes. The
// buffer is stack-scoped — acquired here and unconditionally released
// before return, on every exit path.
//
// When sink is an *os.File the staged vectors go out through one writev
// call; any other io.Writer receives the segments sequentially. The
// returned count covers segment bytes only, never descriptor bytes.
func ConsoleWrite(sink io.Writer, heap *Heap, segments ...[]byte) (int, error) {
	if len(segments) == 0 {
		return 0, nil
	}

	total := int32(len(segments)) * iovecSize
	for _, seg := range segments {
		total += int32(len(seg))
	}

	buf := heap.Allocate(total)
	defer heap.Release(buf)

	// Lay out descriptors, then segment data.
	dataOff := int32(len(segments)) * iovecSize
	iovs := make([][]byte, 0, len(segments))
	for i, seg := range segments {
		n := int32(len(seg))
		heap.StoreUint32(buf, int32(i)*iovecSize, uint32(buf+dataOff))
		heap.StoreUint32(buf, int32(i)*iovecSize+4, uint32(n))
		if n > 0 {
			dst := heap.Bytes(buf, dataOff, n)
			copy(dst, seg)
			iovs = append(iovs, dst)
		}
		dataOff += n
	}

	if len(iovs) == 0 {
		return 0, nil
	}

	if f, ok := sink.(*os.File); ok {
		return unix.Writev(int(f.Fd()), iovs)
	}

	written := 0
	for _, iov := range iovs {
		n, err := sink.Write(iov)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
