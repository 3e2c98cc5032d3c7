package rt

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------

// ErrModuloByZero is returned by Int64Ops.Mod when the divisor is zero.
// It is a structured, catchable error, unlike the trap raised by Div and Rem.
var ErrModuloByZero = errors.New("modulo by zero")

// ErrCoercionRange is returned when a coercion source does not fit the
// destination's fixed width.
var ErrCoercionRange = errors.New("value out of range for 64-bit representation")

// TrapKind identifies the class of an unrecoverable runtime fault.
type TrapKind int

const (
	// TrapDivByZero is the native integer division/remainder fault.
	TrapDivByZero TrapKind = iota

	// TrapHeapExhausted is raised when the heap cannot grow past its
	// configured maximum. Matches the allocator's fatal failure contract.
	TrapHeapExhausted

	// TrapBadHandle is raised for a release of a foreign or already-freed
	// address, or a load/store outside the arena.
	TrapBadHandle
)

// String returns a short name for the trap kind.
func (k TrapKind) String() string {
	switch k {
	case TrapDivByZero:
		return "integer divide by zero"
	case TrapHeapExhausted:
		return "heap exhausted"
	case TrapBadHandle:
		return "bad heap handle"
	default:
		return "unknown trap"
	}
}

// Trap is the panic payload for unrecoverable faults. Traps terminate the
// current unit of execution abruptly; they are not routed through the
// exception printer registry.
type Trap struct {
	Kind   TrapKind
	Detail string
}

// Error implements error so a recovered trap can still be reported.
func (t Trap) Error() string {
	if t.Detail == "" {
		return "trap: " + t.Kind.String()
	}
	return "trap: " + t.Kind.String() + ": " + t.Detail
}

// trap panics with a Trap of the given kind.
func trap(kind TrapKind, format string, args ...interface{}) {
	panic(Trap{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}
