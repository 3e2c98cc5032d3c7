package rt

import "math/bits"

// ---------------------------------------------------------------------------
// Int64 operation contract
// ---------------------------------------------------------------------------

// Int64Ops is the arithmetic/bitwise/comparison contract over boxed 64-bit
// integers. Every operation reads the operand payloads, computes with native
// two's-complement semantics, and boxes the result; operands are never
// mutated.
type Int64Ops struct {
	s *Store
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

// Add boxes a + b. Overflow wraps.
func (o Int64Ops) Add(a, b BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) + o.s.Int64Value(b))
}

// Sub boxes a - b. Overflow wraps.
func (o Int64Ops) Sub(a, b BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) - o.s.Int64Value(b))
}

// Mul boxes a * b. Overflow wraps.
func (o Int64Ops) Mul(a, b BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) * o.s.Int64Value(b))
}

// Div boxes the signed truncated quotient a / b. A zero divisor is a fatal
// trap, inheriting the native instruction's fault behavior; use Mod for the
// guarded, catchable variant.
func (o Int64Ops) Div(a, b BoxedInt64) BoxedInt64 {
	x, y := o.s.Int64Value(a), o.s.Int64Value(b)
	if y == 0 {
		trap(TrapDivByZero, "%d / 0", x)
	}
	return o.s.BoxInt64(x / y)
}

// Rem boxes the signed truncated remainder a % b. A zero divisor traps.
func (o Int64Ops) Rem(a, b BoxedInt64) BoxedInt64 {
	x, y := o.s.Int64Value(a), o.s.Int64Value(b)
	if y == 0 {
		trap(TrapDivByZero, "%d %% 0", x)
	}
	return o.s.BoxInt64(x % y)
}

// Mod boxes the floored modulo of a and b: the result takes the sign of the
// divisor. A zero divisor returns ErrModuloByZero rather than trapping.
func (o Int64Ops) Mod(a, b BoxedInt64) (BoxedInt64, error) {
	x, y := o.s.Int64Value(a), o.s.Int64Value(b)
	if y == 0 {
		return BoxedInt64{}, ErrModuloByZero
	}
	// Truncated remainder carries the dividend's sign. When the operand
	// signs differ and the remainder is nonzero, adjust against the
	// divisor's magnitude and re-apply the divisor's sign; adding the
	// divisor does both at once.
	r := x % y
	if r != 0 && (x < 0) != (y < 0) {
		r += y
	}
	return o.s.BoxInt64(r), nil
}

// Incr boxes a + 1.
func (o Int64Ops) Incr(a BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) + 1)
}

// Decr boxes a - 1.
func (o Int64Ops) Decr(a BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) - 1)
}

// ---------------------------------------------------------------------------
// Bitwise
// ---------------------------------------------------------------------------

// And boxes a & b.
func (o Int64Ops) And(a, b BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) & o.s.Int64Value(b))
}

// Or boxes a | b.
func (o Int64Ops) Or(a, b BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) | o.s.Int64Value(b))
}

// Xor boxes a ^ b.
func (o Int64Ops) Xor(a, b BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) ^ o.s.Int64Value(b))
}

// Not boxes the bitwise complement of a.
func (o Int64Ops) Not(a BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(^o.s.Int64Value(a))
}

// Shl boxes a shifted left by the low six bits of count, the machine shift
// convention.
func (o Int64Ops) Shl(a, count BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) << (uint64(o.s.Int64Value(count)) & 63))
}

// Shr boxes the arithmetic (sign-preserving) right shift of a by the low
// six bits of count.
func (o Int64Ops) Shr(a, count BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(o.s.Int64Value(a) >> (uint64(o.s.Int64Value(count)) & 63))
}

// Rotl boxes a rotated left by count bits (count taken mod 64).
func (o Int64Ops) Rotl(a, count BoxedInt64) BoxedInt64 {
	bitsOut := bits.RotateLeft64(uint64(o.s.Int64Value(a)), int(o.s.Int64Value(count)&63))
	return o.s.BoxInt64(int64(bitsOut))
}

// Rotr boxes a rotated right by count bits (count taken mod 64).
func (o Int64Ops) Rotr(a, count BoxedInt64) BoxedInt64 {
	bitsOut := bits.RotateLeft64(uint64(o.s.Int64Value(a)), -int(o.s.Int64Value(count)&63))
	return o.s.BoxInt64(int64(bitsOut))
}

// ---------------------------------------------------------------------------
// Bit counting
// ---------------------------------------------------------------------------

// Clz boxes the number of leading zero bits in a (0..64).
func (o Int64Ops) Clz(a BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(int64(bits.LeadingZeros64(uint64(o.s.Int64Value(a)))))
}

// Ctz boxes the number of trailing zero bits in a (0..64).
func (o Int64Ops) Ctz(a BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(int64(bits.TrailingZeros64(uint64(o.s.Int64Value(a)))))
}

// Popcnt boxes the number of set bits in a (0..64).
func (o Int64Ops) Popcnt(a BoxedInt64) BoxedInt64 {
	return o.s.BoxInt64(int64(bits.OnesCount64(uint64(o.s.Int64Value(a)))))
}

// ---------------------------------------------------------------------------
// Comparisons
// ---------------------------------------------------------------------------

// Eq reports payload equality. Two distinct boxes with equal payloads
// compare equal; identity is never compared.
func (o Int64Ops) Eq(a, b BoxedInt64) bool {
	return o.s.Int64Value(a) == o.s.Int64Value(b)
}

// Ne reports payload inequality.
func (o Int64Ops) Ne(a, b BoxedInt64) bool {
	return o.s.Int64Value(a) != o.s.Int64Value(b)
}

// Lt reports a < b, signed.
func (o Int64Ops) Lt(a, b BoxedInt64) bool {
	return o.s.Int64Value(a) < o.s.Int64Value(b)
}

// Lte reports a <= b, signed.
func (o Int64Ops) Lte(a, b BoxedInt64) bool {
	return o.s.Int64Value(a) <= o.s.Int64Value(b)
}

// Gt reports a > b, signed.
func (o Int64Ops) Gt(a, b BoxedInt64) bool {
	return o.s.Int64Value(a) > o.s.Int64Value(b)
}

// Gte reports a >= b, signed.
func (o Int64Ops) Gte(a, b BoxedInt64) bool {
	return o.s.Int64Value(a) >= o.s.Int64Value(b)
}

// Eqz reports a == 0.
func (o Int64Ops) Eqz(a BoxedInt64) bool {
	return o.s.Int64Value(a) == 0
}

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

// FromUint64 boxes the bit-for-bit reinterpretation of u as a signed 64-bit
// integer. No range check; the widths match.
func (o Int64Ops) FromUint64(u uint64) BoxedInt64 {
	return o.s.rawBoxInt64(u)
}
