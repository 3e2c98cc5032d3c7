package rt

import "math"

// ---------------------------------------------------------------------------
// Float64 operation contract
// ---------------------------------------------------------------------------

// Special constant bit patterns, written directly into freshly allocated
// boxes at store construction. Building them through the floating-point
// unit (say, 1.0/0.0) could be constant-folded differently across
// toolchains; raw bits guarantee an exact, platform-independent encoding.
const (
	// infinityBits: sign 0, exponent all ones, mantissa zero.
	infinityBits uint64 = 0x7FF0000000000000

	// nanBits: quiet NaN with the mantissa's low bit set. Consumers that
	// inspect NaN payload bits see exactly this pattern.
	nanBits uint64 = 0x7FF8000000000001
)

// Float64Ops is the arithmetic/comparison contract over boxed IEEE-754
// doubles. Division by zero follows IEEE semantics (infinities, NaN); there
// is no float trap.
type Float64Ops struct {
	s *Store

	// inf and nan are constructed once in NewStore from raw bit patterns.
	inf BoxedFloat64
	nan BoxedFloat64
}

// Infinity returns the shared positive-infinity box.
func (o Float64Ops) Infinity() BoxedFloat64 { return o.inf }

// NaN returns the shared NaN box. The payload bit pattern is exact; boxing
// does not canonicalize it.
func (o Float64Ops) NaN() BoxedFloat64 { return o.nan }

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

// Add boxes a + b.
func (o Float64Ops) Add(a, b BoxedFloat64) BoxedFloat64 {
	return o.s.BoxFloat64(o.s.Float64Value(a) + o.s.Float64Value(b))
}

// Sub boxes a - b.
func (o Float64Ops) Sub(a, b BoxedFloat64) BoxedFloat64 {
	return o.s.BoxFloat64(o.s.Float64Value(a) - o.s.Float64Value(b))
}

// Mul boxes a * b.
func (o Float64Ops) Mul(a, b BoxedFloat64) BoxedFloat64 {
	return o.s.BoxFloat64(o.s.Float64Value(a) * o.s.Float64Value(b))
}

// Div boxes a / b. Division by zero yields an infinity or NaN per IEEE.
func (o Float64Ops) Div(a, b BoxedFloat64) BoxedFloat64 {
	return o.s.BoxFloat64(o.s.Float64Value(a) / o.s.Float64Value(b))
}

// Incr boxes a + 1.
func (o Float64Ops) Incr(a BoxedFloat64) BoxedFloat64 {
	return o.s.BoxFloat64(o.s.Float64Value(a) + 1)
}

// Decr boxes a - 1.
func (o Float64Ops) Decr(a BoxedFloat64) BoxedFloat64 {
	return o.s.BoxFloat64(o.s.Float64Value(a) - 1)
}

// ---------------------------------------------------------------------------
// Comparisons
//
// IEEE semantics throughout: any comparison involving NaN is false, except
// Ne, which is true.
// ---------------------------------------------------------------------------

// Eq reports a == b per IEEE (false for NaN operands, true for -0 == +0).
func (o Float64Ops) Eq(a, b BoxedFloat64) bool {
	return o.s.Float64Value(a) == o.s.Float64Value(b)
}

// Ne reports a != b per IEEE (true when either operand is NaN).
func (o Float64Ops) Ne(a, b BoxedFloat64) bool {
	return o.s.Float64Value(a) != o.s.Float64Value(b)
}

// Lt reports a < b per IEEE.
func (o Float64Ops) Lt(a, b BoxedFloat64) bool {
	return o.s.Float64Value(a) < o.s.Float64Value(b)
}

// Lte reports a <= b per IEEE.
func (o Float64Ops) Lte(a, b BoxedFloat64) bool {
	return o.s.Float64Value(a) <= o.s.Float64Value(b)
}

// Gt reports a > b per IEEE.
func (o Float64Ops) Gt(a, b BoxedFloat64) bool {
	return o.s.Float64Value(a) > o.s.Float64Value(b)
}

// Gte reports a >= b per IEEE.
func (o Float64Ops) Gte(a, b BoxedFloat64) bool {
	return o.s.Float64Value(a) >= o.s.Float64Value(b)
}

// ---------------------------------------------------------------------------
// Bit reinterpretation helpers
// ---------------------------------------------------------------------------

func float64ToBits(f float64) uint64   { return math.Float64bits(f) }
func float64FromBits(b uint64) float64 { return math.Float64frombits(b) }
