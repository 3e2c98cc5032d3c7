package rt

import "math/big"

// ---------------------------------------------------------------------------
// Numeric coercion service
// ---------------------------------------------------------------------------

// Coercer converts between the language's arbitrary-precision numeric tower
// and the fixed-width boxed representations. The kernel calls it but does
// not define rounding policy beyond what the implementation documents.
type Coercer interface {
	ToBig(b BoxedInt64) *big.Int
	FromBig(n *big.Int) (BoxedInt64, error)
	ToBigFloat(b BoxedFloat64) *big.Float
	FromBigFloat(f *big.Float) BoxedFloat64
}

// BigCoercer is the default Coercer, backed by math/big.
type BigCoercer struct {
	s *Store
}

// NewBigCoercer creates a coercer producing boxes in the given store.
func NewBigCoercer(s *Store) *BigCoercer {
	return &BigCoercer{s: s}
}

// ToBig widens a boxed integer to an arbitrary-precision integer.
// No rounding loss; the source is exact.
func (c *BigCoercer) ToBig(b BoxedInt64) *big.Int {
	return big.NewInt(c.s.Int64Value(b))
}

// FromBig narrows an arbitrary-precision integer into a boxed int64.
// Returns ErrCoercionRange when n does not fit.
func (c *BigCoercer) FromBig(n *big.Int) (BoxedInt64, error) {
	if !n.IsInt64() {
		return BoxedInt64{}, ErrCoercionRange
	}
	return c.s.BoxInt64(n.Int64()), nil
}

// ToBigFloat widens a boxed double to an arbitrary-precision float with
// 53 bits of precision, matching the source exactly.
func (c *BigCoercer) ToBigFloat(b BoxedFloat64) *big.Float {
	return big.NewFloat(c.s.Float64Value(b))
}

// FromBigFloat narrows an arbitrary-precision float into a boxed double
// using IEEE round-to-nearest; out-of-range magnitudes become infinities.
func (c *BigCoercer) FromBigFloat(f *big.Float) BoxedFloat64 {
	v, _ := f.Float64()
	return c.s.BoxFloat64(v)
}
