package rt

import (
	"math"
	"testing"
)

func TestFloat64Arithmetic(t *testing.T) {
	s := newTestStore()
	ops := s.Float64

	tests := []struct {
		name string
		f    func(a, b BoxedFloat64) BoxedFloat64
		a, b float64
		want float64
	}{
		{"add", ops.Add, 1.5, 2.25, 3.75},
		{"sub", ops.Sub, 1.0, 0.75, 0.25},
		{"mul", ops.Mul, -3.0, 0.5, -1.5},
		{"div", ops.Div, 7.0, 2.0, 3.5},
	}
	for _, tt := range tests {
		got := s.Float64Value(tt.f(s.BoxFloat64(tt.a), s.BoxFloat64(tt.b)))
		if got != tt.want {
			t.Errorf("%s(%v, %v) = %v, want %v", tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFloat64DivByZeroFollowsIEEE(t *testing.T) {
	s := newTestStore()
	ops := s.Float64

	if got := s.Float64Value(ops.Div(s.BoxFloat64(1), s.BoxFloat64(0))); !math.IsInf(got, 1) {
		t.Errorf("1/0 = %v, want +Inf", got)
	}
	if got := s.Float64Value(ops.Div(s.BoxFloat64(-1), s.BoxFloat64(0))); !math.IsInf(got, -1) {
		t.Errorf("-1/0 = %v, want -Inf", got)
	}
	if got := s.Float64Value(ops.Div(s.BoxFloat64(0), s.BoxFloat64(0))); !math.IsNaN(got) {
		t.Errorf("0/0 = %v, want NaN", got)
	}
}

func TestFloat64InfinityComparesGreaterThanFinite(t *testing.T) {
	s := newTestStore()
	ops := s.Float64
	inf := ops.Infinity()

	finite := []float64{0, 1, -1, math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64}
	for _, f := range finite {
		if !ops.Gt(inf, s.BoxFloat64(f)) {
			t.Errorf("infinity not > %v", f)
		}
	}
}

func TestFloat64NaNComparisonTable(t *testing.T) {
	s := newTestStore()
	ops := s.Float64
	nan := ops.NaN()

	if ops.Lt(nan, nan) || ops.Gt(nan, nan) || ops.Lte(nan, nan) || ops.Gte(nan, nan) {
		t.Error("ordered comparison with NaN returned true")
	}
	if ops.Eq(nan, nan) {
		t.Error("NaN == NaN returned true")
	}
	if !ops.Ne(nan, nan) {
		t.Error("NaN != NaN returned false")
	}

	one := s.BoxFloat64(1)
	if ops.Lt(nan, one) || ops.Gt(nan, one) || ops.Eq(nan, one) {
		t.Error("comparison of NaN with finite returned true")
	}
	if !ops.Ne(nan, one) {
		t.Error("NaN != 1 returned false")
	}
}

func TestFloat64NegativeZeroEqualsZero(t *testing.T) {
	s := newTestStore()
	negZero := s.BoxFloat64(math.Copysign(0, -1))
	zero := s.BoxFloat64(0)
	if !s.Float64.Eq(negZero, zero) {
		t.Error("-0 == +0 should hold per IEEE")
	}
	if s.Float64Bits(negZero) == s.Float64Bits(zero) {
		t.Error("-0 and +0 should have distinct payload bits")
	}
}

func TestFloat64ArithmeticWithNaNPropagates(t *testing.T) {
	s := newTestStore()
	ops := s.Float64
	got := s.Float64Value(ops.Add(ops.NaN(), s.BoxFloat64(1)))
	if !math.IsNaN(got) {
		t.Errorf("NaN + 1 = %v, want NaN", got)
	}
}

func TestFloat64IncrDecr(t *testing.T) {
	s := newTestStore()
	if got := s.Float64Value(s.Float64.Incr(s.BoxFloat64(0.5))); got != 1.5 {
		t.Errorf("Incr(0.5) = %v", got)
	}
	if got := s.Float64Value(s.Float64.Decr(s.BoxFloat64(0.5))); got != -0.5 {
		t.Errorf("Decr(0.5) = %v", got)
	}
}
