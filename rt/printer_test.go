package rt

import (
	"errors"
	"testing"
)

type paintErr struct{ msg string }

func (e paintErr) Error() string { return e.msg }

func TestPrinterChainIsLIFO(t *testing.T) {
	var calls []string

	RegisterPrinter(func(err error) (string, bool) {
		if _, ok := err.(paintErr); !ok {
			return "", false
		}
		calls = append(calls, "first")
		return "", false // decline, let the older entry try
	})
	RegisterPrinter(func(err error) (string, bool) {
		if _, ok := err.(paintErr); !ok {
			return "", false
		}
		calls = append(calls, "second")
		return "", false
	})

	RenderException(paintErr{"x"})
	if len(calls) != 2 || calls[0] != "second" || calls[1] != "first" {
		t.Errorf("traversal order = %v, want [second first]", calls)
	}
}

func TestPrinterShortCircuits(t *testing.T) {
	type scErr struct{ error }
	olderCalled := false

	RegisterPrinter(func(err error) (string, bool) {
		if _, ok := err.(scErr); !ok {
			return "", false
		}
		olderCalled = true
		return "older", true
	})
	RegisterPrinter(func(err error) (string, bool) {
		if _, ok := err.(scErr); !ok {
			return "", false
		}
		return "newer", true
	})

	text, ok := RenderException(scErr{errors.New("boom")})
	if !ok || text != "newer" {
		t.Errorf("RenderException = %q, %v; want \"newer\", true", text, ok)
	}
	if olderCalled {
		t.Error("older printer invoked despite newer one claiming the error")
	}
}

func TestExceptionMessageFallsBack(t *testing.T) {
	// No printer claims this error type; the default rendering applies.
	err := errors.New("unclaimed failure")
	if got := ExceptionMessage(err); got != "unclaimed failure" {
		t.Errorf("ExceptionMessage = %q", got)
	}
}

func TestRenderExceptionDecline(t *testing.T) {
	type quietErr struct{ error }
	RegisterPrinter(func(err error) (string, bool) {
		return "", false // declining is normal control flow
	})
	if _, ok := RenderException(quietErr{errors.New("q")}); ok {
		t.Error("no printer claimed the error, but RenderException reported success")
	}
}

func TestPrinterClosureState(t *testing.T) {
	// A printer's closure carries its own state; the chain stores only the
	// callable.
	prefix := "mod error: "
	RegisterPrinter(func(err error) (string, bool) {
		if errors.Is(err, ErrModuloByZero) {
			return prefix + err.Error(), true
		}
		return "", false
	})

	got := ExceptionMessage(ErrModuloByZero)
	if got != "mod error: modulo by zero" {
		t.Errorf("ExceptionMessage = %q", got)
	}
}
