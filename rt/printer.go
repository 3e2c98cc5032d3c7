package rt

// ---------------------------------------------------------------------------
// Exception printer registry
// ---------------------------------------------------------------------------

// Printer attempts to render an error as user-visible text. A printer that
// does not recognize the error returns ("", false); declining is normal
// control flow, not a failure.
type Printer func(err error) (string, bool)

// printerCell is one link of the cons-style printer chain. Each registration
// prepends a cell, so traversal visits printers newest-first.
type printerCell struct {
	print Printer
	next  *printerCell
}

// printerChain is the process-wide chain head. There is exactly one writer
// path (RegisterPrinter) and the kernel is single-threaded, so the slot
// needs no synchronization.
var printerChain *printerCell

// printerCellRegistry pins every chain cell for the life of the process.
// The chain must outlive every scope that registers a printer; a registered
// printer's closure keeps its own captured state alive.
var printerCellRegistry = make(map[*printerCell]struct{})

// RegisterPrinter prepends p to the printer chain. Printers registered
// later take precedence over earlier ones. There is no unregister; entries
// persist for the remainder of the process.
func RegisterPrinter(p Printer) {
	cell := &printerCell{print: p, next: printerChain}
	printerCellRegistry[cell] = struct{}{}
	printerChain = cell
}

// RenderException walks the chain newest-first, returning the first
// printer's rendering of err. Returns ("", false) if the chain is exhausted
// or empty.
func RenderException(err error) (string, bool) {
	for cell := printerChain; cell != nil; cell = cell.next {
		if text, ok := cell.print(err); ok {
			return text, true
		}
	}
	return "", false
}

// ExceptionMessage renders err through the printer chain, falling back to
// the error's own text when no printer claims it.
func ExceptionMessage(err error) string {
	if text, ok := RenderException(err); ok {
		return text
	}
	return err.Error()
}
