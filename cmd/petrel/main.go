// Petrel CLI - the entry point for the Petrel runtime kernel
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/petrel-lang/petrel/manifest"
	"github.com/petrel-lang/petrel/rt"
	"github.com/petrel-lang/petrel/rt/snapshot"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("petrel")

func main() {
	interactive := flag.Bool("i", false, "Start interactive REPL")
	expr := flag.String("e", "", "Evaluate a single 'op a b' form and exit")
	snapshotPath := flag.String("snapshot", "", "Write a heap snapshot to this file before exiting")
	restorePath := flag.String("restore", "", "Restore a heap snapshot from this file at startup")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: petrel [options]\n\n")
		fmt.Fprintf(os.Stderr, "Evaluates boxed-scalar operations on the Petrel runtime kernel.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  petrel -i                    # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  petrel -e 'add 2 3'          # Evaluate one form\n")
		fmt.Fprintf(os.Stderr, "  petrel -e 'mod 7 -2'         # Floored modulo\n")
		fmt.Fprintf(os.Stderr, "  petrel -i -snapshot h.cbor   # Snapshot the heap on exit\n")
	}
	flag.Parse()

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading petrel.toml: %v\n", err)
		os.Exit(1)
	}

	verbosity := m.Log.Verbosity
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	heap := rt.NewHeap(int32(m.Heap.InitialBytes), int32(m.Heap.MaxBytes))
	store := rt.NewStore(heap)
	console := m.ConsoleFile()

	// Default printer for the kernel's one structured error. Registered
	// printers take precedence over this one.
	rt.RegisterPrinter(func(err error) (string, bool) {
		if errors.Is(err, rt.ErrModuloByZero) {
			return "ModuloByZero: modulo requires a nonzero divisor", true
		}
		return "", false
	})

	if *restorePath != "" {
		if err := restoreSnapshot(store, *restorePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Infof("restored heap snapshot from %s", *restorePath)
	}

	exitCode := 0
	switch {
	case *expr != "":
		if !evalLine(store, heap, console, *expr) {
			exitCode = 1
		}
	case *interactive:
		repl(store, heap, console)
	default:
		flag.Usage()
		exitCode = 2
	}

	if *snapshotPath != "" {
		if err := writeSnapshot(store, *snapshotPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Infof("wrote heap snapshot to %s", *snapshotPath)
	}

	os.Exit(exitCode)
}

// repl reads 'op a b' forms from stdin until EOF or "quit".
func repl(store *rt.Store, heap *rt.Heap, console *os.File) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("petrel> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}
		if line != "" {
			evalLine(store, heap, console, line)
		}
		fmt.Print("petrel> ")
	}
}

// evalLine evaluates one form and prints the result to the console sink.
// Returns false when the form failed to evaluate.
func evalLine(store *rt.Store, heap *rt.Heap, console *os.File, line string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if t, isTrap := r.(rt.Trap); isTrap {
				fmt.Fprintf(os.Stderr, "fatal: %v\n", t)
				ok = false
				return
			}
			panic(r)
		}
	}()

	text, err := eval(store, line)
	if err != nil {
		printLine(console, heap, rt.ExceptionMessage(err))
		return false
	}
	printLine(console, heap, text)
	return true
}

// printLine writes text and a newline through the kernel's gather-write
// console helper.
func printLine(console *os.File, heap *rt.Heap, text string) {
	if _, err := rt.ConsoleWrite(console, heap, []byte(text), []byte("\n")); err != nil {
		log.Errorf("console write: %v", err)
	}
}

// eval parses and evaluates a single 'op a b' form.
func eval(store *rt.Store, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty form")
	}
	op := fields[0]

	// Float forms are prefixed with 'f'; the two nullary constants first.
	switch op {
	case "finf":
		return formatFloat(store, store.Float64.Infinity()), nil
	case "fnan":
		return formatFloat(store, store.Float64.NaN()), nil
	}

	if strings.HasPrefix(op, "f") {
		return evalFloat(store, op, fields[1:])
	}
	return evalInt(store, op, fields[1:])
}

func evalInt(store *rt.Store, op string, args []string) (string, error) {
	operands := make([]rt.BoxedInt64, len(args))
	for i, a := range args {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return "", fmt.Errorf("bad integer operand %q", a)
		}
		operands[i] = store.BoxInt64(n)
	}

	unary := func(f func(rt.BoxedInt64) rt.BoxedInt64) (string, error) {
		if len(operands) != 1 {
			return "", fmt.Errorf("%s takes 1 operand", op)
		}
		return formatInt(store, f(operands[0])), nil
	}
	binary := func(f func(a, b rt.BoxedInt64) rt.BoxedInt64) (string, error) {
		if len(operands) != 2 {
			return "", fmt.Errorf("%s takes 2 operands", op)
		}
		return formatInt(store, f(operands[0], operands[1])), nil
	}
	compare := func(f func(a, b rt.BoxedInt64) bool) (string, error) {
		if len(operands) != 2 {
			return "", fmt.Errorf("%s takes 2 operands", op)
		}
		return strconv.FormatBool(f(operands[0], operands[1])), nil
	}

	ops := store.Int64
	switch op {
	case "add":
		return binary(ops.Add)
	case "sub":
		return binary(ops.Sub)
	case "mul":
		return binary(ops.Mul)
	case "div":
		return binary(ops.Div)
	case "rem":
		return binary(ops.Rem)
	case "mod":
		if len(operands) != 2 {
			return "", fmt.Errorf("mod takes 2 operands")
		}
		r, err := ops.Mod(operands[0], operands[1])
		if err != nil {
			return "", err
		}
		return formatInt(store, r), nil
	case "and":
		return binary(ops.And)
	case "or":
		return binary(ops.Or)
	case "xor":
		return binary(ops.Xor)
	case "not":
		return unary(ops.Not)
	case "shl":
		return binary(ops.Shl)
	case "shr":
		return binary(ops.Shr)
	case "rotl":
		return binary(ops.Rotl)
	case "rotr":
		return binary(ops.Rotr)
	case "clz":
		return unary(ops.Clz)
	case "ctz":
		return unary(ops.Ctz)
	case "popcnt":
		return unary(ops.Popcnt)
	case "incr":
		return unary(ops.Incr)
	case "decr":
		return unary(ops.Decr)
	case "eq":
		return compare(ops.Eq)
	case "ne":
		return compare(ops.Ne)
	case "lt":
		return compare(ops.Lt)
	case "lte":
		return compare(ops.Lte)
	case "gt":
		return compare(ops.Gt)
	case "gte":
		return compare(ops.Gte)
	case "eqz":
		if len(operands) != 1 {
			return "", fmt.Errorf("eqz takes 1 operand")
		}
		return strconv.FormatBool(ops.Eqz(operands[0])), nil
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}
}

func evalFloat(store *rt.Store, op string, args []string) (string, error) {
	operands := make([]rt.BoxedFloat64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return "", fmt.Errorf("bad float operand %q", a)
		}
		operands[i] = store.BoxFloat64(f)
	}

	binary := func(f func(a, b rt.BoxedFloat64) rt.BoxedFloat64) (string, error) {
		if len(operands) != 2 {
			return "", fmt.Errorf("%s takes 2 operands", op)
		}
		return formatFloat(store, f(operands[0], operands[1])), nil
	}
	compare := func(f func(a, b rt.BoxedFloat64) bool) (string, error) {
		if len(operands) != 2 {
			return "", fmt.Errorf("%s takes 2 operands", op)
		}
		return strconv.FormatBool(f(operands[0], operands[1])), nil
	}

	ops := store.Float64
	switch op {
	case "fadd":
		return binary(ops.Add)
	case "fsub":
		return binary(ops.Sub)
	case "fmul":
		return binary(ops.Mul)
	case "fdiv":
		return binary(ops.Div)
	case "feq":
		return compare(ops.Eq)
	case "fne":
		return compare(ops.Ne)
	case "flt":
		return compare(ops.Lt)
	case "flte":
		return compare(ops.Lte)
	case "fgt":
		return compare(ops.Gt)
	case "fgte":
		return compare(ops.Gte)
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}
}

func formatInt(store *rt.Store, b rt.BoxedInt64) string {
	return strconv.FormatInt(store.Int64Value(b), 10)
}

func formatFloat(store *rt.Store, b rt.BoxedFloat64) string {
	return strconv.FormatFloat(store.Float64Value(b), 'g', -1, 64)
}

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

func writeSnapshot(store *rt.Store, path string) error {
	snap := snapshot.Capture(store)
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	log.Infof("snapshot %s: %d records", snap.ID, len(snap.Records))
	return nil
}

func restoreSnapshot(store *rt.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		return err
	}
	return snapshot.Restore(store, snap)
}
