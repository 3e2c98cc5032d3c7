// Package rt implements the Petrel runtime kernel.
//
// This package contains:
//   - Raw heap: a byte-addressed arena with allocate/release
//   - Boxed 64-bit scalars (signed integers and IEEE-754 doubles)
//   - The arithmetic/bitwise/comparison operation contract
//   - The process-wide exception printer registry
//   - The console gather-write helper
package rt
