//go:build !release

// Package assert provides a cheap invariant check that is compiled out of release builds.
package assert

import "fmt"

// That panics with a formatted message if cond is false. Reserved for internal invariants
// that indicate a bug in the core itself; caller-facing failures are returned as errors.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
