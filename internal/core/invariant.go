//go:build !release

package core

import "fmt"

// strictInvariants is true outside release builds: invariant breaches panic.
const strictInvariants = true

func invariantViolated(_ Logger, msg string, args ...any) {
	panic(fmt.Sprintf("invariant violated: %s %v", msg, args))
}
