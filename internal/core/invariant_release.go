//go:build release

package core

const strictInvariants = false

func invariantViolated(logger Logger, msg string, args ...any) {
	logger.Error("invariant violated: "+msg, args...)
}
