// Package buildmode reports how loudly programming errors are surfaced.
// Builds tagged "release" log them; every other build panics.
package buildmode

import (
	"fmt"

	"go.uber.org/zap"
)

// Violation reports a broken invariant. In non-release builds it panics with
// msg after logging; in release builds it only logs.
func Violation(log *zap.Logger, msg string, fields ...zap.Field) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Error(msg, fields...)
	if Strict {
		panic(fmt.Sprintf("invariant violated: %s", msg))
	}
}
