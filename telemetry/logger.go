// Package telemetry provides the ambient structured-logging wrapper and the
// optional pose/command history sink every core component logs or records
// through.
package telemetry

import "go.uber.org/zap"

// Logger is a thin alias over *zap.Logger so call sites in this module
// never import zap directly.
type Logger = zap.Logger

// NewLogger returns a production zap logger. Callers that want a
// development logger (human-readable, colorized) should construct one with
// zap.NewDevelopment() directly; this helper covers the common case.
func NewLogger() (*Logger, error) {
	return zap.NewProduction()
}

// NewNop returns a logger that discards everything, for tests and for
// components constructed without an explicit logger.
func NewNop() *Logger {
	return zap.NewNop()
}
