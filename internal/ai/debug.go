package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug records of the AI package so the
// hot path does not pay for slog level checks.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging switches AI debug records on or off.
// Called once at startup from the configured log level.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether AI debug records should be emitted.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
