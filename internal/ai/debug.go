package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs for the agent simulation.
// Checked instead of the slog level so the hot path skips attribute building.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables AI debug logging.
// Call once during startup, after the log level is known.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if AI debug logging is enabled.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("steering", "agentID", a.ID, "force", force)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
