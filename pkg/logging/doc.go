// Package logging provides structured logging utilities for the release
// phase tools.
//
// # Overview
//
// This package wraps the standard library slog package with defaults shared
// by the relphase CLI and the relphased API server: JSON records on stderr,
// module and version attributes on every record, and source locations when
// debugging.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: rule registration and request tracing, with source location
//   - INFO: evaluated phases and server lifecycle (default)
//   - WARN/WARNING: recoverable problems, e.g. an unknown output format
//   - ERROR: failures that abort a command or request
//
// # Usage
//
// Setting the default logger early in main:
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("relphased", version)
//	    slog.Info("server starting", "port", 8080)
//	}
//
// Setting an explicit level, e.g. from a --log-level flag:
//
//	logging.SetDefaultStructuredLoggerWithLevel("relphase", version, "debug")
//
// Bridging a standard library logger:
//
//	srv.ErrorLog = logging.NewLogLogger(slog.LevelError, false)
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls verbosity when no explicit
// level is given:
//
//	LOG_LEVEL=debug relphased
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "release phase evaluated",
//	    "module": "relphase",
//	    "version": "v1.0.0",
//	    "phase": "2.5"
//	}
package logging
