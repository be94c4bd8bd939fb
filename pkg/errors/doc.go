// Package errors provides structured error types for programmatic handling
// of release phase failures across the CLI and the API server.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidConfig,
//	    "invalid phase rule pattern",
//	    compileErr,
//	    map[string]any{
//	        "pattern": pattern,
//	        "phase":   phase,
//	    },
//	)
//
// Callers that need the code use As or HasCode:
//
//	if errors.HasCode(err, errors.ErrCodeInvalidConfig) {
//	    // reject the rule set
//	}
package errors
