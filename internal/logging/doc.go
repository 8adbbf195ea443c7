// Package logging provides structured logging utilities for payslip.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Build the process logger from CLI flags:
//
//	logger, err := logging.New(os.Stderr, "debug", "json")
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "gmail.search")
//	logger.Info("searching messages",
//	    slog.String(logging.KeyQuery, query))
//
// # Security Considerations
//
// PDF passwords and OAuth tokens are never logged; use SanitizeToken when a
// value has to be referenced at all.
package logging
