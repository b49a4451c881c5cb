// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase
// (operation, instance, tool, status, error) so log output stays
// consistent and queryable, plus sanitizers for values that must never
// appear in logs verbatim (API tokens, URLs with embedded credentials).
//
// The Logger interface and SlogAdapter allow packages to accept a minimal
// logging dependency without binding to a concrete implementation.
package logging
