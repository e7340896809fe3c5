// Package diag provides hooks.Sink implementations: a log/slog writer, an
// in-memory recorder and a fan-out.
package diag
