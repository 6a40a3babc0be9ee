// Package logger builds the application's slog logger: JSON output in
// production, colored console output (tint) everywhere else.
package logger
