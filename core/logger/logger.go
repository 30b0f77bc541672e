package logger

// Logger exposes logging methods for common severity levels. Simulation
// components receive a Logger instead of writing to a global so library
// callers can silence or redirect diagnostics.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
