package loanstage

// Logger provides a pluggable logging interface for loanstage operations.
// Implementations must be safe for concurrent use by multiple goroutines.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	// Always logged regardless of verbose mode.
	Info(format string, args ...interface{})

	// Error logs error messages.
	// Always logged regardless of verbose mode.
	Error(format string, args ...interface{})
}

// FieldLogger is implemented by loggers that can attach key/value context,
// such as a run id, to every subsequent message.
type FieldLogger interface {
	Logger
	WithFields(fields map[string]interface{}) Logger
}

// WithFields attaches fields when l supports them and returns l unchanged otherwise.
func WithFields(l Logger, fields map[string]interface{}) Logger {
	if fl, ok := l.(FieldLogger); ok {
		return fl.WithFields(fields)
	}
	return l
}
