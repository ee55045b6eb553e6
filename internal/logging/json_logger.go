package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

var (
	_ loanstage.Logger      = (*JSONLogger)(nil)
	_ loanstage.FieldLogger = (*JSONLogger)(nil)
)

// JSONLogger emits one JSON object per message through logrus.
// Verbose maps to debug level.
type JSONLogger struct {
	entry *logrus.Entry
}

// NewJSONLogger creates a JSONLogger writing to stderr.
func NewJSONLogger(verbose bool) *JSONLogger {
	return NewJSONLoggerTo(os.Stderr, verbose)
}

// NewJSONLoggerTo creates a JSONLogger writing to w.
func NewJSONLoggerTo(w io.Writer, verbose bool) *JSONLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &JSONLogger{entry: logrus.NewEntry(l)}
}

// WithFields returns a logger that attaches fields to every entry.
func (l *JSONLogger) WithFields(fields map[string]interface{}) loanstage.Logger {
	return &JSONLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *JSONLogger) Verbose(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *JSONLogger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *JSONLogger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// New selects a logger by format name: "text" (or empty) or "json".
func New(format string, verbose bool) (loanstage.Logger, error) {
	switch format {
	case "", FormatText:
		return NewConsoleLogger(verbose), nil
	case FormatJSON:
		return NewJSONLogger(verbose), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected text or json): %w", format, loanstage.ErrConfiguration)
	}
}

// Supported log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)
