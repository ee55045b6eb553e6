// Package logging provides implementations of the loanstage.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: plain lines on stderr with [VERBOSE]/[ERROR] prefixes
//   - JSONLogger: one logrus JSON object per line, with structured fields
//   - NullLogger: discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
