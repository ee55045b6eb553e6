package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

func TestWrapConnectionError_Guidance(t *testing.T) {
	tests := []struct {
		name     string
		cause    string
		host     string
		port     int
		database string
		headline string
		hints    []string
	}{
		{
			name:     "refused points at host and port variables",
			cause:    "dial tcp 10.1.2.3:6432: connect: connection refused",
			host:     "10.1.2.3",
			port:     6432,
			database: "loans",
			headline: "connection refused to 10.1.2.3:6432",
			hints:    []string{"pg_isready -h 10.1.2.3 -p 6432", "(DB_HOST, DB_PORT)"},
		},
		{
			name:     "windows refusal wording",
			cause:    "connectex: No connection could be made because the target machine actively refused it",
			host:     "localhost",
			port:     5432,
			database: "loans",
			headline: "connection refused to localhost:5432",
			hints:    []string{"(DB_HOST, DB_PORT)"},
		},
		{
			name:     "bad password names the credential variables",
			cause:    `FATAL: password authentication failed for user "analyst" (SQLSTATE 28P01)`,
			host:     "warehouse",
			port:     5432,
			database: "dwh",
			headline: `password authentication failed for database "dwh"`,
			hints:    []string{"check DB_PASS", "check DB_USER"},
		},
		{
			name:     "missing database suggests creating it",
			cause:    `FATAL: database "dwh" does not exist (SQLSTATE 3D000)`,
			host:     "warehouse",
			port:     5432,
			database: "dwh",
			headline: `database "dwh" does not exist`,
			hints:    []string{"loanstage shema --create-database"},
		},
		{
			name:     "unresolvable host",
			cause:    "hostname resolving error: lookup warehouse.invalid: no such host",
			host:     "warehouse.invalid",
			port:     5432,
			database: "dwh",
			headline: `cannot resolve host "warehouse.invalid"`,
		},
		{
			name:     "timeout",
			cause:    "dial tcp 10.0.0.9:5432: i/o timeout",
			host:     "10.0.0.9",
			port:     5432,
			database: "dwh",
			headline: "connection timed out to 10.0.0.9:5432",
		},
		{
			name:     "tls failure mentions sslmode flag",
			cause:    "tls: first record does not look like a TLS handshake",
			host:     "warehouse",
			port:     5432,
			database: "dwh",
			headline: "SSL/TLS connection error",
			hints:    []string{"--sslmode"},
		},
		{
			name:     "connection limit",
			cause:    "FATAL: sorry, too many connections for role \"analyst\"",
			host:     "warehouse",
			port:     5432,
			database: "dwh",
			headline: `too many connections to database "dwh"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := errors.New(tt.cause)
			err := wrapConnectionError(cause, tt.host, tt.port, tt.database)

			msg := err.Error()
			assert.Contains(t, msg, tt.headline)
			for _, hint := range tt.hints {
				assert.Contains(t, msg, hint)
			}
			assert.Contains(t, msg, "Original error:")
			assert.ErrorIs(t, err, cause)
			assert.ErrorIs(t, err, loanstage.ErrConnectionFailed)
			assert.Equal(t, loanstage.ExitConnectionError, loanstage.ExitCodeForError(err))
		})
	}
}

func TestWrapConnectionError_UnrecognizedCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := wrapConnectionError(cause, "warehouse", 5432, "dwh")

	assert.Equal(t, "failed to connect to database: connection failed: persistence error: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, loanstage.ErrPersistence)
	assert.NotContains(t, err.Error(), "Possible causes")
}
