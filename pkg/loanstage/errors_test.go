package loanstage_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, loanstage.ExitSuccess},
		{"general error", errors.New("something went wrong"), loanstage.ExitGeneralError},
		{"unknown flag", errors.New("unknown flag: --foo"), loanstage.ExitUsageError},
		{"required flag group", errors.New("at least one of the flags in the group [part all] is required"), loanstage.ExitUsageError},
		{"invalid argument", errors.New(`invalid argument "abc" for "--parts"`), loanstage.ExitUsageError},
		{"configuration", fmt.Errorf("age 99: %w", loanstage.ErrConfiguration), loanstage.ExitConfigError},
		{"missing input", fmt.Errorf("clients.json: %w", loanstage.ErrMissingInput), loanstage.ExitMissingInput},
		{"connection", loanstage.ErrConnectionFailed, loanstage.ExitConnectionError},
		{"persistence", fmt.Errorf("upsert_loans: %w", loanstage.ErrPersistence), loanstage.ExitPersistenceError},
		{"sequence", &loanstage.SequenceViolationError{Requested: 2}, loanstage.ExitSequenceViolation},
		{"connection refused text", errors.New("dial tcp: connection refused"), loanstage.ExitConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loanstage.ExitCodeForError(tt.err))
		})
	}
}

func TestErrConnectionFailed_IsPersistence(t *testing.T) {
	err := fmt.Errorf("failed to connect to database: %w", loanstage.ErrConnectionFailed)

	assert.ErrorIs(t, err, loanstage.ErrConnectionFailed)
	assert.ErrorIs(t, err, loanstage.ErrPersistence)
	assert.Equal(t, loanstage.ExitConnectionError, loanstage.ExitCodeForError(err))
	assert.NotErrorIs(t, fmt.Errorf("upsert_loans: %w", loanstage.ErrPersistence), loanstage.ErrConnectionFailed)
}

func TestSequenceViolationError(t *testing.T) {
	t.Run("nothing loaded", func(t *testing.T) {
		err := &loanstage.SequenceViolationError{Requested: 2}
		assert.ErrorIs(t, err, loanstage.ErrSequenceViolation)
		assert.Contains(t, err.Error(), "load part_1 before part_2")
	})

	t.Run("wrapped keeps details", func(t *testing.T) {
		wrapped := fmt.Errorf("load part_1: %w", &loanstage.SequenceViolationError{Requested: 1, LastLoaded: 1, AnyLoaded: true})

		var seqErr *loanstage.SequenceViolationError
		assert.True(t, errors.As(wrapped, &seqErr))
		assert.Equal(t, 1, seqErr.LastLoaded)
		assert.Contains(t, wrapped.Error(), "only part_2 can be loaded next")
	})
}
