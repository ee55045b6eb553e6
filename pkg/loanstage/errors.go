package loanstage

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of generation, splitting and loading.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	err := loader.LoadPart(ctx, 3)
//	if errors.Is(err, loanstage.ErrSequenceViolation) {
//	    // part 2 has not been loaded yet
//	}
var (
	// ErrConfiguration indicates malformed or missing configuration,
	// e.g. a client age that no age bucket covers.
	ErrConfiguration = errors.New("configuration error")

	// ErrMissingInput indicates an expected JSON file or part folder is absent.
	ErrMissingInput = errors.New("missing input")

	// ErrSequenceViolation indicates the requested part is not the immediate
	// successor of the last loaded part.
	ErrSequenceViolation = errors.New("sequence violation")

	// ErrPersistence indicates an SQL execution failure against the warehouse.
	ErrPersistence = errors.New("persistence error")

	// ErrConnectionFailed indicates the warehouse connection could not be established.
	// It is a persistence failure and matches ErrPersistence under errors.Is.
	ErrConnectionFailed = fmt.Errorf("connection failed: %w", ErrPersistence)
)

// SequenceViolationError describes a rejected part request.
// It matches ErrSequenceViolation under errors.Is.
type SequenceViolationError struct {
	Requested  int
	LastLoaded int  // meaningful only when AnyLoaded is true
	AnyLoaded  bool
}

func (e *SequenceViolationError) Error() string {
	if !e.AnyLoaded {
		return fmt.Sprintf("%s: no part has been loaded yet, load part_1 before part_%d",
			ErrSequenceViolation, e.Requested)
	}
	return fmt.Sprintf("%s: last loaded part is part_%d, only part_%d can be loaded next (requested part_%d)",
		ErrSequenceViolation, e.LastLoaded, e.LastLoaded+1, e.Requested)
}

func (e *SequenceViolationError) Unwrap() error {
	return ErrSequenceViolation
}

// usageErrorPatterns are fragments of cobra/pflag argument errors.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"if any flags in the group",
	"none of the others can be",
	"at least one of the flags in the group",
}

// ExitCodeForError returns the process exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrSequenceViolation):
		return ExitSequenceViolation
	case errors.Is(err, ErrMissingInput):
		return ExitMissingInput
	case errors.Is(err, ErrConfiguration):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrPersistence):
		return ExitPersistenceError
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
