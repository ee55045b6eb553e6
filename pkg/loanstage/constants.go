package loanstage

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess           = 0  // Command completed successfully
	ExitGeneralError      = 1  // Unknown or unclassified error
	ExitUsageError        = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic             = 3  // Internal panic (unexpected crash)
	ExitConfigError       = 10 // Invalid configuration or feature file
	ExitConnectionError   = 11 // Failed to connect to the warehouse
	ExitPersistenceError  = 13 // SQL execution failed
	ExitMissingInput      = 14 // Raw or part JSON files missing
	ExitSequenceViolation = 15 // Part requested out of order
)

const (
	// DefaultNumClients is the number of clients generated when --num-clients is omitted.
	DefaultNumClients = 20

	// DefaultParts is the number of cumulative parts produced by split.
	DefaultParts = 5

	// DefaultRawDir holds clients.json, loans.json and payments.json.
	DefaultRawDir = "data/raw"

	// DefaultPartsDir holds part_{i} folders.
	DefaultPartsDir = "data/parts"

	// DefaultStartLoanDate is the earliest loan start date used by generate.
	DefaultStartLoanDate = "2020-01-01"

	// DefaultTimeout guards a whole command against hung connections.
	DefaultTimeout = 10 * time.Minute

	// DefaultManagementDB is the database used when none is configured.
	DefaultManagementDB = "postgres"

	// NullProbability is the chance that an optional client field is emitted as null.
	NullProbability = 0.2

	// BaseRisk is the starting point of every client's risk score.
	BaseRisk = 0.1

	// RiskThreshold is the score above which payments may be perturbed.
	RiskThreshold = 0.3

	// MinIncome and MaxIncome bound the uniformly sampled monthly income.
	MinIncome = 20000
	MaxIncome = 300000
)

// PartDirPrefix is followed by the part number, e.g. part_3.
const PartDirPrefix = "part_"
