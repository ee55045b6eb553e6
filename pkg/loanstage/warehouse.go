package loanstage

import "context"

// Warehouse is the narrow boundary between the load sequencer and the
// relational store. SQL content stays behind script names.
type Warehouse interface {
	// ExecuteScript runs the named SQL script in its own transaction.
	ExecuteScript(ctx context.Context, name string) error

	// IncrementalLoad creates the temp table with createTempScript, bulk-copies
	// the batch into it and runs upsertScript, all in one transaction.
	IncrementalLoad(ctx context.Context, batch RecordBatch, createTempScript, upsertScript string) error

	// LastLoadedPart returns the highest part number recorded in the staging
	// clients' file name tags. loaded is false when nothing has been loaded.
	LastLoadedPart(ctx context.Context) (part int, loaded bool, err error)
}

// PartSource gives the sequencer read access to split output.
type PartSource interface {
	// ListParts returns available part numbers in ascending order.
	ListParts() ([]int, error)

	// PartFiles returns the paths of the part's files keyed by kind.
	// It fails with ErrMissingInput if the folder or any file is absent.
	PartFiles(part int) (map[RecordKind]string, error)

	ReadClients(path string) ([]Client, error)
	ReadLoans(path string) ([]LoanSchedule, error)
	ReadPayments(path string) ([]LoanPayment, error)
}
