package services

import (
	"github.com/vvka-141/loanstage/internal/partition"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// PartStore reads raw data and writes part folders. *dataset.Store satisfies it.
type PartStore interface {
	ReadRaw() (*loanstage.Dataset, error)
	WriteParts(parts []loanstage.Part) error
}

// SplitService cuts the raw dataset into cumulative parts.
type SplitService struct {
	store  PartStore
	logger loanstage.Logger
}

// NewSplitService creates a SplitService. Panics on nil dependencies.
func NewSplitService(store PartStore, logger loanstage.Logger) *SplitService {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &SplitService{store: store, logger: logger}
}

// Run reads the raw files, splits them into n parts and replaces any
// previously written part folders.
func (s *SplitService) Run(n int) ([]loanstage.Part, error) {
	ds, err := s.store.ReadRaw()
	if err != nil {
		return nil, err
	}

	parts, err := partition.Split(ds, n)
	if err != nil {
		return nil, err
	}
	if err := s.store.WriteParts(parts); err != nil {
		return nil, err
	}

	for _, p := range parts {
		s.logger.Verbose("part_%d: %d clients, %d loans, %d payments",
			p.Number, len(p.Clients), len(p.Loans), len(p.Payments))
	}
	s.logger.Info("Split %d loans into %d parts", len(ds.Loans), len(parts))
	return parts, nil
}
