package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// DatasetGenerator produces synthetic datasets. *generator.Generator satisfies it.
type DatasetGenerator interface {
	Generate(ctx context.Context, n int, earliest loanstage.Date) (*loanstage.Dataset, error)
}

// RawWriter persists a generated dataset. *dataset.Store satisfies it.
type RawWriter interface {
	WriteRaw(ds *loanstage.Dataset) error
}

// GenerateService generates a dataset and writes it to the raw directory.
type GenerateService struct {
	gen    DatasetGenerator
	store  RawWriter
	logger loanstage.Logger
}

// NewGenerateService creates a GenerateService. Panics on nil dependencies.
func NewGenerateService(gen DatasetGenerator, store RawWriter, logger loanstage.Logger) *GenerateService {
	if gen == nil {
		panic("gen cannot be nil")
	}
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &GenerateService{gen: gen, store: store, logger: logger}
}

// Run generates numClients clients with loans starting no earlier than
// earliest and writes clients.json, loans.json and payments.json.
func (s *GenerateService) Run(ctx context.Context, numClients int, earliest loanstage.Date) (*loanstage.Dataset, error) {
	ds, err := s.gen.Generate(ctx, numClients, earliest)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}
	if err := s.store.WriteRaw(ds); err != nil {
		return nil, err
	}
	s.logger.Info("Generated %d clients, %d loans, %d payments",
		len(ds.Clients), len(ds.Loans), len(ds.Payments))
	return ds, nil
}
