package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/loanstage/internal/sqlscripts"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// SequenceState is the loaded-part marker read from the warehouse.
type SequenceState struct {
	Loaded bool
	Last   int
}

// Accepts reports whether part p is the one allowed to load next:
// part 1 on an empty warehouse, otherwise Last+1.
func (s SequenceState) Accepts(p int) error {
	if !s.Loaded {
		if p == 1 {
			return nil
		}
		return &loanstage.SequenceViolationError{Requested: p}
	}
	if p == s.Last+1 {
		return nil
	}
	return &loanstage.SequenceViolationError{Requested: p, LastLoaded: s.Last, AnyLoaded: true}
}

// LoadService stages part folders into the warehouse in order and
// refreshes the core and mart layers after each part.
type LoadService struct {
	warehouse loanstage.Warehouse
	parts     loanstage.PartSource
	logger    loanstage.Logger
	now       func() time.Time
	newRunID  func() string
}

// NewLoadService creates a LoadService. Panics on nil dependencies.
func NewLoadService(warehouse loanstage.Warehouse, parts loanstage.PartSource, logger loanstage.Logger) *LoadService {
	if warehouse == nil {
		panic("warehouse cannot be nil")
	}
	if parts == nil {
		panic("parts cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LoadService{
		warehouse: warehouse,
		parts:     parts,
		logger:    logger,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// State reads the current marker.
func (s *LoadService) State(ctx context.Context) (SequenceState, error) {
	last, loaded, err := s.warehouse.LastLoadedPart(ctx)
	if err != nil {
		return SequenceState{}, err
	}
	return SequenceState{Loaded: loaded, Last: last}, nil
}

// LoadPart loads part p. It fails before touching the warehouse when the
// part's files are missing or p is not the next part in sequence. A failure
// while loading aborts the remaining kinds; kinds already committed stay.
func (s *LoadService) LoadPart(ctx context.Context, p int) error {
	return s.loadPart(ctx, s.runLogger(), p)
}

// LoadAll loads every part folder in numeric order and stops at the first
// failure. With resume, parts at or below the marker are skipped.
func (s *LoadService) LoadAll(ctx context.Context, resume bool) error {
	logger := s.runLogger()

	numbers, err := s.parts.ListParts()
	if err != nil {
		return err
	}
	if len(numbers) == 0 {
		return fmt.Errorf("no part folders found, run 'loanstage split' first: %w", loanstage.ErrMissingInput)
	}

	var state SequenceState
	if resume {
		if state, err = s.State(ctx); err != nil {
			return err
		}
	}

	loadedCount := 0
	for _, p := range numbers {
		if resume && state.Loaded && p <= state.Last {
			logger.Verbose("Skipping part_%d, already loaded", p)
			continue
		}
		if err := s.loadPart(ctx, logger, p); err != nil {
			return fmt.Errorf("load stopped at part_%d: %w", p, err)
		}
		loadedCount++
	}

	logger.Info("Loaded %d of %d parts", loadedCount, len(numbers))
	return nil
}

func (s *LoadService) runLogger() loanstage.Logger {
	return loanstage.WithFields(s.logger, map[string]interface{}{"run_id": s.newRunID()})
}

func (s *LoadService) loadPart(ctx context.Context, logger loanstage.Logger, p int) error {
	if p < 1 {
		return fmt.Errorf("part number must be at least 1, got %d: %w", p, loanstage.ErrConfiguration)
	}

	files, err := s.parts.PartFiles(p)
	if err != nil {
		return err
	}

	state, err := s.State(ctx)
	if err != nil {
		return err
	}
	if err := state.Accepts(p); err != nil {
		return err
	}

	// Decode every file before the first write so malformed input leaves
	// the warehouse untouched.
	loadTS := s.now()
	batches := make(map[loanstage.RecordKind]loanstage.RecordBatch, len(loanstage.LoadOrder))
	for _, kind := range loanstage.LoadOrder {
		path := files[kind]
		batch, err := s.readBatch(kind, path, loanstage.Tag{FileName: filepath.Base(path), LoadTS: loadTS})
		if err != nil {
			return err
		}
		batches[kind] = batch
	}

	for _, kind := range loanstage.LoadOrder {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := batches[kind]
		if err := s.warehouse.IncrementalLoad(ctx, batch, sqlscripts.CreateTemp(kind), sqlscripts.Upsert(kind)); err != nil {
			return fmt.Errorf("failed to stage %s of part_%d: %w", filepath.Base(files[kind]), p, err)
		}
		if err := s.warehouse.ExecuteScript(ctx, sqlscripts.InsertToCore(kind)); err != nil {
			return fmt.Errorf("failed to move %s of part_%d into core: %w", kind, p, err)
		}
		logger.Info("Loaded %d %s from part_%d into staging.%s and core.%s", batch.Len(), kind, p, kind, kind)
	}

	if err := s.warehouse.ExecuteScript(ctx, sqlscripts.InsertToMart); err != nil {
		return fmt.Errorf("failed to refresh mart.data_mart after part_%d: %w", p, err)
	}
	logger.Info("Loaded part_%d, mart.data_mart refreshed", p)
	return nil
}

func (s *LoadService) readBatch(kind loanstage.RecordKind, path string, tag loanstage.Tag) (loanstage.RecordBatch, error) {
	switch kind {
	case loanstage.KindClients:
		clients, err := s.parts.ReadClients(path)
		if err != nil {
			return loanstage.RecordBatch{}, err
		}
		return loanstage.ClientBatch(clients, tag), nil
	case loanstage.KindLoans:
		loans, err := s.parts.ReadLoans(path)
		if err != nil {
			return loanstage.RecordBatch{}, err
		}
		return loanstage.LoanBatch(loans, tag), nil
	case loanstage.KindPayments:
		payments, err := s.parts.ReadPayments(path)
		if err != nil {
			return loanstage.RecordBatch{}, err
		}
		return loanstage.PaymentBatch(payments, tag), nil
	}
	return loanstage.RecordBatch{}, fmt.Errorf("unknown record kind %q: %w", kind, loanstage.ErrConfiguration)
}
