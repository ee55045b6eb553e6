package services

import (
	"context"

	"github.com/vvka-141/loanstage/internal/sqlscripts"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// ScriptRunner executes named SQL scripts.
type ScriptRunner interface {
	ExecuteScript(ctx context.Context, name string) error
}

// SchemaService creates the staging, core and mart layers.
type SchemaService struct {
	runner ScriptRunner
	logger loanstage.Logger
}

// NewSchemaService creates a SchemaService. Panics on nil dependencies.
func NewSchemaService(runner ScriptRunner, logger loanstage.Logger) *SchemaService {
	if runner == nil {
		panic("runner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &SchemaService{runner: runner, logger: logger}
}

// Create runs the schema scripts in order. Every script is idempotent, so
// running Create against an initialized warehouse is a no-op.
func (s *SchemaService) Create(ctx context.Context) error {
	for _, name := range sqlscripts.SchemaScripts {
		if err := s.runner.ExecuteScript(ctx, name); err != nil {
			return err
		}
		s.logger.Verbose("Applied %s", name)
	}
	s.logger.Info("Schemas staging, core and mart are ready")
	return nil
}
