package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/loanstage/internal/logging"
	"github.com/vvka-141/loanstage/internal/sqlscripts"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

func sampleDataset() *loanstage.Dataset {
	d := func(s string) loanstage.Date {
		v, _ := loanstage.ParseDate(s)
		return v
	}
	return &loanstage.Dataset{
		Clients: []loanstage.Client{{ClientID: 1}, {ClientID: 2}},
		Loans: []loanstage.LoanSchedule{
			{ClientID: 1, LoanCode: "AAA-00001", StartDate: d("2021-01-01")},
			{ClientID: 2, LoanCode: "BBB-00002", StartDate: d("2022-01-01")},
			{ClientID: 1, LoanCode: "CCC-00003", StartDate: d("2023-01-01")},
		},
		Payments: []loanstage.LoanPayment{
			{ClientID: 1, LoanCode: "AAA-00001", Number: 1},
			{ClientID: 2, LoanCode: "BBB-00002", Number: 1},
			{ClientID: 1, LoanCode: "CCC-00003", Number: 1},
		},
	}
}

func TestGenerateService_Run(t *testing.T) {
	ds := sampleDataset()
	gen := &mockGenerator{ds: ds}
	store := &mockStore{}

	got, err := NewGenerateService(gen, store, logging.NewNullLogger()).Run(context.Background(), 20, loanstage.Date{})
	require.NoError(t, err)
	assert.Same(t, ds, got)
	assert.Same(t, ds, store.rawSaved)
	assert.Equal(t, 20, gen.n)
}

func TestGenerateService_GeneratorFailure(t *testing.T) {
	gen := &mockGenerator{err: loanstage.ErrConfiguration}
	store := &mockStore{}

	_, err := NewGenerateService(gen, store, logging.NewNullLogger()).Run(context.Background(), 0, loanstage.Date{})
	assert.ErrorIs(t, err, loanstage.ErrConfiguration)
	assert.Nil(t, store.rawSaved)
}

func TestGenerateService_WriteFailure(t *testing.T) {
	cause := errors.New("disk full")
	store := &mockStore{writeErr: cause}

	_, err := NewGenerateService(&mockGenerator{ds: sampleDataset()}, store, logging.NewNullLogger()).Run(context.Background(), 2, loanstage.Date{})
	assert.ErrorIs(t, err, cause)
}

func TestSplitService_Run(t *testing.T) {
	store := &mockStore{raw: sampleDataset()}

	parts, err := NewSplitService(store, logging.NewNullLogger()).Run(2)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, parts, store.written)
	assert.Len(t, parts[0].Loans, 2)
	assert.Len(t, parts[1].Loans, 3)
}

func TestSplitService_Errors(t *testing.T) {
	t.Run("missing raw data", func(t *testing.T) {
		store := &mockStore{readErr: loanstage.ErrMissingInput}
		_, err := NewSplitService(store, logging.NewNullLogger()).Run(2)
		assert.ErrorIs(t, err, loanstage.ErrMissingInput)
		assert.Nil(t, store.written)
	})

	t.Run("invalid part count", func(t *testing.T) {
		store := &mockStore{raw: sampleDataset()}
		_, err := NewSplitService(store, logging.NewNullLogger()).Run(0)
		assert.ErrorIs(t, err, loanstage.ErrConfiguration)
		assert.Nil(t, store.written)
	})
}

func TestSchemaService_Create(t *testing.T) {
	wh := &mockWarehouse{}

	require.NoError(t, NewSchemaService(wh, logging.NewNullLogger()).Create(context.Background()))
	want := make([]string, 0, len(sqlscripts.SchemaScripts))
	for _, name := range sqlscripts.SchemaScripts {
		want = append(want, "exec:"+name)
	}
	assert.Equal(t, want, wh.calls)
	assert.Equal(t, "exec:create_schemas", wh.calls[0])
}

func TestSchemaService_StopsOnFailure(t *testing.T) {
	cause := errors.New("permission denied for database")
	wh := &mockWarehouse{failScript: sqlscripts.CreateStagingTables, failErr: cause}

	err := NewSchemaService(wh, logging.NewNullLogger()).Create(context.Background())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"exec:create_schemas", "exec:create_staging_tables"}, wh.calls)
}
