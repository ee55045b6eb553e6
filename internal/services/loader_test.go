package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/loanstage/internal/logging"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

var fixedLoadTS = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestLoader(wh *mockWarehouse, parts *mockParts) *LoadService {
	svc := NewLoadService(wh, parts, logging.NewNullLogger())
	svc.now = func() time.Time { return fixedLoadTS }
	svc.newRunID = func() string { return "run-1" }
	return svc
}

func partCalls() []string {
	return []string{
		"load:create_temp_table_clients+upsert_clients",
		"exec:insert_to_clients",
		"load:create_temp_table_loans+upsert_loans",
		"exec:insert_to_loans",
		"load:create_temp_table_payments+upsert_payments",
		"exec:insert_to_payments",
		"exec:insert_to_mart",
	}
}

func TestSequenceState_Accepts(t *testing.T) {
	tests := []struct {
		name  string
		state SequenceState
		part  int
		ok    bool
	}{
		{"empty accepts first", SequenceState{}, 1, true},
		{"empty rejects second", SequenceState{}, 2, false},
		{"next part", SequenceState{Loaded: true, Last: 3}, 4, true},
		{"reload last", SequenceState{Loaded: true, Last: 3}, 3, false},
		{"skip ahead", SequenceState{Loaded: true, Last: 3}, 5, false},
		{"go back", SequenceState{Loaded: true, Last: 3}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Accepts(tt.part)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, loanstage.ErrSequenceViolation)
			var sv *loanstage.SequenceViolationError
			require.ErrorAs(t, err, &sv)
			assert.Equal(t, tt.part, sv.Requested)
			assert.Equal(t, tt.state.Loaded, sv.AnyLoaded)
		})
	}
}

func TestLoadService_LoadPart_FirstPart(t *testing.T) {
	wh := &mockWarehouse{}
	svc := newTestLoader(wh, newMockParts(1))

	require.NoError(t, svc.LoadPart(context.Background(), 1))

	assert.Equal(t, append([]string{"marker"}, partCalls()...), wh.calls)
	require.Len(t, wh.batches, 3)
	for i, kind := range loanstage.LoadOrder {
		batch := wh.batches[i]
		assert.Equal(t, kind, batch.Kind)
		require.Equal(t, 1, batch.Len())
		row := batch.Rows[0]
		assert.Equal(t, kind.PartFileName(1), row[len(row)-2])
		assert.Equal(t, fixedLoadTS, row[len(row)-1])
	}
}

func TestLoadService_LoadPart_RejectsOutOfSequence(t *testing.T) {
	t.Run("nothing loaded", func(t *testing.T) {
		wh := &mockWarehouse{}
		err := newTestLoader(wh, newMockParts(1, 2)).LoadPart(context.Background(), 2)
		assert.ErrorIs(t, err, loanstage.ErrSequenceViolation)
		assert.Contains(t, err.Error(), "load part_1 before part_2")
		assert.Equal(t, []string{"marker"}, wh.calls)
	})

	t.Run("reload of last part", func(t *testing.T) {
		wh := &mockWarehouse{last: 1, loaded: true}
		err := newTestLoader(wh, newMockParts(1, 2)).LoadPart(context.Background(), 1)
		assert.ErrorIs(t, err, loanstage.ErrSequenceViolation)
		assert.Contains(t, err.Error(), "only part_2 can be loaded next")
		assert.Equal(t, []string{"marker"}, wh.calls)
	})
}

func TestLoadService_LoadPart_InvalidNumber(t *testing.T) {
	wh := &mockWarehouse{}
	err := newTestLoader(wh, newMockParts(1)).LoadPart(context.Background(), 0)
	assert.ErrorIs(t, err, loanstage.ErrConfiguration)
	assert.Empty(t, wh.calls)
}

func TestLoadService_LoadPart_MissingFilesBeforeAnyWrite(t *testing.T) {
	parts := newMockParts(1)
	parts.missing[2] = true
	wh := &mockWarehouse{last: 1, loaded: true}

	err := newTestLoader(wh, parts).LoadPart(context.Background(), 2)
	assert.ErrorIs(t, err, loanstage.ErrMissingInput)
	assert.Empty(t, wh.calls)
}

func TestLoadService_LoadPart_ReadFailureBeforeAnyWrite(t *testing.T) {
	parts := newMockParts(1)
	parts.readErr = errors.New("invalid JSON")
	wh := &mockWarehouse{}

	err := newTestLoader(wh, parts).LoadPart(context.Background(), 1)
	assert.ErrorIs(t, err, parts.readErr)
	assert.Equal(t, []string{"marker"}, wh.calls)
}

func TestLoadService_LoadPart_MalformedPaymentsBeforeAnyWrite(t *testing.T) {
	parts := newMockParts(1)
	parts.paymentsErr = errors.New("payments_1.json: invalid character '}'")
	wh := &mockWarehouse{}

	err := newTestLoader(wh, parts).LoadPart(context.Background(), 1)
	assert.ErrorIs(t, err, parts.paymentsErr)
	assert.Equal(t, []string{"marker"}, wh.calls)
	assert.False(t, wh.loaded)
}

func TestLoadService_LoadPart_FailureStopsRemainingKinds(t *testing.T) {
	cause := errors.New("duplicate key")
	wh := &mockWarehouse{failScript: "upsert_loans", failErr: cause}

	err := newTestLoader(wh, newMockParts(1)).LoadPart(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "loans_1.json")

	assert.Equal(t, []string{
		"marker",
		"load:create_temp_table_clients+upsert_clients",
		"exec:insert_to_clients",
		"load:create_temp_table_loans+upsert_loans",
	}, wh.calls)
	// Clients were committed before the failure and stay loaded.
	assert.True(t, wh.loaded)
	assert.Equal(t, 1, wh.last)
}

func TestLoadService_LoadPart_MartFailure(t *testing.T) {
	cause := errors.New("mart refresh failed")
	wh := &mockWarehouse{failScript: "insert_to_mart", failErr: cause}

	err := newTestLoader(wh, newMockParts(1)).LoadPart(context.Background(), 1)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "mart.data_mart")
}

func TestLoadService_LoadPart_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wh := &mockWarehouse{}

	err := newTestLoader(wh, newMockParts(1)).LoadPart(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"marker"}, wh.calls)
}

func TestLoadService_LoadAll_NumericOrder(t *testing.T) {
	wh := &mockWarehouse{}
	svc := newTestLoader(wh, newMockParts(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11))

	require.NoError(t, svc.LoadAll(context.Background(), false))
	assert.Equal(t, 11, wh.last)

	var order []string
	for _, b := range wh.batches {
		if b.Kind == loanstage.KindClients {
			order = append(order, b.Rows[0][len(b.Rows[0])-2].(string))
		}
	}
	assert.Equal(t, []string{
		"clients_1.json", "clients_2.json", "clients_3.json", "clients_4.json",
		"clients_5.json", "clients_6.json", "clients_7.json", "clients_8.json",
		"clients_9.json", "clients_10.json", "clients_11.json",
	}, order)
}

func TestLoadService_LoadAll_HaltsOnFirstFailure(t *testing.T) {
	parts := newMockParts(1, 3)
	parts.missing[2] = true
	wh := &mockWarehouse{}

	err := newTestLoader(wh, parts).LoadAll(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, loanstage.ErrMissingInput)
	assert.Contains(t, err.Error(), "part_2")
	assert.Equal(t, 1, wh.last)
}

func TestLoadService_LoadAll_ReloadWithoutResumeFails(t *testing.T) {
	wh := &mockWarehouse{last: 2, loaded: true}

	err := newTestLoader(wh, newMockParts(1, 2, 3)).LoadAll(context.Background(), false)
	assert.ErrorIs(t, err, loanstage.ErrSequenceViolation)
	assert.Empty(t, wh.batches)
}

func TestLoadService_LoadAll_ResumeSkipsLoadedParts(t *testing.T) {
	wh := &mockWarehouse{last: 2, loaded: true}

	require.NoError(t, newTestLoader(wh, newMockParts(1, 2, 3, 4)).LoadAll(context.Background(), true))
	assert.Equal(t, 4, wh.last)
	assert.Len(t, wh.batches, 6)
	assert.Equal(t, "clients_3.json", wh.batches[0].Rows[0][len(wh.batches[0].Rows[0])-2])
}

func TestLoadService_LoadAll_ResumeOnEmptyWarehouse(t *testing.T) {
	wh := &mockWarehouse{}

	require.NoError(t, newTestLoader(wh, newMockParts(1, 2)).LoadAll(context.Background(), true))
	assert.Equal(t, 2, wh.last)
}

func TestLoadService_LoadAll_NoParts(t *testing.T) {
	wh := &mockWarehouse{}

	err := newTestLoader(wh, newMockParts()).LoadAll(context.Background(), false)
	assert.ErrorIs(t, err, loanstage.ErrMissingInput)
	assert.Empty(t, wh.calls)
}

func TestLoadService_LoadAll_ListFailure(t *testing.T) {
	parts := newMockParts()
	parts.listErr = loanstage.ErrMissingInput

	err := newTestLoader(&mockWarehouse{}, parts).LoadAll(context.Background(), false)
	assert.ErrorIs(t, err, loanstage.ErrMissingInput)
}

func TestLoadService_MarkerFailure(t *testing.T) {
	wh := &mockWarehouse{markerErr: loanstage.ErrPersistence}

	err := newTestLoader(wh, newMockParts(1)).LoadPart(context.Background(), 1)
	assert.ErrorIs(t, err, loanstage.ErrPersistence)
	assert.Empty(t, wh.batches)
}

func TestLoadService_LogsRunID(t *testing.T) {
	var buf bytes.Buffer
	svc := NewLoadService(&mockWarehouse{}, newMockParts(1), logging.NewConsoleLoggerTo(&buf, true))
	svc.newRunID = func() string { return "run-42" }

	require.NoError(t, svc.LoadPart(context.Background(), 1))
	assert.Contains(t, buf.String(), "[run_id=run-42]")
	assert.Contains(t, buf.String(), "Loaded part_1, mart.data_mart refreshed")
}

func TestNewLoadService_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewLoadService(nil, newMockParts(), logging.NewNullLogger()) })
	assert.Panics(t, func() { NewLoadService(&mockWarehouse{}, nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { NewLoadService(&mockWarehouse{}, newMockParts(), nil) })
}
