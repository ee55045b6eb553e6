package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// mockWarehouse records every call and keeps the marker the way the
// staging tables would: a successful clients load advances it.
type mockWarehouse struct {
	calls      []string
	batches    []loanstage.RecordBatch
	last       int
	loaded     bool
	markerErr  error
	failScript string
	failErr    error
}

func (m *mockWarehouse) ExecuteScript(_ context.Context, name string) error {
	m.calls = append(m.calls, "exec:"+name)
	if name == m.failScript {
		return m.failErr
	}
	return nil
}

func (m *mockWarehouse) IncrementalLoad(_ context.Context, batch loanstage.RecordBatch, createTemp, upsert string) error {
	m.calls = append(m.calls, "load:"+createTemp+"+"+upsert)
	if upsert == m.failScript {
		return m.failErr
	}
	m.batches = append(m.batches, batch)
	if batch.Kind == loanstage.KindClients && batch.Len() > 0 {
		var n int
		fmt.Sscanf(batch.Rows[0][len(batch.Rows[0])-2].(string), "clients_%d.json", &n)
		if !m.loaded || n > m.last {
			m.last, m.loaded = n, true
		}
	}
	return nil
}

func (m *mockWarehouse) LastLoadedPart(_ context.Context) (int, bool, error) {
	m.calls = append(m.calls, "marker")
	return m.last, m.loaded, m.markerErr
}

// mockParts serves in-memory parts. A part listed in missing has no files.
// paymentsErr fails only the payments file.
type mockParts struct {
	parts       map[int]loanstage.Dataset
	missing     map[int]bool
	listErr     error
	readErr     error
	paymentsErr error
}

func newMockParts(numbers ...int) *mockParts {
	m := &mockParts{parts: map[int]loanstage.Dataset{}, missing: map[int]bool{}}
	for _, n := range numbers {
		m.parts[n] = loanstage.Dataset{
			Clients:  []loanstage.Client{{ClientID: n, FullName: "client"}},
			Loans:    []loanstage.LoanSchedule{{ClientID: n, LoanCode: "ABC-00001"}},
			Payments: []loanstage.LoanPayment{{ClientID: n, LoanCode: "ABC-00001", Number: 1}},
		}
	}
	return m
}

func (m *mockParts) ListParts() ([]int, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []int
	for n := range m.parts {
		out = append(out, n)
	}
	for n := range m.missing {
		if _, ok := m.parts[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (m *mockParts) PartFiles(p int) (map[loanstage.RecordKind]string, error) {
	if _, ok := m.parts[p]; !ok || m.missing[p] {
		return nil, fmt.Errorf("part folder part_%d not found: %w", p, loanstage.ErrMissingInput)
	}
	files := map[loanstage.RecordKind]string{}
	for _, kind := range loanstage.LoadOrder {
		files[kind] = fmt.Sprintf("/parts/part_%d/%s", p, kind.PartFileName(p))
	}
	return files, nil
}

func (m *mockParts) part(path string) loanstage.Dataset {
	var p int
	fmt.Sscanf(path, "/parts/part_%d/", &p)
	return m.parts[p]
}

func (m *mockParts) ReadClients(path string) ([]loanstage.Client, error) {
	return m.part(path).Clients, m.readErr
}

func (m *mockParts) ReadLoans(path string) ([]loanstage.LoanSchedule, error) {
	return m.part(path).Loans, m.readErr
}

func (m *mockParts) ReadPayments(path string) ([]loanstage.LoanPayment, error) {
	if m.paymentsErr != nil {
		return nil, m.paymentsErr
	}
	return m.part(path).Payments, m.readErr
}

type mockGenerator struct {
	ds  *loanstage.Dataset
	err error
	n   int
}

func (m *mockGenerator) Generate(_ context.Context, n int, _ loanstage.Date) (*loanstage.Dataset, error) {
	m.n = n
	return m.ds, m.err
}

type mockStore struct {
	raw      *loanstage.Dataset
	readErr  error
	writeErr error
	written  []loanstage.Part
	rawSaved *loanstage.Dataset
}

func (m *mockStore) WriteRaw(ds *loanstage.Dataset) error {
	m.rawSaved = ds
	return m.writeErr
}

func (m *mockStore) ReadRaw() (*loanstage.Dataset, error) {
	return m.raw, m.readErr
}

func (m *mockStore) WriteParts(parts []loanstage.Part) error {
	m.written = parts
	return m.writeErr
}
