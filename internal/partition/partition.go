// Package partition slices a dataset into cumulative, self-contained parts
// ordered by loan start date.
package partition

import (
	"fmt"
	"sort"

	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// Split returns n parts numbered 1..n. Loans are stable-sorted by start date
// and part i holds the first min(i*size, total) of them, where
// size = total/n + 1. Each part carries exactly the payments and clients its
// loans reference, in their original relative order. Part i is always a
// superset of part i-1.
func Split(ds *loanstage.Dataset, n int) ([]loanstage.Part, error) {
	if n < 1 {
		return nil, fmt.Errorf("number of parts must be at least 1, got %d: %w", n, loanstage.ErrConfiguration)
	}
	if ds == nil {
		return nil, fmt.Errorf("dataset is nil: %w", loanstage.ErrMissingInput)
	}

	loans := make([]loanstage.LoanSchedule, len(ds.Loans))
	copy(loans, ds.Loans)
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].StartDate.Before(loans[j].StartDate.Time)
	})

	total := len(loans)
	size := PartSize(total, n)

	parts := make([]loanstage.Part, 0, n)
	for i := 1; i <= n; i++ {
		cut := min(i*size, total)
		parts = append(parts, build(i, loans[:cut], ds))
	}
	return parts, nil
}

// PartSize is the number of loans added per part.
func PartSize(total, n int) int {
	return total/n + 1
}

func build(number int, loans []loanstage.LoanSchedule, ds *loanstage.Dataset) loanstage.Part {
	keys := make(map[loanstage.LoanKey]struct{}, len(loans))
	clientIDs := make(map[int]struct{}, len(loans))
	for _, l := range loans {
		keys[l.Key()] = struct{}{}
		clientIDs[l.ClientID] = struct{}{}
	}

	part := loanstage.Part{Number: number}
	part.Loans = append([]loanstage.LoanSchedule(nil), loans...)
	for _, p := range ds.Payments {
		if _, ok := keys[p.Key()]; ok {
			part.Payments = append(part.Payments, p)
		}
	}
	for _, c := range ds.Clients {
		if _, ok := clientIDs[c.ClientID]; ok {
			part.Clients = append(part.Clients, c)
		}
	}
	return part
}
