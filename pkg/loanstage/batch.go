package loanstage

import (
	"fmt"
	"time"
)

// RecordKind names one of the three generated record sets.
type RecordKind string

const (
	KindClients  RecordKind = "clients"
	KindLoans    RecordKind = "loans"
	KindPayments RecordKind = "payments"
)

// LoadOrder is the order in which record kinds are staged. Later kinds
// reference keys populated by earlier ones.
var LoadOrder = []RecordKind{KindClients, KindLoans, KindPayments}

// RawFileName returns the file name in the raw directory, e.g. clients.json.
func (k RecordKind) RawFileName() string {
	return string(k) + ".json"
}

// PartFileName returns the file name inside a part folder, e.g. clients_3.json.
func (k RecordKind) PartFileName(part int) string {
	return fmt.Sprintf("%s_%d.json", k, part)
}

// TempTable is the session temp table the kind is bulk-copied into.
func (k RecordKind) TempTable() string {
	return "temp_" + string(k)
}

// Tag is appended to every staged row.
type Tag struct {
	FileName string
	LoadTS   time.Time
}

// TagColumns are the trailing columns filled from Tag.
var TagColumns = []string{"file_name", "load_ts"}

// RecordBatch is a set of rows ready for COPY into a temp table.
type RecordBatch struct {
	Kind    RecordKind
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (b RecordBatch) Len() int {
	return len(b.Rows)
}

var (
	clientColumns = []string{
		"client_id", "fio", "passport", "gender", "birth_date", "education",
		"count_of_children", "job_type", "region", "family_status", "address",
		"phone", "income",
	}
	loanColumns = []string{
		"client_id", "loan_name", "loan_amount", "loan_start_date",
		"loan_end_date", "payment_numbers", "paid_amount",
	}
	paymentColumns = []string{
		"client_id", "loan_name", "payment_number", "payment_date",
		"payment_fact_date", "paid_fact_amount",
	}
)

func columnsWithTag(cols []string) []string {
	out := make([]string, 0, len(cols)+len(TagColumns))
	out = append(out, cols...)
	return append(out, TagColumns...)
}

// ClientBatch converts clients into tagged rows.
func ClientBatch(clients []Client, tag Tag) RecordBatch {
	rows := make([][]any, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []any{
			c.ClientID, c.FullName, c.Passport, c.Gender, c.BirthDate.Time,
			c.Education, c.ChildrenCount, c.EmploymentType, c.Region,
			c.MaritalStatus, c.Address, c.Phone, c.Income,
			tag.FileName, tag.LoadTS,
		})
	}
	return RecordBatch{Kind: KindClients, Columns: columnsWithTag(clientColumns), Rows: rows}
}

// LoanBatch converts loans into tagged rows.
func LoanBatch(loans []LoanSchedule, tag Tag) RecordBatch {
	rows := make([][]any, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, []any{
			l.ClientID, l.LoanCode, l.Amount, l.StartDate.Time, l.EndDate.Time,
			l.Installments, l.MonthlyPayment,
			tag.FileName, tag.LoadTS,
		})
	}
	return RecordBatch{Kind: KindLoans, Columns: columnsWithTag(loanColumns), Rows: rows}
}

// PaymentBatch converts payments into tagged rows.
func PaymentBatch(payments []LoanPayment, tag Tag) RecordBatch {
	rows := make([][]any, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []any{
			p.ClientID, p.LoanCode, p.Number, p.ScheduledDate.Time, p.FactDate.Time,
			p.PaidAmount,
			tag.FileName, tag.LoadTS,
		})
	}
	return RecordBatch{Kind: KindPayments, Columns: columnsWithTag(paymentColumns), Rows: rows}
}
