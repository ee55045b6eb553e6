package loanstage

// Client is a generated borrower. Nullable attributes are pointers and are
// serialized as JSON null.
type Client struct {
	ClientID       int     `json:"client_id"`
	FullName       string  `json:"fio"`
	Passport       string  `json:"passport"`
	Gender         string  `json:"gender"`
	BirthDate      Date    `json:"birth_date"`
	Education      string  `json:"education"`
	ChildrenCount  *int    `json:"count_of_children"`
	EmploymentType string  `json:"job_type"`
	Region         *string `json:"region"`
	MaritalStatus  *string `json:"family_status"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone"`
	Income         int     `json:"income"`
}

// LoanSchedule is one loan contract of a client.
type LoanSchedule struct {
	ClientID       int    `json:"client_id"`
	LoanCode       string `json:"loan_name"`
	Amount         int    `json:"loan_amount"`
	StartDate      Date   `json:"loan_start_date"`
	EndDate        Date   `json:"loan_end_date"`
	Installments   int    `json:"payment_numbers"`
	MonthlyPayment int    `json:"paid_amount"`
}

// Key identifies the loan for payment lookups.
func (l LoanSchedule) Key() LoanKey {
	return LoanKey{ClientID: l.ClientID, LoanCode: l.LoanCode}
}

// LoanPayment is one installment of a loan with its actual outcome.
// LoanStartDate is kept for ordering only and is never serialized.
type LoanPayment struct {
	ClientID      int    `json:"client_id"`
	LoanCode      string `json:"loan_name"`
	Number        int    `json:"payment_number"`
	ScheduledDate Date   `json:"payment_date"`
	FactDate      Date   `json:"payment_fact_date"`
	PaidAmount    int    `json:"paid_fact_amount"`
	LoanStartDate Date   `json:"-"`
}

// Key identifies the loan the payment belongs to.
func (p LoanPayment) Key() LoanKey {
	return LoanKey{ClientID: p.ClientID, LoanCode: p.LoanCode}
}

// LoanKey joins payments to loans. Loan codes are not globally unique,
// so the client id is part of the key.
type LoanKey struct {
	ClientID int
	LoanCode string
}

// Dataset is one generation run: clients, their loans sorted by start date,
// and payments sorted by (loan start date, payment number).
type Dataset struct {
	Clients  []Client
	Loans    []LoanSchedule
	Payments []LoanPayment
}

// Part is a cumulative slice of a Dataset. Number is 1-based.
type Part struct {
	Number int
	Dataset
}
