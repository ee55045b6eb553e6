// Package generator synthesizes clients, loan schedules and installment
// payments whose repayment behavior follows each client's risk score.
package generator

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/vvka-141/loanstage/internal/config"
	"github.com/vvka-141/loanstage/internal/risk"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// loanCountWeights are the weights of owning 1..5 loans.
var loanCountWeights = []float64{0.70, 0.15, 0.10, 0.04, 0.01}

const (
	maxEarlyPaymentDays = 20
	maxDelayDays        = 30
	minIncomeMultiple   = 3
	maxIncomeMultiple   = 10
)

// Generator produces a Dataset from a feature configuration. It is not safe
// for concurrent use because it owns a single random source.
type Generator struct {
	features *config.FeatureConfig
	logger   loanstage.Logger
	rng      *gofakeit.Faker
	faker    Faker
	today    loanstage.Date
	nullProb float64
}

// Option configures a Generator.
type Option func(*Generator)

// zeroSeed stands in for seed 0, which gofakeit treats as "pick a random seed".
const zeroSeed uint64 = 0x9e3779b97f4a7c15

// WithSeed makes generation reproducible. Seed 0 is mapped to a fixed
// non-zero seed so it is reproducible too.
func WithSeed(seed uint64) Option {
	if seed == 0 {
		seed = zeroSeed
	}
	return func(g *Generator) { g.rng = gofakeit.New(seed) }
}

// WithToday fixes the reference date used for birth dates, loan end dates and ages.
func WithToday(t time.Time) Option {
	return func(g *Generator) { g.today = loanstage.NewDate(t) }
}

// WithFaker replaces the default RuFaker.
func WithFaker(f Faker) Option {
	return func(g *Generator) { g.faker = f }
}

// WithNullProbability sets the chance that each nullable client field is null.
func WithNullProbability(p float64) Option {
	return func(g *Generator) { g.nullProb = p }
}

// New creates a Generator. Without WithSeed the random source is seeded randomly.
func New(features *config.FeatureConfig, logger loanstage.Logger, opts ...Option) *Generator {
	if features == nil {
		panic("features cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	g := &Generator{
		features: features,
		logger:   logger,
		today:    loanstage.NewDate(time.Now()),
		nullProb: loanstage.NullProbability,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = gofakeit.New(0)
	}
	if g.faker == nil {
		g.faker = NewRuFaker(g.rng)
	}
	return g
}

// Today returns the generator's reference date.
func (g *Generator) Today() loanstage.Date {
	return g.today
}

// Generate creates n clients with ids 1..n, their loans starting between
// earliest and today, and every scheduled installment of those loans.
func (g *Generator) Generate(ctx context.Context, n int, earliest loanstage.Date) (*loanstage.Dataset, error) {
	if n < 1 {
		return nil, fmt.Errorf("number of clients must be at least 1, got %d: %w", n, loanstage.ErrConfiguration)
	}
	if earliest.After(g.today.Time) {
		return nil, fmt.Errorf("earliest loan date %s is after today %s: %w", earliest, g.today, loanstage.ErrConfiguration)
	}
	if g.nullProb < 0 || g.nullProb > 1 {
		return nil, fmt.Errorf("null probability must be within [0,1], got %v: %w", g.nullProb, loanstage.ErrConfiguration)
	}

	ds := &loanstage.Dataset{Clients: make([]loanstage.Client, 0, n)}
	for id := 1; id <= n; id++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := g.client(id)
		if err != nil {
			return nil, err
		}
		ds.Clients = append(ds.Clients, c)
	}
	g.logger.Verbose("Generated %d clients", len(ds.Clients))

	model := risk.NewModel(g.features, g.today)
	for i := range ds.Clients {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := &ds.Clients[i]
		score, err := model.Score(c)
		if err != nil {
			return nil, err
		}
		loans, payments := g.loans(c, score, earliest)
		ds.Loans = append(ds.Loans, loans...)
		ds.Payments = append(ds.Payments, payments...)
	}

	sort.SliceStable(ds.Loans, func(i, j int) bool {
		return ds.Loans[i].StartDate.Before(ds.Loans[j].StartDate.Time)
	})
	sort.SliceStable(ds.Payments, func(i, j int) bool {
		a, b := ds.Payments[i], ds.Payments[j]
		if !a.LoanStartDate.Equal(b.LoanStartDate.Time) {
			return a.LoanStartDate.Before(b.LoanStartDate.Time)
		}
		return a.Number < b.Number
	})

	g.logger.Verbose("Generated %d loans with %d payments", len(ds.Loans), len(ds.Payments))
	return ds, nil
}

// client samples one client. Categories are drawn in configuration order.
func (g *Generator) client(id int) (loanstage.Client, error) {
	values := make(map[string]string, len(config.CategoryOrder))
	var bucket config.AgeBucket
	for _, name := range config.CategoryOrder {
		cat := g.features.Category(name)
		if cat == nil {
			return loanstage.Client{}, fmt.Errorf("category %s is not configured: %w", name, loanstage.ErrConfiguration)
		}
		idx := g.pick(cat.Weights())
		values[name] = cat.Options[idx].Value
		if name == config.CategoryAge {
			bucket = g.features.AgeBuckets()[idx]
		}
	}

	children, err := strconv.Atoi(values[config.CategoryChildren])
	if err != nil {
		return loanstage.Client{}, fmt.Errorf("children_count %q: %w", values[config.CategoryChildren], loanstage.ErrConfiguration)
	}

	ageDays := g.rng.IntRange(bucket.Min*365, bucket.Max*365)
	region := values[config.CategoryRegion]
	marital := values[config.CategoryMaritalStatus]
	address := g.faker.Address()
	phone := g.faker.Phone()

	return loanstage.Client{
		ClientID:       id,
		FullName:       g.faker.FullName(),
		Passport:       g.passport(),
		Gender:         values[config.CategoryGender],
		BirthDate:      g.today.AddDays(-ageDays),
		Education:      values[config.CategoryEducation],
		ChildrenCount:  maybeNull(g, &children),
		EmploymentType: values[config.CategoryEmployment],
		Region:         maybeNull(g, &region),
		MaritalStatus:  maybeNull(g, &marital),
		Address:        maybeNull(g, &address),
		Phone:          maybeNull(g, &phone),
		Income:         g.rng.IntRange(loanstage.MinIncome, loanstage.MaxIncome),
	}, nil
}

// loans samples a client's loans and expands each into its installments.
func (g *Generator) loans(c *loanstage.Client, score float64, earliest loanstage.Date) ([]loanstage.LoanSchedule, []loanstage.LoanPayment) {
	count := g.pick(loanCountWeights) + 1
	span := earliest.DaysUntil(g.today)

	var loans []loanstage.LoanSchedule
	var payments []loanstage.LoanPayment
	for i := 0; i < count; i++ {
		start := earliest.AddDays(g.rng.IntRange(0, span))
		installments := start.MonthsThrough(g.today)
		if installments <= 0 {
			continue
		}
		amount := g.rng.IntRange(c.Income*minIncomeMultiple, c.Income*maxIncomeMultiple)
		loan := loanstage.LoanSchedule{
			ClientID:       c.ClientID,
			LoanCode:       g.loanCode(),
			Amount:         amount,
			StartDate:      start,
			EndDate:        g.today,
			Installments:   installments,
			MonthlyPayment: NominalPayment(amount, installments),
		}
		loans = append(loans, loan)
		payments = append(payments, g.payments(loan, score)...)
	}
	return loans, payments
}

// payments emits one installment per scheduled month. A risky client
// (score above RiskThreshold) defaults on an installment with probability
// score, either by underpaying or by paying late, never both.
func (g *Generator) payments(loan loanstage.LoanSchedule, score float64) []loanstage.LoanPayment {
	out := make([]loanstage.LoanPayment, 0, loan.Installments)
	for m := 0; m < loan.Installments; m++ {
		scheduled := loan.StartDate.AddMonths(m)
		fact := scheduled.AddDays(-g.rng.IntRange(0, maxEarlyPaymentDays))
		paid := loan.MonthlyPayment

		if score > loanstage.RiskThreshold && g.rng.Float64() < score {
			if g.rng.Float64() < 0.5 {
				if paid >= 1 {
					paid -= g.rng.IntRange(1, paid)
				}
			} else {
				fact = scheduled.AddDays(g.rng.IntRange(1, maxDelayDays))
			}
		}

		out = append(out, loanstage.LoanPayment{
			ClientID:      loan.ClientID,
			LoanCode:      loan.LoanCode,
			Number:        m + 1,
			ScheduledDate: scheduled,
			FactDate:      fact,
			PaidAmount:    paid,
			LoanStartDate: loan.StartDate,
		})
	}
	return out
}

// NominalPayment is amount / installments rounded half to even.
func NominalPayment(amount, installments int) int {
	return int(decimal.NewFromInt(int64(amount)).
		Div(decimal.NewFromInt(int64(installments))).
		RoundBank(0).
		IntPart())
}

// loanCode returns a token like "ABC-12345". Codes are random and may collide.
func (g *Generator) loanCode() string {
	return strings.ToUpper(g.rng.Lexify("???")) + "-" + g.rng.Numerify("#####")
}

// passport returns a domestic passport number "DD DD DDDDDD".
func (g *Generator) passport() string {
	return g.rng.Numerify("## ## ######")
}

// pick returns an index drawn with probability proportional to weights.
func (g *Generator) pick(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rng.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
		last = i
	}
	return last
}

func maybeNull[T any](g *Generator, v *T) *T {
	if g.rng.Float64() < g.nullProb {
		return nil
	}
	return v
}
