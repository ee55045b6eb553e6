// Package risk derives a client's delinquency propensity from demographic
// attributes and a feature configuration.
package risk

import (
	"fmt"
	"strconv"

	"github.com/vvka-141/loanstage/internal/config"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// evaluator scores one client field. A nil field scores the unknown penalty.
type evaluator struct {
	field string
	score func(m *Model, c *loanstage.Client) (float64, error)
}

// evaluators is the fixed evaluation order. Every entry contributes either the
// category risk of its value or, when the value is missing, the unknown penalty.
var evaluators = []evaluator{
	{"gender", func(m *Model, c *loanstage.Client) (float64, error) {
		return m.category(config.CategoryGender, strPtr(c.Gender))
	}},
	{"birth_date", func(m *Model, c *loanstage.Client) (float64, error) {
		if c.BirthDate.IsZero() {
			return m.cfg.UnknownRisk, nil
		}
		bucket, err := m.cfg.AgeBucketFor(AgeOn(c.BirthDate, m.today))
		if err != nil {
			return 0, fmt.Errorf("client %d: %w", c.ClientID, err)
		}
		return bucket.Risk, nil
	}},
	{"education", func(m *Model, c *loanstage.Client) (float64, error) {
		return m.category(config.CategoryEducation, strPtr(c.Education))
	}},
	{"count_of_children", func(m *Model, c *loanstage.Client) (float64, error) {
		if c.ChildrenCount == nil {
			return m.cfg.UnknownRisk, nil
		}
		v := strconv.Itoa(*c.ChildrenCount)
		return m.category(config.CategoryChildren, &v)
	}},
	{"job_type", func(m *Model, c *loanstage.Client) (float64, error) {
		return m.category(config.CategoryEmployment, strPtr(c.EmploymentType))
	}},
	{"region", func(m *Model, c *loanstage.Client) (float64, error) {
		return m.category(config.CategoryRegion, c.Region)
	}},
	{"family_status", func(m *Model, c *loanstage.Client) (float64, error) {
		return m.category(config.CategoryMaritalStatus, c.MaritalStatus)
	}},
	{"address", func(m *Model, c *loanstage.Client) (float64, error) {
		return m.presence(c.Address), nil
	}},
	{"phone", func(m *Model, c *loanstage.Client) (float64, error) {
		return m.presence(c.Phone), nil
	}},
}

// Model computes risk scores. It is stateless after construction and
// deterministic for a given configuration and reference date.
type Model struct {
	cfg   *config.FeatureConfig
	today loanstage.Date
}

// NewModel creates a model scoring ages as of today.
func NewModel(cfg *config.FeatureConfig, today loanstage.Date) *Model {
	if cfg == nil {
		panic("feature config cannot be nil")
	}
	return &Model{cfg: cfg, today: today}
}

// Fields returns the evaluated field names in evaluation order.
func (m *Model) Fields() []string {
	names := make([]string, len(evaluators))
	for i, e := range evaluators {
		names[i] = e.field
	}
	return names
}

// Score returns the client's risk in [0,1]: BaseRisk plus every field's
// increment, clamped.
func (m *Model) Score(c *loanstage.Client) (float64, error) {
	total := loanstage.BaseRisk
	for _, e := range evaluators {
		inc, err := e.score(m, c)
		if err != nil {
			return 0, fmt.Errorf("risk field %s: %w", e.field, err)
		}
		total += inc
	}
	return Clamp(total), nil
}

func (m *Model) category(name string, value *string) (float64, error) {
	if value == nil {
		return m.cfg.UnknownRisk, nil
	}
	c := m.cfg.Category(name)
	if c == nil {
		return 0, fmt.Errorf("category %s is not configured: %w", name, loanstage.ErrConfiguration)
	}
	return c.RiskOf(*value)
}

func (m *Model) presence(value *string) float64 {
	if value == nil {
		return m.cfg.UnknownRisk
	}
	return 0
}

// AgeOn returns whole years between birth and today as day count / 365.
func AgeOn(birth, today loanstage.Date) int {
	return birth.DaysUntil(today) / 365
}

// Clamp bounds v to [0,1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// strPtr treats an empty required string as missing.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
