package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/vvka-141/loanstage/pkg/loanstage"
	"gopkg.in/yaml.v3"
)

//go:embed features.yaml
var defaultFeaturesYAML []byte

// Category names. CategoryOrder is the positional contract of the
// categories list in a feature file.
const (
	CategoryGender        = "gender"
	CategoryAge           = "age"
	CategoryEducation     = "education"
	CategoryChildren      = "children_count"
	CategoryEmployment    = "employment_type"
	CategoryMaritalStatus = "marital_status"
	CategoryRegion        = "region"
)

var CategoryOrder = []string{
	CategoryGender,
	CategoryAge,
	CategoryEducation,
	CategoryChildren,
	CategoryEmployment,
	CategoryMaritalStatus,
	CategoryRegion,
}

// Option is one value of a category with its sampling weight and risk increment.
type Option struct {
	Value  string  `yaml:"value"`
	Weight float64 `yaml:"weight"`
	Risk   float64 `yaml:"risk"`
}

// Category is an ordered list of options.
type Category struct {
	Name    string   `yaml:"name"`
	Options []Option `yaml:"options"`
}

// Weights returns option weights in option order.
func (c *Category) Weights() []float64 {
	w := make([]float64, len(c.Options))
	for i, o := range c.Options {
		w[i] = o.Weight
	}
	return w
}

// RiskOf returns the risk increment configured for value.
func (c *Category) RiskOf(value string) (float64, error) {
	for _, o := range c.Options {
		if o.Value == value {
			return o.Risk, nil
		}
	}
	return 0, fmt.Errorf("category %s has no option %q: %w", c.Name, value, loanstage.ErrConfiguration)
}

// AgeBucket is an inclusive age range parsed from an age option value "lo-hi".
type AgeBucket struct {
	Min, Max int
	Weight   float64
	Risk     float64
}

// Contains reports whether age falls in the bucket.
func (b AgeBucket) Contains(age int) bool {
	return age >= b.Min && age <= b.Max
}

// FeatureConfig enumerates, per demographic category, the possible values,
// their sampling weights and risk increments.
type FeatureConfig struct {
	UnknownRisk float64    `yaml:"unknown_risk"`
	Categories  []Category `yaml:"categories"`

	ageBuckets []AgeBucket
}

// DefaultFeatures returns the embedded feature configuration.
func DefaultFeatures() (*FeatureConfig, error) {
	return ParseFeatures(defaultFeaturesYAML)
}

// LoadFeatures reads a feature file. An empty path selects the embedded default.
func LoadFeatures(path string) (*FeatureConfig, error) {
	if path == "" {
		return DefaultFeatures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature file %s: %w: %w", path, loanstage.ErrConfiguration, err)
	}
	cfg, err := ParseFeatures(data)
	if err != nil {
		return nil, fmt.Errorf("feature file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseFeatures decodes and validates feature YAML.
func ParseFeatures(data []byte) (*FeatureConfig, error) {
	var cfg FeatureConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid feature YAML: %w: %w", loanstage.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Category returns the named category or nil.
func (f *FeatureConfig) Category(name string) *Category {
	for i := range f.Categories {
		if f.Categories[i].Name == name {
			return &f.Categories[i]
		}
	}
	return nil
}

// AgeBuckets returns the parsed age buckets in configuration order.
func (f *FeatureConfig) AgeBuckets() []AgeBucket {
	return f.ageBuckets
}

// AgeBucketFor returns the first bucket containing age.
// An uncovered age is a configuration error.
func (f *FeatureConfig) AgeBucketFor(age int) (AgeBucket, error) {
	for _, b := range f.ageBuckets {
		if b.Contains(age) {
			return b, nil
		}
	}
	return AgeBucket{}, fmt.Errorf("age %d is not covered by any age bucket: %w", age, loanstage.ErrConfiguration)
}

// Validate checks category order, weights, age ranges and children values.
// It returns a multi-error if multiple validation failures occur.
func (f *FeatureConfig) Validate() error {
	var errs []error

	if f.UnknownRisk < 0 || f.UnknownRisk > 1 {
		errs = append(errs, fmt.Errorf("unknown_risk must be within [0,1], got %v: %w", f.UnknownRisk, loanstage.ErrConfiguration))
	}

	names := make([]string, len(f.Categories))
	for i, c := range f.Categories {
		names[i] = c.Name
	}
	if strings.Join(names, ",") != strings.Join(CategoryOrder, ",") {
		errs = append(errs, fmt.Errorf("categories must be listed as [%s], got [%s]: %w",
			strings.Join(CategoryOrder, ", "), strings.Join(names, ", "), loanstage.ErrConfiguration))
	}

	for _, c := range f.Categories {
		errs = append(errs, validateOptions(&c)...)
	}

	if c := f.Category(CategoryChildren); c != nil {
		for _, o := range c.Options {
			if n, err := strconv.Atoi(o.Value); err != nil || n < 0 {
				errs = append(errs, fmt.Errorf("children_count value %q must be a non-negative integer: %w", o.Value, loanstage.ErrConfiguration))
			}
		}
	}

	if c := f.Category(CategoryAge); c != nil {
		buckets, err := parseAgeBuckets(c)
		if err != nil {
			errs = append(errs, err)
		}
		f.ageBuckets = buckets
	}

	return errors.Join(errs...)
}

func validateOptions(c *Category) []error {
	var errs []error
	if len(c.Options) == 0 {
		return []error{fmt.Errorf("category %s has no options: %w", c.Name, loanstage.ErrConfiguration)}
	}
	seen := make(map[string]bool, len(c.Options))
	total := 0.0
	for _, o := range c.Options {
		if seen[o.Value] {
			errs = append(errs, fmt.Errorf("category %s lists %q twice: %w", c.Name, o.Value, loanstage.ErrConfiguration))
		}
		seen[o.Value] = true
		if o.Weight < 0 {
			errs = append(errs, fmt.Errorf("category %s option %q has negative weight: %w", c.Name, o.Value, loanstage.ErrConfiguration))
		}
		total += o.Weight
	}
	if total <= 0 {
		errs = append(errs, fmt.Errorf("category %s weights must sum to a positive value: %w", c.Name, loanstage.ErrConfiguration))
	}
	return errs
}

func parseAgeBuckets(c *Category) ([]AgeBucket, error) {
	buckets := make([]AgeBucket, 0, len(c.Options))
	for _, o := range c.Options {
		lo, hi, ok := strings.Cut(o.Value, "-")
		minAge, errLo := strconv.Atoi(strings.TrimSpace(lo))
		maxAge, errHi := strconv.Atoi(strings.TrimSpace(hi))
		if !ok || errLo != nil || errHi != nil || minAge < 0 || minAge > maxAge {
			return nil, fmt.Errorf("age option %q must be an inclusive range \"lo-hi\": %w", o.Value, loanstage.ErrConfiguration)
		}
		buckets = append(buckets, AgeBucket{Min: minAge, Max: maxAge, Weight: o.Weight, Risk: o.Risk})
	}

	sorted := append([]AgeBucket(nil), buckets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Min <= sorted[i-1].Max {
			return nil, fmt.Errorf("age buckets %d-%d and %d-%d overlap: %w",
				sorted[i-1].Min, sorted[i-1].Max, sorted[i].Min, sorted[i].Max, loanstage.ErrConfiguration)
		}
	}
	return buckets, nil
}
