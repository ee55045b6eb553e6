package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

func TestDefaultFeatures_Valid(t *testing.T) {
	cfg, err := DefaultFeatures()
	require.NoError(t, err)

	require.Len(t, cfg.Categories, len(CategoryOrder))
	for i, name := range CategoryOrder {
		assert.Equal(t, name, cfg.Categories[i].Name)
	}
	assert.Greater(t, cfg.UnknownRisk, 0.0)
	assert.NotEmpty(t, cfg.AgeBuckets())
}

func TestDefaultFeatures_AgeBucketsCoverGeneratedRange(t *testing.T) {
	cfg, err := DefaultFeatures()
	require.NoError(t, err)

	buckets := cfg.AgeBuckets()
	lo, hi := buckets[0].Min, buckets[len(buckets)-1].Max
	for age := lo; age <= hi; age++ {
		_, err := cfg.AgeBucketFor(age)
		assert.NoError(t, err, "age %d", age)
	}
}

func TestAgeBucketFor_Uncovered(t *testing.T) {
	cfg, err := DefaultFeatures()
	require.NoError(t, err)

	_, err = cfg.AgeBucketFor(130)
	assert.ErrorIs(t, err, loanstage.ErrConfiguration)
	assert.Contains(t, err.Error(), "age 130")
}

func TestAgeBucketFor_InclusiveBounds(t *testing.T) {
	cfg := mustParse(t, minimalYAML)

	b, err := cfg.AgeBucketFor(40)
	require.NoError(t, err)
	assert.Equal(t, 18, b.Min)

	b, err = cfg.AgeBucketFor(41)
	require.NoError(t, err)
	assert.Equal(t, 0.2, b.Risk)

	_, err = cfg.AgeBucketFor(17)
	assert.ErrorIs(t, err, loanstage.ErrConfiguration)
}

const minimalYAML = `
unknown_risk: 0.1
categories:
  - name: gender
    options: [{value: M, weight: 1, risk: 0.1}]
  - name: age
    options:
      - {value: "18-40", weight: 1, risk: 0.1}
      - {value: "41-80", weight: 1, risk: 0.2}
  - name: education
    options: [{value: basic, weight: 1, risk: 0}]
  - name: children_count
    options: [{value: "0", weight: 1, risk: 0}]
  - name: employment_type
    options: [{value: hired, weight: 1, risk: 0}]
  - name: marital_status
    options: [{value: single, weight: 1, risk: 0}]
  - name: region
    options: [{value: north, weight: 1, risk: 0}]
`

func mustParse(t *testing.T, content string) *FeatureConfig {
	t.Helper()
	cfg, err := ParseFeatures([]byte(content))
	require.NoError(t, err)
	return cfg
}

func TestParseFeatures_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{
			name:     "syntax",
			content:  "{{invalid",
			contains: "invalid feature YAML",
		},
		{
			name:     "wrong order",
			content:  strings.Replace(minimalYAML, "name: gender", "name: sex", 1),
			contains: "categories must be listed as",
		},
		{
			name:     "overlapping age buckets",
			content:  strings.Replace(minimalYAML, `"41-80"`, `"40-80"`, 1),
			contains: "overlap",
		},
		{
			name:     "malformed age",
			content:  strings.Replace(minimalYAML, `"41-80"`, `"old"`, 1),
			contains: "inclusive range",
		},
		{
			name:     "non numeric children",
			content:  strings.Replace(minimalYAML, `value: "0"`, `value: none`, 1),
			contains: "children_count",
		},
		{
			name:     "zero weights",
			content:  strings.Replace(minimalYAML, "{value: M, weight: 1", "{value: M, weight: 0", 1),
			contains: "sum to a positive value",
		},
		{
			name:     "unknown risk out of range",
			content:  strings.Replace(minimalYAML, "unknown_risk: 0.1", "unknown_risk: 1.5", 1),
			contains: "unknown_risk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFeatures([]byte(tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, loanstage.ErrConfiguration), "expected ErrConfiguration, got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadFeatures(t *testing.T) {
	t.Run("empty path uses embedded default", func(t *testing.T) {
		cfg, err := LoadFeatures("")
		require.NoError(t, err)
		assert.NotNil(t, cfg.Category(CategoryRegion))
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "features.yaml")
		require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0644))

		cfg, err := LoadFeatures(path)
		require.NoError(t, err)
		risk, err := cfg.Category(CategoryGender).RiskOf("M")
		require.NoError(t, err)
		assert.Equal(t, 0.1, risk)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFeatures(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, loanstage.ErrConfiguration)
	})
}

func TestCategory_RiskOfUnknownValue(t *testing.T) {
	cfg := mustParse(t, minimalYAML)
	_, err := cfg.Category(CategoryEducation).RiskOf("phd")
	assert.ErrorIs(t, err, loanstage.ErrConfiguration)
}
