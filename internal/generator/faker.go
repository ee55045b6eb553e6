package generator

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"gopkg.in/yaml.v3"
)

// Faker produces locale-plausible personal strings for generated clients.
type Faker interface {
	FullName() string
	Address() string
	Phone() string
}

//go:embed ru_locale.yaml
var ruLocaleYAML []byte

type ruLocale struct {
	MaleFirstNames   []string `yaml:"male_first_names"`
	FemaleFirstNames []string `yaml:"female_first_names"`
	LastNames        []string `yaml:"last_names"`
	PatronymicStems  []string `yaml:"patronymic_stems"`
	Cities           []string `yaml:"cities"`
	StreetNames      []string `yaml:"street_names"`
	StreetPrefixes   []string `yaml:"street_prefixes"`
}

var defaultRuLocale = mustParseRuLocale(ruLocaleYAML)

func mustParseRuLocale(data []byte) *ruLocale {
	var l ruLocale
	if err := yaml.Unmarshal(data, &l); err != nil {
		panic(fmt.Sprintf("embedded ru locale is invalid: %v", err))
	}
	return &l
}

// RuFaker builds Russian names, addresses and +7 phone numbers from embedded
// word lists. It draws randomness from the supplied gofakeit source.
type RuFaker struct {
	rng    *gofakeit.Faker
	locale *ruLocale
}

// NewRuFaker creates a RuFaker using rng for every random choice.
func NewRuFaker(rng *gofakeit.Faker) *RuFaker {
	if rng == nil {
		panic("rng cannot be nil")
	}
	return &RuFaker{rng: rng, locale: defaultRuLocale}
}

// FullName returns "Surname Name Patronymic" with consistent grammatical gender.
func (f *RuFaker) FullName() string {
	last := f.rng.RandomString(f.locale.LastNames)
	stem := f.rng.RandomString(f.locale.PatronymicStems)
	if f.rng.Bool() {
		first := f.rng.RandomString(f.locale.MaleFirstNames)
		return fmt.Sprintf("%s %s %sич", last, first, stem)
	}
	first := f.rng.RandomString(f.locale.FemaleFirstNames)
	return fmt.Sprintf("%s %s %sна", feminineSurname(last), first, stem)
}

// Address returns "postcode, г. City, prefix Street, д. N, кв. M".
func (f *RuFaker) Address() string {
	return fmt.Sprintf("%s, г. %s, %s %s, д. %d, кв. %d",
		f.rng.Numerify("######"),
		f.rng.RandomString(f.locale.Cities),
		f.rng.RandomString(f.locale.StreetPrefixes),
		f.rng.RandomString(f.locale.StreetNames),
		f.rng.IntRange(1, 150),
		f.rng.IntRange(1, 400),
	)
}

// Phone returns a mobile number formatted as "+7 9XX XXX-XX-XX".
func (f *RuFaker) Phone() string {
	return f.rng.Numerify("+7 9## ###-##-##")
}

func feminineSurname(s string) string {
	switch {
	case strings.HasSuffix(s, "ский"):
		return strings.TrimSuffix(s, "ий") + "ая"
	case strings.HasSuffix(s, "ов"), strings.HasSuffix(s, "ев"), strings.HasSuffix(s, "ин"):
		return s + "а"
	default:
		return s
	}
}
