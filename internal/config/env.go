package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// EnvVars are the environment settings read after .env loading.
type EnvVars struct {
	DBName        string
	DBUser        string
	DBPass        string
	DBHost        string
	DBPort        string
	DatabaseURL   string
	RawDir        string
	SplitDir      string
	StartLoanDate string
	Features      string
}

// LoadDotEnv loads files (default ".env") into the process environment.
// Variables already set are not overridden and missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// LoadFromEnvironment reads the loanstage environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		DBName:        os.Getenv("DB_NAME"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RawDir:        os.Getenv("RAW_DIR"),
		SplitDir:      os.Getenv("SPLIT_DIR"),
		StartLoanDate: os.Getenv("START_LOAN_DATE"),
		Features:      os.Getenv("LOANSTAGE_FEATURES"),
	}
}

// Port parses DB_PORT. An empty value yields 0.
func (e *EnvVars) Port() (int, error) {
	if e.DBPort == "" {
		return 0, nil
	}
	port, err := strconv.Atoi(e.DBPort)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid DB_PORT %q: %w", e.DBPort, loanstage.ErrConfiguration)
	}
	return port, nil
}

// FirstNonEmpty returns the first non-empty value, implementing
// flag > environment > project file > default precedence.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
