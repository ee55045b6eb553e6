package db

import (
	"fmt"

	"github.com/vvka-141/loanstage/internal/config"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// DefaultAppName is reported to the server as application_name.
const DefaultAppName = "loanstage"

// ConnFlags are connection parameters given on the command line.
// The password is deliberately not a flag; use DB_PASS or the connection string.
type ConnFlags struct {
	Connection string
	Host       string
	Port       int
	Username   string
	Database   string
	SSLMode    string
}

// IsGranularEmpty reports whether no host, port, user or sslmode flag was given.
// Database is excluded because it may override the database of a connection string.
func (f *ConnFlags) IsGranularEmpty() bool {
	return f.Host == "" && f.Port == 0 && f.Username == "" && f.SSLMode == ""
}

// ResolveSettings resolves connection settings with this precedence:
//
//  1. --connection flag, parsed as a whole
//  2. DATABASE_URL, when no granular flag is set
//  3. per parameter: flag > DB_* environment variable > loanstage.yaml > default
//
// A --database flag overrides the database of a connection string.
// Combining --connection with granular flags is rejected.
func ResolveSettings(flags *ConnFlags, env *config.EnvVars, project *config.ProjectConfig) (*Settings, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if env == nil {
		env = &config.EnvVars{}
	}

	if flags.Connection != "" && !flags.IsGranularEmpty() {
		return nil, fmt.Errorf("cannot specify both --connection and granular flags (--host, --port, --user, --sslmode)\n"+
			"Choose one approach:\n"+
			"  1. Connection string: --connection \"postgresql://user@localhost:5432/loans\"\n"+
			"  2. Granular flags: --host localhost --port 5432 --user myuser --database loans\n"+
			"  3. Environment variables: DB_HOST, DB_PORT, DB_USER, DB_PASS, DB_NAME: %w", loanstage.ErrConfiguration)
	}

	var s *Settings
	var err error
	switch {
	case flags.Connection != "":
		s, err = ParseConnectionString(flags.Connection)
	case flags.IsGranularEmpty() && env.DatabaseURL != "":
		s, err = ParseConnectionString(env.DatabaseURL)
	default:
		s, err = resolveGranular(flags, env, project)
	}
	if err != nil {
		return nil, err
	}

	if flags.Database != "" {
		s.Database = flags.Database
	}
	if s.SSLMode == "" {
		s.SSLMode = "prefer"
	}
	if s.AppName == "" {
		s.AppName = DefaultAppName
	}
	if s.Database == "" {
		return nil, fmt.Errorf("no database specified (use --database, DB_NAME or loanstage.yaml): %w", loanstage.ErrConfiguration)
	}
	return s, nil
}

func resolveGranular(flags *ConnFlags, env *config.EnvVars, project *config.ProjectConfig) (*Settings, error) {
	var pc config.ConnectionConfig
	if project != nil {
		pc = project.Connection
	}

	envPort, err := env.Port()
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Host:             config.FirstNonEmpty(flags.Host, env.DBHost, pc.Host, "localhost"),
		Username:         config.FirstNonEmpty(flags.Username, env.DBUser, pc.Username),
		Password:         env.DBPass,
		Database:         config.FirstNonEmpty(flags.Database, env.DBName, pc.Database),
		SSLMode:          config.FirstNonEmpty(flags.SSLMode, pc.SSLMode),
		AdditionalParams: make(map[string]string),
	}

	switch {
	case flags.Port != 0:
		s.Port = flags.Port
	case envPort != 0:
		s.Port = envPort
	case pc.Port != 0:
		s.Port = pc.Port
	default:
		s.Port = 5432
	}

	return s, nil
}
