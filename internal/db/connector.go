package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is small: loading is sequential and uses one
	// connection at a time.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps connections alive across a long --all run.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger loanstage.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("NOTICE: %s", notice.Message)
	}
}

// Connection is an open pool plus what the server reported on connect.
type Connection struct {
	Pool          *pgxpool.Pool
	Database      string
	Address       string
	ServerVersion string
}

// Close releases every pooled connection.
func (c *Connection) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// Connect opens a pool for s and verifies it with a round trip. There is
// no retry: a failure is returned wrapped in ErrConnectionFailed.
func Connect(ctx context.Context, s *Settings, logger loanstage.Logger) (*Connection, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(s))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", loanstage.ErrConfiguration, err)
	}
	configurePool(poolConfig, logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, s.Host, s.Port, s.Database)
	}

	var version string
	if err := pool.QueryRow(ctx, "SELECT current_setting('server_version')").Scan(&version); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, s.Host, s.Port, s.Database)
	}

	return &Connection{
		Pool:          pool,
		Database:      s.Database,
		Address:       s.Address(),
		ServerVersion: version,
	}, nil
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var guidance string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		guidance = fmt.Sprintf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port (DB_HOST, DB_PORT)
  - Firewall blocking the connection`, addr, host, port)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		guidance = fmt.Sprintf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable
  - Network connection issue`, host)

	case strings.Contains(errStr, "password authentication failed"):
		guidance = fmt.Sprintf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check DB_PASS)
  - Wrong username (check DB_USER)
  - User does not have access to the database`, database)

	case strings.Contains(errStr, "does not exist"):
		guidance = fmt.Sprintf(`database "%s" does not exist

To create it:
  loanstage shema --create-database`, database)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		guidance = fmt.Sprintf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)`, addr)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		guidance = `SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)`

	case strings.Contains(errStr, "too many connections"):
		guidance = fmt.Sprintf(`too many connections to database "%s"

Possible causes:
  - max_connections limit reached in postgresql.conf
  - Stale connections from previous runs`, database)

	default:
		return fmt.Errorf("failed to connect to database: %w: %w", loanstage.ErrConnectionFailed, err)
	}

	return fmt.Errorf("%s\n\nOriginal error: %w: %w", guidance, loanstage.ErrConnectionFailed, err)
}
