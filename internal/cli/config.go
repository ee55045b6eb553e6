package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/loanstage/internal/config"
	"github.com/vvka-141/loanstage/internal/logging"
	"github.com/vvka-141/loanstage/internal/sqlscripts"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

type globalFlags struct {
	verbose    bool
	logFormat  string
	features   string
	scriptsDir string
	timeout    time.Duration
}

// runtimeConfig is the resolved environment of one command invocation.
type runtimeConfig struct {
	cmd     *cobra.Command
	flags   *globalFlags
	logger  loanstage.Logger
	env     *config.EnvVars
	project *config.ProjectConfig
}

// loadRuntimeConfig loads .env, the environment and loanstage.yaml from the
// working directory. A missing loanstage.yaml is not an error.
func loadRuntimeConfig(cmd *cobra.Command, g *globalFlags) (*runtimeConfig, error) {
	logger, err := logging.New(g.logFormat, g.verbose)
	if err != nil {
		return nil, err
	}

	config.LoadDotEnv()
	env := config.LoadFromEnvironment()

	project, err := config.Load(".")
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		project = &config.ProjectConfig{}
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w: %w", config.ConfigFileName, loanstage.ErrConfiguration, err)
	default:
		logger.Verbose("Using %s", config.ConfigFileName)
	}

	return &runtimeConfig{cmd: cmd, flags: g, logger: logger, env: env, project: project}, nil
}

func (rc *runtimeConfig) rawDir(flag string) string {
	return config.FirstNonEmpty(flag, rc.env.RawDir, rc.project.RawDir, loanstage.DefaultRawDir)
}

func (rc *runtimeConfig) partsDir(flag string) string {
	return config.FirstNonEmpty(flag, rc.env.SplitDir, rc.project.PartsDir, loanstage.DefaultPartsDir)
}

func (rc *runtimeConfig) startDate(flag string) (loanstage.Date, error) {
	raw := config.FirstNonEmpty(flag, rc.env.StartLoanDate, rc.project.StartLoanDate, loanstage.DefaultStartLoanDate)
	d, err := loanstage.ParseDate(raw)
	if err != nil {
		return loanstage.Date{}, fmt.Errorf("invalid start date: %w: %w", loanstage.ErrConfiguration, err)
	}
	return d, nil
}

func (rc *runtimeConfig) features() (*config.FeatureConfig, error) {
	path := config.FirstNonEmpty(rc.flags.features, rc.env.Features, rc.project.Features)
	if path != "" {
		rc.logger.Verbose("Loading feature configuration from %s", path)
	}
	return config.LoadFeatures(path)
}

// scripts returns the SQL catalog after checking every script resolves.
func (rc *runtimeConfig) scripts() (*sqlscripts.Catalog, error) {
	dir := config.FirstNonEmpty(rc.flags.scriptsDir, rc.project.ScriptsDir)
	catalog := sqlscripts.NewCatalog(dir)
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	rc.logger.Verbose("SQL scripts: %s", catalog.Source())
	return catalog, nil
}

// timeout applies the loanstage.yaml timeout if --timeout wasn't explicitly set.
func (rc *runtimeConfig) timeout() (time.Duration, error) {
	if rc.project.Timeout != "" && !rc.cmd.Flags().Changed("timeout") {
		parsed, err := time.ParseDuration(rc.project.Timeout)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout in %s: %w: %w", config.ConfigFileName, loanstage.ErrConfiguration, err)
		}
		return parsed, nil
	}
	return rc.flags.timeout, nil
}

// context returns a context bounded by the timeout and cancelled on
// SIGINT or SIGTERM.
func (rc *runtimeConfig) context() (context.Context, context.CancelFunc, error) {
	timeout, err := rc.timeout()
	if err != nil {
		return nil, nil, err
	}

	parent := rc.cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}, nil
}
