package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

// NewRootCmd builds the loanstage command tree. Each call returns fresh
// commands with their own flag state.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "loanstage",
		Short: "Synthetic lending data generator and incremental warehouse loader",
		Long: `loanstage generates synthetic bank clients with loans and payments,
splits them into cumulative parts and loads the parts one at a time into a
PostgreSQL warehouse with staging, core and mart layers.

Typical workflow:
  loanstage generate --num-clients 1000
  loanstage split --parts 5
  loanstage shema
  loanstage load --part 1
  loanstage load --all --resume

Configuration precedence: flag > environment (.env is loaded) > loanstage.yaml > default.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or feature file
  11 - Database connection failed
  13 - SQL execution failed
  14 - Raw or part files missing
  15 - Part requested out of sequence`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output for all commands")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log output format: text|json")
	pf.StringVar(&g.features, "features", "",
		"Feature configuration YAML (default: $LOANSTAGE_FEATURES, loanstage.yaml, built-in)")
	pf.StringVar(&g.scriptsDir, "scripts-dir", "",
		"Directory whose .sql files override the built-in scripts by name")
	pf.DurationVar(&g.timeout, "timeout", loanstage.DefaultTimeout,
		"Catastrophic failure protection timeout for the whole command")

	root.AddCommand(
		newGenerateCmd(g),
		newSplitCmd(g),
		newSchemaCmd(g),
		newLoadCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return NewRootCmd().Execute()
}
