package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvka-141/loanstage/internal/dataset"
	"github.com/vvka-141/loanstage/internal/generator"
	"github.com/vvka-141/loanstage/internal/services"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

type generateFlagValues struct {
	numClients int
	startDate  string
	seed       uint64
	rawDir     string
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	f := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate raw clients, loans and payments",
		Long: `Generate creates synthetic clients with 1 to 5 loans each and one payment
per monthly installment, and writes clients.json, loans.json and payments.json
into the raw directory, replacing existing files.

Client attributes and their risk contributions come from the feature
configuration (--features). Loan start dates fall between --start-date and today.

Examples:
  loanstage generate
  loanstage generate --num-clients 5000 --start-date 2021-01-01
  loanstage generate --seed 42 --raw-dir /tmp/raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, f)
		},
	}

	cmd.Flags().IntVar(&f.numClients, "num-clients", loanstage.DefaultNumClients, "Number of clients to generate")
	cmd.Flags().StringVar(&f.startDate, "start-date", "",
		"Earliest loan start date, YYYY-MM-DD\n"+
			"Precedence: --start-date > $START_LOAN_DATE > loanstage.yaml > "+loanstage.DefaultStartLoanDate)
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed for reproducible output, 0 included (default: random)")
	cmd.Flags().StringVar(&f.rawDir, "raw-dir", "",
		"Output directory (default: $RAW_DIR, loanstage.yaml, "+loanstage.DefaultRawDir+")")
	return cmd
}

func runGenerate(cmd *cobra.Command, g *globalFlags, f *generateFlagValues) error {
	rc, err := loadRuntimeConfig(cmd, g)
	if err != nil {
		return err
	}

	features, err := rc.features()
	if err != nil {
		return err
	}
	earliest, err := rc.startDate(f.startDate)
	if err != nil {
		return err
	}

	var opts []generator.Option
	if cmd.Flags().Changed("seed") {
		opts = append(opts, generator.WithSeed(f.seed))
	}
	gen := generator.New(features, rc.logger, opts...)
	store := dataset.NewStore(rc.rawDir(f.rawDir), "")

	ctx, cancel, err := rc.context()
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := services.NewGenerateService(gen, store, rc.logger).Run(ctx, f.numClients, earliest); err != nil {
		return err
	}
	rc.logger.Info("Raw data written to %s", store.RawDir)
	return nil
}
