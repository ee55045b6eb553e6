package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvka-141/loanstage/internal/dataset"
	"github.com/vvka-141/loanstage/internal/services"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

type splitFlagValues struct {
	parts    int
	rawDir   string
	partsDir string
}

func newSplitCmd(g *globalFlags) *cobra.Command {
	f := &splitFlagValues{}

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split raw data into cumulative parts",
		Long: `Split orders loans by start date and writes part_1 .. part_N folders.
Part i holds the first i*(total/N+1) loans with their payments and clients,
so every part contains all of the previous one and the last part holds everything.

Existing part_* folders are removed first.

Examples:
  loanstage split
  loanstage split --parts 10 --parts-dir /tmp/parts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, g, f)
		},
	}

	cmd.Flags().IntVar(&f.parts, "parts", loanstage.DefaultParts, "Number of cumulative parts")
	cmd.Flags().StringVar(&f.rawDir, "raw-dir", "",
		"Raw input directory (default: $RAW_DIR, loanstage.yaml, "+loanstage.DefaultRawDir+")")
	cmd.Flags().StringVar(&f.partsDir, "parts-dir", "",
		"Output directory for part folders (default: $SPLIT_DIR, loanstage.yaml, "+loanstage.DefaultPartsDir+")")
	return cmd
}

func runSplit(cmd *cobra.Command, g *globalFlags, f *splitFlagValues) error {
	rc, err := loadRuntimeConfig(cmd, g)
	if err != nil {
		return err
	}

	store := dataset.NewStore(rc.rawDir(f.rawDir), rc.partsDir(f.partsDir))
	if _, err := services.NewSplitService(store, rc.logger).Run(f.parts); err != nil {
		return err
	}
	rc.logger.Info("Parts written to %s", store.PartsDir)
	return nil
}
