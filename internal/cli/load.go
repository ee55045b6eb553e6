package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/loanstage/internal/dataset"
	"github.com/vvka-141/loanstage/internal/db"
	"github.com/vvka-141/loanstage/internal/services"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

type loadFlagValues struct {
	conn     db.ConnFlags
	part     int
	all      bool
	resume   bool
	partsDir string
}

func newLoadCmd(g *globalFlags) *cobra.Command {
	f := &loadFlagValues{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load parts into the warehouse",
		Long: `Load stages one part (--part N) or every part in numeric order (--all)
into staging, moves it into core and refreshes mart.data_mart.

Parts must be loaded in sequence: part_1 first, then exactly the part after
the last one loaded. The last loaded part is read from the file names tagged
on staging.clients. With --all --resume, parts already loaded are skipped.

Examples:
  loanstage load --part 1 -d loans
  loanstage load --all --resume --connection postgresql://user@localhost/loans`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if f.resume && !f.all {
				return fmt.Errorf("invalid argument: --resume requires --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, g, f)
		},
	}

	addConnectionFlags(cmd, &f.conn)
	cmd.Flags().IntVar(&f.part, "part", 0, "Part number to load")
	cmd.Flags().BoolVar(&f.all, "all", false, "Load every part folder in numeric order")
	cmd.Flags().BoolVar(&f.resume, "resume", false, "With --all, skip parts that are already loaded")
	cmd.Flags().StringVar(&f.partsDir, "parts-dir", "",
		"Directory holding part folders (default: $SPLIT_DIR, loanstage.yaml, "+loanstage.DefaultPartsDir+")")
	cmd.MarkFlagsMutuallyExclusive("part", "all")
	cmd.MarkFlagsOneRequired("part", "all")
	return cmd
}

func runLoad(cmd *cobra.Command, g *globalFlags, f *loadFlagValues) error {
	rc, err := loadRuntimeConfig(cmd, g)
	if err != nil {
		return err
	}

	settings, err := rc.settings(&f.conn)
	if err != nil {
		return err
	}
	catalog, err := rc.scripts()
	if err != nil {
		return err
	}
	store := dataset.NewStore("", rc.partsDir(f.partsDir))

	// Fail on missing files before opening a connection.
	if !f.all {
		if f.part < 1 {
			return fmt.Errorf("--part must be at least 1, got %d: %w", f.part, loanstage.ErrConfiguration)
		}
		if _, err := store.PartFiles(f.part); err != nil {
			return err
		}
	}

	ctx, cancel, err := rc.context()
	if err != nil {
		return err
	}
	defer cancel()

	conn, err := rc.connect(ctx, settings)
	if err != nil {
		return err
	}
	defer conn.Close()

	loader := services.NewLoadService(db.NewWarehouse(conn.Pool, catalog, rc.logger), store, rc.logger)
	if f.all {
		return loader.LoadAll(ctx, f.resume)
	}
	return loader.LoadPart(ctx, f.part)
}
