package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvka-141/loanstage/internal/db"
	"github.com/vvka-141/loanstage/internal/services"
)

type schemaFlagValues struct {
	conn           db.ConnFlags
	createDatabase bool
}

func newSchemaCmd(g *globalFlags) *cobra.Command {
	f := &schemaFlagValues{}

	cmd := &cobra.Command{
		Use:     "shema",
		Aliases: []string{"schema"},
		Short:   "Create the staging, core and mart schemas",
		Long: `Shema runs create_schemas, create_staging_tables, create_core_tables and
create_datamart_table in order. Every script uses IF NOT EXISTS, so running
it again against an initialized warehouse changes nothing.

Examples:
  loanstage shema -d loans
  loanstage shema --connection postgresql://user@localhost/postgres -d loans --create-database`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, g, f)
		},
	}

	addConnectionFlags(cmd, &f.conn)
	cmd.Flags().BoolVar(&f.createDatabase, "create-database", false,
		"Create the warehouse database first if it does not exist")
	return cmd
}

func runSchema(cmd *cobra.Command, g *globalFlags, f *schemaFlagValues) error {
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

	ctx, cancel, err := rc.context()
	if err != nil {
		return err
	}
	defer cancel()

	if f.createDatabase {
		if err := rc.ensureDatabase(ctx, settings); err != nil {
			return err
		}
	}

	conn, err := rc.connect(ctx, settings)
	if err != nil {
		return err
	}
	defer conn.Close()

	wh := db.NewWarehouse(conn.Pool, catalog, rc.logger)
	return services.NewSchemaService(wh, rc.logger).Create(ctx)
}
