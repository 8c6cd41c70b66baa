package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icyphotoget/perfume/internal/bootstrap"
	"github.com/icyphotoget/perfume/internal/infrastructure/repository/sqlcatalog"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the catalog schema migrations to the configured SQL database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dialect, err := sqlDialect(c.cfg.CatalogSource)
			if err != nil {
				return err
			}
			cfg := c.cfg
			cfg.AutoMigrate = true

			ctx := commandContext(cmd)
			_, db, err := bootstrap.OpenSQLCatalog(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := sqlcatalog.MigrationVersion(ctx, db, dialect)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s catalog schema at version %d\n", dialect, version)
			return nil
		},
	}
}

func sqlDialect(source string) (sqlcatalog.Dialect, error) {
	switch source {
	case "postgres":
		return sqlcatalog.DialectPostgres, nil
	case "sqlite":
		return sqlcatalog.DialectSQLite, nil
	default:
		return "", fmt.Errorf("catalog_source=%s is not a SQL catalog, use postgres or sqlite", source)
	}
}
