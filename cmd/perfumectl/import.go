package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icyphotoget/perfume/internal/bootstrap"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/catalog/file"
)

func newImportCmd(c *cli) *cobra.Command {
	var notify bool
	cmd := &cobra.Command{
		Use:   "import <catalog.yaml|catalog.xlsx>",
		Short: "Replace the SQL catalog with the content of a YAML or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := sqlDialect(c.cfg.CatalogSource); err != nil {
				return err
			}
			source, err := fileSource(args[0])
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			catalog, err := source.Load(ctx)
			if err != nil {
				return err
			}

			repo, db, err := bootstrap.OpenSQLCatalog(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := repo.Replace(ctx, catalog); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d items and %d categories\n", len(catalog.Items), len(catalog.Categories))

			if notify {
				return publishCatalogUpdated(cmd, c.cfg, "import "+filepath.Base(args[0]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&notify, "notify", false, "publish catalog.updated after the import")
	return cmd
}

func fileSource(path string) (ports.CatalogSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return file.NewYAMLSource(path), nil
	case ".xlsx":
		return file.NewXLSXSource(path), nil
	default:
		return nil, fmt.Errorf("unsupported catalog file %s", path)
	}
}
