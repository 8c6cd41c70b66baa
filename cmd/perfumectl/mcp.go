package main

import (
	"github.com/spf13/cobra"

	mcpadapter "github.com/icyphotoget/perfume/internal/adapters/mcp"
)

func newMCPCmd(c *cli) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve recommend_perfumes and list_vibes over MCP stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.app(commandContext(cmd))
			if err != nil {
				return err
			}
			defer app.Close()

			var opts []mcpadapter.Option
			if offline {
				opts = append(opts, mcpadapter.WithOffline())
			}
			return mcpadapter.New(app.RecommendUC, app.CatalogUC, opts...).ServeStdio()
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the language model calls")
	return cmd
}
