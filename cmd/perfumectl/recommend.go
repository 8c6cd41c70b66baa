package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
)

func newRecommendCmd(c *cli) *cobra.Command {
	var (
		answers     []string
		vibes       []string
		limit       int
		offline     bool
		showProfile bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the catalog against answers and vibes and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			app, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			var opts []ports.RecommendOption
			if offline {
				opts = append(opts, ports.WithoutEnrichment())
			}
			rec, err := app.RecommendUC.Recommend(ctx, domain.RecommendRequest{
				FreeTextAnswers:       answers,
				SelectedCategorySlugs: vibes,
				ResultLimit:           limit,
			}, opts...)
			if err != nil {
				return err
			}
			if !showProfile {
				rec.Profile = nil
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			if stdoutIsTerminal() {
				encoder.SetIndent("", "  ")
			}
			return encoder.Encode(rec)
		},
	}
	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "free-text answer, repeatable")
	cmd.Flags().StringSliceVarP(&vibes, "vibe", "v", nil, "selected vibe slug, repeatable or comma separated")
	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultResultLimit, "maximum number of results")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the language model calls")
	cmd.Flags().BoolVar(&showProfile, "show-profile", false, "include the extracted profile")
	return cmd
}
