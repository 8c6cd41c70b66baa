package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icyphotoget/perfume/internal/config"
	natsqueue "github.com/icyphotoget/perfume/internal/infrastructure/queue/nats"
	"github.com/icyphotoget/perfume/internal/infrastructure/resilience"
)

func newNotifyCmd(c *cli) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Publish a catalog.updated event so running services reload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := publishCatalogUpdated(cmd, c.cfg, reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", c.cfg.NATSSubject)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "manual", "reason recorded in the event")
	return cmd
}

func publishCatalogUpdated(cmd *cobra.Command, cfg config.Config, reason string) error {
	retry := false
	conn, err := natsqueue.Connect(cfg.NATSURL, natsqueue.Options{Name: "perfumectl", RetryOnFailedConnect: &retry})
	if err != nil {
		return err
	}
	defer conn.Close()

	executor := resilience.NewExecutor(cfg.Resilience())
	publisher := natsqueue.NewPublisher(conn, cfg.NATSSubject, executor)
	return publisher.PublishCatalogUpdated(commandContext(cmd), reason)
}
