package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/icyphotoget/perfume/internal/bootstrap"
	"github.com/icyphotoget/perfume/internal/config"
)

type cli struct {
	envFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "perfumectl",
		Short:         "Perfume recommendation tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	root.AddCommand(
		newRecommendCmd(c),
		newMCPCmd(c),
		newMigrateCmd(c),
		newNotifyCmd(c),
		newImportCmd(c),
	)
	return root
}

// load reads the dotenv file, then the layered configuration. Logs go to
// stderr so stdout stays machine readable.
func (c *cli) load(cmd *cobra.Command) error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	bootstrap.SetupLogging(cfg, cmd.ErrOrStderr())
	return nil
}

func (c *cli) app(ctx context.Context) (*bootstrap.App, error) {
	return bootstrap.New(ctx, c.cfg)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
