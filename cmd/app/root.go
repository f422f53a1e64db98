package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"atelier/cmd"

	"github.com/spf13/cobra"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type commandContext struct {
	envFile string

	once   sync.Once
	config cmd.Config
	err    error
}

func (c *commandContext) ensureConfig() (cmd.Config, error) {
	c.once.Do(func() {
		c.config, c.err = cmd.LoadConfig(c.envFile)
	})
	return c.config, c.err
}

func (c *commandContext) logger() *slog.Logger {
	cfg, _ := c.ensureConfig()
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// openDB connects gorm to the configured database. Gorm's own logger only reports errors.
func (c *commandContext) openDB() (*gorm.DB, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(gorm_postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "atelier",
		Short:         "Garment production workflow service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&ctx.envFile, "env-file", "e", ".env", "Environment file to load if present")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newWorkerCommand(ctx))
	return rootCmd
}
