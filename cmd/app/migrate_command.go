package main

import (
	"atelier/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(command *cobra.Command, _ []string) error {
			db, err := ctx.openDB()
			if err != nil {
				return err
			}
			if err = postgres.Migrate(command.Context(), db); err != nil {
				return err
			}
			command.Println("Schema is up to date")
			return nil
		},
	}
}
