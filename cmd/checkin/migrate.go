package main

import (
	"github.com/spf13/cobra"

	"qrcheckin/internal/repository/postgres"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := postgres.Migrate(cmd.Context(), a.db); err != nil {
				return err
			}
			a.logger.Info("schema applied")
			return nil
		},
	}
}
