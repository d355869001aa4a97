package main

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command of the checkin binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "checkin",
		Short:         "Event registration and QR check-in service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewExportCommand())

	return cmd
}
