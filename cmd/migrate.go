package cmd

import (
	"fmt"

	"raffler/database"

	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.MigrateUp(loadedConfig.GetDatabaseURL())
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one step by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := "1"
				if len(args) == 1 {
					steps = args[0]
				}
				return database.MigrateDown(loadedConfig.GetDatabaseURL(), steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := database.GetMigrationStatus(loadedConfig.GetDatabaseURL())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !status.Applied {
					fmt.Fprintln(out, "No migrations applied")
					return nil
				}
				fmt.Fprintf(out, "Version: %d\nDirty: %t\n", status.Version, status.Dirty)
				return nil
			},
		},
	)

	return migrateCmd
}
