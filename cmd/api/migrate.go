package main

import (
	"fmt"
	"strconv"

	"github.com/GunarsK-portfolio/paper-repository/internal/database"
	"github.com/spf13/cobra"
)

func init() {
	MigrateCommand.AddCommand(&MigrateUpCommand)
	MigrateCommand.AddCommand(&MigrateDownCommand)
	MigrateCommand.AddCommand(&MigrateVersionCommand)
	RootCmd.AddCommand(&MigrateCommand)
}

var MigrateCommand = cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long:  "Apply or roll back the embedded versioned migrations",
}

var MigrateUpCommand = cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrateUp()
	},
}

var MigrateDownCommand = cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations, one step by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("steps should be an integer: %w", err)
			}
			steps = n
		}

		return withMigrator(func(m *database.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			log.WithField("steps", steps).Info("migrations rolled back")
			return nil
		})
	},
}

var MigrateVersionCommand = cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			cmd.Printf("version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func migrateUp() error {
	return withMigrator(func(m *database.Migrator) error {
		if err := m.Up(); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	})
}

func withMigrator(fn func(m *database.Migrator) error) error {
	m, err := database.NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.WithError(err).Warn("failed to close migrator")
		}
	}()
	return fn(m)
}
