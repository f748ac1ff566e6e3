package main

import (
	"github.com/spf13/cobra"

	"github.com/jo-hoe/goprofile/internal/backend/database"
	"github.com/jo-hoe/goprofile/internal/core"
)

func newMigrateCommand(loadConfig func() (*core.ServiceConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			// NewDatabase ensures the schema exists
			db, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
			if err != nil {
				return err
			}
			cmd.Println("database schema is up to date")
			return db.Close()
		},
	}
}
