package main

import (
	"github.com/spf13/cobra"

	"github.com/jo-hoe/goprofile/internal/core"
)

func newUserCommand(loadConfig func() (*core.ServiceConfig, error)) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	userCmd.AddCommand(&cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			coreService, err := core.NewCoreService(config)
			if err != nil {
				return err
			}
			defer func() { _ = coreService.Close() }()

			user, err := coreService.CreateUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("created user %q with id %d\n", user.Username, user.ID)
			return nil
		},
	})

	return userCmd
}
