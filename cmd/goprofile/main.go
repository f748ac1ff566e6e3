package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/goprofile/internal/core"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "goprofile",
		Short:        "User listing and profile photo service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (defaults to $CONFIG_PATH or ./config.yaml)")

	loadConfig := func() (*core.ServiceConfig, error) {
		path := getConfigPath(configPath)
		config, err := core.LoadConfig(path)
		if err != nil {
			slog.Error("failed to load config", "path", path, "error", err)
			return nil, err
		}
		return config, nil
	}

	root.AddCommand(
		newServeCommand(loadConfig),
		newMigrateCommand(loadConfig),
		newUserCommand(loadConfig),
	)
	return root
}

// getConfigPath resolves the flag, then CONFIG_PATH, then config.yaml in the
// working directory. It returns "" when nothing is configured and no default file exists.
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	defaultPath := filepath.Join(cwd, "config.yaml")
	if _, err := os.Stat(defaultPath); errors.Is(err, os.ErrNotExist) {
		return ""
	}
	return defaultPath
}
