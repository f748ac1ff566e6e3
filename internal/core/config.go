package core

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/jo-hoe/goprofile/internal/backend/imageprocessing"
)

const (
	defaultPort             = 8080
	defaultDatabaseType     = "sqlite"
	defaultConnectionString = "sqlite:///users.db"
	defaultUploadFolder     = "uploads"
	defaultMaxContentLength = 16 * 1024 * 1024
	defaultMaxFileSize      = 5 * 1024 * 1024
)

// CommandConfig represents a generic command configuration
type CommandConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}

type Database struct {
	Type             string `yaml:"type" env:"DATABASE_TYPE" validate:"required"`
	ConnectionString string `yaml:"connectionString" env:"DATABASE_URL" validate:"required"`
}

type Cache struct {
	Type    string        `yaml:"type" env:"CACHE_TYPE" validate:"omitempty,oneof=none redis"`
	Address string        `yaml:"address" env:"REDIS_ADDR"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL"`
}

type ServiceConfig struct {
	Port             int             `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
	Database         Database        `yaml:"database"`
	UploadFolder     string          `yaml:"uploadFolder" env:"UPLOAD_FOLDER" validate:"required"`
	MaxContentLength int64           `yaml:"maxContentLength" env:"MAX_CONTENT_LENGTH" validate:"min=1"`
	MaxFileSize      int64           `yaml:"maxFileSize" env:"MAX_FILE_SIZE" validate:"min=1"`
	Cache            Cache           `yaml:"cache"`
	Commands         []CommandConfig `yaml:"commands"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port: defaultPort,
		Database: Database{
			Type:             defaultDatabaseType,
			ConnectionString: defaultConnectionString,
		},
		UploadFolder:     defaultUploadFolder,
		MaxContentLength: defaultMaxContentLength,
		MaxFileSize:      defaultMaxFileSize,
	}
}

// LoadConfig reads the YAML file at configPath on top of the defaults and then
// applies environment overrides. An empty configPath skips the file.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if config.Cache.Type == "redis" && config.Cache.Address == "" {
		return nil, errors.New("invalid configuration: cache.address is required for redis")
	}
	if err := validateCommands(config.Commands); err != nil {
		return nil, fmt.Errorf("invalid command configuration: %w", err)
	}

	return config, nil
}

// ImageCommands converts the configured commands for the image processing package
func (c *ServiceConfig) ImageCommands() []imageprocessing.CommandConfig {
	configs := make([]imageprocessing.CommandConfig, 0, len(c.Commands))
	for _, cmd := range c.Commands {
		configs = append(configs, imageprocessing.CommandConfig{Name: cmd.Name, Params: cmd.Params})
	}
	return configs
}

// validateCommands ensures all command configurations have required fields
// and that the chain always ends in a JPEG encode.
func validateCommands(commands []CommandConfig) error {
	if len(commands) == 0 {
		return nil
	}

	for i, cmd := range commands {
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}
		if !imageprocessing.DefaultRegistry.IsRegistered(cmd.Name) {
			return fmt.Errorf("unknown command at index %d: %s (available: %s)",
				i, cmd.Name, strings.Join(imageprocessing.DefaultRegistry.GetRegisteredNames(), ", "))
		}
	}

	if last := commands[len(commands)-1].Name; last != imageprocessing.JpegEncoderCommandName {
		return fmt.Errorf("last command must be %s, got %s", imageprocessing.JpegEncoderCommandName, last)
	}

	return nil
}
