// Package commands provides common initialization shared by all reviewbot commands.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alan/reviewbot/cmd"
	"github.com/alan/reviewbot/internal/reviewboard"
)

// BaseCommand provides common fields and initialization for all commands
type BaseCommand struct {
	ConfigFile *string
	LoadConfig func(string) (*cmd.Config, error)
	Connection *reviewboard.Connection
	Context    context.Context
	Config     *cmd.Config
}

// Init initializes the base command with common setup
func (bc *BaseCommand) Init() error {
	// Load configuration
	config, err := bc.LoadConfig(*bc.ConfigFile)
	if err != nil {
		return err
	}
	bc.Config = config

	if config.URL == "" {
		return fmt.Errorf("config is missing the ReviewBoard server url")
	}
	if _, err := reviewboard.SplitHostPort(config.URL); err != nil {
		return fmt.Errorf("invalid ReviewBoard server url: %w", err)
	}
	if config.Username == "" {
		return fmt.Errorf("config is missing the ReviewBoard username")
	}

	// Credentials come from the environment, never from the config file
	password, err := getPassword()
	if err != nil {
		return err
	}

	bc.Context = context.Background()
	bc.Connection = reviewboard.New(config.URL, config.Username, password)

	return nil
}

// getPassword retrieves and validates the ReviewBoard password
func getPassword() (string, error) {
	password := os.Getenv("REVIEWBOARD_PASSWORD")
	if password == "" {
		return "", fmt.Errorf("REVIEWBOARD_PASSWORD environment variable is required")
	}
	return password, nil
}
