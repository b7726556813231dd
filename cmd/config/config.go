// Package config implements the config command for initializing and updating reviewbot configuration.
package config

import (
	"fmt"

	"github.com/alan/reviewbot/cmd"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates and returns the config command
func NewConfigCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) *cobra.Command {
	var (
		url         string
		username    string
		periodHours int64
		repository  string
		onlyMine    bool
	)

	command := &cobra.Command{
		Use:   "config",
		Short: "Initialize or update the reviewbot.yaml configuration file",
		Long: `Config creates or updates the reviewbot.yaml file with the ReviewBoard
server URL, the account reviewbot authenticates as, and the defaults for
the pending command.

The password is never stored; it is read from the REVIEWBOARD_PASSWORD
environment variable at runtime.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runConfig(cobraCmd, *globalConfigFile, url, username, periodHours, repository, onlyMine, loadConfig, saveConfig)
		},
	}

	command.Flags().StringVarP(&url, "url", "u", "", "ReviewBoard server base URL")
	command.Flags().StringVarP(&username, "username", "n", "", "ReviewBoard account name")
	command.Flags().Int64VarP(&periodHours, "period-hours", "p", 0, "Default recency window in hours for the pending command")
	command.Flags().StringVarP(&repository, "repository", "r", "", "Default repository filter for the pending command")
	command.Flags().BoolVar(&onlyMine, "only-mine", false, "Default the pending command to reviews assigned to the account")

	return command
}

// runConfig merges the provided flags over any existing config and saves the result
func runConfig(cobraCmd *cobra.Command, configFile, url, username string, periodHours int64, repository string, onlyMine bool, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) error {
	// Start from the existing file when there is one
	config, err := loadConfig(configFile)
	if err != nil {
		config = &cmd.Config{}
	}

	if url != "" {
		config.URL = url
	}
	if username != "" {
		config.Username = username
	}
	if periodHours != 0 {
		config.PeriodHours = periodHours
	}
	if repository != "" {
		config.Repository = repository
	}
	if cobraCmd.Flags().Changed("only-mine") {
		config.OnlyMine = onlyMine
	}

	if config.URL == "" {
		return fmt.Errorf("a ReviewBoard server url is required (--url)")
	}
	if config.Username == "" {
		return fmt.Errorf("a ReviewBoard username is required (--username)")
	}

	if err := saveConfig(configFile, config); err != nil {
		return err
	}

	fmt.Printf("Configuration saved to %s\n", configFile)
	return nil
}
