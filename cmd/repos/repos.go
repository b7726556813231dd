// Package repos implements the repos command for listing the server's repository catalog.
package repos

import (
	"fmt"
	"log/slog"

	"github.com/alan/reviewbot/cmd"
	"github.com/alan/reviewbot/internal/commands"
	"github.com/spf13/cobra"
)

// ReposCommand encapsulates the repos command with common functionality
type ReposCommand struct {
	commands.BaseCommand
}

// NewReposCmd creates and returns the repos command
func NewReposCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	reposCmd := &ReposCommand{}

	command := &cobra.Command{
		Use:   "repos",
		Short: "List the repositories known to the server",
		Long: `Repos walks the server's paginated repository listing and prints
each repository's name and id, sorted case-insensitively. The names are
accepted by the pending command's --repository filter.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			reposCmd.ConfigFile = globalConfigFile
			reposCmd.LoadConfig = loadConfig
			if err := reposCmd.Init(); err != nil {
				return err
			}

			return reposCmd.Run()
		},
	}

	return command
}

// Run executes the repos command
func (rc *ReposCommand) Run() error {
	defer rc.Connection.Close()

	catalog, err := rc.Connection.Repositories(rc.Context)
	if err != nil {
		return fmt.Errorf("failed to fetch repository catalog: %w", err)
	}

	slog.Info("Fetched repository catalog", "count", catalog.Len())

	if catalog.Len() == 0 {
		fmt.Println("No repositories found.")
		return nil
	}
	for _, name := range catalog.Names() {
		id, _ := catalog.Lookup(name)
		fmt.Printf("%s (id %d)\n", name, id)
	}
	return nil
}
