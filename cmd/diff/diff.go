// Package diff implements the diff command for fetching a review's latest patch.
package diff

import (
	"fmt"

	"github.com/alan/reviewbot/cmd"
	"github.com/alan/reviewbot/internal/commands"
	"github.com/spf13/cobra"
)

// DiffCommand encapsulates the diff command with common functionality
type DiffCommand struct {
	commands.BaseCommand
}

// NewDiffCmd creates and returns the diff command
func NewDiffCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	diffCmd := &DiffCommand{}

	command := &cobra.Command{
		Use:   "diff <review-url-or-id>",
		Short: "Print the latest uploaded patch of a review",
		Long: `Diff fetches the review's diff set and prints the most recently
uploaded patch as text/x-patch content. A review with no diffs is an
error.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			diffCmd.ConfigFile = globalConfigFile
			diffCmd.LoadConfig = loadConfig
			if err := diffCmd.Init(); err != nil {
				return err
			}

			return diffCmd.Run(args[0])
		},
	}

	return command
}

// Run executes the diff command
func (dc *DiffCommand) Run(reviewArg string) error {
	defer dc.Connection.Close()

	reviewURL, err := dc.Connection.ResolveReviewURL(reviewArg)
	if err != nil {
		return err
	}

	patch, err := dc.Connection.Diff(dc.Context, reviewURL)
	if err != nil {
		return err
	}

	fmt.Print(patch)
	return nil
}
