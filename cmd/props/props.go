// Package props implements the props command for showing a review's build-relevant metadata.
package props

import (
	"fmt"
	"sort"

	"github.com/alan/reviewbot/cmd"
	"github.com/alan/reviewbot/internal/commands"
	"github.com/spf13/cobra"
)

// PropsCommand encapsulates the props command with common functionality
type PropsCommand struct {
	commands.BaseCommand
}

// NewPropsCmd creates and returns the props command
func NewPropsCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	propsCmd := &PropsCommand{}

	command := &cobra.Command{
		Use:   "props <review-url-or-id>",
		Short: "Show the branch and repository of a review",
		Long: `Props fetches the review-request detail and prints the key/value
pairs the build orchestrator consumes: REVIEW_BRANCH (defaulted to
"master") and REVIEW_REPOSITORY (defaulted to "unknown").`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			propsCmd.ConfigFile = globalConfigFile
			propsCmd.LoadConfig = loadConfig
			if err := propsCmd.Init(); err != nil {
				return err
			}

			return propsCmd.Run(args[0])
		},
	}

	return command
}

// Run executes the props command
func (pc *PropsCommand) Run(reviewArg string) error {
	defer pc.Connection.Close()

	reviewURL, err := pc.Connection.ResolveReviewURL(reviewArg)
	if err != nil {
		return err
	}

	props, err := pc.Connection.Properties(pc.Context, reviewURL)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, props[k])
	}
	return nil
}
