// Package post implements the post command for reporting a build outcome as a review comment.
package post

import (
	"fmt"
	"log/slog"

	"github.com/alan/reviewbot/cmd"
	"github.com/alan/reviewbot/internal/commands"
	"github.com/spf13/cobra"
)

// PostCommand encapsulates the post command with common functionality
type PostCommand struct {
	commands.BaseCommand
	Message  string
	ShipIt   bool
	Markdown bool
}

// NewPostCmd creates and returns the post command
func NewPostCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	postCmd := &PostCommand{}

	command := &cobra.Command{
		Use:   "post <review-url-or-id>",
		Short: "Post a top-level comment on a review",
		Long: `Post submits a public top-level comment on the given review,
optionally marking "ship it" and optionally tagging the body as markdown.

The review may be given as a canonical URL, a bare id, or any text
containing the review id.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			postCmd.ConfigFile = globalConfigFile
			postCmd.LoadConfig = loadConfig
			if err := postCmd.Init(); err != nil {
				return err
			}

			return postCmd.Run(args[0])
		},
	}

	command.Flags().StringVarP(&postCmd.Message, "message", "m", "", "Comment body")
	command.Flags().BoolVar(&postCmd.ShipIt, "ship-it", false, "Mark the comment as ship-it")
	command.Flags().BoolVar(&postCmd.Markdown, "markdown", false, "Tag the comment body as markdown")
	_ = command.MarkFlagRequired("message")

	return command
}

// Run executes the post command
func (pc *PostCommand) Run(reviewArg string) error {
	defer pc.Connection.Close()

	reviewURL, err := pc.Connection.ResolveReviewURL(reviewArg)
	if err != nil {
		return err
	}

	if !pc.Connection.PostComment(pc.Context, reviewURL, pc.Message, pc.ShipIt, pc.Markdown) {
		return fmt.Errorf("server refused the comment on %s", reviewURL)
	}

	slog.Info("Posted comment", "review", reviewURL, "ship_it", pc.ShipIt)
	fmt.Printf("Posted comment on %s\n", reviewURL)
	return nil
}
