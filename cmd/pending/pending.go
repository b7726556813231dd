// Package pending implements the pending command for listing reviews that need a build.
package pending

import (
	"fmt"
	"log/slog"

	"github.com/alan/reviewbot/cmd"
	"github.com/alan/reviewbot/internal/commands"
	"github.com/spf13/cobra"
)

// PendingCommand encapsulates the pending command with common functionality
type PendingCommand struct {
	commands.BaseCommand
	PeriodHours int64
	OnlyMine    bool
	Repository  string
}

// NewPendingCmd creates and returns the pending command
func NewPendingCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	pendingCmd := &PendingCommand{}

	command := &cobra.Command{
		Use:   "pending",
		Short: "List pending reviews with a fresh diff and no build comment yet",
		Long: `Pending fetches the server's pending review requests, keeps the ones
updated within the recency window of the most recent one, and drops any
review this account already commented on after its latest diff upload.

Requires REVIEWBOARD_PASSWORD environment variable to be set.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			pendingCmd.ConfigFile = globalConfigFile
			pendingCmd.LoadConfig = loadConfig
			if err := pendingCmd.Init(); err != nil {
				return err
			}

			return pendingCmd.Run()
		},
	}

	command.Flags().Int64VarP(&pendingCmd.PeriodHours, "period-hours", "p", 0, "Recency window in hours (defaults to the config value, then 1)")
	command.Flags().BoolVar(&pendingCmd.OnlyMine, "only-mine", false, "Only reviews assigned to the configured account")
	command.Flags().StringVarP(&pendingCmd.Repository, "repository", "r", "", "Only reviews in this repository (by name, case-insensitive)")

	return command
}

// Run executes the pending command
func (pc *PendingCommand) Run() error {
	defer pc.Connection.Close()

	repoID := -1
	repository := pc.Repository
	if repository == "" {
		repository = pc.Config.Repository
	}
	if repository != "" {
		catalog, err := pc.Connection.Repositories(pc.Context)
		if err != nil {
			return fmt.Errorf("failed to fetch repository catalog: %w", err)
		}
		id, ok := catalog.Lookup(repository)
		if !ok {
			return fmt.Errorf("repository %q is not known to the server", repository)
		}
		repoID = id
	}

	period := determinePeriod(pc.PeriodHours, pc.Config.PeriodHours)
	onlyMine := pc.OnlyMine || pc.Config.OnlyMine

	reviews, err := pc.Connection.PendingReviews(pc.Context, period, onlyMine, repoID)
	if err != nil {
		return err
	}
	defer pc.Connection.Logout(pc.Context)

	slog.Info("Fetched pending reviews", "count", len(reviews), "period_hours", period)

	if len(reviews) == 0 {
		fmt.Println("No reviews need a build.")
		return nil
	}
	for _, r := range reviews {
		fmt.Printf("%s branch=%s repository=%s uploaded=%s\n",
			r.URL, r.Branch, r.Repository, r.LastUpload.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// determinePeriod picks the recency window: the flag wins, then the
// config file, then one hour.
func determinePeriod(flagHours, configHours int64) int64 {
	if flagHours != 0 {
		return flagHours
	}
	if configHours != 0 {
		return configHours
	}
	return 1
}
