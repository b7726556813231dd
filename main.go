// package main is the entry point for the reviewbot tool
package main

import (
	"log/slog"
	"os"

	configcmd "github.com/alan/reviewbot/cmd/config"
	"github.com/alan/reviewbot/cmd/diff"
	"github.com/alan/reviewbot/cmd/pending"
	"github.com/alan/reviewbot/cmd/post"
	"github.com/alan/reviewbot/cmd/props"
	"github.com/alan/reviewbot/cmd/repos"
	"github.com/alan/reviewbot/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	var configFile string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "reviewbot",
		Short: "A CLI tool for finding ReviewBoard reviews that need an automated build",
		Long: `reviewbot talks to a ReviewBoard server's REST/XML API to discover
pending review requests that have not yet been handled by this account,
and to report build outcomes back as review comments.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "reviewbot.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	// Create commands with access to the global config file
	rootCmd.AddCommand(configcmd.NewConfigCmd(&configFile, config.LoadConfig, config.SaveConfig))
	rootCmd.AddCommand(pending.NewPendingCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(post.NewPostCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(repos.NewReposCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(props.NewPropsCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(diff.NewDiffCmd(&configFile, config.LoadConfig))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}
