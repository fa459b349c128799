// Package cli defines the costseer command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cost-seer/logging"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// Options stores global CLI options shared between commands.
type Options struct {
	EnvFile  string
	LogLevel string
	User     string
	Email    string
	Output   string

	// logLevelSet records an explicit --log-level, which beats COSTSEER_LOG_LEVEL.
	logLevelSet bool
}

// Execute builds the root command, runs it with args and returns any error.
func Execute(ctx context.Context, args []string, stdout io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, slog.LevelInfo)
	}
	cmd := newRootCommand(&Options{}, logger)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "costseer",
		Short:         "costseer estimates software project cost",
		Long:          "costseer turns project parameters into a cost estimate and keeps a per-user history of saved estimates.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.Output {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q", opts.Output)
			}
			if cmd.Flags().Changed("log-level") {
				opts.logLevelSet = true
				logger = logging.NewLogger(os.Stderr, logging.ParseLevel(opts.LogLevel))
			}
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "Path to a .env file with COSTSEER_* settings")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.User, "user", os.Getenv("COSTSEER_USER"), "User id that owns saved estimates")
	cmd.PersistentFlags().StringVar(&opts.Email, "email", "", "Email of the user")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", outputText, "Output format (text, json, yaml)")

	cmd.AddCommand(
		newServeCommand(opts),
		newLanguagesCommand(opts),
		newEstimateCommand(opts),
		newSessionCommand(opts),
		newHistoryCommand(opts),
		newDeleteCommand(opts),
		newTokenCommand(opts),
	)
	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// loggerFromContext extracts the command logger or falls back to a default one.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return logging.NewLogger(os.Stderr, slog.LevelInfo)
}
