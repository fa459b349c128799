package main

import (
	"context"
	"log/slog"
	"os"

	"cost-seer/cli"
	"cost-seer/logging"
)

func main() {
	logger := logging.NewLogger(os.Stderr, slog.LevelInfo)
	if err := cli.Execute(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
