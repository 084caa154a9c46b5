package main

import (
	"log/slog"
	"os"

	"github.com/goliatone/go-views/internal/cli"
	"github.com/goliatone/go-views/internal/logging"
)

func main() {
	logger := logging.NewLogger(os.Stderr, slog.LevelInfo)
	if err := cli.Execute(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
