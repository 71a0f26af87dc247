package main

import (
	"log/slog"
	"os"
)

func main() {
	// bootstrap-логгер (используется только до сборки основного slog-логгера)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	if err := newRootCmd(bootstrapLogger).Execute(); err != nil {
		bootstrapLogger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
