package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/avirtanen/agentlab/cmd"
	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level := logging.ParseLevel(settings.Main.Log.Level)
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(level)

	if err := cmd.RootCommand(settings).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command error: %v\n", err)
		os.Exit(1)
	}
}
