// ==================================
// File: cmd/farmd/main.go
// ==================================
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/hashfarm/hashfarm/internal/daemon"
)

func main() {
	configPath := flag.String("config", "configs/farmd.yaml", "path to the daemon config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	logger.Info("Starting hashfarm daemon")

	runner := daemon.NewRunner(logger)
	if err := runner.Initialize(*configPath); err != nil {
		logger.Error("Failed to initialize daemon", zap.Error(err))
		os.Exit(1)
	}

	if err := runner.Run(ctx); err != nil {
		logger.Error("Daemon exited with error", zap.Error(err))
		os.Exit(1)
	}
}
