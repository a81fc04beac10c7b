package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/morria/spectrum-analyzer/cmd/spectrograph/app"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.Parse()

	config, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %s\n", err.Error())
		os.Exit(1)
	}

	level, err := config.Settings.SlogLevel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	// The terminal belongs to the display; logs go to a file.
	logFile, err := os.OpenFile(config.Settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %s\n", err.Error())
		os.Exit(1)
	}
	defer logFile.Close()

	var logLevel slog.LevelVar
	logLevel.Set(level)
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: &logLevel}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err = app.Run(ctx, config, logger); err != nil {
		logger.Error(err.Error())
		fmt.Fprintln(os.Stderr, err.Error())

		cancel()
		os.Exit(1)
	}
}
