package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"saldo/internal/cli"
	"saldo/internal/log"
)

func main() {
	cli.LoadEnvFile()

	// Command output goes to stdout; logs stay on stderr and quiet by default.
	logCfg := log.Config{Level: slog.LevelWarn, Format: log.FormatText, Component: log.ComponentCLI, Output: os.Stderr}
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && os.Getenv("LOG_LEVEL") != "" {
		logCfg.Level = level
	}
	logger := log.New(logCfg)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	cmdr := subcommands.NewCommander(flag.CommandLine, "saldo")
	cmdr.Register(cmdr.HelpCommand(), "")
	cmdr.Register(cmdr.FlagsCommand(), "")
	cmdr.Register(cmdr.CommandsCommand(), "")
	cli.Register(cmdr, &cli.App{
		Store:     res.Store,
		Publisher: res.Publisher,
		Currency:  cfg.Currency,
		Version:   cfg.AppVersion,
		Logger:    logger,
		Render:    cli.TerminalRenderer(100),
	})

	flag.Parse()
	status := cmdr.Execute(ctx)
	if res.Cleanup != nil {
		if err := res.Cleanup(); err != nil {
			logger.Warn("Backend cleanup error", log.FieldError, err)
		}
	}
	os.Exit(int(status))
}
