package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/riluq/flutter/internal/boot"
	"github.com/riluq/flutter/internal/cli"
	"github.com/riluq/flutter/internal/crash"
	"github.com/riluq/flutter/internal/db"
	"github.com/riluq/flutter/internal/doctor"
	"github.com/riluq/flutter/internal/hooks"
	"github.com/riluq/flutter/internal/settings"
	"github.com/riluq/flutter/internal/telemetry"
	"github.com/riluq/flutter/internal/version"
)

func main() {
	args := os.Args[1:]
	verbose := hasVerboseFlag(args)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	newRuntime(logger, verbose).Run(context.Background(), args)
}

// newRuntime wires the real collaborators. Tests build their own Runtime
// with fakes instead of calling this.
func newRuntime(logger *slog.Logger, verbose bool) *boot.Runtime {
	shutdownHooks := hooks.New()

	// A missing or unopenable store degrades telemetry and settings to
	// defaults; it never blocks running commands.
	var store *db.DB
	if dataDir, err := db.DataDir(); err == nil {
		if opened, err := db.Open(dataDir); err == nil {
			store = opened
			shutdownHooks.Register(func(ctx context.Context) error {
				return store.Close()
			})
		} else {
			logger.Debug("could not open data store", "error", err)
		}
	}

	config := settings.NewStore(store)
	sender := telemetry.NewHTTPSender(os.Getenv("FLUTTER_TELEMETRY_ENDPOINT"))
	tel := telemetry.New(store, config, sender, logger, settings.BotEnvironment())

	resolved := version.Resolve(os.Getenv("FLUTTER_VERSION_OVERRIDE"))
	diagnostics := doctor.New()

	var notifier crash.Notifier
	if n, err := crash.NewSentryNotifier(os.Getenv("FLUTTER_CRASH_DSN")); err == nil {
		notifier = n
	} else {
		logger.Debug("crash notifier unavailable", "error", err)
	}

	reporter := &crash.Reporter{
		FS:          crash.NewFileSystem(),
		Notifier:    notifier,
		Diagnostics: diagnostics,
		Version:     func() string { return resolved },
		TelemetryEnabled: func() bool {
			if !tel.Enabled() {
				return false
			}
			enabled, err := config.GetBool(settings.KeyCrashReporting)
			return err == nil && enabled
		},
		RecordException: tel.RecordException,
		Logger:          logger,
	}

	registry := cli.New(cli.Deps{
		Settings:  config,
		Telemetry: tel,
		Doctor:    diagnostics,
		Version:   resolved,
	})

	return &boot.Runtime{
		Runner: &boot.Runner{
			Registry: registry,
			Logger:   logger,
		},
		Crash: reporter,
		Sequencer: &boot.Sequencer{
			Telemetry: tel,
			Hooks:     shutdownHooks,
			Logger:    logger,
			Exit:      os.Exit,
		},
		Logger:  logger,
		Verbose: verbose,
	}
}

func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
