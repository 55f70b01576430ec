package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riluq/flutter/internal/boot"
	"github.com/riluq/flutter/internal/cli"
	"github.com/riluq/flutter/internal/crash"
	"github.com/riluq/flutter/internal/db"
	"github.com/riluq/flutter/internal/doctor"
	"github.com/riluq/flutter/internal/hooks"
	"github.com/riluq/flutter/internal/settings"
	"github.com/riluq/flutter/internal/telemetry"
)

type healthyValidator struct{}

func (healthyValidator) Title() string { return "Host" }
func (healthyValidator) Validate(ctx context.Context) doctor.Result {
	return doctor.Result{Status: doctor.StatusOK, Summary: "healthy"}
}

type harness struct {
	rt       *boot.Runtime
	crashDir string
	out      bytes.Buffer
	errOut   bytes.Buffer
}

// newHarness assembles the full pipeline the way main does, with every
// process-touching collaborator pointed at test doubles or temp dirs.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{crashDir: t.TempDir()}

	store, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(&h.errOut, nil))
	config := settings.NewStore(store)
	tel := telemetry.New(store, config, telemetry.NewHTTPSender(""), logger, false)
	diagnostics := doctor.NewWithValidators(healthyValidator{})

	abortCmd := &cobra.Command{
		Use: "abort",
		RunE: func(cmd *cobra.Command, args []string) error {
			return &boot.ToolExit{Message: "deliberate stop", Code: 3}
		},
	}
	crashCmd := &cobra.Command{
		Use: "explode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("unclassified failure")
		},
	}

	registry := cli.New(cli.Deps{
		Settings:  config,
		Telemetry: tel,
		Doctor:    diagnostics,
		Version:   "0.0.1",
		Out:       &h.out,
		Err:       &h.errOut,
	}, abortCmd, crashCmd)

	reporter := &crash.Reporter{
		FS:          crash.NewFileSystem(),
		Dir:         h.crashDir,
		FallbackDir: t.TempDir(),
		Diagnostics: diagnostics,
		Version:     func() string { return "0.0.1" },
		Out:         &h.out,
		Err:         &h.errOut,
		Logger:      logger,
	}

	h.rt = &boot.Runtime{
		Runner: &boot.Runner{Registry: registry, Logger: logger},
		Crash:  reporter,
		Sequencer: &boot.Sequencer{
			Telemetry: tel,
			Hooks:     hooks.New(),
			Logger:    logger,
			Out:       &h.out,
		},
		Logger: logger,
		Err:    &h.errOut,
	}
	return h
}

func (h *harness) crashReports(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(h.crashDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "flutter_crash_") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestDoctorInvocationSucceeds(t *testing.T) {
	h := newHarness(t)
	code := h.rt.Run(context.Background(), []string{"doctor"})
	assert.Equal(t, 0, code)
	assert.Contains(t, h.out.String(), "Host")
}

func TestBogusFlagIsUsageError(t *testing.T) {
	h := newHarness(t)
	code := h.rt.Run(context.Background(), []string{"--bogus-flag"})
	assert.Equal(t, 64, code)
	assert.Contains(t, h.errOut.String(), "Run 'flutter --help'")
	assert.Empty(t, h.crashReports(t))
}

func TestDeliberateAbortKeepsItsCode(t *testing.T) {
	h := newHarness(t)
	code := h.rt.Run(context.Background(), []string{"abort"})
	assert.Equal(t, 3, code)
	assert.Contains(t, h.errOut.String(), "deliberate stop")
	assert.Empty(t, h.crashReports(t), "controlled exits write no crash report")
}

func TestUnclassifiedFailureWritesOneCrashReport(t *testing.T) {
	h := newHarness(t)
	code := h.rt.Run(context.Background(), []string{"explode"})
	assert.Equal(t, 1, code)

	reports := h.crashReports(t)
	require.Len(t, reports, 1)

	data, err := os.ReadFile(filepath.Join(h.crashDir, reports[0]))
	require.NoError(t, err)
	assert.Contains(t, string(data), "flutter explode")
	assert.Contains(t, string(data), "unclassified failure")

	assert.Contains(t, h.out.String(), "bug report")
}

func TestHasVerboseFlag(t *testing.T) {
	assert.True(t, hasVerboseFlag([]string{"doctor", "-v"}))
	assert.True(t, hasVerboseFlag([]string{"--verbose"}))
	assert.False(t, hasVerboseFlag([]string{"doctor"}))
}
