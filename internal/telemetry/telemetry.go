// Package telemetry accumulates anonymous usage events in the tool's
// database and flushes them, best effort, during shutdown sequencing.
package telemetry

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/riluq/flutter/internal/db"
	"github.com/riluq/flutter/internal/settings"
)

const welcomeNotice = `
Welcome to Flutter!

Anonymous usage statistics and crash reports are sent to help improve the
tool. To disable reporting, run: flutter config set analytics.enabled false
`

const keyWelcomeShown = "welcome.shown"

// Sender delivers a batch of events to the collection endpoint.
type Sender interface {
	Send(ctx context.Context, events []db.Event) error
}

// Telemetry is the process-wide accumulator. Events are written to the
// pending queue as they happen and drained exactly once, at shutdown.
type Telemetry struct {
	store      *db.DB
	config     *settings.Store
	sender     Sender
	logger     *slog.Logger
	suppressed bool
}

// New builds the accumulator. suppressed marks an automated environment;
// it forces Enabled to false regardless of the user's opt-in setting.
func New(store *db.DB, config *settings.Store, sender Sender, logger *slog.Logger, suppressed bool) *Telemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Telemetry{
		store:      store,
		config:     config,
		sender:     sender,
		logger:     logger,
		suppressed: suppressed,
	}
}

// Enabled reports whether events may be collected and flushed this run.
func (t *Telemetry) Enabled() bool {
	if t == nil || t.suppressed || t.store == nil {
		return false
	}
	enabled, err := t.config.GetBool(settings.KeyAnalyticsEnabled)
	if err != nil {
		return false
	}
	return enabled
}

// Record queues one named event and bumps its persistent usage counter.
// Recording failures are logged, never surfaced to the command.
func (t *Telemetry) Record(name string, fields map[string]string) {
	if !t.Enabled() {
		return
	}
	payload := ""
	if len(fields) > 0 {
		raw, err := json.Marshal(fields)
		if err != nil {
			t.logger.Debug("dropping telemetry payload", "event", name, "error", err)
		} else {
			payload = string(raw)
		}
	}
	event := db.Event{
		ID:        newEventID(),
		Name:      name,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := t.store.EnqueueEvent(event); err != nil {
		t.logger.Debug("failed to queue telemetry event", "event", name, "error", err)
		return
	}
	if err := t.store.IncrementCounter(name); err != nil {
		t.logger.Debug("failed to bump usage counter", "event", name, "error", err)
	}
}

// RecordException queues an exception event carrying the failure summary.
func (t *Telemetry) RecordException(err error) {
	if err == nil {
		return
	}
	t.Record("exception", map[string]string{
		"error": err.Error(),
		"type":  fmt.Sprintf("%T", err),
	})
}

// Flush sends every pending event and removes the delivered ones. The
// caller bounds it with ctx; an expired context abandons the batch in the
// queue for a later run.
func (t *Telemetry) Flush(ctx context.Context) error {
	if t == nil || t.store == nil || t.sender == nil {
		return nil
	}
	events, err := t.store.PendingEvents()
	if err != nil {
		return fmt.Errorf("loading pending events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}
	if err := t.sender.Send(ctx, events); err != nil {
		return fmt.Errorf("sending %d events: %w", len(events), err)
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return t.store.DeleteEvents(ids)
}

// ShowWelcome prints the first-run notice once per installation.
func (t *Telemetry) ShowWelcome(w io.Writer) error {
	if t == nil || t.store == nil {
		return nil
	}
	shown, err := t.store.GetSetting(keyWelcomeShown)
	if err != nil {
		return err
	}
	if shown == "true" {
		return nil
	}
	if _, err := fmt.Fprint(w, welcomeNotice+"\n"); err != nil {
		return err
	}
	return t.store.SetSetting(keyWelcomeShown, "true")
}

func newEventID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
