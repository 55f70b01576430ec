package crash

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

// notifyFlushTimeout bounds how long a remote report may hold the crash
// path. The write of the local report matters more than delivery here.
const notifyFlushTimeout = 2 * time.Second

// SentryNotifier sends crash reports to a Sentry project. An empty DSN
// yields a client that drops every event, so construction is safe in
// unconfigured environments.
type SentryNotifier struct {
	client *sentry.Client
}

func NewSentryNotifier(dsn string) (*SentryNotifier, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              dsn,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}
	return &SentryNotifier{client: client}, nil
}

func (n *SentryNotifier) Notify(ctx context.Context, crashErr error, stack []byte, version func() string, commandLine string) error {
	scope := sentry.NewScope()
	scope.SetTag("command_line", commandLine)
	scope.SetTag("tool_version", version())
	scope.SetContext("crash", map[string]any{
		"stack_trace": string(stack),
	})

	n.client.CaptureException(crashErr, &sentry.EventHint{Context: ctx}, scope)
	n.client.Flush(notifyFlushTimeout)
	return nil
}
