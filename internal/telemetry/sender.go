package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/riluq/flutter/internal/db"
)

// HTTPSender posts event batches as JSON to the collection endpoint. An
// empty endpoint makes every send a no-op, which keeps local development
// runs from dialing out.
type HTTPSender struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPSender(endpoint string) *HTTPSender {
	return &HTTPSender{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type wireEvent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Payload   string `json:"payload,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (s *HTTPSender) Send(ctx context.Context, events []db.Event) error {
	if s.Endpoint == "" {
		return nil
	}

	batch := make([]wireEvent, len(events))
	for i, e := range events {
		batch[i] = wireEvent{
			ID:        e.ID,
			Name:      e.Name,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}
	body, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry endpoint returned %s", resp.Status)
	}
	return nil
}
