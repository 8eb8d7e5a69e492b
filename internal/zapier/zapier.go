// Package zapier formats digests for webhook automations and delivers
// them.
package zapier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"granolad/internal/digest"
)

const callDateLayout = "January 02, 2006 at 03:04 PM"

// Payload is the webhook body. Field names are part of the contract with
// existing automations.
type Payload struct {
	TotalCalls int      `json:"total_calls"`
	Calls      []string `json:"calls"`
}

// FormatCalls renders each digest record as one plain-text block. The
// layout is consumed by field-mapping automations; keep the labels and
// ordering stable.
func FormatCalls(records []digest.DocumentContent) []string {
	calls := make([]string, 0, len(records))
	for _, rec := range records {
		date := rec.CreatedAt
		if t, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
			date = t.Format(callDateLayout)
		}
		calls = append(calls, fmt.Sprintf("Title: %s\nCall date: %s\nEnhanced Notes: %s",
			rec.Title, date, rec.EnhancedNotes))
	}
	return calls
}

// NewPayload wraps formatted calls in the webhook envelope.
func NewPayload(records []digest.DocumentContent) Payload {
	calls := FormatCalls(records)
	return Payload{TotalCalls: len(calls), Calls: calls}
}

// Publisher POSTs digest payloads to a webhook URL.
type Publisher struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

func NewPublisher(webhookURL string, logger *zap.Logger) *Publisher {
	return &Publisher{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, records []digest.DocumentContent) error {
	body, err := json.Marshal(NewPayload(records))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	p.logger.Info("digest published", zap.Int("calls", len(records)))
	return nil
}
