// Package discord delivers the assembled report to a Discord-compatible
// webhook endpoint.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Message is the webhook payload: a plain content line and/or rich embeds.
type Message struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

// Embed is one titled block in the webhook payload.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

// EmbedField is a named value inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// EmbedFooter is the small text line under an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// WebhookClient posts messages to a single webhook URL. An empty URL leaves
// the client disabled; callers check Enabled and skip delivery.
type WebhookClient struct {
	client *http.Client
	url    string
}

// NewWebhookClient creates a webhook client. The URL may be empty.
func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		url: url,
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *WebhookClient) Enabled() bool {
	return c.url != ""
}

// Send delivers one message. Any non-2xx status is a delivery failure; the
// caller logs it and moves on, it never rolls back persisted data.
func (c *WebhookClient) Send(ctx context.Context, msg Message) error {
	if !c.Enabled() {
		return fmt.Errorf("webhook URL is not configured")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
