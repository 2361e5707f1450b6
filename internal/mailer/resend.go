// Package mailer – Resend client.
//
// Resend (https://resend.com) is the primary delivery provider. Its API is a
// single JSON POST; the client below wraps it with a bounded timeout and
// surfaces non-2xx responses as errors carrying a truncated body excerpt for
// server-side logs.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendBaseURL = "https://api.resend.com"

// resendPayload mirrors the POST /emails request body.
type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// ResendOption customizes a ResendClient.
type ResendOption func(*ResendClient)

// WithResendBaseURL overrides the API endpoint (used by tests).
func WithResendBaseURL(u string) ResendOption {
	return func(c *ResendClient) { c.baseURL = u }
}

// WithResendHTTPClient overrides the underlying HTTP client.
func WithResendHTTPClient(h *http.Client) ResendOption {
	return func(c *ResendClient) { c.httpc = h }
}

// NewResend builds a client authenticated with apiKey.
func NewResend(apiKey string, opts ...ResendOption) *ResendClient {
	c := &ResendClient{
		apiKey:  apiKey,
		baseURL: resendBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Mailer.
func (c *ResendClient) Name() string { return "resend" }

// Send implements Mailer via POST /emails with a Bearer token.
func (c *ResendClient) Send(ctx context.Context, e Email) error {
	body, err := json.Marshal(resendPayload{
		From:    e.From,
		To:      []string{e.To},
		Subject: e.Subject,
		Text:    e.Text,
		HTML:    e.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode, readExcerpt(resp.Body))
	}
	return nil
}

// readExcerpt drains up to 512 bytes of a provider error body for log detail.
func readExcerpt(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(bytes.TrimSpace(b))
}
