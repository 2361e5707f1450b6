// Package mailer – Postmark client.
//
// Postmark is the optional fallback provider, used only when Resend refuses a
// message and a server token is configured.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const postmarkBaseURL = "https://api.postmarkapp.com"

// postmarkPayload mirrors the POST /email request body.
type postmarkPayload struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody,omitempty"`
	HTMLBody string `json:"HtmlBody,omitempty"`
}

// PostmarkClient sends email through the Postmark HTTP API.
type PostmarkClient struct {
	token   string
	baseURL string
	httpc   *http.Client
}

// PostmarkOption customizes a PostmarkClient.
type PostmarkOption func(*PostmarkClient)

// WithPostmarkBaseURL overrides the API endpoint (used by tests).
func WithPostmarkBaseURL(u string) PostmarkOption {
	return func(c *PostmarkClient) { c.baseURL = u }
}

// NewPostmark builds a client authenticated with a server token.
func NewPostmark(token string, opts ...PostmarkOption) *PostmarkClient {
	c := &PostmarkClient{
		token:   token,
		baseURL: postmarkBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Mailer.
func (c *PostmarkClient) Name() string { return "postmark" }

// Send implements Mailer via POST /email with the X-Postmark-Server-Token header.
func (c *PostmarkClient) Send(ctx context.Context, e Email) error {
	body, err := json.Marshal(postmarkPayload{
		From:     e.From,
		To:       e.To,
		Subject:  e.Subject,
		TextBody: e.Text,
		HTMLBody: e.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("postmark: status %d: %s", resp.StatusCode, readExcerpt(resp.Body))
	}
	return nil
}
