package mailer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubMailer counts sends and returns a fixed error.
type stubMailer struct {
	name  string
	calls int
	err   error
}

func (s *stubMailer) Send(context.Context, Email) error {
	s.calls++
	return s.err
}

func (s *stubMailer) Name() string { return s.name }

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &stubMailer{name: "resend"}
	fallback := &stubMailer{name: "postmark"}
	c := NewChain(primary, fallback)

	if err := c.Send(context.Background(), Email{To: "x@example.com"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if primary.calls != 1 || fallback.calls != 0 {
		t.Errorf("calls = primary %d fallback %d, want 1/0", primary.calls, fallback.calls)
	}
}

func TestChain_FallsBackOnPrimaryFailure(t *testing.T) {
	primary := &stubMailer{name: "resend", err: errors.New("rate limited")}
	fallback := &stubMailer{name: "postmark"}
	c := NewChain(primary, fallback)

	if err := c.Send(context.Background(), Email{To: "x@example.com"}); err != nil {
		t.Fatalf("Send should succeed via fallback: %v", err)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = primary %d fallback %d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestChain_AllProvidersFail(t *testing.T) {
	primary := &stubMailer{name: "resend", err: errors.New("down")}
	fallback := &stubMailer{name: "postmark", err: errors.New("also down")}
	c := NewChain(primary, fallback)

	if err := c.Send(context.Background(), Email{To: "x@example.com"}); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

func TestChain_NoFallbackConfigured(t *testing.T) {
	primary := &stubMailer{name: "resend", err: errors.New("down")}
	c := NewChain(primary, nil)

	if err := c.Send(context.Background(), Email{To: "x@example.com"}); err == nil {
		t.Fatal("expected primary error to propagate without a fallback")
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
}

func TestPostmark_SendPayloadAndToken(t *testing.T) {
	var token, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/email" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		token = r.Header.Get("X-Postmark-Server-Token")
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewPostmark("pm_test_token", WithPostmarkBaseURL(srv.URL))
	err := c.Send(context.Background(), Email{
		From:    "noreply@example.com",
		To:      "leads@example.com",
		Subject: "New Lead",
		Text:    "body",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if token != "pm_test_token" {
		t.Errorf("server token = %q", token)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestPostmark_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewPostmark("bad", WithPostmarkBaseURL(srv.URL))
	if err := c.Send(context.Background(), Email{To: "x@example.com"}); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
