// Package mailer provides transactional email delivery for lead
// notifications. It exposes a small Mailer capability and two concrete HTTP
// clients (Resend, Postmark), plus a Chain that tries the primary provider
// first and falls back to a secondary one.
//
// Delivery here is best-effort by design: callers are expected to log and
// swallow errors rather than fail the request that triggered the email.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-leads-backend/internal/sysutil"
)

// Email is one outbound message. Text and HTML are alternatives; providers
// receive whichever is non-empty (Text preferred when both are set).
type Email struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a single email. Implementations must be safe for concurrent
// use and should honor ctx cancellation on the underlying HTTP call.
type Mailer interface {
	// Send delivers e or returns an error describing why it could not.
	Send(ctx context.Context, e Email) error
	// Name identifies the provider in logs and metrics (e.g. "resend").
	Name() string
}

// emailsSent counts delivery attempts by provider and outcome. Kept at the
// mailer layer so every provider and the chain report through one series.
var emailsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Email delivery attempts by provider and outcome.",
	},
	[]string{"provider", "outcome"},
)

func observe(provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	emailsSent.WithLabelValues(provider, outcome).Inc()
}

// Chain is a Mailer that tries Primary first and, when that fails, the
// optional Fallback. The primary failure is logged at warn level; a message
// counts as delivered if either provider accepts it.
type Chain struct {
	Primary  Mailer
	Fallback Mailer // may be nil
}

// NewChain builds a delivery chain. fallback may be nil, in which case the
// chain degrades to the primary provider alone.
func NewChain(primary, fallback Mailer) *Chain {
	return &Chain{Primary: primary, Fallback: fallback}
}

// Name implements Mailer.
func (c *Chain) Name() string { return "chain" }

// Send implements Mailer. It returns nil as soon as one provider accepts the
// message, and the last provider error when all of them refuse it.
func (c *Chain) Send(ctx context.Context, e Email) error {
	if c.Primary == nil {
		return errors.New("mailer: no primary provider configured")
	}

	err := c.Primary.Send(ctx, e)
	observe(c.Primary.Name(), err)
	if err == nil {
		return nil
	}

	if c.Fallback == nil {
		return fmt.Errorf("mailer: %s failed: %w", c.Primary.Name(), err)
	}

	log.Warn().
		Err(err).
		Str("provider", c.Primary.Name()).
		Str("to", sysutil.MaskEmail(e.To)).
		Msg("primary email provider failed, trying fallback")

	ferr := c.Fallback.Send(ctx, e)
	observe(c.Fallback.Name(), ferr)
	if ferr == nil {
		return nil
	}
	return fmt.Errorf("mailer: %s failed: %w (primary %s: %s)", c.Fallback.Name(), ferr, c.Primary.Name(), err)
}
