// Package services – Notifier
//
// This file implements the notification fan-out that follows a successful
// lead insert: an operator notification email and, when enabled, a thank-you
// autoresponse to the submitter. Both sends are best-effort side effects:
// failures are logged and absorbed here, never returned to the handler, so
// the HTTP outcome already decided by persistence cannot change.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/mailer"
	"github.com/tbourn/go-leads-backend/internal/sysutil"
)

// subjectCaser title-cases the lead's name for the notification subject
// ("jane doe" -> "Jane Doe").
var subjectCaser = cases.Title(language.English)

// Notifier dispatches post-persistence emails through a Mailer (usually a
// mailer.Chain). All fields are set once at wiring time.
type Notifier struct {
	Mail mailer.Mailer

	SiteName      string // display name for From headers and footers
	SiteHost      string // hostname used for the noreply sender address
	OperatorEmail string // where "new lead" notifications go
	Autoresponder bool   // send the thank-you email to the submitter
}

// Dispatch runs the full fan-out for lead: operator notification first, then
// the autoresponse. Every failure is logged and swallowed; Dispatch never
// fails the caller.
func (n *Notifier) Dispatch(ctx context.Context, lead *domain.Lead) {
	if err := n.notifyOperator(ctx, lead); err != nil {
		log.Error().
			Err(err).
			Str("lead_id", lead.ID).
			Msg("failed to send notification email")
	} else {
		log.Info().Str("lead_id", lead.ID).Msg("notification email sent")
	}

	if !n.Autoresponder || lead.Email == "" {
		return
	}
	if err := n.autorespond(ctx, lead); err != nil {
		log.Error().
			Err(err).
			Str("lead_id", lead.ID).
			Str("to", sysutil.MaskEmail(lead.Email)).
			Msg("failed to send autoresponder")
	}
}

// notifyOperator emails the configured operator address with every submitted
// field in fixed order.
func (n *Notifier) notifyOperator(ctx context.Context, lead *domain.Lead) error {
	return n.Mail.Send(ctx, mailer.Email{
		From:    n.fromAddress(),
		To:      n.OperatorEmail,
		Subject: fmt.Sprintf("New Lead: %s", subjectCaser.String(lead.Name)),
		Text:    notificationBody(lead, n.SiteName),
	})
}

// autorespond thanks the submitter for reaching out.
func (n *Notifier) autorespond(ctx context.Context, lead *domain.Lead) error {
	return n.Mail.Send(ctx, mailer.Email{
		From:    n.fromAddress(),
		To:      lead.Email,
		Subject: "Thank you for contacting us!",
		Text:    autoresponderBody(lead, n.SiteName),
	})
}

// fromAddress builds the `"Site Name" <noreply@host>` sender header.
func (n *Notifier) fromAddress() string {
	name := sysutil.FirstNonEmpty(n.SiteName, "Lead Form")
	host := sysutil.FirstNonEmpty(n.SiteHost, "example.com")
	return fmt.Sprintf("%q <noreply@%s>", name, host)
}

// notificationBody renders the operator email. Field order is fixed so the
// operator's inbox filters keep working: name, email, phone, source, message.
func notificationBody(lead *domain.Lead, siteName string) string {
	phone := lead.Phone
	if phone == "" {
		phone = "Not provided"
	}

	var b strings.Builder
	b.WriteString("New lead submission:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Phone: %s\n", phone)
	fmt.Fprintf(&b, "Source: %s\n", lead.Source)
	fmt.Fprintf(&b, "\nMessage:\n%s\n", lead.Message)
	fmt.Fprintf(&b, "\n---\nSent from %s", sysutil.FirstNonEmpty(siteName, "Lead Form"))
	return b.String()
}

// autoresponderBody renders the thank-you email for the submitter.
func autoresponderBody(lead *domain.Lead, siteName string) string {
	return fmt.Sprintf(
		"Hi %s,\n\nThank you for reaching out. We've received your message and will get back to you as soon as possible.\n\nBest regards,\nThe %s",
		lead.Name,
		sysutil.FirstNonEmpty(siteName, "Team"),
	)
}
