// Lead submission HTTP handler.
//
// This file exposes the REST endpoint for the lead-capture form:
//   - POST /api/submit
//
// The handler is transport-thin: it decodes the payload, delegates to the
// LeadService, translates service errors into HTTP results, and — only after
// a successful insert — hands the stored lead to the Notifier. Notification
// failures are absorbed inside the Notifier and can never change the
// response.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/config"
	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/http/middleware"
	"github.com/tbourn/go-leads-backend/internal/services"
	"github.com/tbourn/go-leads-backend/internal/sysutil"
)

// LeadSubmitter is the service dependency for persisting a submission.
type LeadSubmitter interface {
	Submit(ctx context.Context, sub services.Submission) (*domain.Lead, error)
}

// LeadNotifier dispatches post-persistence emails. Implementations swallow
// their own failures.
type LeadNotifier interface {
	Dispatch(ctx context.Context, lead *domain.Lead)
}

// Handlers bundles the dependencies of all HTTP endpoints.
type Handlers struct {
	cfg    config.Config
	leads  LeadSubmitter
	notify LeadNotifier
}

// New wires the handler set.
func New(cfg config.Config, leads LeadSubmitter, notify LeadNotifier) *Handlers {
	return &Handlers{cfg: cfg, leads: leads, notify: notify}
}

// SubmitRequest is the JSON payload of the lead-capture form. The legacy
// embed script sends source_url instead of source; both are accepted, with
// source winning when both are present.
type SubmitRequest struct {
	Name      string `json:"name" example:"Jane Doe"`
	Email     string `json:"email" example:"jane@example.com"`
	Phone     string `json:"phone,omitempty" example:"+1 212 555 0100"`
	Message   string `json:"message" example:"I'd like a quote."`
	Source    string `json:"source,omitempty" example:"website"`
	SourceURL string `json:"source_url,omitempty" example:"https://example.com/pricing"`
}

// Submit godoc
// @ID          submitLead
// @Summary     Submit a lead-capture form
// @Description Validates the submission, stores it, and sends notification emails.
// @Tags        Leads
// @Accept      json
// @Produce     json
// @Param       body body handlers.SubmitRequest true "Form payload"
// @Success     200 {object} handlers.Response "Stored"
// @Failure     400 {object} handlers.Response "Malformed JSON or field errors"
// @Failure     403 {object} handlers.Response "Origin not allowed"
// @Failure     409 {object} handlers.Response "Already submitted"
// @Failure     429 {object} handlers.Response "Rate limited"
// @Failure     500 {object} handlers.Response "Configuration or store failure"
// @Router      /api/submit [post]
func (h *Handlers) Submit(c *gin.Context) {
	lg := middleware.LoggerFrom(c)

	// The router refuses to start without required settings, but a guard here
	// keeps the contract honest for embedders that wire the handler directly.
	if missing := h.cfg.MissingRequired(); len(missing) > 0 {
		lg.Error().Strs("missing", missing).Msg("missing required configuration")
		fail(c, http.StatusInternalServerError, MsgServerConfig)
		return
	}

	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		fail(c, http.StatusBadRequest, MsgNoBody)
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, MsgInvalidJSON)
		return
	}

	sub := services.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Source:  sysutil.FirstNonEmpty(req.Source, req.SourceURL),
	}

	lead, err := h.leads.Submit(c.Request.Context(), sub)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			middleware.ObserveSubmission("validation_failed")
			failValidation(c, ve.Fields)
		case errors.Is(err, services.ErrDuplicateSubmission):
			middleware.ObserveSubmission("duplicate")
			lg.Warn().Str("email", sysutil.MaskEmail(req.Email)).Msg("duplicate submission")
			fail(c, http.StatusConflict, MsgDuplicate)
		default:
			middleware.ObserveSubmission("store_error")
			lg.Error().Err(err).Msg("failed to save lead")
			fail(c, http.StatusInternalServerError, MsgInternal)
		}
		return
	}

	middleware.ObserveSubmission("accepted")
	lg.Info().Str("lead_id", lead.ID).Msg("lead saved")

	// Persistence decided the outcome; the fan-out cannot change it.
	h.notify.Dispatch(c.Request.Context(), lead)

	ok(c, MsgSubmitted)
}
