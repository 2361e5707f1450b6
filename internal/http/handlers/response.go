// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response envelope shared by all endpoints. Every
// body has the same shape:
//
//	{ "success": bool, "message": "...", "errors": { "fieldErrors": {...} } }
//
// where message and errors are each optional. Field-level validation detail
// only ever appears on 400 responses; everything else carries a single
// human-readable message that is safe to show to visitors. Internal causes
// are logged server-side by fail() and never serialized.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/http/middleware"
)

// FieldErrors groups validation messages per field, in submission order.
type FieldErrors struct {
	// FieldErrors maps a JSON field name to one or more messages,
	// e.g. {"email": ["Invalid email address"]}.
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// Response is the envelope returned by every endpoint.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty" example:"Form submitted successfully"`
	Errors  *FieldErrors `json:"errors,omitempty"`
}

// fail aborts the request with a structured error and logs server-side errors.
//
// Server errors (>=500) are logged with the request-scoped logger; the body
// only ever carries the provided user-safe message.
func fail(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, Response{Success: false, Message: msg})
}

// Fail is the exported variant of fail(). External packages (e.g., router
// setup) call it to return consistent envelopes without depending on
// unexported helpers.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }

// failValidation writes a 400 with the per-field error map and no message,
// mirroring the envelope browsers already consume.
func failValidation(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Success: false,
		Errors:  &FieldErrors{FieldErrors: fields},
	})
}

// ok writes a success envelope with the given message.
func ok(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: msg})
}
