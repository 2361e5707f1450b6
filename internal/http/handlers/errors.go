// Package handlers defines the user-facing messages returned by the API.
//
// These strings are part of the contract with the browser form: the
// client-side script matches on them, so changing one is a breaking change.
// Internal error detail never appears here.
package handlers

const (
	// MsgSubmitted acknowledges a stored lead.
	MsgSubmitted = "Form submitted successfully"
	// MsgInvalidJSON covers unreadable or non-JSON request bodies.
	MsgInvalidJSON = "Invalid JSON data"
	// MsgNoBody covers requests without any payload.
	MsgNoBody = "No form data provided"
	// MsgDuplicate covers the unique-email conflict.
	MsgDuplicate = "You have already submitted this form"
	// MsgInvalidOrigin covers cross-origin posts from unapproved sites.
	MsgInvalidOrigin = "Invalid origin"
	// MsgRateLimited covers the advisory per-client limit.
	MsgRateLimited = "Too many requests. Please try again later."
	// MsgServerConfig covers missing required configuration.
	MsgServerConfig = "Server configuration error"
	// MsgInternal is the generic failure message; real causes stay in logs.
	MsgInternal = "An error occurred while processing your submission"
)
