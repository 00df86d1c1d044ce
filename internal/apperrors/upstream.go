package apperrors

import (
	"encoding/json"
	"fmt"
)

// UpstreamError indicates that a call to the remote ledger or the document
// store failed. Message is the plain-string message unwrapped from the
// provider's error envelope; raw provider payloads are never carried.
type UpstreamError struct {
	// Status is the HTTP status returned by the provider, or 0 when the
	// request never produced a response (e.g. timeout).
	Status int
	// Message is a human-readable description safe to surface to callers.
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// providerEnvelope covers the message shapes the platform APIs return.
// Some endpoints use "Message", others "message" or "error"; the error field
// itself is sometimes an object with its own message.
type providerEnvelope struct {
	MessageUpper string          `json:"Message"`
	MessageLower string          `json:"message"`
	Error        json.RawMessage `json:"error"`
}

// NewUpstreamError builds an UpstreamError from a provider response body,
// unwrapping the nested message envelope down to a plain string. When no
// structured message exists it falls back to a generic message carrying the
// HTTP status.
func NewUpstreamError(status int, body []byte) *UpstreamError {
	if msg := extractProviderMessage(body); msg != "" {
		return &UpstreamError{Status: status, Message: msg}
	}
	return &UpstreamError{Status: status, Message: fmt.Sprintf("upstream request failed with status %d", status)}
}

func extractProviderMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var env providerEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		// Plain-text bodies are surfaced as-is.
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			return s
		}
		return ""
	}

	if env.MessageUpper != "" {
		return env.MessageUpper
	}
	if env.MessageLower != "" {
		return env.MessageLower
	}
	if len(env.Error) > 0 {
		// error may be a bare string or a nested envelope with its own message.
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil {
			return s
		}
		if msg := extractProviderMessage(env.Error); msg != "" {
			return msg
		}
	}
	return ""
}
