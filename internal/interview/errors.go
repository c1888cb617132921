package interview

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed action.
type Kind int

const (
	// KindRequest: caller-supplied fields missing or empty. Never reaches the LLM.
	KindRequest Kind = iota + 1
	// KindConfiguration: no credential configured and offline mode is off.
	KindConfiguration
	// KindProvider: transport failure, provider error, or timeout.
	KindProvider
	// KindExtraction: no parseable JSON object in the provider's text.
	KindExtraction
	// KindValidation: JSON parsed but failed the action's shape contract.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindConfiguration:
		return "configuration"
	case KindProvider:
		return "provider"
	case KindExtraction:
		return "extraction"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a kind to the status code returned to API callers.
func (k Kind) HTTPStatus() int {
	if k == KindRequest {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is returned by every Service action that fails.
type Error struct {
	Kind    Kind
	Message string
	// Raw is the verbatim provider text for extraction and validation
	// failures, kept so prompt drift can be diagnosed by hand.
	Raw    string
	HasRaw bool
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNoCredential is the cause of configuration errors.
var ErrNoCredential = errors.New("no API key configured")

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return 0
}

func requestError(err error) *Error {
	return &Error{Kind: KindRequest, Message: err.Error()}
}

func providerError(err error) *Error {
	return &Error{Kind: KindProvider, Message: "Provider error", Err: err}
}

func extractionError(raw string) *Error {
	return &Error{Kind: KindExtraction, Message: "Bad AI response (no JSON object found)", Raw: raw, HasRaw: true}
}

func validationError(msg, raw string) *Error {
	return &Error{Kind: KindValidation, Message: "Bad AI response (" + msg + ")", Raw: raw, HasRaw: true}
}
