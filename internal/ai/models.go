package ai

import "errors"

// Request is a single completion call. Image is nil for text-only prompts.
type Request struct {
	Prompt string
	Image  *Image
}

// Image is raw binary image data with its MIME type (e.g. "image/png").
type Image struct {
	Data     []byte
	MIMEType string
}

var (
	// ErrUpstreamUnavailable covers network failures, timeouts and 5xx answers.
	ErrUpstreamUnavailable = errors.New("completion service unavailable")
	// ErrUpstreamAuth is returned when the provider rejects the API key.
	ErrUpstreamAuth = errors.New("completion service rejected credentials")
	// ErrUpstreamQuota is returned on 429 / RESOURCE_EXHAUSTED answers.
	ErrUpstreamQuota = errors.New("completion service quota exceeded")
	// ErrEmptyResponse is returned when the provider answered without usable text.
	ErrEmptyResponse = errors.New("completion service returned no text")
	// ErrMalformedJSON matches every *ParseError produced by Normalize.
	ErrMalformedJSON = errors.New("model output is not valid JSON")
)
