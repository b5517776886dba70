package ai

import (
	"context"
)

// Completer sends a rendered prompt, optionally with one image, to a
// generative model and returns the raw response text.
// Implementations report failures with the sentinels in models.go.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
