package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Completer using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGeminiProvider initializes a Gemini client for the given model.
// Extra client options are appended after the API key (endpoint overrides, HTTP clients).
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, opts ...option.ClientOption) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Ask for JSON output; the normalizer still strips fences when the model ignores this.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.4)

	return &GeminiProvider{
		client: client,
		model:  model,
		name:   modelName,
	}, nil
}

// Model returns the model identifier used for every call.
func (p *GeminiProvider) Model() string { return p.name }

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// Complete sends the prompt, plus the image when present, and joins the text
// parts of the first candidate.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	parts := []genai.Part{genai.Text(req.Prompt)}
	if req.Image != nil {
		parts = append(parts, genai.Blob{MIMEType: req.Image.MIMEType, Data: req.Image.Data})
	}

	resp, err := p.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
