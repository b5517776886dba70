package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// ParseError reports model output that is still not JSON after fence stripping.
type ParseError struct {
	Cleaned string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrMalformedJSON }

// StripFences removes every Markdown code-fence marker and trims the result.
func StripFences(raw string) string {
	return strings.TrimSpace(fenceReplacer.Replace(raw))
}

// Normalize strips code fences from raw model text and decodes it as a JSON
// value. Numbers are kept as json.Number. The shape is not checked: any
// syntactically valid JSON value is accepted.
func Normalize(raw string) (any, error) {
	var v any
	if err := NormalizeInto(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// NormalizeInto is Normalize with a caller-provided destination.
func NormalizeInto(raw string, v any) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return &ParseError{Cleaned: cleaned, Err: errors.New("empty output")}
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &ParseError{Cleaned: cleaned, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &ParseError{Cleaned: cleaned, Err: errors.New("unexpected data after JSON value")}
	}
	return nil
}
