package ai

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFenceStrippingIsTransparent(t *testing.T) {
	fenced, err := Normalize("```json\n{\"a\":1}\n```")
	require.NoError(t, err)
	plain, err := Normalize(`{"a":1}`)
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, plain)
}

func TestNormalizeVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{name: "bare fence", raw: "```\n[1,2]\n```", want: []any{json.Number("1"), json.Number("2")}},
		{name: "surrounding whitespace", raw: "\n\n  {\"ok\":true}  \n", want: map[string]any{"ok": true}},
		{name: "fence without newline", raw: "```json{\"k\":\"v\"}```", want: map[string]any{"k": "v"}},
		{name: "string value", raw: `"hello"`, want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejectsNonJSON(t *testing.T) {
	for _, raw := range []string{"hello world", "", "```json\n```", `{"a":1} trailing`, `{"a":`} {
		_, err := Normalize(raw)
		require.Error(t, err, raw)

		var perr *ParseError
		assert.True(t, errors.As(err, &perr), raw)
		assert.ErrorIs(t, err, ErrMalformedJSON)
		assert.NotErrorIs(t, err, ErrUpstreamUnavailable)
	}
}

func TestNormalizeDoesNotValidateShape(t *testing.T) {
	got, err := Normalize(`{"unexpected":"shape"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"unexpected": "shape"}, got)
}

func TestNormalizeIntoTypedDestination(t *testing.T) {
	var out struct {
		Days []string `json:"days"`
	}
	require.NoError(t, NormalizeInto("```json\n{\"days\":[\"a\",\"b\"]}\n```", &out))
	assert.Equal(t, []string{"a", "b"}, out.Days)
}
