package ai

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Live Gemini checks; they cost quota so they only run when
// TRIPWISE_TEST_GEMINI_KEY is set.
func liveGemini(t *testing.T, key string) *GeminiProvider {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p, err := NewGeminiProvider(ctx, key, "gemini-2.0-flash")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestGeminiLiveJSONReply(t *testing.T) {
	key := os.Getenv("TRIPWISE_TEST_GEMINI_KEY")
	if key == "" {
		t.Skip("TRIPWISE_TEST_GEMINI_KEY not set")
	}
	g := NewGuarded(liveGemini(t, key), GuardConfig{Timeout: 60 * time.Second, MaxRetries: 2})

	raw, err := g.Complete(context.Background(), Request{Prompt: `Reply with the JSON object {"ok": true} and nothing else.`})
	require.NoError(t, err)

	v, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, v)
}

func TestGeminiLiveRejectsBadKey(t *testing.T) {
	if os.Getenv("TRIPWISE_TEST_GEMINI_KEY") == "" {
		t.Skip("TRIPWISE_TEST_GEMINI_KEY not set")
	}
	p := liveGemini(t, "AIza-not-a-real-key")

	_, err := p.Complete(context.Background(), Request{Prompt: "ping"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamAuth)
}
