package main

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigFlagsBeatEnv(t *testing.T) {
	for _, key := range envFlags {
		t.Setenv(key, "")
	}
	t.Setenv("TRIPWISE_BENCH_BASE_URL", "http://env.example:8000/")
	t.Setenv("TRIPWISE_BENCH_CONCURRENCY", "4")
	t.Setenv("TRIPWISE_BENCH_STRICT", "true")

	cfg, err := parseConfig(newFlagSet(), []string{"-concurrency", "8"})
	require.NoError(t, err)
	assert.Equal(t, "http://env.example:8000", cfg.BaseURL)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 3*time.Minute, cfg.Timeout)
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	for _, key := range envFlags {
		t.Setenv(key, "")
	}
	t.Setenv("TRIPWISE_BENCH_TIMEOUT", "soon")

	_, err := parseConfig(newFlagSet(), nil)
	assert.ErrorContains(t, err, "TRIPWISE_BENCH_TIMEOUT")
}

func TestSummary(t *testing.T) {
	s := Summarize([]Result{{Status: StatusPass}, {Status: StatusPending}, {Status: StatusSkip}})
	assert.Equal(t, "PASS=1 FAIL=0 PENDING=1 SKIP=1", s.String())
	assert.True(t, s.OK(false))
	assert.False(t, s.OK(true))
	assert.False(t, Summarize([]Result{{Status: StatusFail}}).OK(false))
}
