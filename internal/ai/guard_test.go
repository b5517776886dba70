package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCompleter struct {
	errs  []error
	text  string
	calls int
}

func (s *scriptedCompleter) Complete(ctx context.Context, _ Request) (string, error) {
	s.calls++
	if s.calls <= len(s.errs) {
		return "", s.errs[s.calls-1]
	}
	return s.text, nil
}

func noSleep(g *Guarded) *Guarded {
	g.sleep = func(context.Context, time.Duration) error { return nil }
	return g
}

func TestGuardedRetriesUnavailable(t *testing.T) {
	next := &scriptedCompleter{errs: []error{ErrUpstreamUnavailable, ErrUpstreamQuota}, text: "{}"}
	g := noSleep(NewGuarded(next, GuardConfig{MaxRetries: 2}))

	text, err := g.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
	assert.Equal(t, 3, next.calls)
}

func TestGuardedDoesNotRetryAuth(t *testing.T) {
	next := &scriptedCompleter{errs: []error{fmt.Errorf("%w: bad key", ErrUpstreamAuth)}, text: "{}"}
	g := noSleep(NewGuarded(next, GuardConfig{MaxRetries: 3}))

	_, err := g.Complete(context.Background(), Request{Prompt: "p"})
	require.ErrorIs(t, err, ErrUpstreamAuth)
	assert.Equal(t, 1, next.calls)
}

func TestGuardedGivesUpAfterMaxRetries(t *testing.T) {
	next := &scriptedCompleter{errs: []error{ErrUpstreamUnavailable, ErrUpstreamUnavailable, ErrUpstreamUnavailable}}
	g := noSleep(NewGuarded(next, GuardConfig{MaxRetries: 1}))

	_, err := g.Complete(context.Background(), Request{Prompt: "p"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, 2, next.calls)
}

type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ Request) (string, error) {
	<-ctx.Done()
	return "", errors.New("stream closed")
}

func TestGuardedTimeoutSurfacesAsUnavailable(t *testing.T) {
	g := NewGuarded(blockingCompleter{}, GuardConfig{Timeout: 10 * time.Millisecond})

	_, err := g.Complete(context.Background(), Request{Prompt: "p"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestGuardedBackoffHonoursRetryHint(t *testing.T) {
	g := NewGuarded(&scriptedCompleter{}, GuardConfig{InitialBackoff: time.Second, MaxBackoff: 30 * time.Second})

	assert.Equal(t, time.Second, g.backoff(1, ErrUpstreamUnavailable))
	assert.Equal(t, 4*time.Second, g.backoff(3, ErrUpstreamUnavailable))

	hinted := fmt.Errorf("%w: Error 429, Please retry in 12.5s.", ErrUpstreamQuota)
	assert.Equal(t, 12500*time.Millisecond, g.backoff(1, hinted))

	assert.Equal(t, 30*time.Second, g.backoff(10, ErrUpstreamUnavailable))
}

func TestGuardBudget(t *testing.T) {
	assert.Equal(t, 3*time.Minute+16*time.Second, GuardConfig{Timeout: time.Minute, MaxRetries: 2}.Budget())
	assert.Equal(t, 10*time.Second, GuardConfig{Timeout: 10 * time.Second}.Budget())
	assert.Equal(t, 2*time.Second+time.Second, GuardConfig{Timeout: time.Second, MaxRetries: 1, MaxBackoff: time.Second}.Budget())
	assert.Zero(t, GuardConfig{MaxRetries: 3}.Budget())
}
