package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// GuardConfig bounds every upstream call. MaxRetries counts extra attempts
// after the first one; only unavailable and quota failures are retried.
type GuardConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 8 * time.Second
)

// Budget is the longest a guarded Complete call can run: every attempt hits
// the timeout and every wait between attempts is the capped backoff. Zero
// means unbounded (no per-attempt timeout).
func (c GuardConfig) Budget() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	retries := max(c.MaxRetries, 0)
	maxBackoff := c.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	return time.Duration(retries+1)*c.Timeout + time.Duration(retries)*maxBackoff
}

// Guarded wraps a Completer with a per-attempt timeout and capped exponential backoff.
type Guarded struct {
	next  Completer
	cfg   GuardConfig
	sleep func(ctx context.Context, d time.Duration) error
}

func NewGuarded(next Completer, cfg GuardConfig) *Guarded {
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Guarded{next: next, cfg: cfg, sleep: sleepCtx}
}

func (g *Guarded) Complete(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := g.sleep(ctx, g.backoff(attempt, lastErr)); err != nil {
				return "", lastErr
			}
		}

		text, err := g.once(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			return "", err
		}
	}
	return "", lastErr
}

func (g *Guarded) once(ctx context.Context, req Request) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	text, err := g.next.Complete(ctx, req)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrUpstreamUnavailable) {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
	}
	return text, err
}

func (g *Guarded) backoff(attempt int, lastErr error) time.Duration {
	d := g.cfg.InitialBackoff << (attempt - 1)
	if hint := retryDelay(lastErr); hint > d {
		d = hint
	}
	if d <= 0 || d > g.cfg.MaxBackoff {
		d = g.cfg.MaxBackoff
	}
	return d
}

func retryable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrUpstreamQuota)
}

// retryDelayRegex matches "Please retry in 12.5s" / "retryDelay: 12s" hints in quota errors.
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

func retryDelay(err error) time.Duration {
	if err == nil || !errors.Is(err, ErrUpstreamQuota) {
		return 0
	}
	m := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return 0
	}
	secs, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
