package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"tripwise/internal/config"
)

func TestServerWriteTimeoutCoversGuardedCompletion(t *testing.T) {
	var cfg config.Config
	cfg.AI.Timeout = 60 * time.Second
	cfg.AI.MaxRetries = 2
	cfg.Places.Timeout = 15 * time.Second

	// Three 60s attempts with two capped waits, behind a 15s route lookup.
	wt := serverWriteTimeout(cfg)
	assert.Greater(t, wt, 3*time.Minute+16*time.Second+15*time.Second)

	srv := provideServer(cfg, nil, zap.NewNop())
	assert.Equal(t, wt, srv.WriteTimeout())

	cfg.AI.Timeout = 0
	assert.Zero(t, serverWriteTimeout(cfg))
}
