// README: Completion usage ledger; one row per AI call, written best effort.
package usage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const writeTimeout = 2 * time.Second

// Service records completion calls. A Service without a store is a no-op,
// which is how the ledger runs when no database is configured.
type Service struct {
	store *Store
	log   *zap.Logger
}

// NewService creates a Service. store may be nil.
func NewService(store *Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Enabled() bool { return s != nil && s.store != nil }

// Record writes r. Failures are logged and never returned: the ledger must
// not fail the request it describes.
func (s *Service) Record(ctx context.Context, r Record) {
	if !s.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := s.store.Insert(ctx, r); err != nil {
		s.log.Warn("usage record failed",
			zap.String("endpoint", r.Endpoint),
			zap.String("outcome", r.Outcome),
			zap.Error(err))
	}
}

func (s *Service) Stats(ctx context.Context, since time.Time) ([]EndpointStats, error) {
	if !s.Enabled() {
		return nil, nil
	}
	return s.store.Stats(ctx, since)
}
