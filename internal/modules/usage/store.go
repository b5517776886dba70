package usage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles completion_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, r Record) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO completion_usage (endpoint, provider, model, latency_ms, outcome)
		VALUES ($1, $2, $3, $4, $5)
	`, r.Endpoint, r.Provider, r.Model, r.Latency.Milliseconds(), r.Outcome)
	return err
}

// Stats groups calls made since the given time by endpoint. A failure is
// any outcome other than OutcomeOK.
func (s *Store) Stats(ctx context.Context, since time.Time) ([]EndpointStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT endpoint,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE outcome <> $2),
		       COALESCE(AVG(latency_ms), 0)::float8
		FROM completion_usage
		WHERE created_at >= $1
		GROUP BY endpoint
		ORDER BY endpoint
	`, since, OutcomeOK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EndpointStats
	for rows.Next() {
		var st EndpointStats
		if err := rows.Scan(&st.Endpoint, &st.Calls, &st.Failures, &st.AvgLatencyMS); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
