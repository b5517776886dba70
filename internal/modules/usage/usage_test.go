// README: Usage ledger tests; DB-backed cases skip without TRIPWISE_TEST_DSN.
package usage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/infra"
)

func TestDisabledServiceIsNoop(t *testing.T) {
	svc := NewService(nil, nil)
	assert.False(t, svc.Enabled())

	svc.Record(context.Background(), Record{Endpoint: "generate-itinerary", Outcome: OutcomeOK})
	stats, err := svc.Stats(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Nil(t, stats)

	var nilSvc *Service
	assert.False(t, nilSvc.Enabled())
}

func TestRecordAndStats(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	since := time.Now().Add(-time.Minute)

	svc.Record(ctx, Record{Endpoint: "generate-itinerary", Provider: "gemini", Model: "gemini-2.0-flash", Latency: 100 * time.Millisecond, Outcome: OutcomeOK})
	svc.Record(ctx, Record{Endpoint: "generate-itinerary", Provider: "gemini", Model: "gemini-2.0-flash", Latency: 300 * time.Millisecond, Outcome: OutcomeParseError})
	svc.Record(ctx, Record{Endpoint: "legal-docs", Provider: "gemini", Model: "gemini-2.0-flash", Latency: 50 * time.Millisecond, Outcome: OutcomeUpstreamError})

	stats, err := svc.Stats(ctx, since)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "generate-itinerary", stats[0].Endpoint)
	assert.EqualValues(t, 2, stats[0].Calls)
	assert.EqualValues(t, 1, stats[0].Failures)
	assert.InDelta(t, 200, stats[0].AvgLatencyMS, 0.01)

	assert.Equal(t, "legal-docs", stats[1].Endpoint)
	assert.EqualValues(t, 1, stats[1].Failures)
}

func TestRecordSurvivesCancelledRequest(t *testing.T) {
	svc, db := setupTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.Record(ctx, Record{Endpoint: "describe-image", Provider: "openai", Model: "gpt-4o-mini", Outcome: OutcomeUpstreamError})

	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT COUNT(*) FROM completion_usage WHERE endpoint = 'describe-image'").Scan(&n))
	assert.Equal(t, 1, n)
}

// setupTestService creates a real postgres-backed Service for integration tests.
func setupTestService(t *testing.T) (*Service, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TRIPWISE_TEST_DSN")
	if dsn == "" {
		t.Skip("TRIPWISE_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := infra.NewDB(ctx, dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(db.Close)

	dir, err := infra.FindMigrationsDir()
	require.NoError(t, err)
	require.NoError(t, infra.ApplyMigrations(ctx, db, dir), "apply migrations")

	_, err = db.Exec(ctx, "TRUNCATE TABLE completion_usage")
	require.NoError(t, err, "truncate completion_usage")

	return NewService(NewStore(db), nil), db
}
