// README: Bench checks; environment, migrations, every public route and a health load test.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"tripwise/internal/infra"
	"tripwise/internal/modules/usage"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

// Summary counts results by status.
type Summary struct {
	Pass, Fail, Pending, Skip int
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Pass++
		case StatusFail:
			s.Fail++
		case StatusPending:
			s.Pending++
		case StatusSkip:
			s.Skip++
		}
	}
	return s
}

// OK reports whether the run succeeded; strict also fails on pending checks.
func (s Summary) OK(strict bool) bool {
	return s.Fail == 0 && (!strict || s.Pending == 0)
}

func (s Summary) String() string {
	return fmt.Sprintf("PASS=%d FAIL=%d PENDING=%d SKIP=%d", s.Pass, s.Fail, s.Pending, s.Skip)
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 90 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

// Upstream-dependent routes report 502/503 as pending: the service behaved,
// the provider did not.
var upstreamStatuses = []int{http.StatusBadGateway, http.StatusServiceUnavailable}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	editSession := "bench-" + uuid.NewString()

	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "usage ledger not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "photo cache uses process memory"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				if err := infra.ApplyMigrations(ctx, r.db, r.cfg.MigrationsDir); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: completion_usage exists",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				var exists bool
				err := r.db.QueryRow(ctx,
					"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
					"completion_usage",
				).Scan(&exists)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if !exists {
					return Result{Status: StatusFail, Note: "missing table: completion_usage"}
				}
				return Result{Status: StatusPass}
			},
		},

		httpCaseMethod("API: root banner", http.MethodGet, base+"/", nil, []int{200}, nil),
		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}, nil),

		httpCase("Itinerary: Paris 3 days", base+"/api/ai/generate-itinerary", map[string]any{
			"destination":    "Paris",
			"trip_length":    3,
			"date_range":     []string{"2024-06-01", "2024-06-03"},
			"budget":         "$1000",
			"numberofpeople": 2,
		}, []int{200}, upstreamStatuses),
		httpCase("Itinerary: underscore alias", base+"/api/ai/generate_itinerary", map[string]any{
			"destination": "Kyoto",
			"trip_length": 1,
		}, []int{200}, upstreamStatuses),
		rawCase("Itinerary: invalid JSON -> 400", base+"/api/ai/generate-itinerary", []byte("{nope"), []int{400}),

		httpCase("Edit: first turn", base+"/api/ai/edit-itinerary", map[string]any{
			"session_id":        editSession,
			"current_itinerary": map[string]any{"day_wise_plan": []any{map[string]any{"day": "Day 1", "destination": "Paris"}}},
			"message":           "Add a Seine river cruise in the evening",
		}, []int{200}, upstreamStatuses),
		httpCase("Edit: missing message -> 400", base+"/api/ai/edit-itinerary", map[string]any{
			"session_id": editSession,
		}, []int{400}, nil),

		httpCase("Transport: Delhi to Agra by train", base+"/api/transportation/costs", map[string]any{
			"source": "Delhi", "destination": "Agra", "date": "2024-07-01", "type": "train",
		}, []int{200}, upstreamStatuses),
		httpCase("Transport: unknown mode -> 400", base+"/api/transportation/costs", map[string]any{
			"source": "Delhi", "destination": "Agra", "type": "teleport",
		}, []int{400}, nil),

		httpCase("Legal docs: India to Japan", base+"/api/ai/legal-docs", map[string]any{
			"source": "India", "destination": "Japan",
		}, []int{200}, upstreamStatuses),

		httpCase("Places: known hotel", base+"/api/places/details", map[string]any{
			"name": "Hotel Lutetia", "type": "accommodation", "city": "Paris", "country": "France",
		}, []int{200}, upstreamStatuses),
		httpCase("Places: unknown name -> 404", base+"/api/places/details", map[string]any{
			"name": "zzqx-" + uuid.NewString(), "city": "Nowhere",
		}, []int{404}, upstreamStatuses),

		{
			Name: "Usage: ledger rows recorded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				stats, err := usage.NewService(usage.NewStore(r.db), nil).Stats(ctx, time.Now().Add(-r.cfg.Timeout))
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if len(stats) == 0 {
					return Result{Status: StatusPending, Note: "no completion calls recorded"}
				}
				var calls, failures int64
				for _, s := range stats {
					calls += s.Calls
					failures += s.Failures
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("endpoints=%d calls=%d failures=%d", len(stats), calls, failures)}
			},
		},
		{
			Name: "Perf: health load",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/health")
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	return rawCaseMethod(name, http.MethodPost, url, b, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	return rawCaseMethod(name, method, url, b, okStatuses, pendingStatuses)
}

func rawCase(name, url string, body []byte, okStatuses []int) TestCase {
	return rawCaseMethod(name, http.MethodPost, url, body, okStatuses, nil)
}

func rawCaseMethod(name, method, url string, body []byte, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				reader = bytes.NewReader(body)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reader)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			latency := time.Since(start)

			note := fmt.Sprintf("status=%d trace=%s", resp.StatusCode, resp.Header.Get("X-Trace-ID"))
			switch {
			case contains(okStatuses, resp.StatusCode):
				return Result{Status: StatusPass, Latency: latency, Note: note}
			case contains(pendingStatuses, resp.StatusCode):
				return Result{Status: StatusPending, Latency: latency, Note: note}
			default:
				return Result{Status: StatusFail, Latency: latency, Note: note}
			}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
