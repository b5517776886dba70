// README: Smoke and latency runner against a live tripwise instance; HTTP, Postgres and Redis checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL        string
	DSN            string
	RedisAddr      string
	MigrationsDir  string
	ApplyMigration bool
	Strict         bool
	Timeout        time.Duration
	Concurrency    int
	Duration       time.Duration
}

// envFlags seeds flags missing from the command line.
var envFlags = map[string]string{
	"base-url":        "TRIPWISE_BENCH_BASE_URL",
	"dsn":             "TRIPWISE_DB_DSN",
	"redis":           "REDIS_ADDR",
	"migrations":      "TRIPWISE_BENCH_MIGRATIONS",
	"apply-migration": "TRIPWISE_BENCH_APPLY_MIGRATION",
	"strict":          "TRIPWISE_BENCH_STRICT",
	"timeout":         "TRIPWISE_BENCH_TIMEOUT",
	"concurrency":     "TRIPWISE_BENCH_CONCURRENCY",
	"duration":        "TRIPWISE_BENCH_DURATION",
}

func main() {
	_ = godotenv.Load()
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	sum := Summarize(NewRunner(cfg).RunAll(ctx))
	fmt.Printf("\n== Summary ==\n%s\n", sum)
	if !sum.OK(cfg.Strict) {
		os.Exit(1)
	}
}

func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.BaseURL, "base-url", "http://localhost:8000", "API base URL")
	fs.StringVar(&cfg.DSN, "dsn", "", "Postgres DSN of the usage ledger (optional)")
	fs.StringVar(&cfg.RedisAddr, "redis", "", "Redis address of the photo cache (optional)")
	fs.StringVar(&cfg.MigrationsDir, "migrations", "migrations", "Migrations directory")
	fs.BoolVar(&cfg.ApplyMigration, "apply-migration", false, "Apply migrations before the checks")
	fs.BoolVar(&cfg.Strict, "strict", false, "Fail on pending checks")
	fs.DurationVar(&cfg.Timeout, "timeout", 3*time.Minute, "Total timeout")
	fs.IntVar(&cfg.Concurrency, "concurrency", 20, "Concurrency for load checks")
	fs.DurationVar(&cfg.Duration, "duration", 10*time.Second, "Duration for load checks")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	given := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })
	for name, key := range envFlags {
		v := os.Getenv(key)
		if given[name] || v == "" {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return cfg, fmt.Errorf("%s: %w", key, err)
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}
