package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripwise/internal/ai"
	"tripwise/internal/config"
	httptransport "tripwise/internal/http"
	"tripwise/internal/http/handlers"
	"tripwise/internal/infra"
	"tripwise/internal/maps"
	"tripwise/internal/modules/usage"
	"tripwise/internal/service"
	"tripwise/internal/session"
)

// provideCompleter builds the configured provider wrapped in timeout/retry.
func provideCompleter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (ai.Completer, error) {
	var base ai.Completer
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		base = ai.NewOpenAIProvider(cfg.AI.OpenAIKey, cfg.AI.Model, "")
	default:
		gemini, err := ai.NewGeminiProvider(context.Background(), cfg.AI.GeminiKey, cfg.AI.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini init: %w", err)
		}
		lc.Append(fx.StopHook(gemini.Close))
		base = gemini
	}
	log.Info("completion provider ready", zap.String("provider", cfg.AI.Provider), zap.String("model", cfg.AI.Model))
	return ai.NewGuarded(base, guardConfig(cfg)), nil
}

func guardConfig(cfg config.Config) ai.GuardConfig {
	return ai.GuardConfig{Timeout: cfg.AI.Timeout, MaxRetries: cfg.AI.MaxRetries}
}

// serverWriteTimeout covers the route lookup in front of a completion plus
// the guarded completion itself, with a margin for encoding the reply.
func serverWriteTimeout(cfg config.Config) time.Duration {
	budget := guardConfig(cfg).Budget()
	if budget == 0 {
		return 0
	}
	return cfg.Places.Timeout + budget + 30*time.Second
}

func provideSessionStore(lc fx.Lifecycle) session.Store {
	store := session.NewMemoryStore()
	lc.Append(fx.StopHook(store.Close))
	return store
}

// provideUsage returns a no-op ledger when no DSN is configured.
func provideUsage(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*usage.Service, error) {
	if cfg.DB.DSN == "" {
		log.Info("usage ledger disabled; TRIPWISE_DB_DSN not set")
		return usage.NewService(nil, log), nil
	}
	ctx := context.Background()
	pool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(pool.Close))

	if dir, err := infra.FindMigrationsDir(); err == nil {
		if err := infra.ApplyMigrations(ctx, pool, dir); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
	} else {
		log.Warn("migrations directory not found; assuming schema exists")
	}
	return usage.NewService(usage.NewStore(pool), log), nil
}

// providePhotoResolver picks Redis for the URL cache when reachable and the
// in-process cache otherwise.
func providePhotoResolver(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) maps.PhotoResolver {
	resolver := maps.NewHTTPPhotoResolver(maps.Options{APIKey: cfg.Places.APIKey})

	var cache maps.PhotoCache = maps.NewMemoryPhotoCache(cfg.Places.PhotoCacheTTL)
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(context.Background(), cfg.Redis.Addr)
		if err != nil {
			log.Warn("redis unavailable; using in-process photo cache", zap.Error(err))
		} else {
			lc.Append(fx.StopHook(rdb.Close))
			cache = maps.NewRedisPhotoCache(rdb, cfg.Places.PhotoCacheTTL)
		}
	}
	return maps.NewCachedPhotoResolver(resolver, cache)
}

// providePlaces returns nil when no places key is configured; the route then
// reports the lookup as unavailable.
func providePlaces(cfg config.Config, photos maps.PhotoResolver, log *zap.Logger) (*maps.PlacesService, error) {
	if cfg.Places.APIKey == "" {
		log.Warn("places lookup disabled; GOOGLE_PLACES_API_KEY not set")
		return nil, nil
	}
	return maps.NewPlacesService(
		maps.Options{APIKey: cfg.Places.APIKey},
		maps.PlacesConfig{
			Timeout:          cfg.Places.Timeout,
			QPS:              cfg.Places.QPS,
			PhotoConcurrency: cfg.Places.PhotoConcurrency,
		},
		photos,
		log.Named("places"),
	)
}

func provideRoutes(cfg config.Config) (*maps.RouteService, error) {
	if cfg.Places.APIKey == "" {
		return nil, nil
	}
	return maps.NewRouteService(maps.Options{APIKey: cfg.Places.APIKey}, cfg.Places.Timeout)
}

func providePlanner(cfg config.Config, completer ai.Completer, sessions session.Store, routes *maps.RouteService, recorder *usage.Service, log *zap.Logger) *service.TripPlanner {
	var ref service.RouteReferencer
	if routes != nil {
		ref = routes
	}
	return service.NewTripPlanner(completer, sessions, ref, recorder,
		service.PlannerConfig{Provider: cfg.AI.Provider, Model: cfg.AI.Model, RouteTimeout: cfg.Places.Timeout},
		log.Named("planner"))
}

func provideRouter(cfg config.Config, planner *service.TripPlanner, places *maps.PlacesService, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	var lookup handlers.PlaceLookup
	if places != nil {
		lookup = places
	}
	return httptransport.NewRouter(httptransport.RouterDeps{
		Planner:     planner,
		Places:      lookup,
		Log:         log.Named("http"),
		MaxUploadMB: cfg.HTTP.MaxUploadMB,
	})
}

func provideServer(cfg config.Config, engine *gin.Engine, log *zap.Logger) *httptransport.Server {
	return httptransport.NewServer(cfg.HTTP.Addr, engine, cfg.HTTP.AllowedOrigins, serverWriteTimeout(cfg), log.Named("http"))
}
