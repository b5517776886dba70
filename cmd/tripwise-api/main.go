// README: Entry point; loads config, wires services with fx, runs the HTTP server until SIGTERM.
package main

import (
	"context"
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"tripwise/internal/config"
	httptransport "tripwise/internal/http"
	"tripwise/internal/infra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app := fx.New(
		fx.Supply(cfg, logger),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(
			provideCompleter,
			provideSessionStore,
			provideUsage,
			providePhotoResolver,
			providePlaces,
			provideRoutes,
			providePlanner,
			provideRouter,
			provideServer,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func startServer(lc fx.Lifecycle, srv *httptransport.Server) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
