// README: HTTP server; CORS in front of the gin engine, graceful start/stop.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Server struct {
	srv *http.Server
	log *zap.Logger
}

// NewServer wraps handler with CORS. A "*" origin allows any origin without
// credentials. writeTimeout must cover the slowest completion; zero disables it.
func NewServer(addr string, handler http.Handler, allowedOrigins []string, writeTimeout time.Duration, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	allowCredentials := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCredentials = false
		}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: allowCredentials,
	}).Handler(handler)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           corsHandler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       120 * time.Second,
		},
		log: log,
	}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) WriteTimeout() time.Duration { return s.srv.WriteTimeout }

// Start binds the listener synchronously so address errors surface to the
// caller, then serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
