package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kapu/affiliate-hub-go/internal/catalog"
	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/metrics"
	"github.com/kapu/affiliate-hub-go/internal/service/catalogsync"
	"github.com/kapu/affiliate-hub-go/internal/util"
)

// Syncer runs one catalog sync. *catalogsync.Service satisfies it.
type Syncer interface {
	Sync(ctx context.Context) catalogsync.Result
}

// Recommender answers a concierge query. *ai.Recommender satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, query string) string
}

// Concierge exposes the generation circuit breaker. *ai.ModelManager satisfies it.
type Concierge interface {
	PrimaryName() string
	CircuitStatus() util.CircuitStatus
	ResetCircuit()
}

type Config struct {
	Addr           string
	AllowedOrigins []string
	ChatPerMinute  int
}

type Dependencies struct {
	Store          *catalog.Store
	Syncer         Syncer
	Recommender    Recommender
	Concierge      Concierge
	Metrics        domain.Metrics
	MetricsHandler http.Handler
}

// Server exposes the catalog over JSON HTTP and the concierge over HTTP and websocket.
type Server struct {
	cfg         Config
	deps        Dependencies
	logger      *zap.Logger
	chatLimiter *rate.Limiter
	upgrader    websocket.Upgrader
	httpServer  *http.Server
}

func New(cfg Config, deps Dependencies, logger *zap.Logger) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Noop{}
	}
	if cfg.ChatPerMinute <= 0 {
		cfg.ChatPerMinute = 30
	}

	s := &Server{
		cfg:         cfg,
		deps:        deps,
		logger:      logger,
		chatLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.ChatPerMinute)), cfg.ChatPerMinute),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: constants.HTTPConfig.ReadHeaderTimeout,
		WriteTimeout:      constants.HTTPConfig.WriteTimeout,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.HTTPConfig.ShutdownTimeout)
	defer cancel()

	s.logger.Info("HTTP server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == origin {
				return true
			}
		}
		return false
	}
}
