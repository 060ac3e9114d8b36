// Package server defines the application container that owns the
// process-wide resources and the HTTP server lifecycle.
//
// It owns:
//   - configuration and loggers
//   - the PostgreSQL pool, unless the memory driver is selected
//   - the optional Redis client backing the rate limiter
//   - the Prometheus registry
//   - the http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/travel-bucket/internal/config"
	"github.com/deppfellow/travel-bucket/internal/database"
	loggerPkg "github.com/deppfellow/travel-bucket/internal/logger"
	"github.com/deppfellow/travel-bucket/internal/metrics"
)

const redisPingTimeout = 5 * time.Second

// Server is the application container, not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is nil when the memory driver is selected.
	DB *database.Database

	// Redis is nil when no redis.address is configured.
	Redis *redis.Client

	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New initializes the core dependencies. Postgres failures abort start-up;
// an unreachable Redis is logged and the client is kept, since go-redis
// reconnects lazily.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Metrics:       metrics.New(),
	}

	if !cfg.IsMemory() {
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db
	}

	if cfg.Redis.Address != "" {
		s.Redis = newRedisClient(cfg.Redis, logger, loggerService)
	}

	return s, nil
}

func newRedisClient(cfg config.RedisConfig, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Address})

	if loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Str("address", cfg.Address).Msg("failed to connect to Redis, continuing")
	} else {
		logger.Info().Str("address", cfg.Address).Msg("connected to Redis")
	}

	return client
}

// SetupHTTPServer configures the net/http server around the given handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
// It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("driver", s.Config.Database.Driver).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, then releases the database pool and
// Redis client. Every step runs even when an earlier one fails.
func (s *Server) Shutdown(ctx context.Context) error {
	var errList []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errList = append(errList, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	return errors.Join(errList...)
}
