package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/travel-bucket/internal/config"
	"github.com/deppfellow/travel-bucket/internal/database"
	"github.com/deppfellow/travel-bucket/internal/handler"
	"github.com/deppfellow/travel-bucket/internal/logger"
	"github.com/deppfellow/travel-bucket/internal/repository"
	"github.com/deppfellow/travel-bucket/internal/router"
	"github.com/deppfellow/travel-bucket/internal/server"
	"github.com/deppfellow/travel-bucket/internal/service"
)

const DefaultContextTimeout = 30

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before serving (postgres only)")
	return cmd
}

func serve(migrate bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if migrate && !cfg.IsMemory() {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
		err := database.Migrate(ctx, &log, cfg.Database.DSN())
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("failed to migrate database")
			return err
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize repositories")
		return err
	}

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
