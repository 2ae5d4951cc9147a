package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/core/services"
	"github.com/karacadev/backoffice/internal/handlers"
	"github.com/karacadev/backoffice/internal/jobs"
	"github.com/karacadev/backoffice/internal/middleware"
	"github.com/karacadev/backoffice/internal/platform/config"
	"github.com/karacadev/backoffice/internal/platform/storage"
	"github.com/karacadev/backoffice/internal/repositories/database/sqldb"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the installment sweeper",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, store, err := openStore(ctx, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		return err
	}
	defer store.Close()

	repos := sqldb.NewRepositoryProvider(store)
	svcs := services.NewServiceContainer(cfg, repos)

	router := buildRouter(cfg, svcs, store, logger)

	sweeper := jobs.NewSweeper(svcs.Installment, cfg.SweepInterval, logger)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			slog.String("port", cfg.Port), slog.String("storage", store.BackendName()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildRouter assembles the gin engine: structured logging, recovery, CORS,
// a global per-IP rate limit, then the application routes.
func buildRouter(cfg *config.Config, svcs *portssvc.ServiceContainer, store *storage.Store, logger *slog.Logger) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	if rate, err := limiter.NewRateFromFormatted(cfg.RateLimit); err == nil {
		r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))
	} else {
		logger.Warn("Invalid RATE_LIMIT value, rate limiting disabled",
			slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Warn("Failed to clear trusted proxies", slog.String("error", err.Error()))
	}

	handlers.RegisterRoutes(r, cfg, svcs, store)
	return r
}
