package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonesrussell/request-manager/internal/api"
	"github.com/jonesrussell/request-manager/internal/clock"
	"github.com/jonesrussell/request-manager/internal/config"
	"github.com/jonesrussell/request-manager/internal/database"
	"github.com/jonesrussell/request-manager/internal/engine"
	"github.com/jonesrussell/request-manager/internal/events"
	"github.com/jonesrussell/request-manager/internal/identity"
	"github.com/jonesrussell/request-manager/internal/logger"
	"github.com/jonesrussell/request-manager/internal/repository"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server with graceful shutdown on SIGINT/SIGTERM.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// SetupHTTPServer wires the snapshot store, lifecycle engine and router
// into a runnable server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	publisher *events.Publisher,
	log logger.Logger,
) *Server {
	store := repository.NewPostgresStore(db.DB(), log)
	idp := identity.NewContextProvider(cfg.Identity.DefaultUser, cfg.Identity.DefaultUserGroup)
	eng := engine.New(store, idp, clock.System(), publisher, log)

	router := api.NewRouter(eng, api.RouterConfig{
		AllowedOrigins: cfg.Server.CORSOrigins,
		EnableDevtools: cfg.Debug,
	}, log)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger: log,
	}
}

// Run serves until the process receives SIGINT or SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		s.logger.Info("Shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
