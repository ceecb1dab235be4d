package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"confbot/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// NewRouter returns a gin engine with request ids, access logs and panic
// recovery. Paths with a trailing slash are not redirected.
func NewRouter(logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(middleware.RequestID(), middleware.AccessLog(logger), middleware.Recover(logger))
	return r
}

// Run serves handler on addr until SIGINT/SIGTERM, then shuts down gracefully.
func Run(addr string, handler http.Handler, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, addr, handler, logger)
}

// Serve is Run with an explicit lifetime context.
func Serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
