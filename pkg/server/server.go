package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	loggingmw "github.com/Skotchmaster/shop_admin/pkg/middleware/logging"
)

const shutdownTimeout = 10 * time.Second

// Common is the middleware chain every service runs in front of its routes.
func Common(service string, log *slog.Logger, corsOrigins []string) []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(log),
		metrics.Middleware(service),
		ecM.Secure(),
	}
	if len(corsOrigins) > 0 {
		mws = append(mws, ecM.CORSWithConfig(ecM.CORSConfig{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
			AllowCredentials: true,
		}))
	}
	return mws
}

func New(service string, log *slog.Logger, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(Common(service, log, corsOrigins)...)
	return e
}

// Run serves until SIGINT/SIGTERM or until ctx is done, then shuts down gracefully.
// The cleanup funcs run after the server has stopped accepting requests.
func Run(ctx context.Context, e *echo.Echo, addr string, log *slog.Logger, cleanup ...func()) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := e.Shutdown(shutdownCtx)
	for _, fn := range cleanup {
		fn()
	}
	log.Info("server_stopped")
	return err
}
