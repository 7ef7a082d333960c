package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-backoffice/internal/auth"
	"github.com/iliyamo/cinema-backoffice/internal/config"
	"github.com/iliyamo/cinema-backoffice/internal/handler"
	"github.com/iliyamo/cinema-backoffice/internal/middleware"
	"github.com/iliyamo/cinema-backoffice/internal/router"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the back-office HTTP API on APP_PORT.

Mutations need a ticket from POST /v1/auth/sign-in for the signed-in
administrator.  JWT_SECRET must be set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, rootOpts)
		},
	}
}

func runServer(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := loadConfig(opts, true)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			log.Error("error closing store", "err", err)
		}
	}()
	a.startEventLog(ctx)

	e, err := a.newEcho()
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "driver", cfg.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

// newEcho builds the HTTP server.  Rate limiting is on only when Redis
// answers.
func (a *app) newEcho() (*echo.Echo, error) {
	rl, err := config.LoadRateLimitConfig()
	if err != nil {
		return nil, err
	}
	rdb := config.NewRedisClient(a.log)
	if rdb != nil {
		a.closers = append(a.closers, rdb.Close)
	}

	tickets := auth.NewTickets(a.cfg.JWTSecret, time.Duration(a.cfg.AccessTTLMin)*time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "user", c.Get(middleware.CtxUsername)}
			if v.Error != nil {
				a.log.Warn("request", append(attrs, "err", v.Error)...)
				return nil
			}
			a.log.Debug("request", attrs...)
			return nil
		},
	}))

	router.Register(e, router.Deps{
		Auth:       handler.NewAuthHandler(a.authz, tickets, a.log),
		Catalog:    handler.NewCatalogHandler(a.svc.Movies, a.svc.Rooms, a.log),
		Screenings: handler.NewScreeningHandler(a.svc.Screenings, a.log),
		Health:     handler.Health(a.ping),
		Tickets:    tickets,
		Sessions:   a.authz,
		RateLimit:  middleware.NewTokenBucket(rl, rdb, a.log),
	})
	return e, nil
}
