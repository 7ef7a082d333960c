package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/cinema-backoffice/internal/auth"
	"github.com/iliyamo/cinema-backoffice/internal/config"
	"github.com/iliyamo/cinema-backoffice/internal/database"
	"github.com/iliyamo/cinema-backoffice/internal/queue"
	"github.com/iliyamo/cinema-backoffice/internal/repository"
	"github.com/iliyamo/cinema-backoffice/internal/service"
)

// app is the assembled back office shared by serve and shell.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	sessions *auth.SessionStore
	authz    *auth.Authorizer
	svc      *service.Services

	// ping checks the store; nil for stores that cannot become unreachable.
	ping    func(context.Context) error
	closers []func() error
}

// loadConfig reads the environment and applies the --log-level override.
func loadConfig(opts *RootOptions, serving bool) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if opts != nil && opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(serving); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds a text logger at the named level.  Unknown names fall
// back to info.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// bootstrap opens the configured store, seeds the administrator and builds
// the services.  Call close when done.
func bootstrap(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, sessions: auth.NewSessionStore()}

	stores, err := a.openStores(ctx)
	if err != nil {
		return nil, errors.Join(err, a.close())
	}

	a.authz = auth.NewAuthorizer(stores.Users, a.sessions, auth.Hasher{Cost: cfg.BcryptCost}, log)
	if err := a.authz.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, errors.Join(err, a.close())
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		events = queue.NewPublisher(cfg.RabbitMQURL, log)
	}
	brk := time.Duration(cfg.BreakMin) * time.Minute
	a.svc = service.New(a.authz, stores, events, brk, log)
	return a, nil
}

func (a *app) openStores(ctx context.Context) (repository.Stores, error) {
	switch a.cfg.Driver {
	case config.DriverMemory:
		return repository.NewMemoryStores(), nil

	case config.DriverMySQL, config.DriverSQLite:
		var (
			db  *sql.DB
			err error
		)
		if a.cfg.Driver == config.DriverMySQL {
			db, err = database.OpenMySQL(a.cfg.DBUser, a.cfg.DBPass, a.cfg.DBHost, a.cfg.DBPort, a.cfg.DBName)
		} else {
			db, err = database.OpenSQLite(a.cfg.SQLitePath)
		}
		if err != nil {
			return repository.Stores{}, err
		}
		a.closers = append(a.closers, db.Close)
		if err := database.Migrate(ctx, db); err != nil {
			return repository.Stores{}, err
		}
		a.ping = db.PingContext
		a.log.Info("store ready", "driver", a.cfg.Driver)
		return repository.NewSQLStores(db), nil

	case config.DriverBadger:
		db, err := database.OpenBadger(a.cfg.BadgerPath)
		if err != nil {
			return repository.Stores{}, err
		}
		a.closers = append(a.closers, db.Close)
		a.log.Info("store ready", "driver", a.cfg.Driver, "path", a.cfg.BadgerPath)
		return repository.NewBadgerStores(db), nil
	}
	return repository.Stores{}, fmt.Errorf("unknown STORE_DRIVER %q", a.cfg.Driver)
}

// startEventLog runs the screening-event consumer until ctx is done.  It
// does nothing when no broker is configured.
func (a *app) startEventLog(ctx context.Context) {
	if a.cfg.RabbitMQURL == "" {
		return
	}
	go func() {
		err := queue.StartScreeningConsumer(ctx, a.cfg.RabbitMQURL, a.cfg.EventLogDir, a.log)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("screening-consumer stopped", "err", err)
		}
	}()
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
