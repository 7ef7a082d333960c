package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-backoffice/internal/config"
	"github.com/iliyamo/cinema-backoffice/internal/model"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "backoffice", cmd.Use)
	assert.Contains(t, cmd.Long, "STORE_DRIVER")

	logLevel := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevel)
	assert.Equal(t, "", logLevel.DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "shell"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	newLogger(&buf, "nonsense").Info("fallback")
	assert.Contains(t, buf.String(), "fallback")
}

func testConfig(driver string) config.Config {
	return config.Config{
		Driver:        driver,
		BcryptCost:    4,
		BreakMin:      10,
		AccessTTLMin:  60,
		AdminUsername: "admin",
		AdminPassword: "admin",
	}
}

func TestBootstrapBackends(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cases := map[string]func(dir string) config.Config{
		config.DriverMemory: func(string) config.Config { return testConfig(config.DriverMemory) },
		config.DriverSQLite: func(dir string) config.Config {
			cfg := testConfig(config.DriverSQLite)
			cfg.SQLitePath = filepath.Join(dir, "backoffice.db")
			return cfg
		},
		config.DriverBadger: func(dir string) config.Config {
			cfg := testConfig(config.DriverBadger)
			cfg.BadgerPath = filepath.Join(dir, "badger")
			return cfg
		},
	}
	for driver, mk := range cases {
		t.Run(driver, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()

			a, err := bootstrap(ctx, mk(t.TempDir()), log)
			req.NoError(err)
			defer func() { req.NoError(a.close()) }()

			req.NoError(a.authz.SignInPrivileged(ctx, "admin", "admin").Err())
			req.NoError(a.svc.Rooms.Create(ctx, model.Room{Name: "R1", Rows: 2, Cols: 3}).Err())

			rooms, err := a.svc.Rooms.List(ctx).Get()
			req.NoError(err)
			req.Len(rooms, 1)
			req.Equal(6, rooms[0].Seats())

			if driver == config.DriverSQLite {
				req.NotNil(a.ping)
				req.NoError(a.ping(ctx))
			}
		})
	}
}

func TestBootstrapKeepsExistingAdmin(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(config.DriverSQLite)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "backoffice.db")

	a, err := bootstrap(ctx, cfg, log)
	req.NoError(err)
	req.NoError(a.close())

	cfg.AdminPassword = "changed"
	a, err = bootstrap(ctx, cfg, log)
	req.NoError(err)
	defer a.close()

	req.Error(a.authz.SignInPrivileged(ctx, "admin", "changed").Err())
	req.NoError(a.authz.SignInPrivileged(ctx, "admin", "admin").Err())
}

func TestShellCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin")
	t.Setenv("RABBITMQ_URL", "")

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"shell", "--log-level", "error"})
	cmd.SetIn(strings.NewReader("sign in privileged admin admin\ncreate room R1 2 3\nlist rooms\nexit\n"))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "> Successfully signed in with 'admin'\n> > Room R1 with 6 seats, 2 rows and 3 columns\n> ", out.String())
	assert.Empty(t, errOut.String())
}

func TestServeNeedsSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"serve"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
