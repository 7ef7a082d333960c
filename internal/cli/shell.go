package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-backoffice/internal/shell"
)

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive operator shell",
		Long: `Read back-office commands from standard input, one per line.

Example:
  sign in privileged admin admin
  create movie Alien horror 117
  create room Pedersoli 20 10
  create screening Alien Pedersoli "2021-03-15 10:45"
  list screenings
  exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, rootOpts)
		},
	}
}

func runShell(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := loadConfig(opts, false)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
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

	sh := shell.New(a.authz, a.svc, cmd.OutOrStdout())
	if err := sh.Run(ctx, cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
