// Package shell is the operator's interactive console.  Each input line is
// split like a POSIX shell would split it and dispatched through a cobra
// command tree, so "create screening Alien Pedersoli \"2021-03-15 10:45\""
// reaches the create screening command with three arguments.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/iliyamo/cinema-backoffice/internal/auth"
	"github.com/iliyamo/cinema-backoffice/internal/service"
)

// Prompt is printed before every line read by Run.
const Prompt = "> "

// Shell runs operator commands against the services and prints their
// outcome.  Successful mutations print nothing; a failure prints its
// message.
type Shell struct {
	auth *auth.Authorizer
	svc  *service.Services
	out  io.Writer
}

func New(a *auth.Authorizer, svc *service.Services, out io.Writer) *Shell {
	return &Shell{auth: a, svc: svc, out: out}
}

// Run reads commands from in until EOF, "exit" or ctx is cancelled.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, Prompt)
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.Exec(ctx, sc.Text()) {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) (exit bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		s.println(fmt.Sprintf("Cannot parse command: %v", err))
		return false
	}

	root := s.commands(&exit)
	root.SetArgs(args)
	root.SetOut(s.out)
	root.SetErr(s.out)
	if err := root.ExecuteContext(ctx); err != nil {
		s.println(err.Error())
	}
	return exit
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

// printErr prints err's message, if any.  It is how every mutation reports
// its outcome.
func (s *Shell) printErr(err error) {
	if err != nil {
		s.println(err.Error())
	}
}
