package shell

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// commands builds a fresh command tree for one line.  exit is set by the
// exit command.
func (s *Shell) commands(exit *bool) *cobra.Command {
	root := &cobra.Command{
		Use:           "backoffice",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		s.signCommand(),
		s.describeCommand(),
		s.listCommand(),
		s.createCommand(),
		s.updateCommand(),
		s.deleteCommand(),
		leaf("exit", "Leave the shell", cobra.NoArgs, func(*cobra.Command, []string) error {
			*exit = true
			return nil
		}),
	)
	return root
}

// leaf is a command that takes positional arguments only.  Flag parsing is
// off so values such as "-5" reach the services and fail validation there.
func leaf(use, short string, args cobra.PositionalArgs, run func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Short:              short,
		Args:               args,
		DisableFlagParsing: true,
		RunE:               run,
	}
}

func group(use, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short, Args: cobra.NoArgs}
	cmd.AddCommand(children...)
	return cmd
}

// ----- accounts -----

func (s *Shell) signCommand() *cobra.Command {
	in := leaf("in <username> <password>", "Sign in", cobra.ExactArgs(2), func(cmd *cobra.Command, args []string) error {
		r := s.auth.SignInUnprivileged(cmd.Context(), args[0], args[1])
		s.confirm(r.Err(), fmt.Sprintf("Successfully signed in with '%s'", args[0]))
		return nil
	})
	// "sign in privileged <password>" is the plain sign-in of an account
	// named "privileged".
	in.AddCommand(leaf("privileged <username> <password>", "Sign in to an administrator account", cobra.RangeArgs(1, 2), func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			r := s.auth.SignInUnprivileged(cmd.Context(), "privileged", args[0])
			s.confirm(r.Err(), "Successfully signed in with 'privileged'")
			return nil
		}
		r := s.auth.SignInPrivileged(cmd.Context(), args[0], args[1])
		s.confirm(r.Err(), fmt.Sprintf("Successfully signed in with '%s'", args[0]))
		return nil
	}))

	return group("sign", "Account commands",
		leaf("up <username> <password>", "Create an account", cobra.ExactArgs(2), func(cmd *cobra.Command, args []string) error {
			r := s.auth.SignUp(cmd.Context(), args[0], args[1])
			s.confirm(r.Err(), fmt.Sprintf("Successfully signed up with '%s'", args[0]))
			return nil
		}),
		in,
		leaf("out", "Sign out", cobra.NoArgs, func(*cobra.Command, []string) error {
			s.confirm(s.auth.SignOut().Err(), "Signed out")
			return nil
		}),
	)
}

func (s *Shell) describeCommand() *cobra.Command {
	return leaf("describe [account]", "Describe the signed-in account", cobra.MaximumNArgs(1), func(*cobra.Command, []string) error {
		u, ok := s.auth.CurrentSession()
		switch {
		case !ok:
			s.println("You are not signed in")
		case u.Privileged():
			s.println(fmt.Sprintf("Signed in with privileged account '%s'", u.Username))
		default:
			s.println(fmt.Sprintf("Signed in with account '%s'", u.Username))
		}
		return nil
	})
}

// confirm prints err's message, or ok when err is nil.
func (s *Shell) confirm(err error, ok string) {
	if err != nil {
		s.printErr(err)
		return
	}
	s.println(ok)
}

// ----- listings -----

func (s *Shell) listCommand() *cobra.Command {
	return group("list", "List movies, rooms or screenings",
		leaf("movies", "List movies", cobra.NoArgs, func(cmd *cobra.Command, _ []string) error {
			movies, err := s.svc.Movies.List(cmd.Context()).Get()
			printList(s, movies, err, "There are no movies at the moment")
			return nil
		}),
		leaf("rooms", "List rooms", cobra.NoArgs, func(cmd *cobra.Command, _ []string) error {
			rooms, err := s.svc.Rooms.List(cmd.Context()).Get()
			printList(s, rooms, err, "There are no rooms at the moment")
			return nil
		}),
		leaf("screenings", "List screenings", cobra.NoArgs, func(cmd *cobra.Command, _ []string) error {
			screenings, err := s.svc.Screenings.ListDetailed(cmd.Context()).Get()
			printList(s, screenings, err, "There are no screenings")
			return nil
		}),
	)
}

func printList[T fmt.Stringer](s *Shell, items []T, err error, empty string) {
	switch {
	case err != nil:
		s.printErr(err)
	case len(items) == 0:
		s.println(empty)
	default:
		lo.ForEach(items, func(it T, _ int) { s.println(it.String()) })
	}
}

// ----- mutations -----

func (s *Shell) createCommand() *cobra.Command {
	return group("create", "Create a movie, room or screening",
		leaf("movie <title> <genre> <runtime>", "Create a movie", cobra.ExactArgs(3), func(cmd *cobra.Command, args []string) error {
			m, err := movieArgs(args)
			if err != nil {
				return err
			}
			s.printErr(s.svc.Movies.Create(cmd.Context(), m).Err())
			return nil
		}),
		leaf("room <name> <rows> <cols>", "Create a room", cobra.ExactArgs(3), func(cmd *cobra.Command, args []string) error {
			r, err := roomArgs(args)
			if err != nil {
				return err
			}
			s.printErr(s.svc.Rooms.Create(cmd.Context(), r).Err())
			return nil
		}),
		leaf("screening <movie> <room> <start>", "Schedule a screening", cobra.ExactArgs(3), func(cmd *cobra.Command, args []string) error {
			start, err := startArg(args[2])
			if err != nil {
				return err
			}
			s.printErr(s.svc.Screenings.Create(cmd.Context(), args[0], args[1], start).Err())
			return nil
		}),
	)
}

func (s *Shell) updateCommand() *cobra.Command {
	return group("update", "Update a movie or room",
		leaf("movie <title> <genre> <runtime>", "Update a movie", cobra.ExactArgs(3), func(cmd *cobra.Command, args []string) error {
			m, err := movieArgs(args)
			if err != nil {
				return err
			}
			s.printErr(s.svc.Movies.Update(cmd.Context(), m).Err())
			return nil
		}),
		leaf("room <name> <rows> <cols>", "Update a room", cobra.ExactArgs(3), func(cmd *cobra.Command, args []string) error {
			r, err := roomArgs(args)
			if err != nil {
				return err
			}
			s.printErr(s.svc.Rooms.Update(cmd.Context(), r).Err())
			return nil
		}),
	)
}

func (s *Shell) deleteCommand() *cobra.Command {
	return group("delete", "Delete a movie, room or screening",
		leaf("movie <title>", "Delete a movie", cobra.ExactArgs(1), func(cmd *cobra.Command, args []string) error {
			s.printErr(s.svc.Movies.Delete(cmd.Context(), args[0]).Err())
			return nil
		}),
		leaf("room <name>", "Delete a room", cobra.ExactArgs(1), func(cmd *cobra.Command, args []string) error {
			s.printErr(s.svc.Rooms.Delete(cmd.Context(), args[0]).Err())
			return nil
		}),
		leaf("screening <movie> <room> <start>", "Cancel a screening", cobra.ExactArgs(3), func(cmd *cobra.Command, args []string) error {
			start, err := startArg(args[2])
			if err != nil {
				return err
			}
			s.printErr(s.svc.Screenings.Delete(cmd.Context(), args[0], args[1], start).Err())
			return nil
		}),
	)
}

// ----- argument parsing -----

func movieArgs(args []string) (model.Movie, error) {
	runtime, err := intArg("runtime", args[2])
	if err != nil {
		return model.Movie{}, err
	}
	return model.Movie{Title: args[0], Genre: args[1], RuntimeMinutes: runtime}, nil
}

func roomArgs(args []string) (model.Room, error) {
	rows, err := intArg("rows", args[1])
	if err != nil {
		return model.Room{}, err
	}
	cols, err := intArg("cols", args[2])
	if err != nil {
		return model.Room{}, err
	}
	return model.Room{Name: args[0], Rows: rows, Cols: cols}, nil
}

func intArg(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", name, v)
	}
	return n, nil
}

func startArg(v string) (time.Time, error) {
	t, err := model.ParseStart(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("start must look like %s, got %q", model.TimeLayout, v)
	}
	return t, nil
}
