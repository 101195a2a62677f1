// Command jibajeti is the command-line shell of the Ji-Bajeti personal
// finance app. Every subcommand opens the configured store, applies one
// operation and exits; `shell` keeps a session open and `daemon` runs the
// background jobs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/subcommands"

	"jibajeti/internal/app"
	"jibajeti/internal/cli"
	"jibajeti/internal/log"
)

// env is handed to every command through Commander.Execute. It decides how
// the runtime is obtained and where output goes.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// open returns the runtime and the func that releases it.
	open func(ctx context.Context, opts app.Options) (*cli.Runtime, func(), error)
}

func defaultEnv() *env {
	return &env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		open: func(ctx context.Context, opts app.Options) (*cli.Runtime, func(), error) {
			rt, err := cli.Bootstrap(ctx, os.Stderr, opts)
			if err != nil {
				return nil, nil, err
			}
			return rt, func() {
				if err := rt.Close(); err != nil {
					rt.Logger.Warn("Storage not closed cleanly", log.FieldError, err)
				}
			}, nil
		},
	}
}

// usageError marks errors caused by bad arguments.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func envFrom(args []interface{}) *env {
	for _, a := range args {
		if e, ok := a.(*env); ok {
			return e
		}
	}
	return defaultEnv()
}

// run opens the runtime, calls fn and maps its error to an exit status.
func run(ctx context.Context, args []interface{}, fn func(e *env, rt *cli.Runtime) error) subcommands.ExitStatus {
	e := envFrom(args)
	rt, release, err := e.open(ctx, app.Options{})
	if err != nil {
		fmt.Fprintln(e.stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer release()

	return exitStatus(e, fn(e, rt))
}

func exitStatus(e *env, err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintln(e.stderr, "Error:", err)
	var ue usageError
	if errors.As(err, &ue) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// register adds the commands shared by the top level and the shell.
func register(c *subcommands.Commander) {
	c.Register(&statusCmd{}, "session")
	c.Register(&loginCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&navigateCmd{}, "session")
	c.Register(&themeCmd{}, "session")

	c.Register(&currencyCmd{}, "currency")
	c.Register(&formatCmd{}, "currency")

	c.Register(&notificationsCmd{}, "notifications")
	c.Register(&readCmd{}, "notifications")
	c.Register(&readAllCmd{}, "notifications")
	c.Register(&deleteCmd{}, "notifications")
	c.Register(&notifyCmd{}, "notifications")

	c.Register(&popupCmd{}, "popups")

	c.Register(&exportCmd{}, "data")
	c.Register(&importCmd{}, "data")
	c.Register(&clearCmd{}, "data")
	c.Register(&infoCmd{}, "data")
	c.Register(&backupCmd{}, "data")
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)
	commander.Register(&shellCmd{}, "")
	commander.Register(&daemonCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background(), defaultEnv())))
}
