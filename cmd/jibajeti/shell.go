package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/subcommands"

	"jibajeti/internal/app"
	"jibajeti/internal/cli"
)

const shellPrompt = "jibajeti> "

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "run commands against one long-lived session" }
func (*shellCmd) Usage() string {
	return `jibajeti shell

  Reads one command per line and runs it against a single app instance, so
  non-persisted state (open popups, the pending insights trigger) survives
  between commands. Type "help" for the command list and "exit" to leave.
`
}
func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	out := &syncWriter{w: e.stdout}

	rt, release, err := e.open(ctx, app.Options{
		OnInsights: func() { fmt.Fprintln(out, "\n[insights] Your spending insights are ready (popup opened).") },
	})
	if err != nil {
		fmt.Fprintln(e.stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer release()

	nested := &env{
		stdin:  e.stdin,
		stdout: out,
		stderr: e.stderr,
		open: func(context.Context, app.Options) (*cli.Runtime, func(), error) {
			return rt, func() {}, nil
		},
	}

	scanner := bufio.NewScanner(e.stdin)
	fmt.Fprint(out, shellPrompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "exit", "quit":
			return subcommands.ExitSuccess
		default:
			fields, err := splitArgs(line)
			if err != nil {
				fmt.Fprintln(e.stderr, "Error:", err)
				break
			}
			execLine(ctx, nested, fields)
		}
		fmt.Fprint(out, shellPrompt)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(e.stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(out)
	return subcommands.ExitSuccess
}

func execLine(ctx context.Context, e *env, fields []string) subcommands.ExitStatus {
	fs := flag.NewFlagSet("jibajeti", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	commander := subcommands.NewCommander(fs, "jibajeti")
	commander.Output = e.stdout
	commander.Error = e.stderr
	commander.Register(commander.HelpCommand(), "")
	register(commander)

	if err := fs.Parse(fields); err != nil {
		return subcommands.ExitUsageError
	}
	return commander.Execute(ctx, e)
}

// splitArgs splits a shell line on whitespace. Double quotes group words
// and a backslash escapes the next character.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		hasArg  bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			hasArg = true
		case r == '"':
			inQuote = !inQuote
			hasArg = true
		case !inQuote && (r == ' ' || r == '\t'):
			if hasArg {
				args = append(args, cur.String())
				cur.Reset()
				hasArg = false
			}
		default:
			cur.WriteRune(r)
			hasArg = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if hasArg {
		args = append(args, cur.String())
	}
	return args, nil
}

// syncWriter serializes writes from the command loop and the insights
// timer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
