package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	"jibajeti/internal/cli"
	"jibajeti/internal/session"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show the session, theme, currency and inbox state" }
func (*statusCmd) Usage() string {
	return `jibajeti status

  Prints the effective screen, login state, theme, active currency, unread
  notification count and open popups.
`
}
func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (*statusCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		printStatus(e.stdout, rt)
		return nil
	})
}

func printStatus(w io.Writer, rt *cli.Runtime) {
	a := rt.App
	s := a.Session.Snapshot()
	cfg := a.Currency.Config()

	popups := make([]string, 0)
	for _, k := range a.Popups.OpenKinds() {
		popups = append(popups, string(k))
	}

	insights := "-"
	switch {
	case s.InsightsShown:
		insights = "shown"
	case s.InsightsArmed:
		insights = "pending"
	}

	fmt.Fprintf(w, "%-12s %s\n", "Logged in:", yesNo(s.LoggedIn))
	fmt.Fprintf(w, "%-12s %s\n", "Screen:", s.Screen)
	fmt.Fprintf(w, "%-12s %s\n", "Back button:", yesNo(s.BackButton))
	fmt.Fprintf(w, "%-12s %s\n", "Theme:", themeName(s.DarkMode))
	fmt.Fprintf(w, "%-12s %s (%s)\n", "Currency:", cfg.Code, cfg.Symbol)
	fmt.Fprintf(w, "%-12s %d\n", "Unread:", a.Notifications.UnreadCount())
	fmt.Fprintf(w, "%-12s %s\n", "Popups:", orDash(strings.Join(popups, ", ")))
	fmt.Fprintf(w, "%-12s %s\n", "Insights:", insights)
}

type loginCmd struct{}

func (*loginCmd) Name() string           { return "login" }
func (*loginCmd) Synopsis() string       { return "start a session on the dashboard" }
func (*loginCmd) Usage() string          { return "jibajeti login\n" }
func (*loginCmd) SetFlags(*flag.FlagSet) {}

func (*loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if err := rt.App.Session.Login(ctx); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "Logged in.", "Screen:", rt.App.Session.Screen())
		return nil
	})
}

type logoutCmd struct{}

func (*logoutCmd) Name() string           { return "logout" }
func (*logoutCmd) Synopsis() string       { return "end the session" }
func (*logoutCmd) Usage() string          { return "jibajeti logout\n" }
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if err := rt.App.Session.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "Logged out.")
		return nil
	})
}

type navigateCmd struct{}

func (*navigateCmd) Name() string     { return "navigate" }
func (*navigateCmd) Synopsis() string { return "move to another screen" }
func (*navigateCmd) Usage() string {
	return `jibajeti navigate <screen>

  Screens: ` + screenList() + `
`
}
func (*navigateCmd) SetFlags(*flag.FlagSet) {}

func (*navigateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if f.NArg() != 1 {
			return usagef("navigate takes exactly one screen: %s", screenList())
		}
		screen, err := session.ParseScreen(f.Arg(0))
		if err != nil {
			return usagef("%v (want one of %s)", err, screenList())
		}
		if err := rt.App.Session.Navigate(ctx, screen); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "Screen:", rt.App.Session.Screen())
		return nil
	})
}

type themeCmd struct{}

func (*themeCmd) Name() string           { return "theme" }
func (*themeCmd) Synopsis() string       { return "toggle dark mode" }
func (*themeCmd) Usage() string          { return "jibajeti theme\n" }
func (*themeCmd) SetFlags(*flag.FlagSet) {}

func (*themeCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		dark, err := rt.App.Session.ToggleTheme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "Theme:", themeName(dark))
		return nil
	})
}

func screenList() string {
	names := make([]string, 0, len(session.Screens()))
	for _, s := range session.Screens() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
