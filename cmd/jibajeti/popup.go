package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"jibajeti/internal/cli"
	"jibajeti/internal/popup"
)

type popupCmd struct{}

func (*popupCmd) Name() string     { return "popup" }
func (*popupCmd) Synopsis() string { return "open, close or list informational popups" }
func (*popupCmd) Usage() string {
	return `jibajeti popup [open|close <kind>]

  Without arguments, lists the open popups. Popups are not persisted, so
  this is mostly useful inside "jibajeti shell".

  Kinds: ` + kindList() + `
`
}
func (*popupCmd) SetFlags(*flag.FlagSet) {}

func (*popupCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		board := rt.App.Popups
		if f.NArg() == 0 {
			for _, k := range board.OpenKinds() {
				fmt.Fprintln(e.stdout, k)
			}
			return nil
		}
		if f.NArg() != 2 {
			return usagef("popup takes an action and a kind")
		}

		kind, err := popup.ParseKind(f.Arg(1))
		if err != nil {
			return usagef("%v (want one of %s)", err, kindList())
		}
		switch f.Arg(0) {
		case "open":
			if err := board.Open(kind); err != nil {
				return err
			}
		case "close":
			board.Close(kind)
		default:
			return usagef("unknown popup action %q", f.Arg(0))
		}
		fmt.Fprintf(e.stdout, "%s: %s\n", kind, openClosed(board.IsOpen(kind)))
		return nil
	})
}

func kindList() string {
	names := make([]string, 0, len(popup.Kinds()))
	for _, k := range popup.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func openClosed(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
