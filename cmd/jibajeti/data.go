package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"

	"jibajeti/internal/backup"
	"jibajeti/internal/cli"
	"jibajeti/internal/kv"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export every stored value as JSON" }
func (*exportCmd) Usage() string {
	return `jibajeti export [-o <file>]

  Writes a pretty-printed JSON object with every populated application key
  to stdout or to the given file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Write the export to this file instead of stdout.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		data, err := rt.App.ExportData(ctx)
		if err != nil {
			return err
		}
		if c.output == "" {
			_, err := fmt.Fprintln(e.stdout, string(data))
			return err
		}
		if err := os.WriteFile(c.output, append(data, '\n'), 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(e.stdout, "Exported %s to %s\n", humanize.Bytes(uint64(len(data))), c.output)
		return nil
	})
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "restore values from an export" }
func (*importCmd) Usage() string {
	return `jibajeti import <file|->

  Writes every property of the JSON object back to storage and reloads the
  app state. "-" reads from stdin. Malformed input changes nothing.
`
}
func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if f.NArg() != 1 {
			return usagef("import takes exactly one file, or - for stdin")
		}

		var (
			data []byte
			err  error
		)
		if f.Arg(0) == "-" {
			data, err = io.ReadAll(e.stdin)
		} else {
			data, err = os.ReadFile(f.Arg(0))
		}
		if err != nil {
			return fmt.Errorf("read import: %w", err)
		}

		if err := rt.App.ImportData(ctx, data); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "Import complete.")
		printStatus(e.stdout, rt)
		return nil
	})
}

type clearCmd struct{}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "remove every stored value" }
func (*clearCmd) Usage() string {
	return `jibajeti clear

  Removes every application key; the next start behaves like a first run.
`
}
func (*clearCmd) SetFlags(*flag.FlagSet) {}

func (*clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if err := rt.App.ClearData(ctx); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "All data cleared.")
		return nil
	})
}

type infoCmd struct{}

func (*infoCmd) Name() string           { return "info" }
func (*infoCmd) Synopsis() string       { return "report storage usage" }
func (*infoCmd) Usage() string          { return "jibajeti info\n" }
func (*infoCmd) SetFlags(*flag.FlagSet) {}

func (*infoCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		u := rt.App.Usage(ctx)
		for _, key := range kv.KnownKeys() {
			size, ok := u.ItemBytes[key]
			if !ok {
				continue
			}
			fmt.Fprintf(e.stdout, "%-28s %10s\n", key, humanize.Bytes(uint64(size)))
		}
		fmt.Fprintf(e.stdout, "\n%d items, %s KB (%s)\n", u.ItemCount, u.TotalKB(), humanize.Bytes(uint64(u.TotalBytes)))
		return nil
	})
}

type backupCmd struct{}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "write an export snapshot to the backup directory" }
func (*backupCmd) Usage() string {
	return `jibajeti backup

  Writes one jibajeti-backup-<timestamp>.json file to BACKUP_DIR.
`
}
func (*backupCmd) SetFlags(*flag.FlagSet) {}

func (*backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		s := backup.NewScheduler(rt.App.Data, rt.Config.Backup.Dir, rt.Config.Backup.Schedule, rt.Logger)
		path, err := s.RunOnce(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "Backup written to", path)
		return nil
	})
}
