package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"jibajeti/internal/amqp"
	"jibajeti/internal/app"
	"jibajeti/internal/backup"
	"jibajeti/internal/cli"
	"jibajeti/internal/log"
)

const shutdownTimeout = 10 * time.Second

type daemonCmd struct {
	noFeed bool
}

func (*daemonCmd) Name() string     { return "daemon" }
func (*daemonCmd) Synopsis() string { return "run scheduled backups and follow the change feed" }
func (*daemonCmd) Usage() string {
	return `jibajeti daemon [-no-feed]

  Runs the backup scheduler (BACKUP_SCHEDULE, BACKUP_DIR) and, when AMQP_URL
  is set, prints every state change published by other jibajeti processes.
  Stops on SIGINT or SIGTERM.
`
}

func (c *daemonCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.noFeed, "no-feed", false, "Do not consume the AMQP change feed.")
}

func (c *daemonCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	e := envFrom(args)
	rt, release, err := e.open(ctx, app.Options{})
	if err != nil {
		fmt.Fprintln(e.stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer release()

	logger := rt.Logger.WithComponent(log.ComponentCLI)
	sigCtx, done := cli.GracefulShutdown(logger, shutdownTimeout, nil)
	runCtx, cancel := context.WithCancel(log.NewContext(ctx, logger))
	defer cancel()
	go func() {
		select {
		case <-sigCtx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	err = c.run(runCtx, e, rt)
	if sigCtx.Err() != nil {
		cli.WaitForShutdown(sigCtx, done)
	}
	return exitStatus(e, err)
}

func (c *daemonCmd) run(ctx context.Context, e *env, rt *cli.Runtime) error {
	cfg := rt.Config
	g, gctx := errgroup.WithContext(ctx)

	scheduler := backup.NewScheduler(rt.App.Data, cfg.Backup.Dir, cfg.Backup.Schedule, rt.Logger)
	g.Go(func() error { return scheduler.Run(gctx) })

	if cfg.AMQP.Enabled() && !c.noFeed {
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, rt.Logger)
		if err != nil {
			return fmt.Errorf("connect change feed: %w", err)
		}
		defer client.Close()

		out := &syncWriter{w: e.stdout}
		g.Go(func() error {
			logger := log.FromContext(gctx)
			return client.ConsumeStateChanges(gctx, func(msg *amqp.StateChangeMessage) error {
				logger.Debug("State change received", log.FieldKey, msg.Key, log.FieldOperation, msg.Op)
				fmt.Fprintf(out, "%s %-6s %-28s %d bytes\n",
					msg.Timestamp.Format(time.RFC3339), msg.Op, msg.Key, msg.Bytes)
				return nil
			})
		})
	}

	fmt.Fprintf(e.stdout, "Daemon running. Backups %q to %s.\n", cfg.Backup.Schedule, cfg.Backup.Dir)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
