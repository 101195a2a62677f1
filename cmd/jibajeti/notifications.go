package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"jibajeti/internal/cli"
	"jibajeti/internal/notification"
)

type notificationsCmd struct {
	unread bool
}

func (*notificationsCmd) Name() string     { return "notifications" }
func (*notificationsCmd) Synopsis() string { return "list the notification inbox" }
func (*notificationsCmd) Usage() string {
	return `jibajeti notifications [-unread]

  Lists notifications newest first. Unread records are marked with "*".
`
}

func (c *notificationsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.unread, "unread", false, "Only list unread notifications.")
}

func (c *notificationsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		reg := rt.App.Notifications
		shown := 0
		for _, n := range reg.List() {
			if c.unread && n.IsRead {
				continue
			}
			printNotification(e.stdout, n)
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(e.stdout, "No notifications.")
		}
		fmt.Fprintf(e.stdout, "\n%d unread of %d\n", reg.UnreadCount(), len(reg.List()))
		return nil
	})
}

func printNotification(w io.Writer, n notification.Notification) {
	marker := " "
	if !n.IsRead {
		marker = "*"
	}
	fmt.Fprintf(w, "%s %-6s %-6s %-11s %s (%s)\n", marker, n.ID, n.Priority, n.Type, n.Title, n.Time)
	fmt.Fprintf(w, "         %s\n", n.Message)
}

type readCmd struct{}

func (*readCmd) Name() string           { return "read" }
func (*readCmd) Synopsis() string       { return "mark a notification as read" }
func (*readCmd) Usage() string          { return "jibajeti read <id>\n" }
func (*readCmd) SetFlags(*flag.FlagSet) {}

func (*readCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if f.NArg() != 1 {
			return usagef("read takes exactly one id")
		}
		if err := rt.App.Notifications.MarkRead(ctx, f.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Unread: %d\n", rt.App.Notifications.UnreadCount())
		return nil
	})
}

type readAllCmd struct{}

func (*readAllCmd) Name() string           { return "read-all" }
func (*readAllCmd) Synopsis() string       { return "mark every notification as read" }
func (*readAllCmd) Usage() string          { return "jibajeti read-all\n" }
func (*readAllCmd) SetFlags(*flag.FlagSet) {}

func (*readAllCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if err := rt.App.Notifications.MarkAllRead(ctx); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Unread: %d\n", rt.App.Notifications.UnreadCount())
		return nil
	})
}

type deleteCmd struct{}

func (*deleteCmd) Name() string           { return "delete" }
func (*deleteCmd) Synopsis() string       { return "delete a notification" }
func (*deleteCmd) Usage() string          { return "jibajeti delete <id>\n" }
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if f.NArg() != 1 {
			return usagef("delete takes exactly one id")
		}
		if err := rt.App.Notifications.Delete(ctx, f.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Notifications: %d\n", len(rt.App.Notifications.List()))
		return nil
	})
}

type notifyCmd struct {
	id       string
	typ      string
	title    string
	message  string
	when     string
	icon     string
	priority string
}

func (*notifyCmd) Name() string     { return "notify" }
func (*notifyCmd) Synopsis() string { return "add a notification to the top of the inbox" }
func (*notifyCmd) Usage() string {
	return `jibajeti notify -type <type> -title <title> -message <message> [-priority <p>] [-icon <icon>] [-time <label>] [-id <id>]

  Types: transaction, budget, loan, goal, alert. Priorities: low, medium,
  high. Icons: dollar, alert, credit, target, trending, check. A UUID is
  assigned when -id is omitted.
`
}

func (c *notifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Notification id. Defaults to a new UUID.")
	f.StringVar(&c.typ, "type", "alert", "Notification type.")
	f.StringVar(&c.title, "title", "", "Title line.")
	f.StringVar(&c.message, "message", "", "Body text.")
	f.StringVar(&c.when, "time", "just now", "Display time label.")
	f.StringVar(&c.icon, "icon", "alert", "Icon tag.")
	f.StringVar(&c.priority, "priority", "medium", "Priority.")
}

func (c *notifyCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if c.title == "" {
			return usagef("notify needs -title")
		}
		n, err := rt.App.Notifications.Add(ctx, notification.Notification{
			ID:       c.id,
			Type:     notification.Type(c.typ),
			Title:    c.title,
			Message:  c.message,
			Time:     c.when,
			Icon:     notification.Icon(c.icon),
			Priority: notification.Priority(c.priority),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "Added notification", n.ID)
		return nil
	})
}
