// Package app builds the application state container. One App is created
// per process and handed to every surface that reads or mutates state.
package app

import (
	"context"
	"errors"
	"time"

	"jibajeti/internal/appdata"
	"jibajeti/internal/currency"
	"jibajeti/internal/kv"
	"jibajeti/internal/log"
	"jibajeti/internal/notification"
	"jibajeti/internal/popup"
	"jibajeti/internal/session"
)

// Options tunes the container. The zero value is usable.
type Options struct {
	Logger        *log.Logger
	Clock         session.Clock
	InsightsDelay time.Duration

	// OnInsights runs after the insights popup has been opened.
	OnInsights func()
}

// App owns every piece of application state.
type App struct {
	Store         kv.Store
	Session       *session.Machine
	Currency      *currency.Service
	Notifications *notification.Registry
	Popups        *popup.Board
	Data          *appdata.Manager

	logger     *log.Logger
	onInsights func()
}

// New wires the components over store and resumes the session found there.
func New(ctx context.Context, store kv.Store, opts Options) *App {
	logger := log.OrDiscard(opts.Logger)
	a := &App{
		Store:      store,
		Popups:     popup.NewBoard(),
		logger:     logger.WithComponent(log.ComponentApp),
		onInsights: opts.OnInsights,
	}

	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithInsightsHandler(a.showInsights),
	}
	if opts.Clock != nil {
		sessionOpts = append(sessionOpts, session.WithClock(opts.Clock))
	}
	if opts.InsightsDelay > 0 {
		sessionOpts = append(sessionOpts, session.WithInsightsDelay(opts.InsightsDelay))
	}

	a.Session = session.New(ctx, store, sessionOpts...)
	a.Currency = currency.NewService(ctx, store, logger)
	a.Notifications = notification.NewRegistry(ctx, store, logger)
	a.Data = appdata.NewManager(store, logger)

	if err := a.Session.Resume(ctx); err != nil {
		a.logger.WarnContext(ctx, "Session resumed without persisting", log.FieldError, err)
	}
	return a
}

// OpenNotifications shows the notification inbox.
func (a *App) OpenNotifications(ctx context.Context) error {
	return a.Session.Navigate(ctx, session.ScreenNotifications)
}

// CloseNotifications leaves the inbox for the dashboard.
func (a *App) CloseNotifications(ctx context.Context) error {
	return a.Session.Navigate(ctx, session.ScreenDashboard)
}

// ExportData returns the JSON snapshot of every populated key.
func (a *App) ExportData(ctx context.Context) ([]byte, error) {
	return a.Data.Export(ctx)
}

// ImportData writes a snapshot back to the store and reloads every
// component. Malformed input changes nothing.
func (a *App) ImportData(ctx context.Context, data []byte) error {
	err := a.Data.Import(ctx, data)
	if errors.Is(err, appdata.ErrMalformedImport) {
		return err
	}
	return errors.Join(err, a.Reload(ctx))
}

// ClearData removes every application key and reloads, which leaves the
// app in its first-run state.
func (a *App) ClearData(ctx context.Context) error {
	return errors.Join(a.Data.Clear(ctx), a.Reload(ctx))
}

// Usage reports storage usage.
func (a *App) Usage(ctx context.Context) appdata.Usage {
	return a.Data.Usage(ctx)
}

// Reload re-reads every cell from the store, as a fresh start would.
// Popups are closed.
func (a *App) Reload(ctx context.Context) error {
	a.Popups.CloseAll()
	a.Currency.Reload(ctx)
	a.Notifications.Reload(ctx)
	err := a.Session.Reload(ctx)
	a.logger.DebugContext(ctx, "Reloaded state from store")
	return err
}

// Close stops the pending insights trigger.
func (a *App) Close() {
	a.Session.Close()
}

func (a *App) showInsights() {
	if err := a.Popups.Open(popup.Insights); err != nil {
		a.logger.Warn("Insights popup not shown", log.FieldError, err)
		return
	}
	if a.onInsights != nil {
		a.onInsights()
	}
}
