// Package session owns the navigation and login state of the application
// and the one-shot insights trigger that fires after entering the
// dashboard.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"jibajeti/internal/kv"
	"jibajeti/internal/log"
	"jibajeti/internal/state"
)

// ErrNotLoggedIn is returned when navigating without a session.
var ErrNotLoggedIn = errors.New("not logged in")

// DefaultInsightsDelay is how long the dashboard must stay up before the
// insights popup is shown.
const DefaultInsightsDelay = 2 * time.Second

// State is a read-only view of the machine.
type State struct {
	LoggedIn      bool
	Screen        Screen
	DarkMode      bool
	InsightsShown bool
	BackButton    bool
	InsightsArmed bool
}

// Machine is the navigation and session state machine. All persisted flags
// live in cells; the pending insights timer lives in memory only.
//
// Transitions run under one mutex, so UI calls and the timer callback are
// serialized exactly like a single event loop would serialize them.
type Machine struct {
	mu            sync.Mutex
	loggedIn      *state.Cell[bool]
	screen        *state.Cell[Screen]
	darkMode      *state.Cell[bool]
	insightsShown *state.Cell[bool]

	clock      Clock
	delay      time.Duration
	onInsights func()
	logger     *log.Logger

	pending    Timer
	generation uint64
	closed     bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithInsightsDelay overrides DefaultInsightsDelay.
func WithInsightsDelay(d time.Duration) Option {
	return func(m *Machine) { m.delay = d }
}

// WithInsightsHandler registers the callback that shows the insights popup.
// It runs at most once per login session, outside the machine's lock.
func WithInsightsHandler(fn func()) Option {
	return func(m *Machine) { m.onInsights = fn }
}

// WithLogger sets the machine's logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// New builds a machine over store. Call Resume once the caller is ready to
// receive insights callbacks.
func New(ctx context.Context, store kv.Store, opts ...Option) *Machine {
	m := &Machine{
		clock: SystemClock,
		delay: DefaultInsightsDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = log.OrDiscard(m.logger).WithComponent(log.ComponentSession)

	m.loggedIn = state.New(ctx, store, kv.KeyLoggedIn, false, state.WithLogger[bool](m.logger))
	m.screen = state.New(ctx, store, kv.KeyCurrentScreen, ScreenLogin,
		state.WithValidator[Screen](validateScreen),
		state.WithLogger[Screen](m.logger),
	)
	m.darkMode = state.New(ctx, store, kv.KeyDarkMode, false, state.WithLogger[bool](m.logger))
	m.insightsShown = state.New(ctx, store, kv.KeyShownInsights, false, state.WithLogger[bool](m.logger))
	return m
}

// Resume applies the derived rules to the state read from storage: a
// resumed session parked on the login screen moves to the dashboard, and
// the insights trigger is armed if the session qualifies.
func (m *Machine) Resume(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconcile(ctx)
}

// Login starts a session on the dashboard. The three writes are
// independent; every one is attempted and failures are joined.
func (m *Machine) Login(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelInsights()
	err := errors.Join(
		m.loggedIn.Set(ctx, true),
		m.screen.Set(ctx, ScreenDashboard),
		m.insightsShown.Set(ctx, false),
	)
	m.logger.InfoContext(ctx, "Logged in", log.FieldScreen, ScreenDashboard)
	return errors.Join(err, m.reconcile(ctx))
}

// Logout ends the session and returns to the login screen.
func (m *Machine) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelInsights()
	err := errors.Join(
		m.loggedIn.Set(ctx, false),
		m.screen.Set(ctx, ScreenLogin),
		m.insightsShown.Set(ctx, false),
	)
	m.logger.InfoContext(ctx, "Logged out")
	return errors.Join(err, m.reconcile(ctx))
}

// Navigate moves an authenticated session to screen.
func (m *Machine) Navigate(ctx context.Context, screen Screen) error {
	if err := validateScreen(screen); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loggedIn.Get() {
		return ErrNotLoggedIn
	}
	var err error
	if m.screen.Get() != screen {
		err = m.screen.Set(ctx, screen)
		m.logger.DebugContext(ctx, "Navigated", log.FieldScreen, screen)
	}
	return errors.Join(err, m.reconcile(ctx))
}

// ToggleTheme flips dark mode and returns the new value.
func (m *Machine) ToggleTheme(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.darkMode.Update(ctx, func(dark bool) bool { return !dark })
	return m.darkMode.Get(), err
}

// Screen returns the effective screen: always login without a session.
func (m *Machine) Screen() Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.effectiveScreen()
}

// IsLoggedIn reports whether a session is active.
func (m *Machine) IsLoggedIn() bool { return m.loggedIn.Get() }

// IsDarkMode reports the theme flag.
func (m *Machine) IsDarkMode() bool { return m.darkMode.Get() }

// ShowBackButton is derived from the effective screen.
func (m *Machine) ShowBackButton() bool { return m.Screen().ShowsBackButton() }

// Snapshot returns a consistent view of the machine.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	screen := m.effectiveScreen()
	return State{
		LoggedIn:      m.loggedIn.Get(),
		Screen:        screen,
		DarkMode:      m.darkMode.Get(),
		InsightsShown: m.insightsShown.Get(),
		BackButton:    screen.ShowsBackButton(),
		InsightsArmed: m.pending != nil,
	}
}

// Reload re-reads every cell from storage and re-applies the derived rules.
func (m *Machine) Reload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelInsights()
	m.loggedIn.Reload(ctx)
	m.screen.Reload(ctx)
	m.darkMode.Reload(ctx)
	m.insightsShown.Reload(ctx)
	return m.reconcile(ctx)
}

// Close cancels a pending insights trigger and stops arming new ones.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelInsights()
	m.closed = true
}

func (m *Machine) effectiveScreen() Screen {
	if !m.loggedIn.Get() {
		return ScreenLogin
	}
	return m.screen.Get()
}

// reconcile must be called with mu held.
func (m *Machine) reconcile(ctx context.Context) error {
	var err error
	if m.loggedIn.Get() && m.screen.Get() == ScreenLogin {
		err = m.screen.Set(ctx, ScreenDashboard)
		m.logger.DebugContext(ctx, "Resumed session redirected", log.FieldScreen, ScreenDashboard)
	}

	if m.qualifiesForInsights() {
		m.armInsights()
	} else {
		m.cancelInsights()
	}
	return err
}

func (m *Machine) qualifiesForInsights() bool {
	return !m.closed &&
		m.loggedIn.Get() &&
		m.screen.Get() == ScreenDashboard &&
		!m.insightsShown.Get()
}

func (m *Machine) armInsights() {
	if m.pending != nil {
		return
	}
	m.generation++
	gen := m.generation
	m.pending = m.clock.AfterFunc(m.delay, func() { m.fireInsights(gen) })
	m.logger.Debug("Insights trigger armed", "delay", m.delay)
}

func (m *Machine) cancelInsights() {
	if m.pending == nil {
		return
	}
	m.pending.Stop()
	m.pending = nil
	// a callback that already started must see a stale generation
	m.generation++
	m.logger.Debug("Insights trigger cancelled")
}

func (m *Machine) fireInsights(gen uint64) {
	ctx := context.Background()

	m.mu.Lock()
	if gen != m.generation || m.pending == nil {
		m.mu.Unlock()
		return
	}
	m.pending = nil
	if !m.qualifiesForInsights() {
		m.mu.Unlock()
		return
	}
	if err := m.insightsShown.Set(ctx, true); err != nil {
		m.logger.WarnContext(ctx, "Insights flag not persisted", log.FieldError, err)
	}
	handler := m.onInsights
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Insights popup triggered")
	if handler != nil {
		handler()
	}
}
