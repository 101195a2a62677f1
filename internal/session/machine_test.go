package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jibajeti/internal/kv"
)

type fakeTimer struct {
	clock   *fakeClock
	due     time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock fires timers only when Advance moves past their due time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, due: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.due.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type harness struct {
	machine *Machine
	clock   *fakeClock
	store   kv.Store
	shown   int
}

func newHarness(t *testing.T, store kv.Store) *harness {
	t.Helper()
	if store == nil {
		store = kv.NewMemoryStore(nil)
	}
	h := &harness{clock: newFakeClock(), store: store}
	h.machine = New(context.Background(), store,
		WithClock(h.clock),
		WithInsightsDelay(2*time.Second),
		WithInsightsHandler(func() { h.shown++ }),
	)
	require.NoError(t, h.machine.Resume(context.Background()))
	t.Cleanup(h.machine.Close)
	return h
}

func TestMachine_FirstRun(t *testing.T) {
	h := newHarness(t, nil)

	s := h.machine.Snapshot()
	assert.False(t, s.LoggedIn)
	assert.Equal(t, ScreenLogin, s.Screen)
	assert.False(t, s.DarkMode)
	assert.False(t, s.InsightsArmed)
	assert.Zero(t, h.clock.live())
}

func TestMachine_LoginFiresInsightsOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.machine.Login(ctx))
	assert.Equal(t, ScreenDashboard, h.machine.Screen())
	assert.True(t, h.machine.Snapshot().InsightsArmed)

	h.clock.Advance(1999 * time.Millisecond)
	assert.Zero(t, h.shown)

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, 1, h.shown)
	assert.True(t, h.machine.Snapshot().InsightsShown)

	raw, _, _ := h.store.Read(ctx, kv.KeyShownInsights)
	assert.Equal(t, "true", raw)

	require.NoError(t, h.machine.Resume(ctx))
	assert.False(t, h.machine.Snapshot().InsightsArmed, "a later pass must not re-arm")
	h.clock.Advance(time.Hour)
	assert.Equal(t, 1, h.shown)
}

func TestMachine_NavigatingAwayCancelsInsights(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.machine.Login(ctx))
	h.clock.Advance(time.Second)
	require.NoError(t, h.machine.Navigate(ctx, ScreenTransactions))
	assert.Zero(t, h.clock.live())

	h.clock.Advance(time.Minute)
	assert.Zero(t, h.shown)
	assert.False(t, h.machine.Snapshot().InsightsShown)

	require.NoError(t, h.machine.Navigate(ctx, ScreenDashboard))
	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 1, h.shown)
}

func TestMachine_LogoutCancelsInsights(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.machine.Login(ctx))
	require.NoError(t, h.machine.Logout(ctx))
	h.clock.Advance(time.Minute)

	assert.Zero(t, h.shown)
	assert.Zero(t, h.clock.live())
}

func TestMachine_StaleCallbackDoesNotFire(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.machine.Login(ctx))
	h.clock.mu.Lock()
	stale := h.clock.timers[len(h.clock.timers)-1].f
	h.clock.mu.Unlock()

	require.NoError(t, h.machine.Navigate(ctx, ScreenSummary))
	require.NoError(t, h.machine.Navigate(ctx, ScreenDashboard))

	// the cancelled timer's callback was already running when it got cancelled
	stale()
	assert.Zero(t, h.shown)

	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 1, h.shown)
}

func TestMachine_LoginResetsInsightsPerSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.machine.Login(ctx))
	h.clock.Advance(2 * time.Second)
	require.NoError(t, h.machine.Logout(ctx))
	assert.False(t, h.machine.Snapshot().InsightsShown)

	require.NoError(t, h.machine.Login(ctx))
	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 2, h.shown)
}

func TestMachine_LogoutHidesStaleScreen(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore(map[string]string{
		kv.KeyLoggedIn:      "false",
		kv.KeyCurrentScreen: `"dashboard"`,
	})
	h := newHarness(t, store)
	assert.Equal(t, ScreenLogin, h.machine.Screen())

	require.NoError(t, h.machine.Login(ctx))
	require.NoError(t, h.machine.Navigate(ctx, ScreenProfile))
	require.NoError(t, h.machine.Logout(ctx))

	assert.False(t, h.machine.IsLoggedIn())
	assert.Equal(t, ScreenLogin, h.machine.Screen())

	// even if the raw value is tampered with, no session means login
	require.NoError(t, store.Write(ctx, kv.KeyCurrentScreen, `"dashboard"`))
	require.NoError(t, h.machine.Reload(ctx))
	assert.Equal(t, ScreenLogin, h.machine.Screen())
}

func TestMachine_ResumeRedirectsToDashboard(t *testing.T) {
	store := kv.NewMemoryStore(map[string]string{
		kv.KeyLoggedIn:      "true",
		kv.KeyCurrentScreen: `"login"`,
	})
	h := newHarness(t, store)

	assert.Equal(t, ScreenDashboard, h.machine.Screen())
	raw, _, _ := store.Read(context.Background(), kv.KeyCurrentScreen)
	assert.Equal(t, `"dashboard"`, raw)
	assert.True(t, h.machine.Snapshot().InsightsArmed)
}

func TestMachine_ResumeOnOtherScreenDoesNotArm(t *testing.T) {
	store := kv.NewMemoryStore(map[string]string{
		kv.KeyLoggedIn:      "true",
		kv.KeyCurrentScreen: `"settings"`,
	})
	h := newHarness(t, store)

	assert.Equal(t, ScreenSettings, h.machine.Screen())
	assert.True(t, h.machine.ShowBackButton())
	assert.Zero(t, h.clock.live())
}

func TestMachine_CorruptScreenFallsBack(t *testing.T) {
	store := kv.NewMemoryStore(map[string]string{
		kv.KeyLoggedIn:      "true",
		kv.KeyCurrentScreen: `"casino"`,
	})
	h := newHarness(t, store)
	assert.Equal(t, ScreenDashboard, h.machine.Screen())
}

func TestMachine_Navigate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	assert.ErrorIs(t, h.machine.Navigate(ctx, ScreenSummary), ErrNotLoggedIn)
	assert.Equal(t, ScreenLogin, h.machine.Screen())

	require.NoError(t, h.machine.Login(ctx))
	assert.ErrorIs(t, h.machine.Navigate(ctx, Screen("casino")), ErrUnknownScreen)
	assert.Equal(t, ScreenDashboard, h.machine.Screen())

	for _, sc := range []Screen{ScreenTransactions, ScreenAddTransaction, ScreenSummary, ScreenProfile, ScreenSettings, ScreenNotifications} {
		require.NoError(t, h.machine.Navigate(ctx, sc))
		assert.Equal(t, sc, h.machine.Screen())
	}

	require.NoError(t, h.machine.Navigate(ctx, ScreenLogin))
	assert.Equal(t, ScreenDashboard, h.machine.Screen(), "a live session never rests on login")
}

func TestMachine_ToggleTheme(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	dark, err := h.machine.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.True(t, dark)
	assert.True(t, h.machine.IsDarkMode())

	again := New(ctx, h.store)
	assert.True(t, again.IsDarkMode())

	dark, err = h.machine.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.False(t, dark)
}

type readOnlyStore struct{ *kv.MemoryStore }

func (readOnlyStore) Write(context.Context, string, string) error { return kv.ErrUnavailable }

func TestMachine_LoginWithUnavailableStorage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, readOnlyStore{kv.NewMemoryStore(nil)})

	err := h.machine.Login(ctx)
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.True(t, h.machine.IsLoggedIn(), "memory follows the transition even when storage does not")
	assert.Equal(t, ScreenDashboard, h.machine.Screen())
}

func TestMachine_ToggleThemeWithUnavailableStorage(t *testing.T) {
	h := newHarness(t, readOnlyStore{kv.NewMemoryStore(nil)})

	dark, err := h.machine.ToggleTheme(context.Background())
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.True(t, dark)
	assert.True(t, h.machine.IsDarkMode())
}

func TestMachine_CloseCancelsInsights(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	require.NoError(t, h.machine.Login(ctx))
	h.machine.Close()
	h.clock.Advance(time.Minute)
	assert.Zero(t, h.shown)
}

func TestScreen_ShowsBackButton(t *testing.T) {
	want := map[Screen]bool{
		ScreenLogin:          false,
		ScreenDashboard:      false,
		ScreenTransactions:   false,
		ScreenAddTransaction: true,
		ScreenSummary:        false,
		ScreenProfile:        false,
		ScreenSettings:       true,
		ScreenNotifications:  true,
	}
	require.Len(t, Screens(), len(want))
	for _, sc := range Screens() {
		assert.Equal(t, want[sc], sc.ShowsBackButton(), sc)
	}
}

func TestParseScreen(t *testing.T) {
	sc, err := ParseScreen("add-transaction")
	require.NoError(t, err)
	assert.Equal(t, ScreenAddTransaction, sc)

	_, err = ParseScreen("Dashboard")
	assert.ErrorIs(t, err, ErrUnknownScreen)
}
