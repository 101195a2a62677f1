package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jibajeti/internal/appdata"
	"jibajeti/internal/currency"
	"jibajeti/internal/kv"
	"jibajeti/internal/popup"
	"jibajeti/internal/session"
)

// manualClock collects deferred calls and runs them on demand.
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) session.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.pending = append(c.pending, t)
	return t
}

func (c *manualClock) fire() {
	c.mu.Lock()
	due := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, t := range due {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func newTestApp(t *testing.T, store kv.Store) (*App, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	a := New(context.Background(), store, Options{Clock: clock})
	t.Cleanup(a.Close)
	return a, clock
}

func TestNew_FirstRun(t *testing.T) {
	store := kv.NewMemoryStore(nil)
	a, _ := newTestApp(t, store)

	assert.False(t, a.Session.IsLoggedIn())
	assert.Equal(t, session.ScreenLogin, a.Session.Screen())
	assert.Equal(t, currency.USD, a.Currency.Currency())
	assert.Len(t, a.Notifications.List(), 6)
	assert.Equal(t, 3, a.Notifications.UnreadCount())
	assert.Empty(t, a.Popups.OpenKinds())
	assert.Zero(t, store.Len(), "a first run writes nothing")
}

func TestInsightsOpensPopup(t *testing.T) {
	ctx := context.Background()
	a, clock := newTestApp(t, kv.NewMemoryStore(nil))

	require.NoError(t, a.Session.Login(ctx))
	assert.False(t, a.Popups.IsOpen(popup.Insights))

	clock.fire()
	assert.True(t, a.Popups.IsOpen(popup.Insights))
	assert.True(t, a.Session.Snapshot().InsightsShown)
}

func TestNotificationBell(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, kv.NewMemoryStore(nil))

	assert.ErrorIs(t, a.OpenNotifications(ctx), session.ErrNotLoggedIn)

	require.NoError(t, a.Session.Login(ctx))
	require.NoError(t, a.OpenNotifications(ctx))
	assert.Equal(t, session.ScreenNotifications, a.Session.Screen())
	assert.True(t, a.Session.ShowBackButton())

	require.NoError(t, a.CloseNotifications(ctx))
	assert.Equal(t, session.ScreenDashboard, a.Session.Screen())
}

func TestImportData_ReloadsEveryComponent(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, kv.NewMemoryStore(nil))
	require.NoError(t, a.Popups.Open(popup.BudgetAlert))

	snapshot := `{
  "ji-bajeti-logged-in": true,
  "ji-bajeti-screen": "profile",
  "ji-bajeti-dark-mode": true,
  "ji-bajeti-currency": "GBP",
  "ji-bajeti-notifications": []
}`
	require.NoError(t, a.ImportData(ctx, []byte(snapshot)))

	assert.True(t, a.Session.IsLoggedIn())
	assert.Equal(t, session.ScreenProfile, a.Session.Screen())
	assert.True(t, a.Session.IsDarkMode())
	assert.Equal(t, currency.GBP, a.Currency.Currency())
	assert.Equal(t, "£12.00", a.Currency.Format(12))
	assert.Empty(t, a.Notifications.List())
	assert.Empty(t, a.Popups.OpenKinds())
}

func TestImportData_MalformedChangesNothing(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, kv.NewMemoryStore(nil))
	require.NoError(t, a.Currency.SetCurrency(ctx, "KES"))
	require.NoError(t, a.Popups.Open(popup.GoalAchieved))

	err := a.ImportData(ctx, []byte("not json"))
	assert.ErrorIs(t, err, appdata.ErrMalformedImport)

	assert.Equal(t, currency.KES, a.Currency.Currency())
	assert.True(t, a.Popups.IsOpen(popup.GoalAchieved))
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestApp(t, kv.NewMemoryStore(nil))
	require.NoError(t, src.Session.Login(ctx))
	require.NoError(t, src.Session.Navigate(ctx, session.ScreenSettings))
	require.NoError(t, src.Currency.SetCurrency(ctx, "UGX"))
	require.NoError(t, src.Notifications.MarkRead(ctx, "2"))
	require.NoError(t, src.Notifications.Delete(ctx, "5"))

	data, err := src.ExportData(ctx)
	require.NoError(t, err)

	dst, _ := newTestApp(t, kv.NewMemoryStore(nil))
	require.NoError(t, dst.ImportData(ctx, data))

	assert.Equal(t, src.Session.Snapshot().Screen, dst.Session.Snapshot().Screen)
	assert.Equal(t, src.Currency.Currency(), dst.Currency.Currency())
	assert.Equal(t, src.Notifications.List(), dst.Notifications.List())
}

func TestClearData_ReturnsToFirstRun(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore(nil)
	a, _ := newTestApp(t, store)

	require.NoError(t, a.Session.Login(ctx))
	_, err := a.Session.ToggleTheme(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Currency.SetCurrency(ctx, "TZS"))
	require.NoError(t, a.Notifications.MarkAllRead(ctx))

	require.NoError(t, a.ClearData(ctx))

	assert.False(t, a.Session.IsLoggedIn())
	assert.Equal(t, session.ScreenLogin, a.Session.Screen())
	assert.False(t, a.Session.IsDarkMode())
	assert.Equal(t, currency.USD, a.Currency.Currency())
	assert.Equal(t, 3, a.Notifications.UnreadCount())
	assert.Zero(t, a.Usage(ctx).ItemCount)
	assert.False(t, a.Session.Snapshot().InsightsArmed)
}

func TestResumeFromStore(t *testing.T) {
	store := kv.NewMemoryStore(map[string]string{
		kv.KeyLoggedIn:      "true",
		kv.KeyCurrentScreen: `"login"`,
		kv.KeyCurrency:      "KES",
	})
	a, clock := newTestApp(t, store)

	assert.Equal(t, session.ScreenDashboard, a.Session.Screen())
	assert.Equal(t, "KSh1,234.50", a.Currency.Format(1234.5))

	clock.fire()
	assert.True(t, a.Popups.IsOpen(popup.Insights))
}

func TestOnInsightsHook(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{}
	calls := 0
	a := New(ctx, kv.NewMemoryStore(nil), Options{
		Clock:      clock,
		OnInsights: func() { calls++ },
	})
	t.Cleanup(a.Close)

	require.NoError(t, a.Session.Login(ctx))
	clock.fire()
	assert.Equal(t, 1, calls)
	assert.True(t, a.Popups.IsOpen(popup.Insights))
}
