package session

import (
	"errors"
	"fmt"
)

// ErrUnknownScreen is returned for screen names outside the known set.
var ErrUnknownScreen = errors.New("unknown screen")

// Screen is a navigable view.
type Screen string

const (
	ScreenLogin          Screen = "login"
	ScreenDashboard      Screen = "dashboard"
	ScreenTransactions   Screen = "transactions"
	ScreenAddTransaction Screen = "add-transaction"
	ScreenSummary        Screen = "summary"
	ScreenProfile        Screen = "profile"
	ScreenSettings       Screen = "settings"
	ScreenNotifications  Screen = "notifications"
)

var screens = []Screen{
	ScreenLogin,
	ScreenDashboard,
	ScreenTransactions,
	ScreenAddTransaction,
	ScreenSummary,
	ScreenProfile,
	ScreenSettings,
	ScreenNotifications,
}

// Screens returns every known screen.
func Screens() []Screen { return append([]Screen(nil), screens...) }

// ParseScreen validates s.
func ParseScreen(s string) (Screen, error) {
	for _, sc := range screens {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScreen, s)
}

// ShowsBackButton reports whether the layout offers a back button on s.
func (s Screen) ShowsBackButton() bool {
	switch s {
	case ScreenAddTransaction, ScreenSettings, ScreenNotifications:
		return true
	}
	return false
}

func (s Screen) String() string { return string(s) }

func validateScreen(s Screen) error {
	_, err := ParseScreen(string(s))
	return err
}
