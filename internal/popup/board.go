// Package popup tracks which informational popups are open. Popup state is
// never persisted.
package popup

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownKind is returned for popup names outside the known set.
var ErrUnknownKind = errors.New("unknown popup")

// Kind names an informational popup.
type Kind string

const (
	BudgetAlert        Kind = "budget-alert"
	GoalAchieved       Kind = "goal-achieved"
	LoanReminder       Kind = "loan-reminder"
	Insights           Kind = "insights"
	QuickAddBudget     Kind = "quick-add-budget"
	TransactionConfirm Kind = "transaction-confirm"
)

var kinds = []Kind{BudgetAlert, GoalAchieved, LoanReminder, Insights, QuickAddBudget, TransactionConfirm}

// Kinds lists every popup in display order.
func Kinds() []Kind { return append([]Kind(nil), kinds...) }

// ParseKind validates s.
func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Board holds the open/closed flag of every popup.
type Board struct {
	mu   sync.Mutex
	open map[Kind]bool
}

func NewBoard() *Board {
	return &Board{open: make(map[Kind]bool)}
}

// Open shows popup k.
func (b *Board) Open(k Kind) error {
	if _, err := ParseKind(string(k)); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open[k] = true
	return nil
}

// Close hides popup k. Closing a closed popup is a no-op.
func (b *Board) Close(k Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.open, k)
}

// IsOpen reports whether popup k is shown.
func (b *Board) IsOpen(k Kind) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open[k]
}

// OpenKinds returns the shown popups in display order.
func (b *Board) OpenKinds() []Kind {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Kind
	for _, k := range kinds {
		if b.open[k] {
			out = append(out, k)
		}
	}
	return out
}

// CloseAll hides every popup.
func (b *Board) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.open)
}
