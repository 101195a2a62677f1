// Package notification models the notification inbox and its persisted
// registry.
package notification

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid reports a record with an unknown enum value or missing field.
	ErrInvalid = errors.New("invalid notification")
	// ErrDuplicateID reports an id already present in the collection.
	ErrDuplicateID = errors.New("duplicate notification id")
)

// Type is the category a notification belongs to.
type Type string

const (
	TypeTransaction Type = "transaction"
	TypeBudget      Type = "budget"
	TypeLoan        Type = "loan"
	TypeGoal        Type = "goal"
	TypeAlert       Type = "alert"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeTransaction, TypeBudget, TypeLoan, TypeGoal, TypeAlert:
		return true
	}
	return false
}

// Priority orders notifications by urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Icon is the display tag rendered next to a notification.
type Icon string

const (
	IconDollar   Icon = "dollar"
	IconAlert    Icon = "alert"
	IconCredit   Icon = "credit"
	IconTarget   Icon = "target"
	IconTrending Icon = "trending"
	IconCheck    Icon = "check"
)

// Valid reports whether i is a known icon tag.
func (i Icon) Valid() bool {
	switch i {
	case IconDollar, IconAlert, IconCredit, IconTarget, IconTrending, IconCheck:
		return true
	}
	return false
}

// Notification is one inbox record. Time is a display string, not a
// timestamp.
type Notification struct {
	ID       string   `json:"id"`
	Type     Type     `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Time     string   `json:"time"`
	IsRead   bool     `json:"isRead"`
	Icon     Icon     `json:"icon"`
	Priority Priority `json:"priority"`
}

// Validate checks enum fields and the id.
func (n Notification) Validate() error {
	switch {
	case n.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalid)
	case !n.Type.Valid():
		return fmt.Errorf("%w: type %q", ErrInvalid, n.Type)
	case !n.Icon.Valid():
		return fmt.Errorf("%w: icon %q", ErrInvalid, n.Icon)
	case !n.Priority.Valid():
		return fmt.Errorf("%w: priority %q", ErrInvalid, n.Priority)
	}
	return nil
}

// validateList is the schema of the persisted collection: non-nil, every
// record valid, ids unique.
func validateList(list []Notification) error {
	if list == nil {
		return fmt.Errorf("%w: null collection", ErrInvalid)
	}
	seen := make(map[string]struct{}, len(list))
	for _, n := range list {
		if err := n.Validate(); err != nil {
			return err
		}
		if _, ok := seen[n.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return nil
}

// Seed returns the inbox a first run starts with.
func Seed() []Notification {
	return []Notification{
		{
			ID:       "1",
			Type:     TypeTransaction,
			Title:    "Payment Received",
			Message:  "Salary deposit of $8,500 has been credited to your account.",
			Time:     "2 hours ago",
			Icon:     IconDollar,
			Priority: PriorityHigh,
		},
		{
			ID:       "2",
			Type:     TypeBudget,
			Title:    "Budget Warning",
			Message:  "You've spent 85% of your Food & Dining budget this month.",
			Time:     "5 hours ago",
			Icon:     IconAlert,
			Priority: PriorityMedium,
		},
		{
			ID:       "3",
			Type:     TypeLoan,
			Title:    "Loan Payment Due",
			Message:  "Your home loan payment of $1,250 is due in 3 days.",
			Time:     "1 day ago",
			Icon:     IconCredit,
			Priority: PriorityHigh,
		},
		{
			ID:       "4",
			Type:     TypeGoal,
			Title:    "Goal Progress",
			Message:  "You're 85% towards your Emergency Fund goal. Keep it up!",
			Time:     "2 days ago",
			IsRead:   true,
			Icon:     IconTarget,
			Priority: PriorityLow,
		},
		{
			ID:       "5",
			Type:     TypeAlert,
			Title:    "Spending Insight",
			Message:  "Your spending increased by 15% compared to last week.",
			Time:     "3 days ago",
			IsRead:   true,
			Icon:     IconTrending,
			Priority: PriorityMedium,
		},
		{
			ID:       "6",
			Type:     TypeGoal,
			Title:    "Goal Achieved!",
			Message:  "Congratulations! You've reached your Vacation savings goal.",
			Time:     "5 days ago",
			IsRead:   true,
			Icon:     IconCheck,
			Priority: PriorityLow,
		},
	}
}
