package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"jibajeti/internal/kv"
	"jibajeti/internal/log"
	"jibajeti/internal/state"
)

// Registry is the persisted, ordered notification inbox. Every mutator
// builds a fresh slice and stores it with a single Set; records already
// handed out are never modified.
type Registry struct {
	cell   *state.Cell[[]Notification]
	logger *log.Logger
}

// NewRegistry binds the registry to the notifications key of store. A first
// run starts with Seed().
func NewRegistry(ctx context.Context, store kv.Store, logger *log.Logger) *Registry {
	logger = log.OrDiscard(logger).WithComponent(log.ComponentNotification)
	return &Registry{
		cell: state.New(ctx, store, kv.KeyNotifications, Seed(),
			state.WithValidator[[]Notification](validateList),
			state.WithLogger[[]Notification](logger),
		),
		logger: logger,
	}
}

// List returns a snapshot of the inbox in display order.
func (r *Registry) List() []Notification {
	return append([]Notification(nil), r.cell.Get()...)
}

// Get returns the record with id.
func (r *Registry) Get(id string) (Notification, bool) {
	for _, n := range r.cell.Get() {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

// UnreadCount counts unread records on every call.
func (r *Registry) UnreadCount() int {
	count := 0
	for _, n := range r.cell.Get() {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkRead flags the record with id as read. An unknown id is a no-op.
func (r *Registry) MarkRead(ctx context.Context, id string) error {
	current := r.cell.Get()
	idx := indexOf(current, id)
	if idx < 0 || current[idx].IsRead {
		return nil
	}

	next := append([]Notification(nil), current...)
	next[idx].IsRead = true
	r.logger.DebugContext(ctx, "Notification marked read", log.FieldID, id)
	return r.cell.Set(ctx, next)
}

// MarkAllRead flags every record as read.
func (r *Registry) MarkAllRead(ctx context.Context) error {
	current := r.cell.Get()
	next := make([]Notification, len(current))
	changed := 0
	for i, n := range current {
		if !n.IsRead {
			n.IsRead = true
			changed++
		}
		next[i] = n
	}
	if changed == 0 {
		return nil
	}
	r.logger.DebugContext(ctx, "All notifications marked read", log.FieldCount, changed)
	return r.cell.Set(ctx, next)
}

// Delete removes the record with id, keeping the order of the rest. An
// unknown id is a no-op.
func (r *Registry) Delete(ctx context.Context, id string) error {
	current := r.cell.Get()
	idx := indexOf(current, id)
	if idx < 0 {
		return nil
	}

	next := make([]Notification, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	r.logger.DebugContext(ctx, "Notification deleted", log.FieldID, id)
	return r.cell.Set(ctx, next)
}

// Add puts n at the top of the inbox. An empty id is replaced by a UUID.
// The stored record is returned.
func (r *Registry) Add(ctx context.Context, n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if err := n.Validate(); err != nil {
		return Notification{}, err
	}

	current := r.cell.Get()
	if indexOf(current, n.ID) >= 0 {
		return Notification{}, fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
	}

	next := make([]Notification, 0, len(current)+1)
	next = append(next, n)
	next = append(next, current...)
	if err := r.cell.Set(ctx, next); err != nil {
		return n, err
	}
	return n, nil
}

// Reload re-reads the inbox from storage.
func (r *Registry) Reload(ctx context.Context) {
	r.cell.Reload(ctx)
}

func indexOf(list []Notification, id string) int {
	for i, n := range list {
		if n.ID == id {
			return i
		}
	}
	return -1
}
