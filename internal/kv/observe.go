package kv

import "context"

// ChangeOp names the kind of mutation reported to an observer.
type ChangeOp string

const (
	OpWrite  ChangeOp = "write"
	OpRemove ChangeOp = "remove"
)

// Change describes a completed mutation. The value itself is never carried.
type Change struct {
	Key   string
	Op    ChangeOp
	Bytes int
}

// ChangeFunc receives completed mutations. It runs synchronously inside the
// mutating call, after the inner store has returned successfully.
type ChangeFunc func(ctx context.Context, c Change)

type observedStore struct {
	Store
	notify ChangeFunc
}

// Observe decorates store so that every successful Write and Remove is
// reported to notify. Failed mutations are not reported.
func Observe(store Store, notify ChangeFunc) Store {
	if notify == nil {
		return store
	}
	return &observedStore{Store: store, notify: notify}
}

func (s *observedStore) Write(ctx context.Context, key, value string) error {
	if err := s.Store.Write(ctx, key, value); err != nil {
		return err
	}
	s.notify(ctx, Change{Key: key, Op: OpWrite, Bytes: len(value)})
	return nil
}

func (s *observedStore) Remove(ctx context.Context, key string) error {
	if err := s.Store.Remove(ctx, key); err != nil {
		return err
	}
	s.notify(ctx, Change{Key: key, Op: OpRemove})
	return nil
}
