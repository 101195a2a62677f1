// Package state provides persisted state cells: in-memory values bound to a
// single key of a kv.Store and written through on every change.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"jibajeti/internal/kv"
	"jibajeti/internal/log"
)

// DecodeFunc turns a raw stored value into T.
type DecodeFunc[T any] func(raw string) (T, error)

// ValidateFunc rejects decoded values that do not fit the cell's schema.
type ValidateFunc[T any] func(T) error

// Cell is a named state slot bound to one store key.
//
// On creation the cell reads its key once; an absent, unreadable or
// malformed value seeds the cell with its default and nothing is written
// until the first Set. Get never touches storage. Set replaces the value in
// memory and writes it synchronously. Memory matches the last successfully
// written value only while writes succeed; after a failed write it holds
// the unwritten value.
type Cell[T any] struct {
	mu       sync.RWMutex
	key      string
	def      T
	value    T
	store    kv.Store
	decode   DecodeFunc[T]
	validate ValidateFunc[T]
	logger   *log.Logger
}

// Option configures a Cell.
type Option[T any] func(*Cell[T])

// WithDecoder replaces the default JSON decoding.
func WithDecoder[T any](fn DecodeFunc[T]) Option[T] {
	return func(c *Cell[T]) { c.decode = fn }
}

// WithValidator rejects decoded values; a rejected value falls back to the
// default exactly like a parse failure.
func WithValidator[T any](fn ValidateFunc[T]) Option[T] {
	return func(c *Cell[T]) { c.validate = fn }
}

// WithLogger sets the logger used for best-effort recoveries.
func WithLogger[T any](l *log.Logger) Option[T] {
	return func(c *Cell[T]) { c.logger = l }
}

// New creates a cell for key and seeds it from store.
func New[T any](ctx context.Context, store kv.Store, key string, def T, opts ...Option[T]) *Cell[T] {
	c := &Cell[T]{
		key:    key,
		def:    def,
		store:  store,
		decode: decodeJSON[T],
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = log.OrDiscard(c.logger).WithComponent(log.ComponentCell)
	c.value = c.load(ctx)
	return c
}

// Get returns the current in-memory value. Reference types (slices, maps)
// are shared with the cell and must not be mutated by the caller.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and writes it through. The in-memory value is
// updated even when the write fails; the write error is returned so the
// caller can decide whether to surface it.
func (c *Cell[T]) Set(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = v
	if err := c.store.Write(ctx, c.key, string(raw)); err != nil {
		c.logger.WarnContext(ctx, "Write-through failed, value kept in memory only",
			log.FieldKey, c.key,
			log.FieldOperation, log.OpWrite,
			log.FieldError, err)
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

// Update applies fn to the current value and stores the result.
func (c *Cell[T]) Update(ctx context.Context, fn func(T) T) error {
	return c.Set(ctx, fn(c.Get()))
}

// Reload re-reads the key from storage, falling back to the default. It is
// used after the store was changed behind the cell's back (import, clear).
func (c *Cell[T]) Reload(ctx context.Context) T {
	v := c.load(ctx)
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	return v
}

func (c *Cell[T]) load(ctx context.Context) T {
	raw, ok, err := c.store.Read(ctx, c.key)
	if err != nil {
		c.logger.WarnContext(ctx, "Storage read failed, using default",
			log.FieldKey, c.key,
			log.FieldOperation, log.OpRead,
			log.FieldError, err)
		return c.def
	}
	if !ok {
		return c.def
	}

	v, err := c.decode(raw)
	if err == nil && c.validate != nil {
		err = c.validate(v)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "Stored value is malformed, using default",
			log.FieldKey, c.key,
			log.FieldOperation, log.OpParse,
			log.FieldError, err)
		return c.def
	}
	return v
}

func decodeJSON[T any](raw string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
