// Package appdata implements the whole-store operations: export, import,
// clear and the storage usage report.
package appdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"jibajeti/internal/kv"
	"jibajeti/internal/log"
)

// ErrMalformedImport is returned when import input is not a JSON object.
// Storage is left untouched in that case.
var ErrMalformedImport = errors.New("malformed import data")

// Usage is the storage usage report. Sizes are UTF-8 byte lengths of the
// stored strings.
type Usage struct {
	TotalBytes int            `json:"totalSize"`
	ItemBytes  map[string]int `json:"itemSizes"`
	ItemCount  int            `json:"itemCount"`
}

// TotalKB renders TotalBytes in kilobytes with two decimals.
func (u Usage) TotalKB() string {
	return fmt.Sprintf("%.2f", float64(u.TotalBytes)/1024)
}

// Manager runs whole-store operations over the application key set.
type Manager struct {
	store  kv.Store
	logger *log.Logger
}

func NewManager(store kv.Store, logger *log.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: log.OrDiscard(logger).WithComponent(log.ComponentAppData),
	}
}

// Export returns a pretty-printed JSON object mapping every populated known
// key to its parsed value. Empty values count as unpopulated, values that
// are not valid JSON are exported as JSON strings and unreadable keys are
// skipped.
func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	out := make(map[string]json.RawMessage)
	for _, key := range kv.KnownKeys() {
		raw, ok := m.read(ctx, key)
		if !ok || raw == "" {
			continue
		}
		if json.Valid([]byte(raw)) {
			out[key] = json.RawMessage(raw)
			continue
		}
		quoted, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = quoted
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	m.logger.InfoContext(ctx, "Exported app data", log.FieldOperation, log.OpExport, log.FieldCount, len(out))
	return data, nil
}

// Import writes every top-level property of data back to its key, in
// compact JSON form. Unknown keys are written through as well. Nothing is
// written unless data parses as a JSON object.
func (m *Manager) Import(ctx context.Context, data []byte) error {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if entries == nil {
		return fmt.Errorf("%w: not an object", ErrMalformedImport)
	}

	keys := make([]string, 0, len(entries))
	values := make(map[string]string, len(entries))
	for key, raw := range entries {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedImport, key, err)
		}
		keys = append(keys, key)
		values[key] = buf.String()
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !kv.IsKnown(key) {
			m.logger.WarnContext(ctx, "Importing unknown key", log.FieldKey, key)
		}
		if err := m.store.Write(ctx, key, values[key]); err != nil {
			return fmt.Errorf("import %s: %w", key, err)
		}
	}
	m.logger.InfoContext(ctx, "Imported app data", log.FieldOperation, log.OpImport, log.FieldCount, len(keys))
	return nil
}

// Clear removes every known key. Every key is attempted; failures are
// joined.
func (m *Manager) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range kv.KnownKeys() {
		if err := m.store.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	m.logger.InfoContext(ctx, "Cleared app data", log.FieldOperation, log.OpClear)
	return errors.Join(errs...)
}

// Usage reports how much of the store the known keys occupy.
func (m *Manager) Usage(ctx context.Context) Usage {
	u := Usage{ItemBytes: make(map[string]int)}
	for _, key := range kv.KnownKeys() {
		raw, ok := m.read(ctx, key)
		if !ok || raw == "" {
			continue
		}
		u.ItemBytes[key] = len(raw)
		u.TotalBytes += len(raw)
	}
	u.ItemCount = len(u.ItemBytes)
	return u
}

func (m *Manager) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := m.store.Read(ctx, key)
	if err != nil {
		m.logger.WarnContext(ctx, "Skipping unreadable key",
			log.FieldKey, key,
			log.FieldOperation, log.OpRead,
			log.FieldError, err)
		return "", false
	}
	return raw, ok
}
