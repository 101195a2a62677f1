package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf})
	assert.Equal(t, ComponentApp, logger.Component())

	logger.WithComponent(ComponentBackup).With(FieldPath, "/tmp/x").Debug("Backup written")

	out := buf.String()
	assert.Contains(t, out, "component=backup")
	assert.Contains(t, out, "path=/tmp/x")
	assert.Contains(t, out, `msg="Backup written"`)
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.Info("dropped")
	logger.Error("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	l := New(Config{Component: ComponentCLI})
	assert.Same(t, l, OrDiscard(l))
}

func TestContext(t *testing.T) {
	l := New(Config{Component: ComponentAMQP})
	ctx := NewContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))

	fallback := FromContext(context.Background())
	assert.Equal(t, "unknown", fallback.Component())
}
