package amqp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jibajeti/internal/kv"
)

func TestNewStateChangeMessage(t *testing.T) {
	msg := NewStateChangeMessage(kv.Change{Key: kv.KeyNotifications, Op: kv.OpWrite, Bytes: 412})

	assert.Equal(t, kv.KeyNotifications, msg.Key)
	assert.Equal(t, "write", msg.Op)
	assert.Equal(t, 412, msg.Bytes)
	assert.False(t, msg.Timestamp.IsZero())
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
}

func TestStateChangeMessage_JSON(t *testing.T) {
	timestamp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &StateChangeMessage{
		Key:       kv.KeyCurrency,
		Op:        "remove",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"ji-bajeti-currency","op":"remove","bytes":0,"timestamp":"2026-01-01T12:00:00Z"}`, string(jsonBytes))

	parsed, err := StateChangeMessageFromJSON(jsonBytes)
	require.NoError(t, err)
	assert.Equal(t, msg.Key, parsed.Key)
	assert.Equal(t, msg.Op, parsed.Op)
	assert.Equal(t, msg.Bytes, parsed.Bytes)
	assert.True(t, parsed.Timestamp.Equal(msg.Timestamp))
}

func TestStateChangeMessage_InvalidJSON(t *testing.T) {
	tests := map[string]string{
		"malformed":   `{"key": 5}`,
		"missing key": `{"op": "write", "bytes": 1}`,
		"unknown op":  `{"key": "ji-bajeti-screen", "op": "rename"}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := StateChangeMessageFromJSON([]byte(input))
			assert.Error(t, err)
		})
	}
}
