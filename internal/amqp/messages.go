package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"jibajeti/internal/kv"
)

// StateChangeMessage announces a completed store mutation. It carries the
// key, the kind of mutation and the size of the written value; the value
// itself never leaves the process.
type StateChangeMessage struct {
	Key       string    `json:"key"`
	Op        string    `json:"op"`
	Bytes     int       `json:"bytes"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStateChangeMessage creates a message for change stamped with the current time
func NewStateChangeMessage(change kv.Change) *StateChangeMessage {
	return &StateChangeMessage{
		Key:       change.Key,
		Op:        string(change.Op),
		Bytes:     change.Bytes,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *StateChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StateChangeMessageFromJSON parses and validates a message.
func StateChangeMessageFromJSON(data []byte) (*StateChangeMessage, error) {
	var msg StateChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Key == "" {
		return nil, fmt.Errorf("state change without key")
	}
	switch kv.ChangeOp(msg.Op) {
	case kv.OpWrite, kv.OpRemove:
	default:
		return nil, fmt.Errorf("unknown state change op %q", msg.Op)
	}
	return &msg, nil
}
