package session

import "time"

// Timer is a pending deferred call.
type Timer interface {
	// Stop cancels the call. It reports false when the call already fired
	// or was stopped.
	Stop() bool
}

// Clock schedules deferred calls. The machine only needs AfterFunc, which
// keeps fakes trivial in tests.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is backed by time.AfterFunc.
var SystemClock Clock = systemClock{}
