// Package lifecycle tracks the state of one logical async action: login,
// register, profile fetch or update, order create, order fetch, order pay.
// Each action owns its own instance; state never leaks between them.
package lifecycle

import (
	"errors"
	"sync"
)

type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusLoading   Status = "LOADING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

var (
	// ErrAttemptInFlight rejects a Begin while a previous attempt is still
	// loading. Double submits are dropped, never queued.
	ErrAttemptInFlight = errors.New("request already in flight")

	// ErrStaleAttempt marks a result that belongs to an attempt superseded
	// by a Reset or a later Begin. The result must be discarded.
	ErrStaleAttempt = errors.New("result belongs to a superseded attempt")

	ErrIllegalTransition = errors.New("illegal request lifecycle transition")
)

// Attempt identifies one Begin..Succeed/Fail cycle. Settling with a token
// from an earlier cycle is rejected, which is what stops a late-arriving
// result from mutating state after the user has navigated away.
type Attempt uint64

// Lifecycle is the idle -> loading -> succeeded/failed machine.
// At most one of payload and error message is ever set.
type Lifecycle[T any] struct {
	mu      sync.Mutex
	status  Status
	payload T
	loaded  bool
	errMsg  string
	attempt Attempt
}

func New[T any]() *Lifecycle[T] {
	return &Lifecycle[T]{status: StatusIdle}
}

// Begin moves to loading and clears any state left from a prior attempt.
func (l *Lifecycle[T]) Begin() (Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status == StatusLoading {
		return 0, ErrAttemptInFlight
	}

	l.attempt++
	l.status = StatusLoading
	l.clearLocked()
	return l.attempt, nil
}

// Succeed settles the given attempt with a payload.
func (l *Lifecycle[T]) Succeed(attempt Attempt, payload T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if attempt != l.attempt {
		return ErrStaleAttempt
	}
	if l.status != StatusLoading {
		return ErrIllegalTransition
	}

	l.status = StatusSucceeded
	l.payload = payload
	l.loaded = true
	l.errMsg = ""
	return nil
}

// Fail settles the given attempt with a user-facing error message.
func (l *Lifecycle[T]) Fail(attempt Attempt, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if attempt != l.attempt {
		return ErrStaleAttempt
	}
	if l.status != StatusLoading {
		return ErrIllegalTransition
	}

	l.status = StatusFailed
	l.errMsg = message
	var zero T
	l.payload = zero
	l.loaded = false
	return nil
}

// Reset returns to idle from any state and invalidates any attempt still in
// flight.
func (l *Lifecycle[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.attempt++
	l.status = StatusIdle
	l.clearLocked()
}

func (l *Lifecycle[T]) clearLocked() {
	var zero T
	l.payload = zero
	l.loaded = false
	l.errMsg = ""
}

func (l *Lifecycle[T]) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Payload returns the success payload; ok is false unless status is
// succeeded.
func (l *Lifecycle[T]) Payload() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.payload, l.loaded
}

// ErrorMessage returns the failure message; ok is false unless status is
// failed.
func (l *Lifecycle[T]) ErrorMessage() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errMsg, l.status == StatusFailed
}
