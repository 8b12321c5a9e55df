// Package exchange runs the IPEX notification-draining loop: it polls the
// identity agent for pending notifications, replies to credential offers
// with agree messages, and retires each notification exactly once.
package exchange

import (
	"time"

	"github.com/pkg/errors"

	"github.com/SenaryLabs/identity-binding/internal/agent"
)

// NotificationState is the per-notification processing state.
type NotificationState string

const (
	StatePending    NotificationState = "pending"
	StateProcessing NotificationState = "processing"
	StateReplied    NotificationState = "replied"
	StateFailed     NotificationState = "failed"
	StateSkipped    NotificationState = "skipped"
	StateRetired    NotificationState = "retired"
)

// canTransition guards the notification lifecycle:
// Pending -> Processing -> {Replied, Failed, Skipped} -> Retired.
// Failed notifications go back to Pending on the next poll.
func canTransition(current, next NotificationState) bool {
	switch current {
	case StatePending:
		return next == StateProcessing
	case StateProcessing:
		return next == StateReplied || next == StateFailed || next == StateSkipped
	case StateReplied, StateSkipped:
		return next == StateRetired
	case StateFailed:
		return next == StatePending
	case StateRetired:
		return false
	default:
		return false
	}
}

// SchedulerState is the loop's own state, held as data so it is observable
// without real delays.
type SchedulerState string

const (
	SchedulerIdle    SchedulerState = "idle"
	SchedulerPolling SchedulerState = "polling"
	SchedulerBackoff SchedulerState = "backoff"
	SchedulerStopped SchedulerState = "stopped"
)

// SchedulerStatus is a snapshot of the loop scheduler.
type SchedulerStatus struct {
	State        SchedulerState
	BackoffUntil time.Time
	LastCycleID  string
}

// FailureKind classifies poll-cycle errors into backoff buckets.
type FailureKind int

const (
	FailureTransient FailureKind = iota
	FailureAuth
)

// Classify maps an error to its backoff bucket. Authentication-shaped
// failures defer the whole cycle with the long backoff; everything else is
// transient and retried after the short one.
func Classify(err error) FailureKind {
	if errors.Is(err, agent.ErrAuthExpired) {
		return FailureAuth
	}
	return FailureTransient
}

// Config carries the loop cadence. Backoff durations are data so tests can
// inject near-zero values.
type Config struct {
	SenderName   string
	PollInterval time.Duration
	ErrBackoff   time.Duration
	AuthBackoff  time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.ErrBackoff <= 0 {
		c.ErrBackoff = 5 * time.Second
	}
	if c.AuthBackoff <= 0 {
		c.AuthBackoff = 30 * time.Second
	}
	return c
}
