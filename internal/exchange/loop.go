package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SenaryLabs/identity-binding/internal/agent"
)

// Loop drains exchange notifications for a single agent client. The client
// connection is exclusively owned by the loop while it runs; exchange
// replies must be correlated in submission order, so notifications are
// processed strictly sequentially and cycles never overlap.
type Loop struct {
	client agent.Client
	store  Store
	clock  time2.Clock
	cfg    Config

	mu     sync.Mutex
	status SchedulerStatus

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewLoop(client agent.Client, store Store, clock time2.Clock, cfg Config) *Loop {
	return &Loop{
		client: client,
		store:  store,
		clock:  clock,
		cfg:    cfg.withDefaults(),
		status: SchedulerStatus{State: SchedulerIdle},
		stopCh: make(chan struct{}),
	}
}

// Run polls until the context is cancelled or Stop is called. It never
// returns because of a poll error; errors only change the delay before the
// next cycle. The stop signal takes effect between cycles, never mid-reply.
func (l *Loop) Run(ctx context.Context) error {
	log.Info().
		Str("sender", l.cfg.SenderName).
		Dur("poll_interval", l.cfg.PollInterval).
		Dur("err_backoff", l.cfg.ErrBackoff).
		Dur("auth_backoff", l.cfg.AuthBackoff).
		Msg("Starting exchange notification loop")

	for {
		l.setStatus(SchedulerPolling, time.Time{})

		delay := l.cfg.PollInterval
		if err := l.cycle(ctx); err != nil {
			kind := Classify(err)
			delay = l.backoffFor(kind)
			until := l.clock.Now().Add(delay)
			l.setStatus(SchedulerBackoff, until)

			evt := log.Warn().Err(err).Time("backoff_until", until)
			if kind == FailureAuth {
				evt.Msg("Agent authentication failed, deferring cycle with long backoff")
			} else {
				evt.Msg("Poll cycle failed, backing off")
			}
		} else {
			l.setStatus(SchedulerIdle, time.Time{})
		}

		select {
		case <-ctx.Done():
			l.setStatus(SchedulerStopped, time.Time{})
			return ctx.Err()
		case <-l.stopCh:
			l.setStatus(SchedulerStopped, time.Time{})
			log.Info().Msg("Exchange notification loop stopped")
			return nil
		case <-l.clock.After(delay):
		}
	}
}

// Stop requests a cooperative shutdown. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
}

// Status returns a snapshot of the scheduler state.
func (l *Loop) Status() SchedulerStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *Loop) setStatus(state SchedulerState, until time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status.State = state
	l.status.BackoffUntil = until
}

func (l *Loop) backoffFor(kind FailureKind) time.Duration {
	if kind == FailureAuth {
		return l.cfg.AuthBackoff
	}
	return l.cfg.ErrBackoff
}

// cycle runs one complete poll pass. An authentication failure aborts the
// pass and defers every remaining notification; a transient failure leaves
// only the affected notification pending and is reported after the rest of
// the pass completed.
func (l *Loop) cycle(ctx context.Context) error {
	cycleID := uuid.New().String()
	logger := log.With().Str("cycle_id", cycleID).Logger()

	l.mu.Lock()
	l.status.LastCycleID = cycleID
	l.mu.Unlock()

	notes, err := l.client.ListNotifications(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list notifications")
	}

	if len(notes) > 0 {
		logger.Debug().Int("count", len(notes)).Msg("Processing notifications")
	}

	var firstErr error
	for i := range notes {
		state, err := l.processNotification(ctx, &logger, notes[i])
		if err != nil {
			if Classify(err) == FailureAuth {
				return err
			}
			logger.Error().
				Err(err).
				Str("notification_id", notes[i].ID).
				Str("route", notes[i].Route).
				Str("state", string(state)).
				Msg("Failed to process notification, leaving pending")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		logger.Info().
			Str("notification_id", notes[i].ID).
			Str("route", notes[i].Route).
			Str("state", string(state)).
			Msg("Notification retired")
	}

	return firstErr
}

// processNotification walks one notification through the state machine and
// returns the state it ended in.
func (l *Loop) processNotification(ctx context.Context, logger *zerolog.Logger, n agent.Notification) (NotificationState, error) {
	state := l.transition(logger, n, StatePending, StateProcessing)

	var outcome NotificationState
	switch n.Route {
	case agent.RouteIpexOffer:
		if err := l.replyToOffer(ctx, n); err != nil {
			return l.transition(logger, n, state, StateFailed), err
		}
		outcome = l.transition(logger, n, state, StateReplied)

	case agent.RouteIpexGrant:
		admitted, err := l.admitGrant(ctx, n)
		if err != nil {
			return l.transition(logger, n, state, StateFailed), err
		}
		if admitted {
			outcome = l.transition(logger, n, state, StateReplied)
		} else {
			outcome = l.transition(logger, n, state, StateSkipped)
		}

	default:
		// Unknown routes are a forward-compatibility case, not an error.
		outcome = l.transition(logger, n, state, StateSkipped)
	}

	if err := l.retire(ctx, n); err != nil {
		return outcome, err
	}

	return l.transition(logger, n, outcome, StateRetired), nil
}

// replyToOffer submits the agree reply for an offer, keyed by the
// exchange's content-addressed identifier. The replied marker makes the
// submission idempotent across cycles when a later step fails.
func (l *Loop) replyToOffer(ctx context.Context, n agent.Notification) error {
	replied, err := l.store.IsReplied(ctx, n.ID)
	if err != nil {
		return err
	}
	if replied {
		return nil
	}

	exn, err := l.client.GetExchange(ctx, n.ExchangeRef)
	if err != nil {
		return errors.Wrapf(err, "failed to fetch exchange %s", n.ExchangeRef)
	}

	reply, err := l.client.Agree(ctx, agent.AgreeParams{
		SenderName: l.cfg.SenderName,
		Recipient:  exn.Sender,
		OfferSaid:  exn.Said,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to build agree for offer %s", exn.Said)
	}

	if err := l.client.SubmitAgree(ctx, l.cfg.SenderName, reply, []string{exn.Sender}); err != nil {
		return errors.Wrapf(err, "failed to submit agree for offer %s", exn.Said)
	}

	return l.store.MarkReplied(ctx, n.ID)
}

// admitGrant admits a credential grant when the client supports it.
// Returns false when the capability is absent and the notification should
// be skipped instead.
func (l *Loop) admitGrant(ctx context.Context, n agent.Notification) (bool, error) {
	admitter, ok := l.client.(agent.Admitter)
	if !ok {
		return false, nil
	}

	replied, err := l.store.IsReplied(ctx, n.ID)
	if err != nil {
		return false, err
	}
	if replied {
		return true, nil
	}

	exn, err := l.client.GetExchange(ctx, n.ExchangeRef)
	if err != nil {
		return false, errors.Wrapf(err, "failed to fetch exchange %s", n.ExchangeRef)
	}

	if err := admitter.AdmitGrant(ctx, l.cfg.SenderName, exn.Said, exn.Sender); err != nil {
		return false, errors.Wrapf(err, "failed to admit grant %s", exn.Said)
	}

	return true, l.store.MarkReplied(ctx, n.ID)
}

// retire deletes the notification at the agent exactly once. The retired
// marker claims the single delete slot; a failed delete releases it so the
// next cycle retries.
func (l *Loop) retire(ctx context.Context, n agent.Notification) error {
	first, err := l.store.MarkRetired(ctx, n.ID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	if err := l.client.DeleteNotification(ctx, n.ID); err != nil {
		if clearErr := l.store.ClearRetired(ctx, n.ID); clearErr != nil {
			log.Error().
				Err(clearErr).
				Str("notification_id", n.ID).
				Msg("Failed to release retirement marker after failed delete")
		}
		return errors.Wrapf(err, "failed to delete notification %s", n.ID)
	}

	return nil
}

func (l *Loop) transition(logger *zerolog.Logger, n agent.Notification, current, next NotificationState) NotificationState {
	if !canTransition(current, next) {
		// Indicates a bug in the loop, not bad input; keep going with the
		// requested state so processing is never wedged.
		logger.Error().
			Str("notification_id", n.ID).
			Str("from", string(current)).
			Str("to", string(next)).
			Msg("Invalid notification state transition")
	}
	return next
}
