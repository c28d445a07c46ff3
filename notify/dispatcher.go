// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/feedbackform/logger"
	"github.com/danielhkuo/feedbackform/metrics"
	"github.com/danielhkuo/feedbackform/models"
	"github.com/danielhkuo/feedbackform/store"
)

const (
	DefaultInterval    = 15 * time.Second
	DefaultMaxAttempts = 8
	DefaultBaseBackoff = 30 * time.Second
	DefaultMaxBackoff  = time.Hour
	DefaultBatchSize   = 50
)

// Dispatcher drains the outbox. Failed deliveries are retried with
// exponential backoff until MaxAttempts, after which the event is parked
// with its last error for manual follow-up.
type Dispatcher struct {
	store   *store.Store
	senders map[string]Sender

	Interval    time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	BatchSize   int
	Now         func() time.Time

	wake chan struct{}
}

// NewDispatcher builds a dispatcher. senders maps an outbox channel
// (models.ChannelWebhook, models.ChannelKafka) to its Sender.
func NewDispatcher(s *store.Store, senders map[string]Sender, interval time.Duration, maxAttempts int) *Dispatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Dispatcher{
		store:       s,
		senders:     senders,
		Interval:    interval,
		MaxAttempts: maxAttempts,
		BaseBackoff: DefaultBaseBackoff,
		MaxBackoff:  DefaultMaxBackoff,
		BatchSize:   DefaultBatchSize,
		Now:         time.Now,
		wake:        make(chan struct{}, 1),
	}
}

// Wake asks Run to dispatch now. It never blocks.
func (d *Dispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run dispatches on every tick and wake-up until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	logger.Log.Info("outbox dispatcher started", zap.Duration("interval", d.Interval))
	d.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.runOnce(ctx)
		case <-d.wake:
			d.runOnce(ctx)
		}
	}
}

func (d *Dispatcher) runOnce(ctx context.Context) {
	if _, err := d.DispatchDue(ctx); err != nil && ctx.Err() == nil {
		logger.Log.Error("outbox dispatch failed", zap.Error(err))
	}
}

// DispatchDue attempts every due event once and returns how many were
// delivered. Only store failures are returned; delivery failures are
// recorded on the event.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	events, err := d.store.DueOutbox(ctx, d.Now(), d.BatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, e := range events {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		ok, err := d.deliver(ctx, e)
		if err != nil {
			return delivered, err
		}
		if ok {
			delivered++
		}
	}
	return delivered, nil
}

func (d *Dispatcher) deliver(ctx context.Context, e models.OutboxEvent) (bool, error) {
	log := logger.Log.With(
		zap.String("event_id", e.ID),
		zap.String("form_id", e.FormID),
		zap.String("channel", e.Channel),
	)

	sender, ok := d.senders[e.Channel]
	if !ok {
		log.Error("no sender for outbox channel, parking event")
		metrics.OutboxDeliveries.WithLabelValues(e.Channel, "parked").Inc()
		return false, d.store.MarkAttemptFailed(ctx, e.ID, e.Attempts, nil,
			fmt.Sprintf("no sender for channel %q", e.Channel))
	}

	sendErr := sender.Send(ctx, e)
	now := d.Now()
	if sendErr == nil {
		metrics.OutboxDeliveries.WithLabelValues(e.Channel, "ok").Inc()
		log.Info("notification delivered", zap.Int("attempt", e.Attempts+1))
		return true, d.store.MarkDelivered(ctx, e.ID, now)
	}

	attempts := e.Attempts + 1
	if attempts >= d.MaxAttempts {
		metrics.OutboxDeliveries.WithLabelValues(e.Channel, "parked").Inc()
		log.Error("notification failed, giving up", zap.Int("attempts", attempts), zap.Error(sendErr))
		return false, d.store.MarkAttemptFailed(ctx, e.ID, attempts, nil, sendErr.Error())
	}

	next := now.Add(Backoff(d.BaseBackoff, d.MaxBackoff, attempts))
	metrics.OutboxDeliveries.WithLabelValues(e.Channel, "retry").Inc()
	log.Warn("notification failed, will retry",
		zap.Int("attempts", attempts),
		zap.Time("next_attempt_at", next),
		zap.Error(sendErr),
	)
	return false, d.store.MarkAttemptFailed(ctx, e.ID, attempts, &next, sendErr.Error())
}

// Backoff returns base·2^(attempts-1), capped at ceiling.
func Backoff(base, ceiling time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := base
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= ceiling {
			return ceiling
		}
	}
	return min(delay, ceiling)
}
