package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
)

// Outcome labels for publisher metrics.
const (
	outcomePublished = "published"
	outcomeDuplicate = "duplicate"
	outcomeNotDue    = "not_due"
	outcomeRetried   = "retried"
	outcomeFailed    = "failed"
)

// Publisher materializes due scheduled-post requests into Posts, exactly once
// per idempotency key. It never blocks request handling: it runs on its own
// worker loop, fed by the queue's nudges and a periodic due-scan over the
// pending rows, so a lost nudge cannot strand a request.
type Publisher struct {
	schedRepo    repository.ScheduledPostRepository
	queue        *Queue
	consumer     string
	maxAttempts  int
	pollInterval time.Duration
	now          func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithClock overrides the publisher's time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// WithPollInterval overrides the due-scan interval.
func WithPollInterval(d time.Duration) Option {
	return func(p *Publisher) { p.pollInterval = d }
}

// NewPublisher creates a publisher consuming as the named consumer.
func NewPublisher(schedRepo repository.ScheduledPostRepository, queue *Queue, consumer string, maxAttempts int, opts ...Option) *Publisher {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	p := &Publisher{
		schedRepo:    schedRepo,
		queue:        queue,
		consumer:     consumer,
		maxAttempts:  maxAttempts,
		pollInterval: 15 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish handles one schedule request delivery. It is safe to call any number
// of times with the same request: a request that already produced a Post
// returns that Post's identifier again without creating another.
func (p *Publisher) Publish(ctx context.Context, scheduleID uint) (*models.ScheduledPost, error) {
	req, err := p.schedRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case models.ScheduleStatusPublished:
		middleware.PublisherOutcomes.WithLabelValues(outcomeDuplicate).Inc()
		return req, nil
	case models.ScheduleStatusFailed:
		// Terminal; redelivery after exhaustion stays a no-op.
		return req, nil
	}

	req, err = p.schedRepo.Materialize(ctx, scheduleID, p.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotDue) {
			middleware.PublisherOutcomes.WithLabelValues(outcomeNotDue).Inc()
			return nil, err
		}

		// Transient failure: record the attempt; the due-scan retries until
		// the attempt budget is exhausted.
		req, recordErr := p.schedRepo.RecordFailure(ctx, scheduleID, err, p.maxAttempts)
		if recordErr != nil {
			return nil, recordErr
		}
		if req.Status == models.ScheduleStatusFailed {
			middleware.PublisherOutcomes.WithLabelValues(outcomeFailed).Inc()
			middleware.Logger.ErrorContext(ctx, "scheduled post permanently failed",
				slog.Any("schedule_id", scheduleID),
				slog.Int("attempts", req.Attempts),
				slog.String("error", req.LastError),
			)
		} else {
			middleware.PublisherOutcomes.WithLabelValues(outcomeRetried).Inc()
		}
		return nil, err
	}

	if req.Status == models.ScheduleStatusPublished && req.PostID != nil {
		middleware.PublisherOutcomes.WithLabelValues(outcomePublished).Inc()
		middleware.Logger.InfoContext(ctx, "scheduled post published",
			slog.Any("schedule_id", scheduleID),
			slog.Any("post_id", *req.PostID),
		)
	}
	return req, nil
}

// Run consumes the queue and scans for due requests until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	if p.queue != nil {
		if err := p.queue.EnsureGroup(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.scanDue(ctx)
			p.reclaimStalled(ctx)
		default:
			p.consumeOnce(ctx)
		}
	}
}

func (p *Publisher) consumeOnce(ctx context.Context) {
	if p.queue == nil {
		// No queue to block on; pace the loop so the ticker drives the scans.
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
		return
	}
	msgs, err := p.queue.Consume(ctx, p.consumer, 16, time.Second)
	if err != nil && ctx.Err() == nil {
		middleware.Logger.WarnContext(ctx, "queue consume failed", slog.String("error", err.Error()))
		return
	}
	p.handleMessages(ctx, msgs)
}

func (p *Publisher) reclaimStalled(ctx context.Context) {
	if p.queue == nil {
		return
	}
	msgs, err := p.queue.Reclaim(ctx, p.consumer, p.pollInterval, 16)
	if err != nil && ctx.Err() == nil {
		middleware.Logger.WarnContext(ctx, "queue reclaim failed", slog.String("error", err.Error()))
		return
	}
	p.handleMessages(ctx, msgs)
}

func (p *Publisher) handleMessages(ctx context.Context, msgs []Message) {
	for _, msg := range msgs {
		_, err := p.Publish(ctx, msg.ScheduleID)
		switch {
		case err == nil, errors.Is(err, repository.ErrNotDue), models.IsCode(err, models.CodeNotFound):
			// Terminal for this delivery: published, duplicate, failed, or a
			// request the due-scan owns. Acknowledge so it is not redelivered.
			if ackErr := p.queue.Ack(ctx, msg.ID); ackErr != nil {
				middleware.Logger.WarnContext(ctx, "queue ack failed",
					slog.String("message_id", msg.ID), slog.String("error", ackErr.Error()))
			}
		default:
			// Transient: leave unacked so Reclaim redelivers it.
			middleware.Logger.WarnContext(ctx, "scheduled post publish attempt failed",
				slog.Any("schedule_id", msg.ScheduleID), slog.String("error", err.Error()))
		}
	}
}

// scanDue publishes every pending request whose scheduled time has elapsed.
// This is the safety net behind the queue: it retries transient failures and
// picks up requests whose nudge was lost.
func (p *Publisher) scanDue(ctx context.Context) {
	ids, err := p.schedRepo.DueIDs(ctx, p.now(), 100)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "due-scan failed", slog.String("error", err.Error()))
		return
	}
	for _, id := range ids {
		if _, err := p.Publish(ctx, id); err != nil && !errors.Is(err, repository.ErrNotDue) {
			middleware.Logger.WarnContext(ctx, "due-scan publish failed",
				slog.Any("schedule_id", id), slog.String("error", err.Error()))
		}
	}

	if pending, err := p.schedRepo.CountPending(ctx); err == nil {
		middleware.ScheduledPending.Set(float64(pending))
	}
}
