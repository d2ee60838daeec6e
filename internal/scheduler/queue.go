// Package scheduler implements the asynchronous scheduled-post publisher.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// StreamKey is the Redis stream carrying scheduled-post wake-up nudges.
	StreamKey = "ripple:scheduled"
	// GroupName is the consumer group shared by publisher workers.
	GroupName = "publishers"
)

// Message is one delivery from the stream.
type Message struct {
	ID         string
	ScheduleID uint
}

// Queue is the durable wake-up queue in front of the publisher. Delivery is
// at-least-once: a message is only removed after an explicit Ack, and stalled
// deliveries can be reclaimed by another consumer.
type Queue struct {
	rdb *redis.Client
}

// NewQueue creates a queue on the given Redis client.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// EnsureGroup creates the consumer group if it does not exist yet.
func (q *Queue) EnsureGroup(ctx context.Context) error {
	err := q.rdb.XGroupCreateMkStream(ctx, StreamKey, GroupName, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

// Enqueue adds a wake-up nudge for the given schedule request.
func (q *Queue) Enqueue(ctx context.Context, scheduleID uint) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		Values: map[string]interface{}{"schedule_id": scheduleID},
	}).Err()
}

// Consume reads up to count new messages for the given consumer, blocking up
// to block when the stream is empty.
func (q *Queue) Consume(ctx context.Context, consumer string, count int64, block time.Duration) ([]Message, error) {
	streams, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    GroupName,
		Consumer: consumer,
		Streams:  []string{StreamKey, ">"},
		Count:    count,
		Block:    block,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return q.parseStreams(streams), nil
}

// Reclaim takes over messages another consumer read but never acknowledged.
func (q *Queue) Reclaim(ctx context.Context, consumer string, minIdle time.Duration, count int64) ([]Message, error) {
	msgs, _, err := q.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   StreamKey,
		Group:    GroupName,
		Consumer: consumer,
		MinIdle:  minIdle,
		Start:    "0-0",
		Count:    count,
	}).Result()
	if err != nil {
		return nil, err
	}
	return q.parseMessages(msgs), nil
}

// Ack marks a delivery as handled.
func (q *Queue) Ack(ctx context.Context, msgID string) error {
	return q.rdb.XAck(ctx, StreamKey, GroupName, msgID).Err()
}

func (q *Queue) parseStreams(streams []redis.XStream) []Message {
	var out []Message
	for _, s := range streams {
		out = append(out, q.parseMessages(s.Messages)...)
	}
	return out
}

func (q *Queue) parseMessages(msgs []redis.XMessage) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values["schedule_id"]
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(fmt.Sprint(raw), 10, 32)
		if err != nil {
			continue
		}
		out = append(out, Message{ID: m.ID, ScheduleID: uint(id)})
	}
	return out
}
