package test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/scheduler"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduledPublishFlow schedules a post over the API and drives the
// publisher by hand, checking that redelivery cannot duplicate the post.
func TestScheduledPublishFlow(t *testing.T) {
	app := requireApp(t)
	ctx := context.Background()

	author := signup(t, app)
	key := uuid.NewString()
	when := time.Now().UTC().Add(-time.Second).Truncate(time.Second)

	res := doJSON(t, app, http.MethodPost, "/api/posts", author.Token, map[string]string{
		"content":         "from the future",
		"scheduled_time":  when.Format(time.RFC3339),
		"idempotency_key": key,
	})
	require.Equal(t, http.StatusAccepted, res.StatusCode)

	var sched struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decode(t, res, &sched)
	require.NotZero(t, sched.ID)
	assert.Equal(t, "pending", sched.Status)

	// The row is visible in the author's feed only after publication.
	schedRepo := repository.NewScheduledPostRepository(testDB)
	publisher := scheduler.NewPublisher(schedRepo, nil, "e2e-worker", 3)

	out, err := publisher.Publish(ctx, sched.ID)
	require.NoError(t, err)
	require.NotNil(t, out.PostID)
	assert.Equal(t, models.ScheduleStatusPublished, out.Status)

	// Redelivery of the same request is a no-op.
	again, err := publisher.Publish(ctx, sched.ID)
	require.NoError(t, err)
	require.NotNil(t, again.PostID)
	assert.Equal(t, *out.PostID, *again.PostID)

	// The post carries the scheduled instant as its creation time.
	res = doJSON(t, app, http.MethodGet, postPath(*out.PostID, ""), author.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var post struct {
		ID        uint      `json:"id"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	}
	decode(t, res, &post)
	assert.Equal(t, "from the future", post.Content)
	assert.Equal(t, when, post.CreatedAt.UTC().Truncate(time.Second))
	assert.True(t, feedContains(t, app, author.Token, *out.PostID))

	// Retrying the original request with the same key reuses the stored row.
	res = doJSON(t, app, http.MethodPost, "/api/posts", author.Token, map[string]string{
		"content":         "from the future",
		"scheduled_time":  when.Format(time.RFC3339),
		"idempotency_key": key,
	})
	require.Equal(t, http.StatusAccepted, res.StatusCode)
	var retry struct {
		ID uint `json:"id"`
	}
	decode(t, res, &retry)
	assert.Equal(t, sched.ID, retry.ID)
}

// TestScheduleRejectsAmbiguousTime checks the API refuses a scheduled time
// without a UTC offset.
func TestScheduleRejectsAmbiguousTime(t *testing.T) {
	app := requireApp(t)

	author := signup(t, app)
	res := doJSON(t, app, http.MethodPost, "/api/posts", author.Token, map[string]string{
		"content":        "whenever",
		"scheduled_time": "2026-09-01 09:00:00",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
