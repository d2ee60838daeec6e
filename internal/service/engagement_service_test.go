package service

import (
	"context"
	"strings"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementService_ToggleLike(t *testing.T) {
	t.Parallel()

	t.Run("likes on first toggle", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, LikesCount: 1}, nil
		}
		svc := NewEngagementService(posts, noopCommentRepo())

		res, err := svc.ToggleLike(context.Background(), 1, 10)

		require.NoError(t, err)
		assert.True(t, res.Liked)
		require.NotNil(t, res.Post)
		assert.Equal(t, 1, res.Post.LikesCount)
	})

	t.Run("unlikes when already liked", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.likeFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		unliked := false
		posts.unlikeFn = func(_ context.Context, _, _ uint) (bool, error) {
			unliked = true
			return true, nil
		}
		svc := NewEngagementService(posts, noopCommentRepo())

		res, err := svc.ToggleLike(context.Background(), 1, 10)

		require.NoError(t, err)
		assert.False(t, res.Liked)
		assert.True(t, unliked)
	})

	t.Run("double toggle is an involution", func(t *testing.T) {
		t.Parallel()
		liked := map[[2]uint]bool{}
		posts := noopPostRepo()
		posts.likeFn = func(_ context.Context, profileID, postID uint) (bool, error) {
			k := [2]uint{profileID, postID}
			if liked[k] {
				return false, nil
			}
			liked[k] = true
			return true, nil
		}
		posts.unlikeFn = func(_ context.Context, profileID, postID uint) (bool, error) {
			k := [2]uint{profileID, postID}
			if !liked[k] {
				return false, nil
			}
			delete(liked, k)
			return true, nil
		}
		svc := NewEngagementService(posts, noopCommentRepo())
		ctx := context.Background()

		first, err := svc.ToggleLike(ctx, 1, 10)
		require.NoError(t, err)
		second, err := svc.ToggleLike(ctx, 1, 10)
		require.NoError(t, err)

		assert.True(t, first.Liked)
		assert.False(t, second.Liked)
		assert.Empty(t, liked)
	})

	t.Run("rejects unknown post", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewEngagementService(posts, noopCommentRepo())

		_, err := svc.ToggleLike(context.Background(), 1, 99)

		assertCode(t, err, models.CodeNotFound)
	})
}

func TestEngagementService_AddComment(t *testing.T) {
	t.Parallel()

	t.Run("creates a comment", func(t *testing.T) {
		t.Parallel()
		comments := noopCommentRepo()
		var created *models.Comment
		comments.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 5
			created = c
			return nil
		}
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			require.Equal(t, created.ID, id)
			return created, nil
		}
		svc := NewEngagementService(noopPostRepo(), comments)

		out, err := svc.AddComment(context.Background(), AddCommentInput{
			ProfileID: 1,
			PostID:    10,
			Content:   "nice shot",
		})

		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, "nice shot", out.Content)
		assert.Equal(t, uint(10), out.PostID)
		assert.Equal(t, uint(1), out.ProfileID)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		t.Parallel()
		svc := NewEngagementService(noopPostRepo(), noopCommentRepo())

		_, err := svc.AddComment(context.Background(), AddCommentInput{ProfileID: 1, PostID: 10})

		assertCode(t, err, models.CodeEmptyComment)
	})

	t.Run("rejects whitespace-only content", func(t *testing.T) {
		t.Parallel()
		svc := NewEngagementService(noopPostRepo(), noopCommentRepo())

		_, err := svc.AddComment(context.Background(), AddCommentInput{
			ProfileID: 1,
			PostID:    10,
			Content:   "   \n\t",
		})

		assertCode(t, err, models.CodeEmptyComment)
	})

	t.Run("rejects oversized content", func(t *testing.T) {
		t.Parallel()
		svc := NewEngagementService(noopPostRepo(), noopCommentRepo())

		_, err := svc.AddComment(context.Background(), AddCommentInput{
			ProfileID: 1,
			PostID:    10,
			Content:   strings.Repeat("a", maxContentLen+1),
		})

		assertCode(t, err, models.CodeValidation)
	})

	t.Run("rejects unknown post", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewEngagementService(posts, noopCommentRepo())

		_, err := svc.AddComment(context.Background(), AddCommentInput{
			ProfileID: 1,
			PostID:    99,
			Content:   "hello",
		})

		assertCode(t, err, models.CodeNotFound)
	})
}

func TestEngagementService_ListComments(t *testing.T) {
	t.Parallel()

	comments := noopCommentRepo()
	comments.listByPostFn = func(_ context.Context, _ uint) ([]*models.Comment, error) {
		return []*models.Comment{{ID: 2, Content: "newer"}, {ID: 1, Content: "older"}}, nil
	}
	svc := NewEngagementService(noopPostRepo(), comments)

	out, err := svc.ListComments(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "newer", out[0].Content)
}
