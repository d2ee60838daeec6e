// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// FeedFilter narrows a feed query. Author matches the author's username and
// Title matches post content, both as case-insensitive substrings.
type FeedFilter struct {
	Author string
	Title  string
	Limit  int
	Offset int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	GetByProfileID(ctx context.Context, profileID uint, limit, offset int, viewerID uint) ([]*models.Post, error)
	Feed(ctx context.Context, viewerID uint, filter FeedFilter) ([]*models.Post, error)
	Liked(ctx context.Context, viewerID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, profileID, postID uint) (bool, error)
	Unlike(ctx context.Context, profileID, postID uint) (bool, error)
	IsLiked(ctx context.Context, profileID, postID uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.profile_id = ?) as liked", viewerID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post

	var err error
	if viewerID == 0 {
		// Viewer-independent projection is safe to cache.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).
				Preload("Profile").
				First(&post, id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("Profile").
			First(&post, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByProfileID(ctx context.Context, profileID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Profile").
		Where("profile_id = ?", profileID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Feed returns the posts visible to viewerID: its own posts plus posts from
// every profile it follows, newest first. Ties on created_at are broken by id
// descending so repeated queries are deterministic.
func (r *postRepository) Feed(ctx context.Context, viewerID uint, filter FeedFilter) ([]*models.Post, error) {
	var posts []*models.Post

	q := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Profile").
		Joins("JOIN profiles ON profiles.id = posts.profile_id").
		Where("posts.profile_id = ? OR posts.profile_id IN (?)",
			viewerID,
			r.db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", viewerID),
		)

	if filter.Author != "" {
		q = q.Where("profiles.username ILIKE ?", "%"+filter.Author+"%")
	}
	if filter.Title != "" {
		q = q.Where("posts.content ILIKE ?", "%"+filter.Title+"%")
	}

	err := q.Distinct().
		Order("posts.created_at DESC, posts.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Liked returns posts the viewer has liked, regardless of current follow state.
func (r *postRepository) Liked(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Profile").
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.profile_id = ?", viewerID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	// Comments are subordinate to their post; delete them in the same transaction.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	return nil
}

// Like inserts the (profile, post) like membership. The unique constraint plus
// ON CONFLICT DO NOTHING makes concurrent toggles race-safe; the return value
// reports whether this call inserted the row.
func (r *postRepository) Like(ctx context.Context, profileID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (profile_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (profile_id, post_id) DO NOTHING`,
		profileID, postID,
	)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return result.RowsAffected > 0, nil
}

// Unlike hard-deletes the like row and reports whether a row was removed.
func (r *postRepository) Unlike(ctx context.Context, profileID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("profile_id = ? AND post_id = ?", profileID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) IsLiked(ctx context.Context, profileID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("profile_id = ? AND post_id = ?", profileID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
