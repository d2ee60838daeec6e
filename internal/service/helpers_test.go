package service

import (
	"context"
	"testing"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	createFn        func(context.Context, *models.Profile) error
	getByIDFn       func(context.Context, uint) (*models.Profile, error)
	getByUserIDFn   func(context.Context, uint) (*models.Profile, error)
	getByUsernameFn func(context.Context, string) (*models.Profile, error)
	searchFn        func(context.Context, string, int, int) ([]*models.Profile, error)
	updateFn        func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, id)
}
func (s *profileRepoStub) GetByUsername(ctx context.Context, u string) (*models.Profile, error) {
	return s.getByUsernameFn(ctx, u)
}
func (s *profileRepoStub) Search(ctx context.Context, u string, limit, offset int) ([]*models.Profile, error) {
	return s.searchFn(ctx, u, limit, offset)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	return s.updateFn(ctx, p)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn: func(_ context.Context, _ *models.Profile) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Profile, error) {
			return &models.Profile{ID: id, Username: "someone"}, nil
		},
		getByUserIDFn: func(_ context.Context, id uint) (*models.Profile, error) {
			return &models.Profile{ID: id, Username: "someone"}, nil
		},
		getByUsernameFn: func(_ context.Context, u string) (*models.Profile, error) {
			return &models.Profile{ID: 1, Username: u}, nil
		},
		searchFn: func(_ context.Context, _ string, _, _ int) ([]*models.Profile, error) { return nil, nil },
		updateFn: func(_ context.Context, _ *models.Profile) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	addFn         func(context.Context, uint, uint) (bool, error)
	removeFn      func(context.Context, uint, uint) (bool, error)
	existsFn      func(context.Context, uint, uint) (bool, error)
	followeeIDsFn func(context.Context, uint) ([]uint, error)
	followingFn   func(context.Context, uint) ([]models.Profile, error)
	followersFn   func(context.Context, uint) ([]models.Profile, error)
}

func (s *followRepoStub) Add(ctx context.Context, follower, followee uint) (bool, error) {
	return s.addFn(ctx, follower, followee)
}
func (s *followRepoStub) Remove(ctx context.Context, follower, followee uint) (bool, error) {
	return s.removeFn(ctx, follower, followee)
}
func (s *followRepoStub) Exists(ctx context.Context, follower, followee uint) (bool, error) {
	return s.existsFn(ctx, follower, followee)
}
func (s *followRepoStub) FolloweeIDs(ctx context.Context, follower uint) ([]uint, error) {
	return s.followeeIDsFn(ctx, follower)
}
func (s *followRepoStub) Following(ctx context.Context, follower uint) ([]models.Profile, error) {
	return s.followingFn(ctx, follower)
}
func (s *followRepoStub) Followers(ctx context.Context, followee uint) ([]models.Profile, error) {
	return s.followersFn(ctx, followee)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		addFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		removeFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		existsFn:      func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followeeIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		followingFn:   func(_ context.Context, _ uint) ([]models.Profile, error) { return nil, nil },
		followersFn:   func(_ context.Context, _ uint) ([]models.Profile, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint, uint) (*models.Post, error)
	getByProfileIDFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	feedFn           func(context.Context, uint, repository.FeedFilter) ([]*models.Post, error)
	likedFn          func(context.Context, uint) ([]*models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
	likeFn           func(context.Context, uint, uint) (bool, error)
	unlikeFn         func(context.Context, uint, uint) (bool, error)
	isLikedFn        func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id, viewer uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewer)
}
func (s *postRepoStub) GetByProfileID(ctx context.Context, pid uint, limit, offset int, viewer uint) ([]*models.Post, error) {
	return s.getByProfileIDFn(ctx, pid, limit, offset, viewer)
}
func (s *postRepoStub) Feed(ctx context.Context, viewer uint, f repository.FeedFilter) ([]*models.Post, error) {
	return s.feedFn(ctx, viewer, f)
}
func (s *postRepoStub) Liked(ctx context.Context, viewer uint) ([]*models.Post, error) {
	return s.likedFn(ctx, viewer)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error { return s.updateFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id uint) error        { return s.deleteFn(ctx, id) }
func (s *postRepoStub) Like(ctx context.Context, profileID, postID uint) (bool, error) {
	return s.likeFn(ctx, profileID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, profileID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, profileID, postID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, profileID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, profileID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		getByProfileIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		feedFn: func(_ context.Context, _ uint, _ repository.FeedFilter) ([]*models.Post, error) {
			return nil, nil
		},
		likedFn:   func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		likeFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:  func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isLikedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}
