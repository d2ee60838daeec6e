package server

import (
	"context"
	"time"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
)

// testDeps bundles the repository mocks behind a Server wired with real services.
type testDeps struct {
	users    *MockUserRepository
	profiles *MockProfileRepository
	follows  *MockFollowRepository
	posts    *MockPostRepository
	comments *MockCommentRepository
	sched    *MockScheduledPostRepository
}

func newTestServer() (*Server, *testDeps) {
	deps := &testDeps{
		users:    new(MockUserRepository),
		profiles: new(MockProfileRepository),
		follows:  new(MockFollowRepository),
		posts:    new(MockPostRepository),
		comments: new(MockCommentRepository),
		sched:    new(MockScheduledPostRepository),
	}
	s := &Server{
		config:      &config.Config{JWTSecret: "test-secret-key-for-handler-tests"},
		userRepo:    deps.users,
		profileRepo: deps.profiles,
		followRepo:  deps.follows,
		postRepo:    deps.posts,
		commentRepo: deps.comments,
		schedRepo:   deps.sched,
	}
	s.profileService = service.NewProfileService(deps.profiles)
	s.graphService = service.NewGraphService(deps.follows, deps.profiles)
	s.feedService = service.NewFeedService(deps.posts, deps.profiles)
	s.postService = service.NewPostService(deps.posts, deps.sched, nil)
	s.engagementService = service.NewEngagementService(deps.posts, deps.comments)
	return s, deps
}

// actAs injects the acting profile the way the auth middleware would.
func actAs(profileID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", profileID)
		c.Locals("profileID", profileID)
		return c.Next()
	}
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProfileRepository is a mock of the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Search(ctx context.Context, username string, limit, offset int) ([]*models.Profile, error) {
	args := m.Called(ctx, username, limit, offset)
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockFollowRepository is a mock of the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Add(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Remove(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockFollowRepository) Following(ctx context.Context, followerID uint) ([]models.Profile, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockFollowRepository) Followers(ctx context.Context, followeeID uint) ([]models.Profile, error) {
	args := m.Called(ctx, followeeID)
	return args.Get(0).([]models.Profile), args.Error(1)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByProfileID(ctx context.Context, profileID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, profileID, limit, offset, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Feed(ctx context.Context, viewerID uint, filter repository.FeedFilter) ([]*models.Post, error) {
	args := m.Called(ctx, viewerID, filter)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Liked(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Like(ctx context.Context, profileID, postID uint) (bool, error) {
	args := m.Called(ctx, profileID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Unlike(ctx context.Context, profileID, postID uint) (bool, error) {
	args := m.Called(ctx, profileID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) IsLiked(ctx context.Context, profileID, postID uint) (bool, error) {
	args := m.Called(ctx, profileID, postID)
	return args.Bool(0), args.Error(1)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

// MockScheduledPostRepository is a mock of the ScheduledPostRepository interface
type MockScheduledPostRepository struct {
	mock.Mock
}

func (m *MockScheduledPostRepository) Create(ctx context.Context, req *models.ScheduledPost) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduledPostRepository) GetByID(ctx context.Context, id uint) (*models.ScheduledPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduledPost), args.Error(1)
}

func (m *MockScheduledPostRepository) GetByKey(ctx context.Context, key string) (*models.ScheduledPost, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduledPost), args.Error(1)
}

func (m *MockScheduledPostRepository) DueIDs(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockScheduledPostRepository) Materialize(ctx context.Context, id uint, now time.Time) (*models.ScheduledPost, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduledPost), args.Error(1)
}

func (m *MockScheduledPostRepository) RecordFailure(ctx context.Context, id uint, cause error, maxAttempts int) (*models.ScheduledPost, error) {
	args := m.Called(ctx, id, cause, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduledPost), args.Error(1)
}

func (m *MockScheduledPostRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
