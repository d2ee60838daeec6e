package test

import (
	"log"
	"net/http"
	"os"
	"testing"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/middleware"
	"ripple/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	testApp *fiber.App
	testDB  *gorm.DB
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("e2e tests skipped: failed to load config: %v", err)
		os.Exit(m.Run())
	}
	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Printf("e2e tests skipped: database unavailable: %v", err)
		os.Exit(m.Run())
	}
	testDB = db

	cache.InitRedis(cfg.RedisURL)

	srv, err := server.NewServerWithDeps(cfg, db, cache.GetClient())
	if err != nil {
		log.Printf("e2e tests skipped: server setup failed: %v", err)
		os.Exit(m.Run())
	}

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	testApp = app

	os.Exit(m.Run())
}

func requireApp(t *testing.T) *fiber.App {
	t.Helper()
	if testApp == nil {
		t.Skip("test database unavailable")
	}
	return testApp
}

func TestSignupAndLogin(t *testing.T) {
	app := requireApp(t)

	acc := signup(t, app)

	res := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    acc.Email,
		"password": "E2eTestPass12!",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decode(t, res, &body)
	assert.NotEmpty(t, body.Token)

	// Wrong password never authenticates.
	res = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    acc.Email,
		"password": "NotThePassword1!",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestSocialFlow walks the whole social loop over the API: follow, post,
// feed visibility, like, comment, unfollow.
func TestSocialFlow(t *testing.T) {
	app := requireApp(t)

	alice := signup(t, app)
	bob := signup(t, app)

	// Alice follows Bob.
	res := doJSON(t, app, http.MethodPost, profilePath(bob.ProfileID, "follow"), alice.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Bob posts.
	res = doJSON(t, app, http.MethodPost, "/api/posts", bob.Token, map[string]string{
		"content": "bob's first post",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, res, &created)
	require.NotZero(t, created.ID)

	// Alice's feed includes Bob's post.
	require.True(t, feedContains(t, app, alice.Token, created.ID), "followee's post should be in the feed")

	// A stranger's feed does not.
	carol := signup(t, app)
	assert.False(t, feedContains(t, app, carol.Token, created.ID), "non-follower should not see the post in the feed")

	// Alice likes and comments.
	res = doJSON(t, app, http.MethodPost, postPath(created.ID, "like"), alice.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var likeResp struct {
		Liked bool `json:"liked"`
		Post  struct {
			LikesCount int `json:"likes_count"`
		} `json:"post"`
	}
	decode(t, res, &likeResp)
	assert.True(t, likeResp.Liked)
	assert.Equal(t, 1, likeResp.Post.LikesCount)

	res = doJSON(t, app, http.MethodPost, postPath(created.ID, "comments"), alice.Token, map[string]string{
		"content": "nice one",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = doJSON(t, app, http.MethodGet, postPath(created.ID, "comments"), bob.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var comments []struct {
		Content string `json:"content"`
	}
	decode(t, res, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice one", comments[0].Content)

	// Unfollow removes the post from Alice's feed, but the post itself survives.
	res = doJSON(t, app, http.MethodPost, profilePath(bob.ProfileID, "unfollow"), alice.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, feedContains(t, app, alice.Token, created.ID))

	res = doJSON(t, app, http.MethodGet, postPath(created.ID, ""), alice.Token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// TestOwnershipHiddenAsMissing checks that a delete by a non-owner is
// indistinguishable from deleting a post that does not exist.
func TestOwnershipHiddenAsMissing(t *testing.T) {
	app := requireApp(t)

	owner := signup(t, app)
	intruder := signup(t, app)

	res := doJSON(t, app, http.MethodPost, "/api/posts", owner.Token, map[string]string{
		"content": "mine alone",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created struct {
		ID uint `json:"id"`
	}
	decode(t, res, &created)

	res = doJSON(t, app, http.MethodDelete, postPath(created.ID, ""), intruder.Token, nil)
	notOwner := readBody(t, res)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	res = doJSON(t, app, http.MethodDelete, postPath(99999999, ""), intruder.Token, nil)
	missing := readBody(t, res)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	assert.Equal(t, missing, notOwner, "ownership failures must not reveal that the post exists")

	// The owner still can.
	res = doJSON(t, app, http.MethodDelete, postPath(created.ID, ""), owner.Token, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
