// Package test holds end-to-end API tests. They need a reachable Postgres;
// without one every test skips.
package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// account is a signed-up user plus its API token.
type account struct {
	Token     string
	UserID    uint
	ProfileID uint
	Username  string
	Email     string
}

func signup(t *testing.T, app *fiber.App) account {
	t.Helper()

	stamp := time.Now().UnixNano()
	acc := account{
		Username: fmt.Sprintf("e2e_%d", stamp),
		Email:    fmt.Sprintf("e2e_%d@example.com", stamp),
	}

	res := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": acc.Username,
		"email":    acc.Email,
		"password": "E2eTestPass12!",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "signup should succeed")

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
		Profile struct {
			ID uint `json:"id"`
		} `json:"profile"`
	}
	decode(t, res, &body)
	require.NotEmpty(t, body.Token)

	acc.Token = body.Token
	acc.UserID = body.User.ID
	acc.ProfileID = body.Profile.ID
	return acc
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decode(t *testing.T, res *http.Response, dest any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(dest))
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func profilePath(id uint, action string) string {
	if action == "" {
		return fmt.Sprintf("/api/profiles/%d", id)
	}
	return fmt.Sprintf("/api/profiles/%d/%s", id, action)
}

func postPath(id uint, action string) string {
	if action == "" {
		return fmt.Sprintf("/api/posts/%d", id)
	}
	return fmt.Sprintf("/api/posts/%d/%s", id, action)
}

// feedContains reports whether the viewer's feed includes the given post.
func feedContains(t *testing.T, app *fiber.App, token string, postID uint) bool {
	t.Helper()

	res := doJSON(t, app, http.MethodGet, "/api/posts?limit=100", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var posts []struct {
		ID uint `json:"id"`
	}
	decode(t, res, &posts)
	for _, p := range posts {
		if p.ID == postID {
			return true
		}
	}
	return false
}
