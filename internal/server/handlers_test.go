package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pawfeed/internal/config"
	"pawfeed/internal/models"
	"pawfeed/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestEnv(t *testing.T, rdb *redis.Client, mutate func(*config.Config)) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Env:              "test",
		JWTSecret:        testSecret,
		FeatureFlags:     "feed_cache=on",
		FeedDefaultLimit: 20,
		FeedMaxLimit:     50,
		ToggleRateLimit:  30,
	}
	if mutate != nil {
		mutate(cfg)
	}
	db := testutil.NewSQLiteDB(t)
	srv, err := NewServer(cfg, db, rdb)
	require.NoError(t, err)
	return &testEnv{app: srv.NewApp(), db: db}
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

// do sends a request as userID; an empty userID is anonymous.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, userID string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", bearer(t, userID))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func playdateBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Saturday zoomies",
		"description": "Off-leash fun",
		"dogBreed":    "Husky",
		"address":     "1 Park Ave",
		"city":        "Portland",
		"state":       "OR",
		"zip":         "97201",
		"whenAt":      time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"place":       "Laurelhurst Park",
	}
}

func (e *testEnv) createCommunity(t *testing.T, userID, description string) models.Post {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/community", map[string]string{
		"description": description,
		"petType":     "cat",
	}, userID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.Post](t, resp)
}

func (e *testEnv) createPlaydate(t *testing.T, userID string) models.Post {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/playdates", playdateBody(), userID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.Post](t, resp)
}

func TestCommunityPostLifecycle(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	post := env.createCommunity(t, "alice", "My cat learned to fetch")
	assert.Equal(t, "alice", post.AuthorID)
	assert.Equal(t, models.VariantCommunity, post.Variant)
	assert.Zero(t, post.Likes)
	assert.Zero(t, post.Comments)

	resp := env.do(t, http.MethodGet, "/api/community/"+post.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Post](t, resp)
	assert.Equal(t, "My cat learned to fetch", got.Description)
	assert.Nil(t, got.LikedByMe)

	resp = env.do(t, http.MethodGet, "/api/community", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[struct {
		Items []models.Post `json:"items"`
		Page  int           `json:"page"`
		Limit int           `json:"limit"`
	}](t, resp)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)

	resp = env.do(t, http.MethodPatch, "/api/community/"+post.ID, map[string]string{"description": "hijacked"}, "mallory")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, "/api/community/"+post.ID, map[string]string{"description": "It also fetches socks"}, "alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edited := decode[models.Post](t, resp)
	assert.Equal(t, "It also fetches socks", edited.Description)
	assert.Equal(t, models.EditHistory{"My cat learned to fetch"}, edited.Edits)

	resp = env.do(t, http.MethodDelete, "/api/community/"+post.ID, nil, "mallory")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/community/"+post.ID, nil, "alice")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/community/"+post.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/community/"+post.ID, nil, "alice")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePost_Errors(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	tests := []struct {
		name           string
		path           string
		body           interface{}
		userID         string
		expectedStatus int
		expectedField  string
	}{
		{
			name:           "anonymous",
			path:           "/api/community",
			body:           map[string]string{"description": "hi"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "posting as someone else",
			path:           "/api/community",
			body:           map[string]string{"description": "hi", "authorId": "bob"},
			userID:         "alice",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "blank description",
			path:           "/api/community",
			body:           map[string]string{"description": "   "},
			userID:         "alice",
			expectedStatus: http.StatusBadRequest,
			expectedField:  "description",
		},
		{
			name: "playdate missing breed",
			path: "/api/playdates",
			body: func() map[string]interface{} {
				b := playdateBody()
				delete(b, "dogBreed")
				delete(b, "place")
				return b
			}(),
			userID:         "alice",
			expectedStatus: http.StatusBadRequest,
			expectedField:  "dogBreed",
		},
		{
			name: "playdate missing time",
			path: "/api/playdates",
			body: func() map[string]interface{} {
				b := playdateBody()
				delete(b, "whenAt")
				return b
			}(),
			userID:         "alice",
			expectedStatus: http.StatusBadRequest,
			expectedField:  "whenAt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, tt.path, tt.body, tt.userID)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedField != "" {
				body := decode[models.ErrorResponse](t, resp)
				assert.Equal(t, models.CodeValidation, body.Code)
				assert.Equal(t, tt.expectedField, body.Field)
			}
		})
	}
}

func TestGetPost_WrongVariantIsNotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	community := env.createCommunity(t, "alice", "hello")
	playdate := env.createPlaydate(t, "alice")

	resp := env.do(t, http.MethodGet, "/api/playdates/"+community.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/community/"+playdate.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/community/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChildRoutes_WrongVariantIsNotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	community := env.createCommunity(t, "alice", "hello")
	playdate := env.createPlaydate(t, "alice")
	comment := map[string]string{"content": "hi"}

	resp := env.do(t, http.MethodGet, "/api/community/"+playdate.ID+"/comments", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/community/"+playdate.ID+"/comments", comment, "bob")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/community/"+playdate.ID+"/like", nil, "bob")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/playdates/"+community.ID+"/like", nil, "bob")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/playdates/"+community.ID+"/comments", comment, "bob")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// nothing leaked through the wrong route
	resp = env.do(t, http.MethodGet, "/api/playdates/"+playdate.ID, nil, "")
	got := decode[models.Post](t, resp)
	assert.Zero(t, got.Likes)
	assert.Zero(t, got.Comments)

	resp = env.do(t, http.MethodPost, "/api/playdates/"+playdate.ID+"/comments", comment, "bob")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	post := env.createCommunity(t, "alice", "hello")
	path := "/api/community/" + post.ID + "/like"

	resp := env.do(t, http.MethodPost, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, path, nil, "bob")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[map[string]bool](t, resp)["liked"])

	resp = env.do(t, http.MethodGet, "/api/community/"+post.ID, nil, "bob")
	got := decode[models.Post](t, resp)
	assert.EqualValues(t, 1, got.Likes)
	require.NotNil(t, got.LikedByMe)
	assert.True(t, *got.LikedByMe)

	resp = env.do(t, http.MethodGet, path, nil, "carol")
	assert.False(t, decode[map[string]bool](t, resp)["liked"])

	resp = env.do(t, http.MethodPost, path, nil, "bob")
	assert.False(t, decode[map[string]bool](t, resp)["liked"])

	resp = env.do(t, http.MethodGet, "/api/community/"+post.ID, nil, "")
	assert.Zero(t, decode[models.Post](t, resp).Likes)

	resp = env.do(t, http.MethodPost, "/api/community/6f1c2b1e-7d0a-4b7e-9d2a-1f0c3e5a7b9d/like", nil, "bob")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleJoinAndParticipants(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	testutil.MustCreate(t, env.db, &models.User{ID: "bob", Username: "Bob", Avatar: "bob.png"})
	playdate := env.createPlaydate(t, "alice")
	base := "/api/playdates/" + playdate.ID

	resp := env.do(t, http.MethodPost, base+"/join", nil, "alice")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, base+"/join", nil, "bob")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[map[string]bool](t, resp)["joined"])

	resp = env.do(t, http.MethodPost, base+"/join", nil, "carol")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, base+"/join", nil, "bob")
	assert.True(t, decode[map[string]bool](t, resp)["joined"])

	resp = env.do(t, http.MethodGet, base+"/participants", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	participants := decode[map[string][]models.User](t, resp)["items"]
	require.Len(t, participants, 2)
	assert.Equal(t, models.User{ID: "bob", Username: "Bob", Avatar: "bob.png"}, participants[0])
	assert.Equal(t, models.User{ID: "carol"}, participants[1])

	resp = env.do(t, http.MethodGet, base, nil, "carol")
	got := decode[models.Post](t, resp)
	assert.EqualValues(t, 2, got.Participants)
	require.NotNil(t, got.JoinedByMe)
	assert.True(t, *got.JoinedByMe)

	community := env.createCommunity(t, "alice", "not a playdate")
	resp = env.do(t, http.MethodGet, "/api/playdates/"+community.ID+"/participants", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestComments(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	post := env.createCommunity(t, "alice", "hello")
	thread := "/api/community/" + post.ID + "/comments"

	resp := env.do(t, http.MethodPost, thread, map[string]string{"username": "Bob", "content": "first"}, "bob")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[models.Comment](t, resp)
	assert.Equal(t, "bob", first.AuthorID)
	assert.Equal(t, post.ID, first.PostID)

	resp = env.do(t, http.MethodPost, thread, map[string]string{"username": "Carol", "content": "second"}, "carol")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, thread, map[string]string{"content": " "}, "carol")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, thread+"?order=oldest", nil, "")
	items := decode[map[string][]models.Comment](t, resp)["items"]
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Content)
	assert.Equal(t, "second", items[1].Content)

	resp = env.do(t, http.MethodGet, "/api/community/"+post.ID, nil, "")
	assert.EqualValues(t, 2, decode[models.Post](t, resp).Comments)

	resp = env.do(t, http.MethodPatch, "/api/comments/"+first.ID, map[string]string{"content": "edited"}, "carol")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, "/api/comments/"+first.ID, map[string]string{"content": "edited"}, "bob")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edit := decode[models.CommentEdit](t, resp)
	assert.True(t, edit.Success)
	require.NotNil(t, edit.Comment)
	assert.Equal(t, models.EditHistory{"first"}, edit.Comment.Edits)

	resp = env.do(t, http.MethodDelete, "/api/comments/"+first.ID, nil, "bob")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[models.Result](t, resp).Success)

	missing := "/api/comments/" + first.ID
	resp = env.do(t, http.MethodDelete, missing, nil, "bob")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[models.Result](t, resp).Success)
	resp = env.do(t, http.MethodPatch, missing, map[string]string{"content": "again"}, "bob")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[models.CommentEdit](t, resp).Success)

	resp = env.do(t, http.MethodGet, "/api/community/"+post.ID, nil, "")
	assert.EqualValues(t, 1, decode[models.Post](t, resp).Comments)
}

func TestDeletePost_RemovesThreadAndEngagements(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	playdate := env.createPlaydate(t, "alice")
	base := "/api/playdates/" + playdate.ID

	env.do(t, http.MethodPost, base+"/comments", map[string]string{"content": "count me in"}, "bob")
	env.do(t, http.MethodPost, base+"/like", nil, "bob")
	env.do(t, http.MethodPost, base+"/join", nil, "bob")

	resp := env.do(t, http.MethodDelete, base, nil, "alice")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, table := range []string{"comments", "likes", "joins"} {
		var n int64
		require.NoError(t, env.db.Table(table).Where("post_id = ?", playdate.ID).Count(&n).Error)
		assert.Zero(t, n, table)
	}
}

func TestToggleRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := newTestEnv(t, rdb, func(cfg *config.Config) {
		cfg.FeatureFlags = "feed_cache=on,toggle_rate_limit=on"
		cfg.ToggleRateLimit = 2
	})
	post := env.createCommunity(t, "alice", "hello")
	path := "/api/community/" + post.ID + "/like"

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, path, nil, "bob").StatusCode)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, path, nil, "bob").StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, env.do(t, http.MethodPost, path, nil, "bob").StatusCode)
	// other users have their own budget
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, path, nil, "carol").StatusCode)

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, path, nil, "bob").StatusCode)
}

func TestListCommunityPosts_CachedFeedSeesWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := newTestEnv(t, rdb, nil)
	post := env.createCommunity(t, "alice", "hello")

	list := func() []models.Post {
		resp := env.do(t, http.MethodGet, "/api/community?petType=CAT", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[map[string][]models.Post](t, resp)["items"]
	}

	require.Len(t, list(), 1)
	env.do(t, http.MethodPost, "/api/community/"+post.ID+"/like", nil, "bob")

	items := list()
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, items[0].Likes)
}

func TestFeatureFlagsAndHealth(t *testing.T) {
	env := newTestEnv(t, nil, func(cfg *config.Config) {
		cfg.FeatureFlags = "feed_cache=on,toggle_rate_limit=off"
	})

	resp := env.do(t, http.MethodGet, "/api/feature-flags", nil, "alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	flags := decode[struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}](t, resp)
	assert.Equal(t, "on", flags.Raw["feed_cache"])
	assert.True(t, flags.Evaluated["feed_cache"])
	assert.False(t, flags.Evaluated["toggle_rate_limit"])

	resp = env.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ready := decode[map[string]interface{}](t, resp)
	checks := ready["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}
