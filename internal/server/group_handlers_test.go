package server

import (
	"net/http"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCRUD_AdminOnly(t *testing.T) {
	s, app := newTestServer(t)
	admin := createTestUser(t, s, "boss", true)
	regular := createTestUser(t, s, "pleb", false)

	t.Run("NonAdminCannotCreate", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/groups", bearer(t, s, regular), map[string]string{
			"title": "Not Allowed",
			"slug":  "not-allowed",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("AdminCreates", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/groups", bearer(t, s, admin), map[string]string{
			"title":       "Go Talk",
			"slug":        "go-talk",
			"description": "All things Go",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "go-talk", body["slug"])
	})

	t.Run("DuplicateSlugConflicts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/groups", bearer(t, s, admin), map[string]string{
			"title": "Go Talk Again",
			"slug":  "go-talk",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("ReservedSlugRejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/groups", bearer(t, s, admin), map[string]string{
			"title": "Sneaky",
			"slug":  "admin",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("AdminUpdatesTitleNotSlug", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/groups/go-talk", bearer(t, s, admin), map[string]string{
			"title": "Go Talk Renamed",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Go Talk Renamed", body["title"])
		assert.Equal(t, "go-talk", body["slug"])
	})

	t.Run("AdminDeletes", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/groups/go-talk", bearer(t, s, admin), nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestGroupDelete_PostsSurvive(t *testing.T) {
	s, app := newTestServer(t)
	admin := createTestUser(t, s, "janitor", true)

	group := &models.Group{Title: "Doomed", Slug: "doomed"}
	require.NoError(t, s.db.Create(group).Error)
	post := &models.Post{AuthorID: admin.ID, Text: "survivor", GroupID: &group.ID}
	require.NoError(t, s.db.Create(post).Error)
	msg := &models.ChatMessage{GroupID: group.ID, AuthorID: admin.ID, Text: "going down"}
	require.NoError(t, s.db.Create(msg).Error)

	resp := doJSON(t, app, http.MethodDelete, "/api/groups/doomed", bearer(t, s, admin), nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The post survives without a group; the chat log does not.
	var got models.Post
	require.NoError(t, s.db.First(&got, post.ID).Error)
	assert.Nil(t, got.GroupID)

	var msgCount int64
	s.db.Model(&models.ChatMessage{}).Where("group_id = ?", group.ID).Count(&msgCount)
	assert.Equal(t, int64(0), msgCount)
}

func TestGetGroups(t *testing.T) {
	s, app := newTestServer(t)
	require.NoError(t, s.db.Create(&models.Group{Title: "Bravo", Slug: "bravo"}).Error)
	require.NoError(t, s.db.Create(&models.Group{Title: "Alpha", Slug: "alpha"}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/groups", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	groups, ok := body["groups"].([]any)
	require.True(t, ok)
	require.Len(t, groups, 2)
	// Listed alphabetically by title.
	first := groups[0].(map[string]any)
	assert.Equal(t, "Alpha", first["title"])
}

func TestGroupShapes_ListVsDetail(t *testing.T) {
	s, app := newTestServer(t)
	require.NoError(t, s.db.Create(&models.Group{
		Title: "Birds", Slug: "birds", Description: "Bird watching",
	}).Error)

	t.Run("ListServesSummary", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		groups := body["groups"].([]any)
		require.Len(t, groups, 1)

		row := groups[0].(map[string]any)
		assert.Equal(t, "Birds", row["title"])
		assert.Equal(t, "birds", row["slug"])
		assert.Equal(t, "Bird watching", row["description"])
		_, hasID := row["id"]
		assert.False(t, hasID)
	})

	t.Run("DetailServesFullRecord", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups/birds", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "birds", body["slug"])
		assert.NotZero(t, body["id"])
	})
}

func TestGetGroupPosts(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s, "grouper", false)
	group := &models.Group{Title: "Topic", Slug: "topic"}
	require.NoError(t, s.db.Create(group).Error)

	require.NoError(t, s.db.Create(&models.Post{AuthorID: user.ID, Text: "in group", GroupID: &group.ID}).Error)
	require.NoError(t, s.db.Create(&models.Post{AuthorID: user.ID, Text: "outside"}).Error)

	t.Run("OnlyGroupPosts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups/topic/posts", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		posts, ok := body["posts"].([]any)
		require.True(t, ok)
		require.Len(t, posts, 1)
		assert.Equal(t, "in group", posts[0].(map[string]any)["text"])
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/groups/ghost/posts", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
