package server

import (
	"net/http"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowsAPI(t *testing.T) {
	s, app := newTestServer(t)
	follower := createTestUser(t, s, "fan", false)
	author := createTestUser(t, s, "star", false)
	auth := bearer(t, s, follower)

	t.Run("Create", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/follows", auth, map[string]string{
			"username": "star",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(author.ID), body["author_id"])
	})

	t.Run("DuplicateConflicts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/follows", auth, map[string]string{
			"username": "star",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("SelfFollowConflicts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/follows", auth, map[string]string{
			"username": "fan",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("UnknownAuthor", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/follows", auth, map[string]string{
			"username": "ghost",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("List", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/follows", auth, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		follows, ok := body["follows"].([]any)
		require.True(t, ok)
		require.Len(t, follows, 1)
	})

	t.Run("Delete", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/follows/star", auth, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("DeleteAbsentIs404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/follows/star", auth, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFollowUser_WebSemantics(t *testing.T) {
	s, app := newTestServer(t)
	follower := createTestUser(t, s, "casual", false)
	createTestUser(t, s, "idol", false)
	auth := bearer(t, s, follower)

	t.Run("Follow", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/users/idol/follow", auth, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["following"])
	})

	t.Run("RepeatFollowIsNoop", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/users/idol/follow", auth, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["following"])

		var count int64
		s.db.Model(&models.Follow{}).Where("follower_id = ?", follower.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("SelfFollowIsNoop", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/users/casual/follow", auth, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["following"])

		var count int64
		s.db.Model(&models.Follow{}).Where("follower_id = ? AND author_id = ?",
			follower.ID, follower.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Unfollow", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/users/idol/follow", auth, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("UnfollowAbsentIs404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/users/idol/follow", auth, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
