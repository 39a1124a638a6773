package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavelength/sociogram/internal/models"
)

func TestNewPostPublishesWithTimestamp(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	var received map[string]any
	fb.handle("/items/posts", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, jsoniter.Unmarshal(raw, &received))
		writeData(w, models.Post{ID: "p-1"})
	})

	created, err := NewPost(context.Background(), "user-token", PostDraft{
		Title:   lo.ToPtr("Hello"),
		Content: lo.ToPtr("First post"),
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", created.ID)
	assert.Equal(t, models.PostStatusPublished, received["status"])
	assert.Equal(t, "Hello", received["title"])
	assert.Equal(t, "First post", received["description"])
	assert.NotEmpty(t, received["published_at"])
}

func TestNewPostRequiresSomeContent(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	_, err := NewPost(context.Background(), "user-token", PostDraft{})
	require.Error(t, err)
}

func TestNewPostBoundsFieldLengths(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	var received map[string]any
	fb.handle("/items/posts", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, jsoniter.Unmarshal(raw, &received))
		writeData(w, models.Post{ID: "p-2"})
	})

	_, err := NewPost(context.Background(), "user-token", PostDraft{
		Title:   lo.ToPtr(strings.Repeat("t", PostTitleMaxLength+50)),
		Content: lo.ToPtr(strings.Repeat("c", PostContentMaxLength+50)),
	})
	require.NoError(t, err)
	assert.Len(t, []rune(received["title"].(string)), PostTitleMaxLength)
	assert.Len(t, []rune(received["description"].(string)), PostContentMaxLength)
}

func TestEditPostSendsOnlyGivenFields(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	var received map[string]any
	fb.handle("/items/posts/p-3", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, jsoniter.Unmarshal(raw, &received))
		writeData(w, models.Post{ID: "p-3", Title: lo.ToPtr("Renamed")})
	})

	updated, err := EditPost(context.Background(), "user-token", "p-3", PostDraft{
		Title: lo.ToPtr("Renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", lo.FromPtr(updated.Title))
	assert.Contains(t, received, "title")
	assert.NotContains(t, received, "description")
	assert.NotContains(t, received, "status")
}

func TestEditPostRejectsEmptyDraft(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	_, err := EditPost(context.Background(), "user-token", "p-4", PostDraft{})
	require.Error(t, err)
}

func TestDeletePost(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	deleted := false
	fb.handle("/items/posts/p-5", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, DeletePost(context.Background(), "user-token", "p-5"))
	assert.True(t, deleted)
}
