package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavelength/sociogram/internal/cms"
)

func TestCreateCommentTruncatesContent(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	var received map[string]any
	fb.handle("/items/comments", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, jsoniter.Unmarshal(raw, &received))
		writeData(w, map[string]any{"id": "c1", "content": received["content"]})
	})

	long := strings.Repeat("a", CommentContentMaxLength+500)
	created, err := CreateComment(context.Background(), "user-token", nil, "p1", long)
	require.NoError(t, err)
	assert.Equal(t, "c1", created.ID)

	content, ok := received["content"].(string)
	require.True(t, ok)
	assert.Len(t, []rune(content), CommentContentMaxLength)
}

func TestCreateCommentFallsBackToPublicToken(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	var authorization string
	fb.handle("/items/comments", func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		writeData(w, map[string]any{"id": "c1"})
	})

	_, err := CreateComment(context.Background(), "", nil, "p1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Bearer public-test-token", authorization)
}

func TestCreateCommentRejectsAnonymousWithoutPublicToken(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)
	viper.Set("cms.public_token", "")

	_, err := CreateComment(context.Background(), "", nil, "p1", "hello")
	require.Error(t, err)
	assert.True(t, cms.IsUnauthorized(err))
}

func TestCreateCommentRejectsEmptyContent(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	_, err := CreateComment(context.Background(), "user-token", nil, "p1", "   ")
	require.Error(t, err)
}

func TestListCommentsPagination(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	fb.handle("/items/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "p1", r.URL.Query().Get("filter[post][_eq]"))
		assert.Equal(t, "-created_at", r.URL.Query().Get("sort"))
		switch r.URL.Query().Get("page") {
		case "1":
			writeData(w, []map[string]any{
				{"id": "c1", "content": "one"},
				{"id": "c2", "content": "two"},
			})
		default:
			writeData(w, []map[string]any{
				{"id": "c3", "content": "three"},
			})
		}
	})

	page := ListComments(context.Background(), "p1", 1, 2)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.NextPage)
	assert.Equal(t, 2, *page.NextPage)

	page = ListComments(context.Background(), "p1", 2, 2)
	assert.Len(t, page.Items, 1)
	assert.Nil(t, page.NextPage)
}

func TestListCommentsDegradesOnError(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	fb.handle("/items/comments", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	page := ListComments(context.Background(), "p1", 1, 10)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.NextPage)
}

func TestCountCommentsBestEffort(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	fb.handle("/items/comments", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	assert.Equal(t, int64(0), CountComments(context.Background(), "p1"))
}

func TestCoerceCountShapes(t *testing.T) {
	assert.Equal(t, int64(3), coerceCount(float64(3)))
	assert.Equal(t, int64(4), coerceCount("4"))
	assert.Equal(t, int64(5), coerceCount([]any{float64(5)}))
	assert.Equal(t, int64(0), coerceCount(nil))
	assert.Equal(t, int64(0), coerceCount("not a number"))
}
