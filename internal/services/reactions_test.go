package services

import (
	"context"
	"io"
	"net/http"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavelength/sociogram/internal/models"
)

// statefulReactions wires a tiny in-memory reactions collection into
// the fake backend so toggles can round-trip.
func statefulReactions(t *testing.T, fb *fakeBackend) *[]models.Reaction {
	t.Helper()
	rows := &[]models.Reaction{}
	nextId := 0

	fb.handle("/items/reactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			matched := []models.Reaction{}
			for _, row := range *rows {
				if v := q.Get("filter[post][_eq]"); len(v) > 0 && row.Post != v {
					continue
				}
				if v := q.Get("filter[user][_eq]"); len(v) > 0 && row.User != v {
					continue
				}
				if v := q.Get("filter[type][_eq]"); len(v) > 0 && row.Type != v {
					continue
				}
				matched = append(matched, row)
			}
			writeData(w, matched)
		case http.MethodPost:
			raw, _ := io.ReadAll(r.Body)
			var row models.Reaction
			require.NoError(t, jsoniter.Unmarshal(raw, &row))
			nextId++
			row.ID = string(rune('a' + nextId))
			*rows = append(*rows, row)
			writeData(w, row)
		case http.MethodDelete:
			raw, _ := io.ReadAll(r.Body)
			var ids []string
			require.NoError(t, jsoniter.Unmarshal(raw, &ids))
			kept := (*rows)[:0]
			for _, row := range *rows {
				removed := false
				for _, id := range ids {
					if row.ID == id {
						removed = true
					}
				}
				if !removed {
					kept = append(kept, row)
				}
			}
			*rows = kept
			w.WriteHeader(http.StatusNoContent)
		}
	})
	return rows
}

func TestToggleReactionRoundTrip(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)
	rows := statefulReactions(t, fb)

	reaction := models.Reaction{Post: "p1", User: "u1", Type: "like"}

	added, _, err := ToggleReaction(context.Background(), "user-token", reaction)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, *rows, 1)

	summary := GetReactionSummary(context.Background(), "p1")
	assert.Equal(t, int64(1), summary["like"])

	added, _, err = ToggleReaction(context.Background(), "user-token", reaction)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, *rows)

	summary = GetReactionSummary(context.Background(), "p1")
	assert.Equal(t, int64(0), summary["like"])
}

func TestToggleReactionIsScopedPerUserAndType(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)
	rows := statefulReactions(t, fb)

	_, _, err := ToggleReaction(context.Background(), "user-token", models.Reaction{Post: "p1", User: "u1", Type: "like"})
	require.NoError(t, err)
	_, _, err = ToggleReaction(context.Background(), "user-token", models.Reaction{Post: "p1", User: "u2", Type: "like"})
	require.NoError(t, err)
	_, _, err = ToggleReaction(context.Background(), "user-token", models.Reaction{Post: "p1", User: "u1", Type: "heart"})
	require.NoError(t, err)

	assert.Len(t, *rows, 3)

	summary := GetReactionSummary(context.Background(), "p1")
	assert.Equal(t, int64(2), summary["like"])
	assert.Equal(t, int64(1), summary["heart"])
}

func TestToggleReactionDefaultsType(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)
	rows := statefulReactions(t, fb)

	added, created, err := ToggleReaction(context.Background(), "user-token", models.Reaction{Post: "p1", User: "u1"})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, models.ReactionDefaultType, created.Type)
	assert.Len(t, *rows, 1)
}

func TestGetReactionSummaryDegradesOnError(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)

	fb.handle("/items/reactions", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	summary := GetReactionSummary(context.Background(), "p1")
	assert.Empty(t, summary)
}

func TestHasReactedBestEffort(t *testing.T) {
	fb := newFakeBackend(t)
	fb.install(t)
	statefulReactions(t, fb)

	reaction := models.Reaction{Post: "p1", User: "u1", Type: "like"}
	assert.False(t, HasReacted(context.Background(), "user-token", reaction))

	_, _, err := ToggleReaction(context.Background(), "user-token", reaction)
	require.NoError(t, err)
	assert.True(t, HasReacted(context.Background(), "user-token", reaction))

	assert.False(t, HasReacted(context.Background(), "", reaction))
}
