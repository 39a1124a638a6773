package services

import (
	"context"
	"fmt"
	"time"

	"github.com/wavelength/sociogram/internal/models"
)

const (
	PostTitleMaxLength   = 200
	PostContentMaxLength = 5000
)

// PostDraft is what the composer submits. At least one of the three
// fields must carry something.
type PostDraft struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Image   *string `json:"image"`
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

// NewPost publishes a post on behalf of the authenticated caller. The
// draft is validated and bounded before any network call.
func NewPost(ctx context.Context, token string, draft PostDraft) (models.Post, error) {
	if draft.Title == nil && draft.Content == nil && draft.Image == nil {
		return models.Post{}, fmt.Errorf("title, content, or image is required")
	}

	payload := map[string]any{
		"status":       models.PostStatusPublished,
		"published_at": time.Now().UTC().Format(time.RFC3339),
	}
	if draft.Title != nil {
		payload["title"] = truncateRunes(*draft.Title, PostTitleMaxLength)
	}
	if draft.Content != nil {
		payload["description"] = truncateRunes(*draft.Content, PostContentMaxLength)
	}
	if draft.Image != nil {
		payload["image"] = *draft.Image
	}

	var created models.Post
	if err := Cx.CreateItem(ctx, token, "posts", payload, &created); err != nil {
		return created, err
	}
	return created, nil
}

// EditPost updates the editable fields of an existing post.
func EditPost(ctx context.Context, token, id string, draft PostDraft) (models.Post, error) {
	payload := map[string]any{}
	if draft.Title != nil {
		payload["title"] = truncateRunes(*draft.Title, PostTitleMaxLength)
	}
	if draft.Content != nil {
		payload["description"] = truncateRunes(*draft.Content, PostContentMaxLength)
	}
	if draft.Image != nil {
		payload["image"] = *draft.Image
	}
	if len(payload) == 0 {
		return models.Post{}, fmt.Errorf("nothing to update")
	}

	var updated models.Post
	if err := Cx.UpdateItem(ctx, token, "posts", id, payload, &updated); err != nil {
		return updated, err
	}
	return updated, nil
}

func DeletePost(ctx context.Context, token, id string) error {
	return Cx.DeleteItem(ctx, token, "posts", id)
}
