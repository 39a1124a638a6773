package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/models"
)

const (
	CommentDefaultPageSize  = 10
	CommentContentMaxLength = 2000
)

// TruncateCommentContent caps a comment to the persisted maximum. The
// backend never sees anything longer.
func TruncateCommentContent(content string) string {
	runes := []rune(content)
	if len(runes) > CommentContentMaxLength {
		return string(runes[:CommentContentMaxLength])
	}
	return content
}

// ListComments loads one page of a post's comments, newest first. Read
// failures degrade to an empty page so the thread never breaks the
// surface showing it.
func ListComments(ctx context.Context, postId string, page, pageSize int) models.CommentPage {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = CommentDefaultPageSize
	}

	token := viper.GetString("cms.public_token")

	var comments []models.Comment
	err := Cx.ReadItems(ctx, token, cms.Query{
		Collection: "comments",
		Fields:     []string{"id", "user", "content", "created_at"},
		Filter:     []cms.Condition{cms.Eq("post", postId)},
		Sort:       []string{"-created_at"},
		Page:       page,
		Limit:      pageSize,
	}, &comments)
	if err != nil {
		log.Warn().Err(err).Str("post", postId).Msg("Unable to load comments, answering an empty page...")
		return models.CommentPage{Items: []models.CommentItem{}}
	}

	result := models.CommentPage{
		Items: lo.Map(comments, func(item models.Comment, _ int) models.CommentItem {
			return item.ToItem()
		}),
	}
	if len(result.Items) == pageSize {
		result.NextPage = lo.ToPtr(page + 1)
	}
	return result
}

// CreateComment persists one comment under a post. The content is
// trimmed and truncated before any network call. Anonymous callers
// fall back to the deployment's public token; with neither token the
// action is rejected as unauthenticated.
func CreateComment(ctx context.Context, token string, userId *string, postId, content string) (models.Comment, error) {
	content = TruncateCommentContent(strings.TrimSpace(content))
	if len(content) == 0 {
		return models.Comment{}, fmt.Errorf("comment content cannot be empty")
	}

	if len(token) == 0 {
		token = viper.GetString("cms.public_token")
	}
	if len(token) == 0 {
		return models.Comment{}, &cms.RemoteError{Status: 401, Message: "authentication required"}
	}

	payload := map[string]any{
		"post":    postId,
		"content": content,
	}
	if userId != nil {
		payload["user"] = *userId
	}

	var created models.Comment
	if err := Cx.CreateItem(ctx, token, "comments", payload, &created); err != nil {
		return created, err
	}
	return created, nil
}

// BatchCountComments answers the comment count of every given post in
// a single grouped aggregate round trip. Best-effort: any failure
// yields an empty mapping and the callers show zero badges.
func BatchCountComments(ctx context.Context, postIds []string) map[string]int64 {
	counts := map[string]int64{}
	if len(postIds) == 0 {
		return counts
	}

	token := viper.GetString("cms.public_token")

	var rows []struct {
		Post  string `json:"post"`
		Count any    `json:"count"`
	}
	err := Cx.ReadItems(ctx, token, cms.Query{
		Collection: "comments",
		Filter:     []cms.Condition{cms.In("post", postIds)},
		Aggregate:  map[string]string{"count": "*"},
		GroupBy:    []string{"post"},
		Limit:      -1,
	}, &rows)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to aggregate comment counts...")
		return counts
	}

	for _, row := range rows {
		counts[row.Post] += coerceCount(row.Count)
	}
	return counts
}

// CountComments answers how many comments one post has. Best-effort;
// it only drives a badge, so failures read as zero.
func CountComments(ctx context.Context, postId string) int64 {
	return BatchCountComments(ctx, []string{postId})[postId]
}

// coerceCount absorbs the shapes the aggregate endpoint is known to
// answer with: a bare number, a numeric string, or a one-element list.
func coerceCount(value any) int64 {
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case string:
		var parsed int64
		if _, err := fmt.Sscan(v, &parsed); err == nil {
			return parsed
		}
	case []any:
		if len(v) > 0 {
			return coerceCount(v[0])
		}
	}
	return 0
}
