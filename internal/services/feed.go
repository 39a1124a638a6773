package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/models"
)

const FeedDefaultPageSize = 10

var feedPostFields = []string{
	"id", "title", "description", "slug", "image", "status", "published_at",
	"user_created.id", "user_created.first_name", "user_created.last_name", "user_created.avatar",
}

// FetchFeed loads one page of published posts, newest first, and
// batch-aggregates the comment count of every post on the page in a
// single grouped query. A backend failure degrades to an empty page so
// feed rendering never hard-fails.
//
// NextPage is set whenever the page came back full. A feed whose last
// page is exactly full therefore costs one extra empty fetch; that
// matches the pagination contract and is left as is.
func FetchFeed(ctx context.Context, page, pageSize int) models.FeedPage {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = FeedDefaultPageSize
	}

	token := viper.GetString("cms.public_token")

	var posts []models.Post
	err := Cx.ReadItems(ctx, token, cms.Query{
		Collection: "posts",
		Fields:     feedPostFields,
		Filter:     []cms.Condition{cms.Eq("status", models.PostStatusPublished)},
		Sort:       []string{"-published_at"},
		Page:       page,
		Limit:      pageSize,
	}, &posts)
	if err != nil {
		log.Warn().Err(err).Int("page", page).Msg("Unable to load feed posts, answering an empty page...")
		return models.FeedPage{Items: []models.FeedPost{}}
	}

	counts := BatchCountComments(ctx, lo.Map(posts, func(item models.Post, _ int) string {
		return item.ID
	}))

	result := models.FeedPage{
		Items: lo.Map(posts, func(item models.Post, _ int) models.FeedPost {
			return item.ToFeedPost(counts[item.ID])
		}),
	}
	if len(result.Items) == pageSize {
		result.NextPage = lo.ToPtr(page + 1)
	}
	return result
}

// GetFeedPost loads a single post as a feed view model, with its
// comment count attached best-effort.
func GetFeedPost(ctx context.Context, id string) (models.FeedPost, error) {
	token := viper.GetString("cms.public_token")

	var post models.Post
	if err := Cx.ReadItem(ctx, token, "posts", id, feedPostFields, &post); err != nil {
		return models.FeedPost{}, err
	}

	item := post.ToFeedPost(CountComments(ctx, id))
	item.Reactions = GetReactionSummary(ctx, id)
	return item, nil
}
