package models

import (
	"time"

	"github.com/samber/lo"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// Post is the record shape of the posts collection, with the author
// relation merged inline via the user_created field.
type Post struct {
	ID          string     `json:"id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Slug        *string    `json:"slug"`
	Image       *string    `json:"image"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	UserCreated *Account   `json:"user_created"`
}

// FeedPost is the view model handed to the UI: the post record plus
// the counters aggregated for it.
type FeedPost struct {
	ID            string          `json:"id"`
	Title         *string         `json:"title"`
	Content       *string         `json:"content"`
	Image         *string         `json:"image"`
	Slug          *string         `json:"slug"`
	CreatedAt     *time.Time      `json:"created_at"`
	AuthorID      *string         `json:"author_id,omitempty"`
	AuthorName    string          `json:"author_name"`
	AuthorAvatar  *string         `json:"author_avatar"`
	CommentsCount int64           `json:"comments_count"`
	Reactions     ReactionSummary `json:"reactions,omitempty"`
}

func (v Post) ToFeedPost(commentsCount int64) FeedPost {
	item := FeedPost{
		ID:            v.ID,
		Title:         v.Title,
		Content:       v.Description,
		Image:         v.Image,
		Slug:          v.Slug,
		CreatedAt:     v.PublishedAt,
		CommentsCount: commentsCount,
		AuthorName:    "Anonymous",
	}
	if v.UserCreated != nil {
		item.AuthorID = lo.ToPtr(v.UserCreated.ID)
		item.AuthorName = v.UserCreated.DisplayName()
		item.AuthorAvatar = v.UserCreated.Avatar
	}
	return item
}

// FeedPage is one page of the feed. NextPage is nil once a short page
// signals the end of the feed.
type FeedPage struct {
	Items    []FeedPost `json:"items"`
	NextPage *int       `json:"next_page"`
}
