package models

import "time"

// Comment is the record shape of the comments collection. Comments are
// append-only from the client's perspective.
type Comment struct {
	ID        string     `json:"id"`
	Post      string     `json:"post"`
	User      *string    `json:"user"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"created_at"`
}

// CommentItem is the trimmed view model for comment listings.
type CommentItem struct {
	ID        string     `json:"id"`
	UserID    *string    `json:"user_id"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"created_at"`

	// Pending marks a locally-appended placeholder that has not been
	// confirmed by the backend yet.
	Pending bool `json:"pending,omitempty"`
}

func (v Comment) ToItem() CommentItem {
	return CommentItem{
		ID:        v.ID,
		UserID:    v.User,
		Content:   v.Content,
		CreatedAt: v.CreatedAt,
	}
}

// CommentPage is one page of a post's comments, newest first.
type CommentPage struct {
	Items    []CommentItem `json:"items"`
	NextPage *int          `json:"next_page"`
}
