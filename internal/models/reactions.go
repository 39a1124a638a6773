package models

import "time"

const ReactionDefaultType = "like"

// Reaction is the record shape of the reactions collection. One row
// per (post, user, type); toggling deletes or creates the row, it
// never increments anything in place.
type Reaction struct {
	ID        string     `json:"id,omitempty"`
	Post      string     `json:"post"`
	User      string     `json:"user"`
	Type      string     `json:"type"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ReactionSummary maps a reaction type to how many rows carry it. It
// is derived by tallying rows, never stored.
type ReactionSummary map[string]int64
