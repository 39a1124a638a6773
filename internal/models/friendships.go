package models

import "time"

const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
)

// Friendship is the record shape of the friendships collection. The
// pair is stored canonically with the lexicographically smaller user
// id in UserA so an unordered relationship has exactly one row.
type Friendship struct {
	ID        string     `json:"id,omitempty"`
	UserA     string     `json:"user_a"`
	UserB     string     `json:"user_b"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// NormalizeFriendPair returns the two user ids in canonical storage
// order.
func NormalizeFriendPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
