package services

import (
	"context"
	"fmt"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/models"
)

// EnsureFriendship makes sure one canonical friendship row exists for
// the unordered (me, target) pair. Either argument order lands on the
// same row. A reverse pending request is accepted instead of creating
// a duplicate; an existing row in any other state is a no-op. The
// second return reports whether a new row was created.
func EnsureFriendship(ctx context.Context, token, me, target string) (models.Friendship, bool, error) {
	if me == target {
		return models.Friendship{}, false, fmt.Errorf("cannot friend yourself")
	}

	a, b := models.NormalizeFriendPair(me, target)

	var existing []models.Friendship
	err := Cx.ReadItems(ctx, token, cms.Query{
		Collection: "friendships",
		Fields:     []string{"id", "user_a", "user_b", "status"},
		Filter: []cms.Condition{
			cms.Eq("user_a", a),
			cms.Eq("user_b", b),
		},
		Limit: 1,
	}, &existing)
	if err != nil {
		return models.Friendship{}, false, fmt.Errorf("failed to look up friendship: %v", err)
	}

	if len(existing) > 0 {
		friendship := existing[0]
		if friendship.Status == models.FriendshipStatusPending && target == friendship.UserA {
			// target sent the original request, so this call accepts it
			payload := map[string]any{"status": models.FriendshipStatusAccepted}
			if err := Cx.UpdateItem(ctx, token, "friendships", friendship.ID, payload, nil); err != nil {
				return friendship, false, fmt.Errorf("failed to accept friendship: %v", err)
			}
			friendship.Status = models.FriendshipStatusAccepted
		}
		return friendship, false, nil
	}

	friendship := models.Friendship{
		UserA:  a,
		UserB:  b,
		Status: models.FriendshipStatusPending,
	}
	var created models.Friendship
	if err := Cx.CreateItem(ctx, token, "friendships", friendship, &created); err != nil {
		return friendship, true, fmt.Errorf("failed to create friendship: %v", err)
	}
	return created, true, nil
}
