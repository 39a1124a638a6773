package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/models"
)

// ToggleReaction looks up the reaction row for (post, user, type) and
// deletes it when present, creates it when absent. The first return
// reports the branch taken: true when the reaction was added.
func ToggleReaction(ctx context.Context, token string, reaction models.Reaction) (bool, models.Reaction, error) {
	if len(reaction.Type) == 0 {
		reaction.Type = models.ReactionDefaultType
	}

	var existing []models.Reaction
	err := Cx.ReadItems(ctx, token, cms.Query{
		Collection: "reactions",
		Fields:     []string{"id", "post", "user", "type"},
		Filter: []cms.Condition{
			cms.Eq("post", reaction.Post),
			cms.Eq("user", reaction.User),
			cms.Eq("type", reaction.Type),
		},
		Limit: 1,
	}, &existing)
	if err != nil {
		return true, reaction, err
	}

	if len(existing) > 0 {
		ids := lo.Map(existing, func(item models.Reaction, _ int) string {
			return item.ID
		})
		if err := Cx.DeleteItems(ctx, token, "reactions", ids); err != nil {
			return false, existing[0], err
		}
		return false, existing[0], nil
	}

	var created models.Reaction
	if err := Cx.CreateItem(ctx, token, "reactions", reaction, &created); err != nil {
		return true, reaction, err
	}
	return true, created, nil
}

// GetReactionSummary tallies a post's reaction rows per type. Derived
// on every call, never stored; failures degrade to an empty summary.
func GetReactionSummary(ctx context.Context, postId string) models.ReactionSummary {
	token := viper.GetString("cms.public_token")

	var rows []models.Reaction
	err := Cx.ReadItems(ctx, token, cms.Query{
		Collection: "reactions",
		Fields:     []string{"type"},
		Filter:     []cms.Condition{cms.Eq("post", postId)},
		Limit:      -1,
	}, &rows)
	if err != nil {
		log.Warn().Err(err).Str("post", postId).Msg("Unable to load reactions, answering an empty summary...")
		return models.ReactionSummary{}
	}

	summary := models.ReactionSummary{}
	for _, row := range rows {
		kind := row.Type
		if len(kind) == 0 {
			kind = models.ReactionDefaultType
		}
		summary[kind]++
	}
	return summary
}

// HasReacted reports whether the user already reacted to the post with
// the given type. Best-effort; detection failures read as false.
func HasReacted(ctx context.Context, token string, reaction models.Reaction) bool {
	if len(token) == 0 {
		return false
	}
	if len(reaction.Type) == 0 {
		reaction.Type = models.ReactionDefaultType
	}

	var existing []models.Reaction
	err := Cx.ReadItems(ctx, token, cms.Query{
		Collection: "reactions",
		Fields:     []string{"id"},
		Filter: []cms.Condition{
			cms.Eq("post", reaction.Post),
			cms.Eq("user", reaction.User),
			cms.Eq("type", reaction.Type),
		},
		Limit: 1,
	}, &existing)
	if err != nil {
		return false
	}
	return len(existing) > 0
}
