package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/http/exts"
	"github.com/wavelength/sociogram/internal/models"
	"github.com/wavelength/sociogram/internal/optimistic"
	"github.com/wavelength/sociogram/internal/services"
)

func reactionTarget(postId, kind string) optimistic.Target {
	return optimistic.Target{Kind: optimistic.KindReaction, ID: postId + "#" + kind}
}

func getReactions(c *fiber.Ctx) error {
	postId := c.Params("postId")

	summary := services.GetReactionSummary(c.UserContext(), postId)

	hasReacted := false
	if user, ok := currentUser(c); ok {
		hasReacted = services.HasReacted(c.UserContext(), currentToken(c), models.Reaction{
			Post: postId,
			User: user.ID,
			Type: models.ReactionDefaultType,
		})
	}

	// keep the interactive mirror in sync with what we just told the UI
	target := reactionTarget(postId, models.ReactionDefaultType)
	if Opt.State(target) != optimistic.StatePending {
		Opt.Seed(target, summary[models.ReactionDefaultType], hasReacted)
	}

	return c.JSON(fiber.Map{
		"summary":    summary,
		"hasReacted": hasReacted,
	})
}

func toggleReaction(c *fiber.Ctx) error {
	postId := c.Params("postId")

	var data struct {
		Type string `json:"type"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if len(data.Type) == 0 {
		data.Type = models.ReactionDefaultType
	}

	user, authenticated := currentUser(c)
	if !authenticated {
		return fiber.NewError(fiber.StatusUnauthorized, "please login to react")
	}
	token := currentToken(c)

	reaction := models.Reaction{
		Post: postId,
		User: user.ID,
		Type: data.Type,
	}

	target := reactionTarget(postId, data.Type)
	delta := lo.Ternary[int64](services.HasReacted(c.UserContext(), token, reaction), -1, 1)
	err := Opt.Begin(target, optimistic.Mutation{
		CounterDelta: delta,
		FlipFlag:     true,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	added, _, err := services.ToggleReaction(c.UserContext(), token, reaction)
	if err != nil {
		unauthenticated := cms.IsUnauthorized(err)
		_ = Opt.Rollback(target, "failed to react: "+err.Error(), unauthenticated)
		if unauthenticated {
			return fiber.NewError(fiber.StatusUnauthorized, "please login to react")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	_ = Opt.Commit(target)
	summary := services.GetReactionSummary(c.UserContext(), postId)
	Opt.Reconcile(target, summary[data.Type], added)

	return c.JSON(fiber.Map{
		"toggled": lo.Ternary(added, "added", "removed"),
		"summary": summary,
		"view":    Opt.View(target),
	})
}
