package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/http/exts"
	"github.com/wavelength/sociogram/internal/optimistic"
	"github.com/wavelength/sociogram/internal/services"
)

func listComments(c *fiber.Ctx) error {
	postId := c.Params("postId")
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", services.CommentDefaultPageSize)

	return c.JSON(services.ListComments(c.UserContext(), postId, page, pageSize))
}

func countComments(c *fiber.Ctx) error {
	postId := c.Params("postId")

	return c.JSON(fiber.Map{
		"count": services.CountComments(c.UserContext(), postId),
	})
}

func createComment(c *fiber.Ctx) error {
	postId := c.Params("postId")

	var data struct {
		Content string `json:"content" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	var userId *string
	if user, ok := currentUser(c); ok {
		userId = lo.ToPtr(user.ID)
	}

	target := optimistic.Target{Kind: optimistic.KindComment, ID: postId}
	placeholder := optimistic.NewPlaceholder(userId, services.TruncateCommentContent(data.Content))
	err := Opt.Begin(target, optimistic.Mutation{
		CounterDelta: 1,
		Placeholder:  &placeholder,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	created, err := services.CreateComment(c.UserContext(), currentToken(c), userId, postId, data.Content)
	if err != nil {
		unauthenticated := cms.IsUnauthorized(err)
		_ = Opt.Rollback(target, "failed to post comment: "+err.Error(), unauthenticated)
		if unauthenticated {
			return fiber.NewError(fiber.StatusUnauthorized, "please login to comment")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	_ = Opt.Commit(target)
	Opt.ResolvePlaceholder(target, placeholder.ID, created.ToItem())
	Opt.Reconcile(target, services.CountComments(c.UserContext(), postId), false)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":   created.ID,
		"view": Opt.View(target),
	})
}
