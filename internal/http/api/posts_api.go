package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/http/exts"
	"github.com/wavelength/sociogram/internal/services"
)

func remoteStatus(err error, fallback int) int {
	var re *cms.RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return fallback
}

func createPost(c *fiber.Ctx) error {
	var data services.PostDraft
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if data.Title == nil && data.Content == nil && data.Image == nil {
		return fiber.NewError(fiber.StatusBadRequest, "title, content, or image is required")
	}

	if _, ok := currentUser(c); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "please login to post")
	}

	created, err := services.NewPost(c.UserContext(), currentToken(c), data)
	if err != nil {
		return fiber.NewError(remoteStatus(err, fiber.StatusInternalServerError), err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": created.ID})
}

func updatePost(c *fiber.Ctx) error {
	var data services.PostDraft
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if _, ok := currentUser(c); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "please login to edit posts")
	}

	updated, err := services.EditPost(c.UserContext(), currentToken(c), c.Params("postId"), data)
	if err != nil {
		return fiber.NewError(remoteStatus(err, fiber.StatusInternalServerError), err.Error())
	}

	return c.JSON(updated)
}

func deletePost(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "please login to delete posts")
	}

	if err := services.DeletePost(c.UserContext(), currentToken(c), c.Params("postId")); err != nil {
		return fiber.NewError(remoteStatus(err, fiber.StatusInternalServerError), err.Error())
	}

	return c.SendStatus(fiber.StatusNoContent)
}
