package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wavelength/sociogram/internal/http/exts"
	"github.com/wavelength/sociogram/internal/services"
)

func startConversation(c *fiber.Ctx) error {
	var data struct {
		UserID string `json:"user_id" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, ok := currentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "please login to send messages")
	}

	conversationId, created, err := services.StartConversation(c.UserContext(), currentToken(c), user.ID, data.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"conversation_id": conversationId,
		"created":         created,
	})
}
