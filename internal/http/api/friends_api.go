package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/wavelength/sociogram/internal/http/exts"
	"github.com/wavelength/sociogram/internal/models"
	"github.com/wavelength/sociogram/internal/services"
)

// listUsers answers the friend-picker candidates. Read path: failures
// degrade to an empty list instead of breaking the sidebar.
func listUsers(c *fiber.Ctx) error {
	token := currentToken(c)
	if len(token) == 0 {
		token = viper.GetString("cms.public_token")
	}
	if len(token) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "please login to browse people")
	}

	var exclude *string
	if user, ok := currentUser(c); ok {
		exclude = lo.ToPtr(user.ID)
	}

	accounts, err := services.ListAccounts(c.UserContext(), token, exclude, 50)
	if err != nil {
		return c.JSON([]models.Account{})
	}
	return c.JSON(accounts)
}

func requestFriend(c *fiber.Ctx) error {
	var data struct {
		UserID string `json:"user_id" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, ok := currentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "please login to add friends")
	}

	friendship, created, err := services.EnsureFriendship(c.UserContext(), currentToken(c), user.ID, data.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(friendship)
}
