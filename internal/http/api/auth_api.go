package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/http/exts"
	"github.com/wavelength/sociogram/internal/services"
)

func doLogin(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	token, account, err := services.LoginAccount(c.UserContext(), data.Email, data.Password)
	if err != nil {
		var re *cms.RemoteError
		if errors.As(err, &re) {
			return fiber.NewError(re.Status, "invalid credentials")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     authCookieName(),
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{"user": account})
}

func doLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName(),
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func getSession(c *fiber.Ctx) error {
	if user, ok := currentUser(c); ok {
		return c.JSON(fiber.Map{"user": user})
	}
	return c.JSON(fiber.Map{"user": nil})
}
