package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wavelength/sociogram/internal/services"
)

func getFeed(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", services.FeedDefaultPageSize)

	return c.JSON(services.FetchFeed(c.UserContext(), page, pageSize))
}

func getPost(c *fiber.Ctx) error {
	item, err := services.GetFeedPost(c.UserContext(), c.Params("postId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(item)
}
