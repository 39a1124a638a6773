package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wavelength/sociogram/internal/services"
)

func uploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "no file provided")
	}

	file, err := header.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer file.Close()

	info, err := services.UploadFile(
		c.UserContext(),
		header.Filename,
		header.Header.Get(fiber.HeaderContentType),
		header.Size,
		file,
	)
	if err != nil {
		return fiber.NewError(remoteStatus(err, fiber.StatusBadRequest), err.Error())
	}

	return c.JSON(info)
}

func proxyAsset(c *fiber.Ctx) error {
	resp, err := services.OpenAsset(c.UserContext(), c.Params("fileId"))
	if err != nil {
		return fiber.NewError(remoteStatus(err, fiber.StatusBadGateway), err.Error())
	}

	contentType := resp.Header.Get(fiber.HeaderContentType)
	if len(contentType) == 0 {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store")

	// fasthttp closes the stream for us once it implements io.Closer
	return c.SendStream(resp.Body)
}
