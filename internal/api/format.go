package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vmihailenco/msgpack/v5"
)

const msgpackContentType = "application/x-msgpack"

// respond writes data as JSON, or as MessagePack when format=msgpack.
func respond(c *fiber.Ctx, status int, data interface{}) error {
	if c.Query("format") != "msgpack" {
		return c.Status(status).JSON(data)
	}

	body, err := msgpack.Marshal(data)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to encode response")
	}
	c.Set(fiber.HeaderContentType, msgpackContentType)
	return c.Status(status).Send(body)
}
