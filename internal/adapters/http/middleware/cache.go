package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ReportCache sets short-lived private cache headers on aggregate report
// responses. Record data is never cached.
func ReportCache(maxAgeSeconds int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			c.Set("Cache-Control", fmt.Sprintf("private, max-age=%d", maxAgeSeconds))
		}
		return nil
	}
}

// NoStore disables caching entirely on sensitive routes
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store")
		return c.Next()
	}
}
