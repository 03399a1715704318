package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Prefixes served without a session. Everything else needs the access
// token cookie before the page is even rendered.
var publicPrefixes = []string{
	"/api",
	"/swagger",
	"/health",
	"/login",
	"/register",
	"/assets",
	"/favicon.ico",
}

// EdgeGuard redirects unauthenticated page navigation to the login
// page, carrying the original path so login can return the user there.
// API routes are excluded; they answer 401 instead of redirecting.
func EdgeGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		if path == "/" || isPublicPath(path) {
			return c.Next()
		}
		if c.Cookies("token") != "" {
			return c.Next()
		}

		target := "/login?from=" + url.QueryEscape(c.OriginalURL())
		return c.Redirect(target, fiber.StatusFound)
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
