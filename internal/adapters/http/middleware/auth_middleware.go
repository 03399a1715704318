package middleware

import (
	"context"
	"errors"
	"strings"

	"admingate/internal/core/domain"
	"admingate/internal/core/services"
	"admingate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by Auth
const (
	LocalsIdentity = "identity"
	LocalsUserID   = "userID"
	LocalsUsername = "username"
)

// IdentityResolver turns a bearer token into a fully loaded identity.
// Roles and permissions come from the database on every request, so a
// grant change takes effect without reissuing tokens.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*services.Identity, error)
}

// TokenFromRequest extracts the access token. An explicit Authorization
// header takes precedence over the cookie, so a fresh Bearer token is
// not shadowed by a stale cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return c.Cookies("token")
}

// Auth creates authentication middleware backed by the resolver
func Auth(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return response.Unauthorized(c, "Authorization information not provided")
		}

		identity, err := resolver.ResolveIdentity(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserDisabled):
				return response.Forbidden(c, "Account is disabled")
			case errors.Is(err, domain.ErrUserNotFound):
				return response.Unauthorized(c, "Invalid or expired token")
			case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid):
				return response.Unauthorized(c, "Invalid or expired token")
			default:
				return response.InternalServerError(c, "Failed to resolve identity")
			}
		}

		c.Locals(LocalsIdentity, identity)
		c.Locals(LocalsUserID, identity.UserID)
		c.Locals(LocalsUsername, identity.Username)

		return c.Next()
	}
}

// IdentityFromContext returns the identity set by Auth, or nil
func IdentityFromContext(c *fiber.Ctx) *services.Identity {
	identity, _ := c.Locals(LocalsIdentity).(*services.Identity)
	return identity
}

// Roles creates role-based authorization middleware; any one of the
// allowed roles grants access.
func Roles(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFromContext(c)
		if identity == nil {
			return response.Unauthorized(c, "Authorization information not provided")
		}

		if identity.HasRole(allowedRoles...) {
			return c.Next()
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return Roles("admin")
}
