// Package middleware provides HTTP middleware for the fiber transport layer.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vector-10/wallet-service-lendsqr/internal/utils"
)

// Auth validates the bearer token and stores the user claims in the request
// context. The wallet service trusts the numeric user id resolved here.
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.Unauthorized(c, "missing authorization header")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return utils.Unauthorized(c, "invalid authorization format")
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return utils.Unauthorized(c, "invalid token")
		}

		c.Locals("claims", claims)
		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}
