package middleware

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired must run after RequireUser.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.CanAdminister(auth.CurrentUser(c)).Err(); err != nil {
			return handlers.RespondError(c, err)
		}
		return c.Next()
	}
}
