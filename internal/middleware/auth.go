package middleware

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies the bearer signature and expiry and leaves the parsed
// token under auth.TokenKey.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ContextKey: auth.TokenKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return handlers.RespondError(c, apperr.Unauthenticated("Unauthorized: invalid or expired token"))
		},
	})
}

// RequireUser resolves the token subject to a live account on every request,
// so deactivation and deletion take effect before the token expires.
func RequireUser(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.TokenSubject(c)
		if err != nil {
			return handlers.RespondError(c, apperr.Unauthenticated("Unauthorized: invalid or expired token"))
		}

		user, err := authService.Authenticate(c.UserContext(), userID)
		if err != nil {
			return handlers.RespondError(c, err)
		}

		auth.SetCurrentUser(c, user)
		return c.Next()
	}
}
