package auth

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenKey is where the JWT middleware leaves the parsed token.
	TokenKey = "user"
	userKey  = "current_user"
)

// TokenSubject reads the access-token subject left in locals by the JWT middleware.
func TokenSubject(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(TokenKey).(*jwt.Token)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	return Subject(token, PurposeAccess)
}

func SetCurrentUser(c *fiber.Ctx, user *models.User) {
	c.Locals(userKey, user)
}

// CurrentUser returns the user loaded by the session guard. It is nil on public routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
