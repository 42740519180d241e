package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Handlers bundles everything Setup mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Wishlist *handlers.WishlistHandler
	Item     *handlers.ItemHandler
	Health   *handlers.HealthHandler
}

// NewApp builds the fiber app with the global middleware chain. Extra handlers
// (sentry, request logging) run right after panic recovery.
func NewApp(cfg *config.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	for _, h := range extra {
		app.Use(h)
	}
	app.Use(requestid.New())
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	return app
}

func Setup(app *fiber.App, cfg *config.Config, authService *services.AuthService, h Handlers) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Session guard: signature and expiry, then a live account row
	jwt := middleware.JWTProtected(cfg)
	user := middleware.RequireUser(authService)
	admin := middleware.AdminRequired()

	// Auth-specific rate limit: 20 req/min per IP (stricter)
	authGroup := api.Group("/auth")
	authGroup.Use(limiter.New(limiter.Config{
		Max:               20,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/forgot-password", h.Auth.ForgotPassword)
	authGroup.Post("/reset-password", h.Auth.ResetPassword)
	authGroup.Get("/me", jwt, user, h.Auth.Me)

	// Static segments are registered before :id so they win the match.
	users := api.Group("/users", jwt, user)
	users.Get("/profile", h.User.Profile)
	users.Get("/blocked", h.User.ListBlocked)
	users.Post("/block/:email", h.User.Block)
	users.Delete("/block/:userId", h.User.Unblock)
	users.Get("/pending-count", admin, h.User.PendingCount)
	users.Get("/", admin, h.User.List)
	users.Post("/:id/approve", admin, h.User.Approve)
	users.Post("/:id/deactivate", admin, h.User.Deactivate)
	users.Post("/:id/reactivate", admin, h.User.Reactivate)
	users.Post("/:id/toggle-admin", admin, h.User.ToggleAdmin)
	users.Delete("/:id", admin, h.User.Delete)

	wishlists := api.Group("/wishlists", jwt, user)
	wishlists.Post("/", h.Wishlist.Create)
	wishlists.Get("/my-wishlists", h.Wishlist.ListMine)
	wishlists.Get("/", h.Wishlist.ListVisible)
	wishlists.Get("/:id", h.Wishlist.Get)
	wishlists.Put("/:id", h.Wishlist.Update)
	wishlists.Delete("/:id", h.Wishlist.Delete)

	items := api.Group("/items", jwt, user)
	items.Post("/", h.Item.Create)
	items.Put("/:id", h.Item.Update)
	items.Delete("/:id", h.Item.Delete)
	items.Post("/:id/comments", h.Item.AddComment)
	items.Put("/:itemId/comments/:commentId", h.Item.UpdateComment)
	items.Delete("/:itemId/comments/:commentId", h.Item.DeleteComment)
	items.Post("/:id/reserve", h.Item.Reserve)
	items.Delete("/:id/reserve", h.Item.ClearReservation)
	items.Put("/:id/purchase", h.Item.MarkPurchased)
	items.Delete("/:id/purchase", h.Item.ClearPurchase)
}
