package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, dbStatus := "ok", "ok"
	if err := h.store.Ping(c.UserContext()); err != nil {
		status, dbStatus = "degraded", "unhealthy"
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
