package handlers

import (
	"context"
	"net/url"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	resp, err := h.userService.Profile(c.UserContext(), auth.CurrentUser(c))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) ListBlocked(c *fiber.Ctx) error {
	resp, err := h.userService.ListBlocked(c.UserContext(), auth.CurrentUser(c))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) Block(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return badBody(c)
	}

	resp, err := h.userService.Block(c.UserContext(), auth.CurrentUser(c), email)
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *UserHandler) Unblock(c *fiber.Ctx) error {
	targetID, err := uuidParam(c, "userId")
	if err != nil {
		return RespondError(c, err)
	}

	if err := h.userService.Unblock(c.UserContext(), auth.CurrentUser(c), targetID); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User unblocked"})
}

// Admin

func (h *UserHandler) List(c *fiber.Ctx) error {
	resp, err := h.userService.ListUsers(c.UserContext(), auth.CurrentUser(c))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) PendingCount(c *fiber.Ctx) error {
	resp, err := h.userService.PendingCount(c.UserContext(), auth.CurrentUser(c))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) Approve(c *fiber.Ctx) error {
	return h.adminAction(c, h.userService.Approve)
}

func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	return h.adminAction(c, h.userService.Deactivate)
}

func (h *UserHandler) Reactivate(c *fiber.Ctx) error {
	return h.adminAction(c, h.userService.Reactivate)
}

func (h *UserHandler) ToggleAdmin(c *fiber.Ctx) error {
	return h.adminAction(c, h.userService.ToggleAdmin)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	if err := h.userService.Delete(c.UserContext(), auth.CurrentUser(c), targetID); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

type userAction = func(ctx context.Context, actor *models.User, targetID uuid.UUID) (*dto.UserResponse, error)

func (h *UserHandler) adminAction(c *fiber.Ctx, action userAction) error {
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	resp, err := action(c.UserContext(), auth.CurrentUser(c), targetID)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}
