package handlers

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if _, err := h.authService.Register(c.UserContext(), &req); err != nil {
		return RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Registration successful. Please wait for admin approval.",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.ForgotPassword(c.UserContext(), &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if err := h.authService.ResetPassword(c.UserContext(), &req); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successful"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	return c.JSON(dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		IsAdmin:    user.IsAdmin,
		IsApproved: user.IsApproved,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt,
	})
}
