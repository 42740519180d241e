package handlers

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WishlistHandler struct {
	wishlistService *services.WishlistService
}

func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.wishlistService.Create(c.UserContext(), auth.CurrentUser(c), &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *WishlistHandler) ListMine(c *fiber.Ctx) error {
	resp, err := h.wishlistService.ListMine(c.UserContext(), auth.CurrentUser(c))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *WishlistHandler) ListVisible(c *fiber.Ctx) error {
	resp, err := h.wishlistService.ListVisible(c.UserContext(), auth.CurrentUser(c))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *WishlistHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	resp, err := h.wishlistService.Get(c.UserContext(), auth.CurrentUser(c), id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *WishlistHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	var req dto.UpdateWishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.wishlistService.Update(c.UserContext(), auth.CurrentUser(c), id, &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *WishlistHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	if err := h.wishlistService.Delete(c.UserContext(), auth.CurrentUser(c), id); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Wishlist deleted"})
}
