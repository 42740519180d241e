package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ItemHandler struct {
	itemService *services.ItemService
}

func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.itemService.Create(c.UserContext(), auth.CurrentUser(c), &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.itemService.Update(c.UserContext(), auth.CurrentUser(c), id, &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	if err := h.itemService.Delete(c.UserContext(), auth.CurrentUser(c), id); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Item deleted"})
}

func (h *ItemHandler) Reserve(c *fiber.Ctx) error {
	return h.transition(c, h.itemService.Reserve)
}

func (h *ItemHandler) ClearReservation(c *fiber.Ctx) error {
	return h.transition(c, h.itemService.ClearReservation)
}

func (h *ItemHandler) MarkPurchased(c *fiber.Ctx) error {
	return h.transition(c, h.itemService.MarkPurchased)
}

func (h *ItemHandler) ClearPurchase(c *fiber.Ctx) error {
	return h.transition(c, h.itemService.ClearPurchase)
}

type itemTransition = func(ctx context.Context, actor *models.User, id uuid.UUID) (*dto.ItemResponse, error)

func (h *ItemHandler) transition(c *fiber.Ctx, action itemTransition) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	resp, err := action(c.UserContext(), auth.CurrentUser(c), id)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ItemHandler) AddComment(c *fiber.Ctx) error {
	itemID, err := uuidParam(c, "id")
	if err != nil {
		return RespondError(c, err)
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.itemService.AddComment(c.UserContext(), auth.CurrentUser(c), itemID, &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ItemHandler) commentParams(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	itemID, err := uuidParam(c, "itemId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	commentID, err := uuidParam(c, "commentId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return itemID, commentID, nil
}

func (h *ItemHandler) UpdateComment(c *fiber.Ctx) error {
	itemID, commentID, err := h.commentParams(c)
	if err != nil {
		return RespondError(c, err)
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.itemService.UpdateComment(c.UserContext(), auth.CurrentUser(c), itemID, commentID, &req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ItemHandler) DeleteComment(c *fiber.Ctx) error {
	itemID, commentID, err := h.commentParams(c)
	if err != nil {
		return RespondError(c, err)
	}

	if err := h.itemService.DeleteComment(c.UserContext(), auth.CurrentUser(c), itemID, commentID); err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Comment deleted"})
}
