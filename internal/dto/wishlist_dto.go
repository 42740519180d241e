package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWishlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateWishlistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type WishlistResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       UserSummary    `json:"owner"`
	Items       []ItemResponse `json:"items"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
