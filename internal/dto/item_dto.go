package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateItemRequest accepts either inline image_data or an image_url that the
// server downloads and normalizes. image_data wins when both are sent.
type CreateItemRequest struct {
	WishlistID  uuid.UUID `json:"wishlist_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url"`
	ImageData   string    `json:"image_data"`
}

// UpdateItemRequest leaves absent fields unchanged.
type UpdateItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	URL         *string  `json:"url"`
	ImageURL    string   `json:"image_url"`
	ImageData   *string  `json:"image_data"`
}

type ItemResponse struct {
	ID           uuid.UUID          `json:"id"`
	WishlistID   uuid.UUID          `json:"wishlist_id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Price        *float64           `json:"price"`
	URL          string             `json:"url"`
	ImageData    string             `json:"image_data,omitempty"`
	State        string             `json:"state"`
	IsPurchased  bool               `json:"is_purchased"`
	ReservedByID *uuid.UUID         `json:"reserved_by_id"`
	ReservedBy   *UserSummary       `json:"reserved_by"`
	Comments     *[]CommentResponse `json:"comments,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        uuid.UUID   `json:"id"`
	ItemID    uuid.UUID   `json:"item_id"`
	Content   string      `json:"content"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
