package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	UserResponse
	BlockedUsers []BlockedUserResponse `json:"blocked_users"`
}

type BlockedUserResponse struct {
	ID        uuid.UUID   `json:"id"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

type PendingCountResponse struct {
	Count int64 `json:"count"`
}
