package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/store"
	"github.com/google/uuid"
)

type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) Profile(ctx context.Context, actor *models.User) (*dto.ProfileResponse, error) {
	blocked, err := s.ListBlocked(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{UserResponse: userResponse(actor), BlockedUsers: blocked}, nil
}

func (s *UserService) ListBlocked(ctx context.Context, actor *models.User) ([]dto.BlockedUserResponse, error) {
	blocks, err := s.store.ListBlocksBy(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BlockedUserResponse, len(blocks))
	for i := range blocks {
		out[i] = dto.BlockedUserResponse{
			ID:        blocks[i].ID,
			User:      ownerSummary(&blocks[i].Blocked),
			CreatedAt: blocks[i].CreatedAt,
		}
	}
	return out, nil
}

// Block hides the target's wishlists from actor and actor's from the target.
func (s *UserService) Block(ctx context.Context, actor *models.User, email string) (*dto.BlockedUserResponse, error) {
	target, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	exists, err := s.store.BlockExists(ctx, actor.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanBlock(actor, target, exists).Err(); err != nil {
		return nil, err
	}

	block := models.Block{BlockerID: actor.ID, BlockedID: target.ID}
	if err := s.store.CreateBlock(ctx, &block); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, policy.CanBlock(actor, target, true).Err()
		}
		return nil, err
	}
	return &dto.BlockedUserResponse{ID: block.ID, User: ownerSummary(target), CreatedAt: block.CreatedAt}, nil
}

// Unblock is idempotent: removing a block that does not exist succeeds.
func (s *UserService) Unblock(ctx context.Context, actor *models.User, targetID uuid.UUID) error {
	_, err := s.store.DeleteBlock(ctx, actor.ID, targetID)
	return err
}

// --- admin ---

func (s *UserService) ListUsers(ctx context.Context, actor *models.User) ([]dto.UserResponse, error) {
	if err := policy.CanAdminister(actor).Err(); err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = userResponse(&users[i])
	}
	return out, nil
}

func (s *UserService) PendingCount(ctx context.Context, actor *models.User) (*dto.PendingCountResponse, error) {
	if err := policy.CanAdminister(actor).Err(); err != nil {
		return nil, err
	}
	n, err := s.store.CountPendingUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PendingCountResponse{Count: n}, nil
}

func (s *UserService) admin(ctx context.Context, actor *models.User, action string, targetID uuid.UUID, guard policy.Decision,
	apply func(ctx context.Context, id uuid.UUID) (*models.User, error)) (*dto.UserResponse, error) {
	if err := guard.Err(); err != nil {
		return nil, err
	}
	user, err := apply(ctx, targetID)
	if err != nil {
		return nil, err
	}
	slog.Info("admin action", "action", action, "admin_id", actor.ID, "target_id", targetID)
	resp := userResponse(user)
	return &resp, nil
}

func (s *UserService) Approve(ctx context.Context, actor *models.User, targetID uuid.UUID) (*dto.UserResponse, error) {
	return s.admin(ctx, actor, "approve", targetID, policy.CanAdminister(actor), func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return s.store.SetUserApproved(ctx, id, true)
	})
}

// Deactivate takes effect on the target's next request; no token list is kept.
func (s *UserService) Deactivate(ctx context.Context, actor *models.User, targetID uuid.UUID) (*dto.UserResponse, error) {
	return s.admin(ctx, actor, "deactivate", targetID, policy.CanManageUser(actor, targetID), func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return s.store.SetUserActive(ctx, id, false)
	})
}

func (s *UserService) Reactivate(ctx context.Context, actor *models.User, targetID uuid.UUID) (*dto.UserResponse, error) {
	return s.admin(ctx, actor, "reactivate", targetID, policy.CanAdminister(actor), func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return s.store.SetUserActive(ctx, id, true)
	})
}

func (s *UserService) ToggleAdmin(ctx context.Context, actor *models.User, targetID uuid.UUID) (*dto.UserResponse, error) {
	return s.admin(ctx, actor, "toggle_admin", targetID, policy.CanManageUser(actor, targetID), s.store.ToggleUserAdmin)
}

func (s *UserService) Delete(ctx context.Context, actor *models.User, targetID uuid.UUID) error {
	if err := policy.CanManageUser(actor, targetID).Err(); err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, targetID); err != nil {
		return err
	}
	slog.Info("admin action", "action", "delete_user", "admin_id", actor.ID, "target_id", targetID)
	return nil
}
