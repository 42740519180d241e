package services

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/store"
	"github.com/google/uuid"
)

type WishlistService struct {
	store store.Store
}

func NewWishlistService(st store.Store) *WishlistService {
	return &WishlistService{store: st}
}

// blockSet is rebuilt per request; blocks are few and change rarely.
func blockSet(ctx context.Context, st store.Store, viewer *models.User) (policy.BlockSet, error) {
	blocks, err := st.ListBlocksInvolving(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	return policy.NewBlockSet(viewer.ID, blocks), nil
}

// requireVisible loads the wishlist and checks that viewer may see it.
func requireVisible(ctx context.Context, st store.Store, viewer *models.User, wishlistID uuid.UUID) (*models.Wishlist, error) {
	wishlist, err := st.GetWishlist(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	blocks, err := blockSet(ctx, st, viewer)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewWishlist(viewer, &wishlist.Owner, blocks).Err(); err != nil {
		return nil, err
	}
	return wishlist, nil
}

func (s *WishlistService) Create(ctx context.Context, actor *models.User, req *dto.CreateWishlistRequest) (*dto.WishlistResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	wishlist := models.Wishlist{UserID: actor.ID, Name: name, Description: req.Description}
	if err := s.store.CreateWishlist(ctx, &wishlist); err != nil {
		return nil, err
	}
	wishlist.Owner = *actor
	resp := wishlistResponse(&wishlist, nil)
	return &resp, nil
}

func (s *WishlistService) ListMine(ctx context.Context, actor *models.User) ([]dto.WishlistResponse, error) {
	wishlists, err := s.store.ListWishlistsByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return buildWishlists(ctx, s.store, wishlists, false)
}

// ListVisible returns every wishlist the viewer may see: owners must be active
// and not on either side of a block with the viewer.
func (s *WishlistService) ListVisible(ctx context.Context, viewer *models.User) ([]dto.WishlistResponse, error) {
	blocks, err := blockSet(ctx, s.store, viewer)
	if err != nil {
		return nil, err
	}
	wishlists, err := s.store.ListActiveWishlists(ctx, blocks.IDs())
	if err != nil {
		return nil, err
	}
	return buildWishlists(ctx, s.store, wishlists, false)
}

// Get returns the full wishlist with items, reservers and comments.
func (s *WishlistService) Get(ctx context.Context, viewer *models.User, id uuid.UUID) (*dto.WishlistResponse, error) {
	wishlist, err := requireVisible(ctx, s.store, viewer, id)
	if err != nil {
		return nil, err
	}
	out, err := buildWishlists(ctx, s.store, []models.Wishlist{*wishlist}, true)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *WishlistService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateWishlistRequest) (*dto.WishlistResponse, error) {
	wishlist, err := s.store.GetWishlist(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyWishlist(actor, wishlist).Err(); err != nil {
		return nil, err
	}

	name, description := wishlist.Name, wishlist.Description
	if req.Name != nil {
		if name = strings.TrimSpace(*req.Name); name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
	}
	if req.Description != nil {
		description = *req.Description
	}

	updated, err := s.store.UpdateWishlist(ctx, id, name, description)
	if err != nil {
		return nil, err
	}
	out, err := buildWishlists(ctx, s.store, []models.Wishlist{*updated}, false)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *WishlistService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	wishlist, err := s.store.GetWishlist(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanModifyWishlist(actor, wishlist).Err(); err != nil {
		return err
	}
	return s.store.DeleteWishlist(ctx, id)
}
