package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/store"
	"github.com/google/uuid"
)

var errImageProcessing = apperr.New(apperr.ErrValidation, "image_processing_failed", "Failed to process image URL")

// ImageNormalizer turns a remote image URL into an inline data URI.
type ImageNormalizer interface {
	Normalize(ctx context.Context, url string) (string, bool)
}

type ItemService struct {
	store      store.Store
	images     ImageNormalizer
	moderation *ModerationService
}

func NewItemService(st store.Store, images ImageNormalizer, moderation *ModerationService) *ItemService {
	return &ItemService{store: st, images: images, moderation: moderation}
}

// resolveImage prefers inline data and only downloads when none was sent.
func (s *ItemService) resolveImage(ctx context.Context, imageData, imageURL string) (string, error) {
	if imageData != "" || strings.TrimSpace(imageURL) == "" {
		return imageData, nil
	}
	uri, ok := s.images.Normalize(ctx, strings.TrimSpace(imageURL))
	if !ok {
		return "", errImageProcessing
	}
	return uri, nil
}

func validatePrice(price *float64) error {
	if price != nil && *price < 0 {
		return apperr.Validation("price cannot be negative")
	}
	return nil
}

func (s *ItemService) view(ctx context.Context, item *models.Item) (*dto.ItemResponse, error) {
	var ids []uuid.UUID
	if item.ReservedByID != nil {
		ids = append(ids, *item.ReservedByID)
	}
	dir, err := loadDirectory(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}
	resp := itemResponse(item, dir)
	return &resp, nil
}

// loadItem returns the item together with its wishlist (owner populated).
func (s *ItemService) loadItem(ctx context.Context, id uuid.UUID) (*models.Item, *models.Wishlist, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	wishlist, err := s.store.GetWishlist(ctx, item.WishlistID)
	if err != nil {
		return nil, nil, err
	}
	return item, wishlist, nil
}

func (s *ItemService) Create(ctx context.Context, actor *models.User, req *dto.CreateItemRequest) (*dto.ItemResponse, error) {
	wishlist, err := s.store.GetWishlist(ctx, req.WishlistID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAddItem(actor, wishlist).Err(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	image, err := s.resolveImage(ctx, req.ImageData, req.ImageURL)
	if err != nil {
		return nil, err
	}

	item := models.Item{
		WishlistID:  wishlist.ID,
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		URL:         req.URL,
		ImageData:   image,
	}
	if err := s.store.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	return s.view(ctx, &item)
}

func (s *ItemService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, wishlist, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyItem(actor, item, wishlist).Err(); err != nil {
		return nil, err
	}

	fields := store.ItemFields{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		URL:         item.URL,
		ImageData:   item.ImageData,
	}
	if req.Name != nil {
		if fields.Name = strings.TrimSpace(*req.Name); fields.Name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
	}
	if req.Description != nil {
		fields.Description = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(req.Price); err != nil {
			return nil, err
		}
		fields.Price = req.Price
	}
	if req.URL != nil {
		fields.URL = *req.URL
	}
	inline := ""
	if req.ImageData != nil {
		inline = *req.ImageData
		fields.ImageData = inline
	}
	if inline == "" && strings.TrimSpace(req.ImageURL) != "" {
		if fields.ImageData, err = s.resolveImage(ctx, "", req.ImageURL); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateItemFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated)
}

func (s *ItemService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	_, wishlist, err := s.loadItem(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteItem(actor, wishlist).Err(); err != nil {
		return err
	}
	return s.store.DeleteItem(ctx, id)
}

func (s *ItemService) Reserve(ctx context.Context, actor *models.User, id uuid.UUID) (*dto.ItemResponse, error) {
	return s.transition(ctx, actor, id, policy.ActionReserve)
}

func (s *ItemService) ClearReservation(ctx context.Context, actor *models.User, id uuid.UUID) (*dto.ItemResponse, error) {
	return s.transition(ctx, actor, id, policy.ActionClearReservation)
}

func (s *ItemService) MarkPurchased(ctx context.Context, actor *models.User, id uuid.UUID) (*dto.ItemResponse, error) {
	return s.transition(ctx, actor, id, policy.ActionPurchase)
}

func (s *ItemService) ClearPurchase(ctx context.Context, actor *models.User, id uuid.UUID) (*dto.ItemResponse, error) {
	return s.transition(ctx, actor, id, policy.ActionClearPurchase)
}

// acquires reports whether action takes hold of an item. Acquiring requires
// visibility of the wishlist; releasing what one already holds does not.
func acquires(action policy.Action) bool {
	return action == policy.ActionReserve || action == policy.ActionPurchase
}

// transition is read, decide, conditional write. If the conditional write
// matches nothing, someone else changed the item in between; the fresh row is
// re-evaluated so the caller gets the denial that now applies.
func (s *ItemService) transition(ctx context.Context, actor *models.User, id uuid.UUID, action policy.Action) (*dto.ItemResponse, error) {
	item, wishlist, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if acquires(action) {
		blocks, err := blockSet(ctx, s.store, actor)
		if err != nil {
			return nil, err
		}
		if err := policy.CanViewWishlist(actor, &wishlist.Owner, blocks).Err(); err != nil {
			return nil, err
		}
	}
	if err := policy.Guard(actor, item, action).Err(); err != nil {
		return nil, err
	}

	ok, err := s.store.TransitionItem(ctx, id, actor.ID, action)
	if err != nil {
		return nil, err
	}
	fresh, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := policy.Guard(actor, fresh, action).Err(); err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("concurrent_update", "Item was changed by another request, try again")
	}

	metrics.RecordTransition(string(action))
	slog.Info("item transition", "item_id", id, "user_id", actor.ID, "action", action, "state", policy.StateOf(fresh))
	return s.view(ctx, fresh)
}

// --- comments ---

func (s *ItemService) AddComment(ctx context.Context, actor *models.User, itemID uuid.UUID, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := requireVisible(ctx, s.store, actor, item.WishlistID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if err := s.moderation.Check(content); err != nil {
		return nil, err
	}

	comment := models.Comment{ItemID: itemID, UserID: actor.ID, Content: content}
	if err := s.store.CreateComment(ctx, &comment); err != nil {
		return nil, err
	}
	resp := commentResponse(&comment, directory{actor.ID: userSummary(actor)})
	return &resp, nil
}

// loadComment returns the comment only if it belongs to itemID.
func (s *ItemService) loadComment(ctx context.Context, itemID, commentID uuid.UUID) (*models.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.ItemID != itemID {
		return nil, apperr.NotFound("Comment")
	}
	return comment, nil
}

func (s *ItemService) UpdateComment(ctx context.Context, actor *models.User, itemID, commentID uuid.UUID, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.loadComment(ctx, itemID, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanModifyComment(actor, comment).Err(); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if err := s.moderation.Check(content); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateComment(ctx, commentID, content)
	if err != nil {
		return nil, err
	}
	resp := commentResponse(updated, directory{actor.ID: userSummary(actor)})
	return &resp, nil
}

func (s *ItemService) DeleteComment(ctx context.Context, actor *models.User, itemID, commentID uuid.UUID) error {
	comment, err := s.loadComment(ctx, itemID, commentID)
	if err != nil {
		return err
	}
	if err := policy.CanModifyComment(actor, comment).Err(); err != nil {
		return err
	}
	return s.store.DeleteComment(ctx, commentID)
}
