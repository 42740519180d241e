package store

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func wrap(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("duplicate", resource+" already exists")
	default:
		return apperr.Internal(err)
	}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.Internal(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// --- users ---

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return wrap(s.db.WithContext(ctx).Create(user).Error, "User")
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "User")
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, wrap(err, "User")
	}
	return &user, nil
}

func (s *GormStore) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrap(err, "User")
	}
	return users, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, wrap(err, "User")
	}
	return users, nil
}

func (s *GormStore) CountPendingUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("is_approved = ?", false).Count(&count).Error
	return count, wrap(err, "User")
}

func (s *GormStore) updateUser(ctx context.Context, id uuid.UUID, values map[string]interface{}) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, wrap(res.Error, "User")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("User")
	}
	return s.GetUser(ctx, id)
}

func (s *GormStore) SetUserApproved(ctx context.Context, id uuid.UUID, approved bool) (*models.User, error) {
	return s.updateUser(ctx, id, map[string]interface{}{"is_approved": approved})
}

func (s *GormStore) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	return s.updateUser(ctx, id, map[string]interface{}{"is_active": active})
}

func (s *GormStore) ToggleUserAdmin(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.updateUser(ctx, id, map[string]interface{}{"is_admin": gorm.Expr("NOT is_admin")})
}

func (s *GormStore) SetUserPassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := s.updateUser(ctx, id, map[string]interface{}{"password": hash})
	return err
}

// DeleteUser runs the whole cascade in one transaction: blocks, comments by the
// user or on the user's items, reservations the user holds elsewhere, the user's
// items and wishlists, then the user row.
func (s *GormStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownWishlists := func() *gorm.DB {
			return tx.Model(&models.Wishlist{}).Select("id").Where("user_id = ?", id)
		}
		ownItems := func() *gorm.DB {
			return tx.Model(&models.Item{}).Select("id").Where("wishlist_id IN (?)", ownWishlists())
		}

		if err := tx.Where("blocker_id = ? OR blocked_id = ?", id, id).Delete(&models.Block{}).Error; err != nil {
			return wrap(err, "Block")
		}
		if err := tx.Where("user_id = ? OR item_id IN (?)", id, ownItems()).Delete(&models.Comment{}).Error; err != nil {
			return wrap(err, "Comment")
		}
		if err := tx.Model(&models.Item{}).Where("reserved_by_id = ?", id).
			Updates(map[string]interface{}{"reserved_by_id": nil, "is_purchased": false}).Error; err != nil {
			return wrap(err, "Item")
		}
		if err := tx.Where("wishlist_id IN (?)", ownWishlists()).Delete(&models.Item{}).Error; err != nil {
			return wrap(err, "Item")
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Wishlist{}).Error; err != nil {
			return wrap(err, "Wishlist")
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return wrap(res.Error, "User")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("User")
		}
		return nil
	})
}

// --- blocks ---

func (s *GormStore) CreateBlock(ctx context.Context, block *models.Block) error {
	return wrap(s.db.WithContext(ctx).Create(block).Error, "Block")
}

func (s *GormStore) BlockExists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Count(&count).Error
	if err != nil {
		return false, wrap(err, "Block")
	}
	return count > 0, nil
}

func (s *GormStore) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{})
	if res.Error != nil {
		return false, wrap(res.Error, "Block")
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListBlocksBy(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	var blocks []models.Block
	err := s.db.WithContext(ctx).Preload("Blocked").
		Where("blocker_id = ?", blockerID).Order("created_at DESC").Find(&blocks).Error
	if err != nil {
		return nil, wrap(err, "Block")
	}
	return blocks, nil
}

func (s *GormStore) ListBlocksInvolving(ctx context.Context, userID uuid.UUID) ([]models.Block, error) {
	var blocks []models.Block
	err := s.db.WithContext(ctx).
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).Find(&blocks).Error
	if err != nil {
		return nil, wrap(err, "Block")
	}
	return blocks, nil
}

// --- wishlists ---

func (s *GormStore) CreateWishlist(ctx context.Context, wishlist *models.Wishlist) error {
	return wrap(s.db.WithContext(ctx).Create(wishlist).Error, "Wishlist")
}

func (s *GormStore) GetWishlist(ctx context.Context, id uuid.UUID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := s.db.WithContext(ctx).Preload("Owner").First(&wishlist, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "Wishlist")
	}
	return &wishlist, nil
}

func (s *GormStore) ListWishlistsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Wishlist, error) {
	var wishlists []models.Wishlist
	err := s.db.WithContext(ctx).Preload("Owner").
		Where("user_id = ?", ownerID).Order("created_at DESC").Find(&wishlists).Error
	if err != nil {
		return nil, wrap(err, "Wishlist")
	}
	return wishlists, nil
}

func (s *GormStore) ListActiveWishlists(ctx context.Context, excludeOwners []uuid.UUID) ([]models.Wishlist, error) {
	var wishlists []models.Wishlist
	err := s.db.WithContext(ctx).Model(&models.Wishlist{}).
		Select("wishlists.*").
		Scopes(activeOwners(), notOwnedBy(excludeOwners)).
		Preload("Owner").
		Order("wishlists.created_at DESC").
		Find(&wishlists).Error
	if err != nil {
		return nil, wrap(err, "Wishlist")
	}
	return wishlists, nil
}

func (s *GormStore) UpdateWishlist(ctx context.Context, id uuid.UUID, name, description string) (*models.Wishlist, error) {
	res := s.db.WithContext(ctx).Model(&models.Wishlist{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "description": description})
	if res.Error != nil {
		return nil, wrap(res.Error, "Wishlist")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Wishlist")
	}
	return s.GetWishlist(ctx, id)
}

func (s *GormStore) DeleteWishlist(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := tx.Model(&models.Item{}).Select("id").Where("wishlist_id = ?", id)
		if err := tx.Where("item_id IN (?)", items).Delete(&models.Comment{}).Error; err != nil {
			return wrap(err, "Comment")
		}
		if err := tx.Where("wishlist_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return wrap(err, "Item")
		}
		res := tx.Where("id = ?", id).Delete(&models.Wishlist{})
		if res.Error != nil {
			return wrap(res.Error, "Wishlist")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Wishlist")
		}
		return nil
	})
}

// --- items ---

func (s *GormStore) CreateItem(ctx context.Context, item *models.Item) error {
	return wrap(s.db.WithContext(ctx).Create(item).Error, "Item")
}

func (s *GormStore) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "Item")
	}
	return &item, nil
}

func (s *GormStore) ListItemsByWishlists(ctx context.Context, wishlistIDs []uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	if len(wishlistIDs) == 0 {
		return items, nil
	}
	err := s.db.WithContext(ctx).Where("wishlist_id IN ?", wishlistIDs).
		Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, wrap(err, "Item")
	}
	return items, nil
}

func (s *GormStore) UpdateItemFields(ctx context.Context, id uuid.UUID, fields ItemFields) (*models.Item, error) {
	res := s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        fields.Name,
			"description": fields.Description,
			"price":       fields.Price,
			"url":         fields.URL,
			"image_data":  fields.ImageData,
		})
	if res.Error != nil {
		return nil, wrap(res.Error, "Item")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Item")
	}
	return s.GetItem(ctx, id)
}

func (s *GormStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return wrap(err, "Comment")
		}
		res := tx.Where("id = ?", id).Delete(&models.Item{})
		if res.Error != nil {
			return wrap(res.Error, "Item")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Item")
		}
		return nil
	})
}

func (s *GormStore) TransitionItem(ctx context.Context, id, actorID uuid.UUID, action policy.Action) (bool, error) {
	effect := itemEffect(actorID, action)
	if effect == nil {
		return false, apperr.Validation("unknown item action")
	}
	res := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", id).
		Scopes(itemPrecondition(actorID, action)).
		Updates(effect)
	if res.Error != nil {
		return false, wrap(res.Error, "Item")
	}
	return res.RowsAffected == 1, nil
}

// --- comments ---

func (s *GormStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	return wrap(s.db.WithContext(ctx).Create(comment).Error, "Comment")
}

func (s *GormStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "Comment")
	}
	return &comment, nil
}

func (s *GormStore) ListCommentsByItems(ctx context.Context, itemIDs []uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	if len(itemIDs) == 0 {
		return comments, nil
	}
	err := s.db.WithContext(ctx).Where("item_id IN ?", itemIDs).
		Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, wrap(err, "Comment")
	}
	return comments, nil
}

func (s *GormStore) UpdateComment(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return nil, wrap(res.Error, "Comment")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Comment")
	}
	return s.GetComment(ctx, id)
}

func (s *GormStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return wrap(res.Error, "Comment")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

var _ Store = (*GormStore)(nil)
