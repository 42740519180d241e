package store

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// activeOwners restricts a wishlists query to owners whose account is active.
func activeOwners() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN users ON users.id = wishlists.user_id").
			Where("users.is_active = ?", true)
	}
}

// notOwnedBy excludes wishlists owned by any of ids.
func notOwnedBy(ids []uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db
		}
		return db.Where("wishlists.user_id NOT IN ?", ids)
	}
}

// itemPrecondition is the write-time guard for a lifecycle action. It mirrors
// the policy checks so that a stale read cannot win a race.
func itemPrecondition(actorID uuid.UUID, action policy.Action) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch action {
		case policy.ActionReserve:
			return db.Where("reserved_by_id IS NULL")
		case policy.ActionClearReservation:
			return db.Where("reserved_by_id = ? AND is_purchased = ?", actorID, false)
		case policy.ActionPurchase:
			return db.Where("is_purchased = ?", false)
		case policy.ActionClearPurchase:
			return db.Where("reserved_by_id = ? AND is_purchased = ?", actorID, true)
		}
		return db
	}
}

func itemEffect(actorID uuid.UUID, action policy.Action) map[string]interface{} {
	switch action {
	case policy.ActionReserve:
		return map[string]interface{}{"reserved_by_id": actorID}
	case policy.ActionClearReservation:
		return map[string]interface{}{"reserved_by_id": nil}
	case policy.ActionPurchase:
		return map[string]interface{}{"reserved_by_id": actorID, "is_purchased": true}
	case policy.ActionClearPurchase:
		return map[string]interface{}{"reserved_by_id": nil, "is_purchased": false}
	}
	return nil
}
