// Package store is the persistence boundary. Services depend on the Store
// interface; GormStore backs it with Postgres and MemoryStore keeps everything
// in process for tests and local runs.
package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/google/uuid"
)

// ItemFields are the user-editable columns of an item.
type ItemFields struct {
	Name        string
	Description string
	Price       *float64
	URL         string
	ImageData   string
}

// Errors returned by Store are *apperr.Error values: NotFound for missing rows,
// Conflict for unique violations, Internal for everything else.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountPendingUsers(ctx context.Context) (int64, error)
	SetUserApproved(ctx context.Context, id uuid.UUID, approved bool) (*models.User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error)
	ToggleUserAdmin(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetUserPassword(ctx context.Context, id uuid.UUID, hash string) error
	// DeleteUser removes the user and everything that references it.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	CreateBlock(ctx context.Context, block *models.Block) error
	BlockExists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	ListBlocksBy(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error)
	// ListBlocksInvolving returns blocks where userID is blocker or blocked.
	ListBlocksInvolving(ctx context.Context, userID uuid.UUID) ([]models.Block, error)

	CreateWishlist(ctx context.Context, wishlist *models.Wishlist) error
	GetWishlist(ctx context.Context, id uuid.UUID) (*models.Wishlist, error)
	ListWishlistsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Wishlist, error)
	// ListActiveWishlists returns wishlists of active owners not in excludeOwners.
	ListActiveWishlists(ctx context.Context, excludeOwners []uuid.UUID) ([]models.Wishlist, error)
	UpdateWishlist(ctx context.Context, id uuid.UUID, name, description string) (*models.Wishlist, error)
	DeleteWishlist(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	ListItemsByWishlists(ctx context.Context, wishlistIDs []uuid.UUID) ([]models.Item, error)
	UpdateItemFields(ctx context.Context, id uuid.UUID, fields ItemFields) (*models.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	// TransitionItem applies action only if the row still satisfies the action's
	// precondition at write time. It reports false when another writer got there first.
	TransitionItem(ctx context.Context, id, actorID uuid.UUID, action policy.Action) (bool, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListCommentsByItems(ctx context.Context, itemIDs []uuid.UUID) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}
