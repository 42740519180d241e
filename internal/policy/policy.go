// Package policy holds the authorization rules for every guarded operation.
//
// All functions are pure: they take the acting user and the entity state the
// caller has just read, and return a Decision. Business denials are values, not
// errors; Decision.Err converts a denial into an *apperr.Error at the call site.
package policy

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/google/uuid"
)

// Denial reasons. These are part of the API response and must stay stable.
const (
	ReasonUserNotFound       = "user_not_found"
	ReasonAccountInactive    = "account_inactive"
	ReasonPendingApproval    = "pending_approval"
	ReasonAdminRequired      = "admin_required"
	ReasonBlocked            = "blocked"
	ReasonOwnerInactive      = "owner_inactive"
	ReasonNotOwner           = "not_owner"
	ReasonNotOwnerOrReserver = "not_owner_or_reserver"
	ReasonNotReserver        = "not_reserver"
	ReasonNotAuthor          = "not_author"
	ReasonAlreadyReserved    = "already_reserved"
	ReasonNotReserved        = "not_reserved"
	ReasonAlreadyPurchased   = "already_purchased"
	ReasonNotPurchased       = "not_purchased"
	ReasonSelfBlock          = "self_block"
	ReasonAlreadyBlocked     = "already_blocked"
	ReasonSelfAction         = "self_action"
)

type Decision struct {
	Allowed bool
	Kind    error
	Reason  string
	Message string
}

var allow = Decision{Allowed: true}

func deny(kind error, reason, message string) Decision {
	return Decision{Kind: kind, Reason: reason, Message: message}
}

// Err returns nil for an allowed decision and a typed error otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.New(d.Kind, d.Reason, d.Message)
}

// CanAuthenticate is evaluated on every request against a freshly loaded user row.
// A signed token outlives deactivation, so the row is the source of truth.
func CanAuthenticate(user *models.User) Decision {
	if user == nil {
		return deny(apperr.ErrForbidden, ReasonUserNotFound, "Please authenticate")
	}
	if !user.IsActive {
		return deny(apperr.ErrForbidden, ReasonAccountInactive, "Account is deactivated")
	}
	return allow
}

func CanAdminister(user *models.User) Decision {
	if d := CanAuthenticate(user); !d.Allowed {
		return d
	}
	if !user.IsAdmin {
		return deny(apperr.ErrForbidden, ReasonAdminRequired, "Admin access required")
	}
	return allow
}

// CanManageUser guards deactivate, toggle-admin and delete. An admin may not
// use them on their own account.
func CanManageUser(actor *models.User, targetID uuid.UUID) Decision {
	if d := CanAdminister(actor); !d.Allowed {
		return d
	}
	if actor.ID == targetID {
		return deny(apperr.ErrConflict, ReasonSelfAction, "Cannot perform this action on your own account")
	}
	return allow
}

// CanLogin gates credential issuance. Unapproved accounts cannot obtain a token.
func CanLogin(user *models.User) Decision {
	if !user.IsApproved {
		return deny(apperr.ErrForbidden, ReasonPendingApproval, "Account pending approval")
	}
	return CanAuthenticate(user)
}

func CanViewWishlist(viewer, owner *models.User, blocks BlockSet) Decision {
	if viewer.ID == owner.ID {
		return allow
	}
	if blocks.Contains(owner.ID) {
		return deny(apperr.ErrForbidden, ReasonBlocked, "Access denied")
	}
	if !owner.IsActive {
		return deny(apperr.ErrForbidden, ReasonOwnerInactive, "Access denied")
	}
	return allow
}

func CanModifyWishlist(actor *models.User, wishlist *models.Wishlist) Decision {
	if actor.ID != wishlist.UserID {
		return deny(apperr.ErrForbidden, ReasonNotOwner, "Not authorized")
	}
	return allow
}

// CanAddItem and CanDeleteItem are owner-only; the reserver may edit but not delete.
func CanAddItem(actor *models.User, wishlist *models.Wishlist) Decision {
	return CanModifyWishlist(actor, wishlist)
}

func CanDeleteItem(actor *models.User, wishlist *models.Wishlist) Decision {
	return CanModifyWishlist(actor, wishlist)
}

// CanModifyItem lets the wishlist owner or the current reserver edit item fields.
func CanModifyItem(actor *models.User, item *models.Item, wishlist *models.Wishlist) Decision {
	if actor.ID == wishlist.UserID || item.IsReservedBy(actor.ID) {
		return allow
	}
	return deny(apperr.ErrForbidden, ReasonNotOwnerOrReserver, "Not authorized")
}

// CanReserve does not look at wishlist ownership: an owner may reserve their own item.
func CanReserve(actor *models.User, item *models.Item) Decision {
	if item.ReservedByID != nil {
		return deny(apperr.ErrConflict, ReasonAlreadyReserved, "Item is already reserved")
	}
	return allow
}

func CanClearReservation(actor *models.User, item *models.Item) Decision {
	if item.ReservedByID == nil {
		return deny(apperr.ErrConflict, ReasonNotReserved, "Item is not reserved")
	}
	if item.IsPurchased {
		return deny(apperr.ErrConflict, ReasonAlreadyPurchased, "Item is purchased; clear the purchase first")
	}
	if !item.IsReservedBy(actor.ID) {
		return deny(apperr.ErrForbidden, ReasonNotReserver, "Not authorized")
	}
	return allow
}

// CanMarkPurchased is open to any authenticated user; on success the actor
// becomes the reserver, replacing any previous holder.
func CanMarkPurchased(actor *models.User, item *models.Item) Decision {
	if item.IsPurchased {
		return deny(apperr.ErrConflict, ReasonAlreadyPurchased, "Item is already purchased")
	}
	return allow
}

func CanClearPurchase(actor *models.User, item *models.Item) Decision {
	if !item.IsPurchased {
		return deny(apperr.ErrConflict, ReasonNotPurchased, "Item is not purchased")
	}
	if !item.IsReservedBy(actor.ID) {
		return deny(apperr.ErrForbidden, ReasonNotReserver, "Not authorized")
	}
	return allow
}

func CanModifyComment(actor *models.User, comment *models.Comment) Decision {
	if actor.ID != comment.UserID {
		return deny(apperr.ErrForbidden, ReasonNotAuthor, "Not authorized")
	}
	return allow
}

// CanBlock checks the ordered pair (actor, target); alreadyBlocked is whether a
// row for exactly that pair exists.
func CanBlock(actor, target *models.User, alreadyBlocked bool) Decision {
	if actor.ID == target.ID {
		return deny(apperr.ErrConflict, ReasonSelfBlock, "Cannot block yourself")
	}
	if alreadyBlocked {
		return deny(apperr.ErrConflict, ReasonAlreadyBlocked, "User is already blocked")
	}
	return allow
}
