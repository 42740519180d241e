package policy

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser() *models.User {
	return &models.User{ID: uuid.New(), IsApproved: true, IsActive: true}
}

func reservedBy(u *models.User) *uuid.UUID {
	id := u.ID
	return &id
}

func assertDenied(t *testing.T, d Decision, kind error, reason string) {
	t.Helper()
	require.False(t, d.Allowed, "expected denial %s", reason)
	assert.Equal(t, reason, d.Reason)
	assert.True(t, errors.Is(d.Err(), kind), "kind = %v, want %v", d.Kind, kind)
}

func TestCanAuthenticate(t *testing.T) {
	assertDenied(t, CanAuthenticate(nil), apperr.ErrForbidden, ReasonUserNotFound)

	inactive := newUser()
	inactive.IsActive = false
	assertDenied(t, CanAuthenticate(inactive), apperr.ErrForbidden, ReasonAccountInactive)

	d := CanAuthenticate(newUser())
	assert.True(t, d.Allowed)
	assert.NoError(t, d.Err())
}

func TestCanAdminister(t *testing.T) {
	assertDenied(t, CanAdminister(newUser()), apperr.ErrForbidden, ReasonAdminRequired)

	admin := newUser()
	admin.IsAdmin = true
	assert.True(t, CanAdminister(admin).Allowed)

	admin.IsActive = false
	assertDenied(t, CanAdminister(admin), apperr.ErrForbidden, ReasonAccountInactive)
}

func TestCanManageUser(t *testing.T) {
	admin := newUser()
	admin.IsAdmin = true
	other := newUser()

	assert.True(t, CanManageUser(admin, other.ID).Allowed)
	assertDenied(t, CanManageUser(admin, admin.ID), apperr.ErrConflict, ReasonSelfAction)
	assertDenied(t, CanManageUser(other, admin.ID), apperr.ErrForbidden, ReasonAdminRequired)
}

func TestCanLogin(t *testing.T) {
	pending := newUser()
	pending.IsApproved = false
	assertDenied(t, CanLogin(pending), apperr.ErrForbidden, ReasonPendingApproval)

	inactive := newUser()
	inactive.IsActive = false
	assertDenied(t, CanLogin(inactive), apperr.ErrForbidden, ReasonAccountInactive)

	assert.True(t, CanLogin(newUser()).Allowed)
}

func TestCanViewWishlist(t *testing.T) {
	viewer, owner := newUser(), newUser()

	assert.True(t, CanViewWishlist(viewer, owner, BlockSet{}).Allowed)

	blocks := NewBlockSet(viewer.ID, []models.Block{{BlockerID: owner.ID, BlockedID: viewer.ID}})
	assertDenied(t, CanViewWishlist(viewer, owner, blocks), apperr.ErrForbidden, ReasonBlocked)

	blocks = NewBlockSet(viewer.ID, []models.Block{{BlockerID: viewer.ID, BlockedID: owner.ID}})
	assertDenied(t, CanViewWishlist(viewer, owner, blocks), apperr.ErrForbidden, ReasonBlocked)

	owner.IsActive = false
	assertDenied(t, CanViewWishlist(viewer, owner, BlockSet{}), apperr.ErrForbidden, ReasonOwnerInactive)
	assert.True(t, CanViewWishlist(owner, owner, BlockSet{}).Allowed, "owner always sees own wishlist")
}

func TestWishlistOwnership(t *testing.T) {
	owner, other := newUser(), newUser()
	w := &models.Wishlist{ID: uuid.New(), UserID: owner.ID}

	assert.True(t, CanModifyWishlist(owner, w).Allowed)
	assert.True(t, CanAddItem(owner, w).Allowed)
	assert.True(t, CanDeleteItem(owner, w).Allowed)
	assertDenied(t, CanModifyWishlist(other, w), apperr.ErrForbidden, ReasonNotOwner)
	assertDenied(t, CanAddItem(other, w), apperr.ErrForbidden, ReasonNotOwner)
	assertDenied(t, CanDeleteItem(other, w), apperr.ErrForbidden, ReasonNotOwner)
}

func TestCanModifyItem(t *testing.T) {
	owner, reserver, stranger := newUser(), newUser(), newUser()
	w := &models.Wishlist{ID: uuid.New(), UserID: owner.ID}
	item := &models.Item{ID: uuid.New(), WishlistID: w.ID, ReservedByID: reservedBy(reserver)}

	assert.True(t, CanModifyItem(owner, item, w).Allowed)
	assert.True(t, CanModifyItem(reserver, item, w).Allowed)
	assertDenied(t, CanModifyItem(stranger, item, w), apperr.ErrForbidden, ReasonNotOwnerOrReserver)

	item.ReservedByID = nil
	assertDenied(t, CanModifyItem(reserver, item, w), apperr.ErrForbidden, ReasonNotOwnerOrReserver)
	assertDenied(t, CanDeleteItem(reserver, w), apperr.ErrForbidden, ReasonNotOwner)
}

func TestCanReserve(t *testing.T) {
	actor, holder := newUser(), newUser()
	item := &models.Item{ID: uuid.New()}

	assert.True(t, CanReserve(actor, item).Allowed)

	item.ReservedByID = reservedBy(holder)
	assertDenied(t, CanReserve(actor, item), apperr.ErrConflict, ReasonAlreadyReserved)
	assertDenied(t, CanReserve(holder, item), apperr.ErrConflict, ReasonAlreadyReserved)
}

func TestCanReserveIgnoresOwnership(t *testing.T) {
	owner := newUser()
	item := &models.Item{ID: uuid.New()}
	// Owner reserving their own item is allowed at the policy level.
	assert.True(t, CanReserve(owner, item).Allowed)
}

func TestCanClearReservation(t *testing.T) {
	owner, reserver := newUser(), newUser()
	item := &models.Item{ID: uuid.New()}

	assertDenied(t, CanClearReservation(reserver, item), apperr.ErrConflict, ReasonNotReserved)

	item.ReservedByID = reservedBy(reserver)
	assert.True(t, CanClearReservation(reserver, item).Allowed)
	assertDenied(t, CanClearReservation(owner, item), apperr.ErrForbidden, ReasonNotReserver)

	item.IsPurchased = true
	assertDenied(t, CanClearReservation(reserver, item), apperr.ErrConflict, ReasonAlreadyPurchased)
}

func TestCanMarkPurchased(t *testing.T) {
	anyone := newUser()
	item := &models.Item{ID: uuid.New()}

	assert.True(t, CanMarkPurchased(anyone, item).Allowed)

	item.ReservedByID = reservedBy(newUser())
	assert.True(t, CanMarkPurchased(anyone, item).Allowed, "purchase overrides another user's reservation")

	item.IsPurchased = true
	assertDenied(t, CanMarkPurchased(anyone, item), apperr.ErrConflict, ReasonAlreadyPurchased)
}

func TestCanClearPurchase(t *testing.T) {
	buyer, other := newUser(), newUser()
	item := &models.Item{ID: uuid.New(), ReservedByID: reservedBy(buyer)}

	assertDenied(t, CanClearPurchase(buyer, item), apperr.ErrConflict, ReasonNotPurchased)

	item.IsPurchased = true
	assert.True(t, CanClearPurchase(buyer, item).Allowed)
	assertDenied(t, CanClearPurchase(other, item), apperr.ErrForbidden, ReasonNotReserver)
}

func TestCanModifyComment(t *testing.T) {
	author, other := newUser(), newUser()
	c := &models.Comment{ID: uuid.New(), UserID: author.ID}

	assert.True(t, CanModifyComment(author, c).Allowed)
	assertDenied(t, CanModifyComment(other, c), apperr.ErrForbidden, ReasonNotAuthor)
}

func TestCanBlock(t *testing.T) {
	a, b := newUser(), newUser()

	assert.True(t, CanBlock(a, b, false).Allowed)
	assertDenied(t, CanBlock(a, a, false), apperr.ErrConflict, ReasonSelfBlock)
	assertDenied(t, CanBlock(a, b, true), apperr.ErrConflict, ReasonAlreadyBlocked)
}

func TestNewBlockSetIsSymmetric(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	blocks := []models.Block{
		{BlockerID: a, BlockedID: b},
		{BlockerID: c, BlockedID: a},
		{BlockerID: b, BlockedID: d},
	}

	set := NewBlockSet(a, blocks)
	assert.True(t, set.Contains(b))
	assert.True(t, set.Contains(c))
	assert.False(t, set.Contains(d))
	assert.False(t, set.Contains(a))
	assert.Len(t, set.IDs(), 2)
}
