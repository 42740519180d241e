package services

import (
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A owns W with item I. B reserves I, cannot clear a purchase that does not
// exist, and A cannot clear B's reservation.
func TestItemLifecycle_OwnerAndReserverScenario(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	b := e.user(t, "b")
	w := e.wishlist(t, a, "W")
	i := e.item(t, a, w, "I")

	got, err := e.items.Reserve(e.ctx, b, i.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReservedByID)
	assert.Equal(t, b.ID, *got.ReservedByID)
	assert.Equal(t, "b", got.ReservedBy.Name)
	assert.Equal(t, string(policy.StateReserved), got.State)

	_, err = e.items.ClearPurchase(e.ctx, b, i.ID)
	assertAppErr(t, err, apperr.ErrConflict, policy.ReasonNotPurchased)

	_, err = e.items.ClearReservation(e.ctx, a, i.ID)
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonNotReserver)
}

func TestItemLifecycle_FullCycleKeepsInvariant(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	b := e.user(t, "b")
	c := e.user(t, "c")
	w := e.wishlist(t, a, "W")
	i := e.item(t, a, w, "I")

	check := func() {
		stored, err := e.store.GetItem(e.ctx, i.ID)
		require.NoError(t, err)
		assert.True(t, policy.Consistent(stored))
	}

	_, err := e.items.Reserve(e.ctx, b, i.ID)
	require.NoError(t, err)
	check()

	_, err = e.items.Reserve(e.ctx, c, i.ID)
	assertAppErr(t, err, apperr.ErrConflict, policy.ReasonAlreadyReserved)

	// any user may mark purchased and becomes the holder
	got, err := e.items.MarkPurchased(e.ctx, c, i.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPurchased)
	assert.Equal(t, c.ID, *got.ReservedByID)
	check()

	_, err = e.items.MarkPurchased(e.ctx, b, i.ID)
	assertAppErr(t, err, apperr.ErrConflict, policy.ReasonAlreadyPurchased)

	_, err = e.items.ClearReservation(e.ctx, c, i.ID)
	assertAppErr(t, err, apperr.ErrConflict, policy.ReasonAlreadyPurchased)

	_, err = e.items.ClearPurchase(e.ctx, b, i.ID)
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonNotReserver)

	got, err = e.items.ClearPurchase(e.ctx, c, i.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPurchased)
	assert.Nil(t, got.ReservedByID)
	assert.Equal(t, string(policy.StateAvailable), got.State)
	check()
}

func TestItemLifecycle_OwnerMayReserveOwnItem(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	w := e.wishlist(t, a, "W")
	i := e.item(t, a, w, "I")

	got, err := e.items.Reserve(e.ctx, a, i.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, *got.ReservedByID)

	got, err = e.items.ClearReservation(e.ctx, a, i.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReservedByID)
}

func TestItemLifecycle_ConcurrentReserve(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	w := e.wishlist(t, a, "W")
	i := e.item(t, a, w, "I")

	const n = 16
	contenders := make([]*models.User, n)
	for k := range contenders {
		contenders[k] = e.user(t, "u"+string(rune('a'+k)))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for k := 0; k < n; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			_, errs[k] = e.items.Reserve(e.ctx, contenders[k], i.ID)
		}(k)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrConflict)
	}
	assert.Equal(t, 1, wins)
}

func TestItemLifecycle_BlockedUserCannotReserve(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	b := e.user(t, "b")
	w := e.wishlist(t, a, "W")
	i := e.item(t, a, w, "I")

	_, err := e.users.Block(e.ctx, a, b.Email)
	require.NoError(t, err)

	_, err = e.items.Reserve(e.ctx, b, i.ID)
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonBlocked)
	_, err = e.items.MarkPurchased(e.ctx, b, i.ID)
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonBlocked)
	_, err = e.items.AddComment(e.ctx, b, i.ID, &dto.CommentRequest{Content: "hello"})
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonBlocked)
}

func TestItemCRUD_Permissions(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	b := e.user(t, "b")
	c := e.user(t, "c")
	w := e.wishlist(t, a, "W")

	_, err := e.items.Create(e.ctx, b, &dto.CreateItemRequest{WishlistID: w.ID, Name: "X"})
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonNotOwner)

	i := e.item(t, a, w, "I")
	_, err = e.items.Reserve(e.ctx, b, i.ID)
	require.NoError(t, err)

	// the reserver may edit, a stranger may not
	name := "I (blue)"
	got, err := e.items.Update(e.ctx, b, i.ID, &dto.UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "I (blue)", got.Name)
	assert.Equal(t, b.ID, *got.ReservedByID, "editing does not touch reservation")

	_, err = e.items.Update(e.ctx, c, i.ID, &dto.UpdateItemRequest{Name: &name})
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonNotOwnerOrReserver)

	// the reserver may not delete
	err = e.items.Delete(e.ctx, b, i.ID)
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonNotOwner)
	require.NoError(t, e.items.Delete(e.ctx, a, i.ID))

	_, err = e.items.Reserve(e.ctx, b, i.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestItemCreate_ImageHandling(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	w := e.wishlist(t, a, "W")

	got, err := e.items.Create(e.ctx, a, &dto.CreateItemRequest{WishlistID: w.ID, Name: "X", ImageURL: "https://img.example.com/x.png"})
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", got.ImageData)
	assert.Equal(t, []string{"https://img.example.com/x.png"}, e.images.urls)

	got, err = e.items.Create(e.ctx, a, &dto.CreateItemRequest{WishlistID: w.ID, Name: "Y", ImageURL: "https://img.example.com/y.png", ImageData: "data:inline"})
	require.NoError(t, err)
	assert.Equal(t, "data:inline", got.ImageData)
	assert.Len(t, e.images.urls, 1, "inline data skips the download")

	e.images.ok = false
	_, err = e.items.Create(e.ctx, a, &dto.CreateItemRequest{WishlistID: w.ID, Name: "Z", ImageURL: "https://img.example.com/broken"})
	assertAppErr(t, err, apperr.ErrValidation, "image_processing_failed")

	neg := -1.0
	_, err = e.items.Create(e.ctx, a, &dto.CreateItemRequest{WishlistID: w.ID, Name: "Z", Price: &neg})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestComments(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	b := e.user(t, "b")
	w := e.wishlist(t, a, "W")
	i := e.item(t, a, w, "I")
	other := e.item(t, a, w, "Other")

	c, err := e.items.AddComment(e.ctx, b, i.ID, &dto.CommentRequest{Content: "  I'll get this one  "})
	require.NoError(t, err)
	assert.Equal(t, "I'll get this one", c.Content)
	assert.Equal(t, "b", c.User.Name)

	_, err = e.items.AddComment(e.ctx, b, i.ID, &dto.CommentRequest{Content: "   "})
	assertAppErr(t, err, apperr.ErrValidation, "empty_content")
	_, err = e.items.AddComment(e.ctx, b, i.ID, &dto.CommentRequest{Content: "what a bitch of a lamp"})
	assertAppErr(t, err, apperr.ErrValidation, "inappropriate_language")

	_, err = e.items.UpdateComment(e.ctx, a, i.ID, c.ID, &dto.CommentRequest{Content: "edited"})
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonNotAuthor)

	_, err = e.items.UpdateComment(e.ctx, b, other.ID, c.ID, &dto.CommentRequest{Content: "edited"})
	assert.ErrorIs(t, err, apperr.ErrNotFound, "comment must belong to the item in the path")

	updated, err := e.items.UpdateComment(e.ctx, b, i.ID, c.ID, &dto.CommentRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	err = e.items.DeleteComment(e.ctx, a, i.ID, c.ID)
	assertAppErr(t, err, apperr.ErrForbidden, policy.ReasonNotAuthor)
	require.NoError(t, e.items.DeleteComment(e.ctx, b, i.ID, c.ID))
	assert.ErrorIs(t, e.items.DeleteComment(e.ctx, b, i.ID, c.ID), apperr.ErrNotFound)
}
