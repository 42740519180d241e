package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/store"
	"github.com/google/uuid"
)

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		IsAdmin:    u.IsAdmin,
		IsApproved: u.IsApproved,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

func userSummary(u *models.User) dto.UserSummary {
	return dto.UserSummary{ID: u.ID, Name: u.Name}
}

func ownerSummary(u *models.User) dto.UserSummary {
	return dto.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// directory resolves user IDs to summaries with a single store round trip.
type directory map[uuid.UUID]dto.UserSummary

func loadDirectory(ctx context.Context, st store.Store, ids []uuid.UUID) (directory, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	users, err := st.GetUsersByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	dir := make(directory, len(users))
	for i := range users {
		dir[users[i].ID] = userSummary(&users[i])
	}
	return dir, nil
}

func (d directory) lookup(id *uuid.UUID) *dto.UserSummary {
	if id == nil {
		return nil
	}
	if s, ok := d[*id]; ok {
		return &s
	}
	return &dto.UserSummary{ID: *id}
}

func itemResponse(it *models.Item, dir directory) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           it.ID,
		WishlistID:   it.WishlistID,
		Name:         it.Name,
		Description:  it.Description,
		Price:        it.Price,
		URL:          it.URL,
		ImageData:    it.ImageData,
		State:        string(policy.StateOf(it)),
		IsPurchased:  it.IsPurchased,
		ReservedByID: it.ReservedByID,
		ReservedBy:   dir.lookup(it.ReservedByID),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func commentResponse(c *models.Comment, dir directory) dto.CommentResponse {
	author := dir[c.UserID]
	author.ID = c.UserID
	return dto.CommentResponse{
		ID:        c.ID,
		ItemID:    c.ItemID,
		Content:   c.Content,
		User:      author,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func wishlistResponse(w *models.Wishlist, items []dto.ItemResponse) dto.WishlistResponse {
	if items == nil {
		items = []dto.ItemResponse{}
	}
	return dto.WishlistResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Owner:       ownerSummary(&w.Owner),
		Items:       items,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// buildWishlists attaches items, reservers and optionally comments to each wishlist.
func buildWishlists(ctx context.Context, st store.Store, wishlists []models.Wishlist, withComments bool) ([]dto.WishlistResponse, error) {
	ids := make([]uuid.UUID, len(wishlists))
	for i := range wishlists {
		ids[i] = wishlists[i].ID
	}
	items, err := st.ListItemsByWishlists(ctx, ids)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	if withComments && len(items) > 0 {
		itemIDs := make([]uuid.UUID, len(items))
		for i := range items {
			itemIDs[i] = items[i].ID
		}
		if comments, err = st.ListCommentsByItems(ctx, itemIDs); err != nil {
			return nil, err
		}
	}

	var userIDs []uuid.UUID
	for i := range items {
		if items[i].ReservedByID != nil {
			userIDs = append(userIDs, *items[i].ReservedByID)
		}
	}
	for i := range comments {
		userIDs = append(userIDs, comments[i].UserID)
	}
	dir, err := loadDirectory(ctx, st, userIDs)
	if err != nil {
		return nil, err
	}

	byItem := make(map[uuid.UUID][]dto.CommentResponse)
	for i := range comments {
		byItem[comments[i].ItemID] = append(byItem[comments[i].ItemID], commentResponse(&comments[i], dir))
	}
	byWishlist := make(map[uuid.UUID][]dto.ItemResponse)
	for i := range items {
		view := itemResponse(&items[i], dir)
		// Detail views always carry a comments array; list views omit the key.
		if withComments {
			list := byItem[items[i].ID]
			if list == nil {
				list = []dto.CommentResponse{}
			}
			view.Comments = &list
		}
		byWishlist[items[i].WishlistID] = append(byWishlist[items[i].WishlistID], view)
	}

	out := make([]dto.WishlistResponse, len(wishlists))
	for i := range wishlists {
		out[i] = wishlistResponse(&wishlists[i], byWishlist[wishlists[i].ID])
	}
	return out, nil
}
