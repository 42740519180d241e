package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/google/uuid"
)

// MemoryStore keeps all rows in maps behind one mutex. Every method takes the
// lock for its full duration, so conditional transitions are atomic.
type MemoryStore struct {
	mu        sync.Mutex
	now       func() time.Time
	last      time.Time
	users     map[uuid.UUID]models.User
	blocks    map[uuid.UUID]models.Block
	wishlists map[uuid.UUID]models.Wishlist
	items     map[uuid.UUID]models.Item
	comments  map[uuid.UUID]models.Comment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:       time.Now,
		users:     make(map[uuid.UUID]models.User),
		blocks:    make(map[uuid.UUID]models.Block),
		wishlists: make(map[uuid.UUID]models.Wishlist),
		items:     make(map[uuid.UUID]models.Item),
		comments:  make(map[uuid.UUID]models.Comment),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) stamp(id *uuid.UUID, created, updated *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	now := s.now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	*created = now
	if updated != nil {
		*updated = now
	}
}

// --- users ---

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return apperr.Conflict("duplicate", "User already exists")
		}
	}
	s.stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (s *MemoryStore) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := []models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (s *MemoryStore) CountPendingUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if !u.IsApproved {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) updateUser(id uuid.UUID, fn func(u *models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	fn(&u)
	u.UpdatedAt = s.now()
	s.users[id] = u
	return &u, nil
}

func (s *MemoryStore) SetUserApproved(ctx context.Context, id uuid.UUID, approved bool) (*models.User, error) {
	return s.updateUser(id, func(u *models.User) { u.IsApproved = approved })
}

func (s *MemoryStore) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	return s.updateUser(id, func(u *models.User) { u.IsActive = active })
}

func (s *MemoryStore) ToggleUserAdmin(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.updateUser(id, func(u *models.User) { u.IsAdmin = !u.IsAdmin })
}

func (s *MemoryStore) SetUserPassword(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := s.updateUser(id, func(u *models.User) { u.Password = hash })
	return err
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperr.NotFound("User")
	}

	for bid, b := range s.blocks {
		if b.BlockerID == id || b.BlockedID == id {
			delete(s.blocks, bid)
		}
	}

	ownWishlists := make(map[uuid.UUID]bool)
	for wid, w := range s.wishlists {
		if w.UserID == id {
			ownWishlists[wid] = true
		}
	}
	ownItems := make(map[uuid.UUID]bool)
	for iid, it := range s.items {
		if ownWishlists[it.WishlistID] {
			ownItems[iid] = true
		}
	}

	for cid, c := range s.comments {
		if c.UserID == id || ownItems[c.ItemID] {
			delete(s.comments, cid)
		}
	}
	for iid, it := range s.items {
		if ownItems[iid] {
			delete(s.items, iid)
			continue
		}
		if it.IsReservedBy(id) {
			it.ReservedByID = nil
			it.IsPurchased = false
			it.UpdatedAt = s.now()
			s.items[iid] = it
		}
	}
	for wid := range ownWishlists {
		delete(s.wishlists, wid)
	}
	delete(s.users, id)
	return nil
}

// --- blocks ---

func (s *MemoryStore) CreateBlock(ctx context.Context, block *models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.blocks {
		if b.BlockerID == block.BlockerID && b.BlockedID == block.BlockedID {
			return apperr.Conflict("duplicate", "Block already exists")
		}
	}
	s.stamp(&block.ID, &block.CreatedAt, nil)
	s.blocks[block.ID] = *block
	return nil
}

func (s *MemoryStore) BlockExists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, b := range s.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			delete(s.blocks, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListBlocksBy(ctx context.Context, blockerID uuid.UUID) ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks := []models.Block{}
	for _, b := range s.blocks {
		if b.BlockerID == blockerID {
			b.Blocked = s.users[b.BlockedID]
			blocks = append(blocks, b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].CreatedAt.After(blocks[j].CreatedAt) })
	return blocks, nil
}

func (s *MemoryStore) ListBlocksInvolving(ctx context.Context, userID uuid.UUID) ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks := []models.Block{}
	for _, b := range s.blocks {
		if b.BlockerID == userID || b.BlockedID == userID {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

// --- wishlists ---

func (s *MemoryStore) CreateWishlist(ctx context.Context, wishlist *models.Wishlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&wishlist.ID, &wishlist.CreatedAt, &wishlist.UpdatedAt)
	stored := *wishlist
	stored.Owner = models.User{}
	s.wishlists[wishlist.ID] = stored
	return nil
}

func (s *MemoryStore) withOwner(w models.Wishlist) models.Wishlist {
	w.Owner = s.users[w.UserID]
	return w
}

func (s *MemoryStore) GetWishlist(ctx context.Context, id uuid.UUID) (*models.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishlists[id]
	if !ok {
		return nil, apperr.NotFound("Wishlist")
	}
	w = s.withOwner(w)
	return &w, nil
}

func (s *MemoryStore) listWishlists(keep func(w models.Wishlist) bool) []models.Wishlist {
	wishlists := []models.Wishlist{}
	for _, w := range s.wishlists {
		if keep(w) {
			wishlists = append(wishlists, s.withOwner(w))
		}
	}
	sort.Slice(wishlists, func(i, j int) bool { return wishlists[i].CreatedAt.After(wishlists[j].CreatedAt) })
	return wishlists
}

func (s *MemoryStore) ListWishlistsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listWishlists(func(w models.Wishlist) bool { return w.UserID == ownerID }), nil
}

func (s *MemoryStore) ListActiveWishlists(ctx context.Context, excludeOwners []uuid.UUID) ([]models.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	excluded := make(map[uuid.UUID]bool, len(excludeOwners))
	for _, id := range excludeOwners {
		excluded[id] = true
	}
	return s.listWishlists(func(w models.Wishlist) bool {
		owner, ok := s.users[w.UserID]
		return ok && owner.IsActive && !excluded[w.UserID]
	}), nil
}

func (s *MemoryStore) UpdateWishlist(ctx context.Context, id uuid.UUID, name, description string) (*models.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishlists[id]
	if !ok {
		return nil, apperr.NotFound("Wishlist")
	}
	w.Name = name
	w.Description = description
	w.UpdatedAt = s.now()
	s.wishlists[id] = w
	w = s.withOwner(w)
	return &w, nil
}

func (s *MemoryStore) DeleteWishlist(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wishlists[id]; !ok {
		return apperr.NotFound("Wishlist")
	}
	for iid, it := range s.items {
		if it.WishlistID == id {
			s.deleteItemLocked(iid)
		}
	}
	delete(s.wishlists, id)
	return nil
}

// --- items ---

func (s *MemoryStore) CreateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wishlists[item.WishlistID]; !ok {
		return apperr.NotFound("Wishlist")
	}
	s.stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	stored := *item
	stored.Wishlist = models.Wishlist{}
	stored.ReservedBy = nil
	s.items[item.ID] = stored
	return nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("Item")
	}
	return &it, nil
}

func (s *MemoryStore) ListItemsByWishlists(ctx context.Context, wishlistIDs []uuid.UUID) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(wishlistIDs))
	for _, id := range wishlistIDs {
		wanted[id] = true
	}
	items := []models.Item{}
	for _, it := range s.items {
		if wanted[it.WishlistID] {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (s *MemoryStore) UpdateItemFields(ctx context.Context, id uuid.UUID, fields ItemFields) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("Item")
	}
	it.Name = fields.Name
	it.Description = fields.Description
	it.Price = fields.Price
	it.URL = fields.URL
	it.ImageData = fields.ImageData
	it.UpdatedAt = s.now()
	s.items[id] = it
	return &it, nil
}

func (s *MemoryStore) deleteItemLocked(id uuid.UUID) {
	for cid, c := range s.comments {
		if c.ItemID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.items, id)
}

func (s *MemoryStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return apperr.NotFound("Item")
	}
	s.deleteItemLocked(id)
	return nil
}

func (s *MemoryStore) TransitionItem(ctx context.Context, id, actorID uuid.UUID, action policy.Action) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return false, apperr.NotFound("Item")
	}

	var holds bool
	switch action {
	case policy.ActionReserve:
		holds = it.ReservedByID == nil
	case policy.ActionClearReservation:
		holds = it.IsReservedBy(actorID) && !it.IsPurchased
	case policy.ActionPurchase:
		holds = !it.IsPurchased
	case policy.ActionClearPurchase:
		holds = it.IsReservedBy(actorID) && it.IsPurchased
	default:
		return false, apperr.Validation("unknown item action")
	}
	if !holds {
		return false, nil
	}

	if _, ok := policy.Apply(&it, actorID, action); !ok {
		return false, nil
	}
	it.UpdatedAt = s.now()
	s.items[id] = it
	return true, nil
}

// --- comments ---

func (s *MemoryStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[comment.ItemID]; !ok {
		return apperr.NotFound("Item")
	}
	s.stamp(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	stored := *comment
	stored.Item = models.Item{}
	stored.Author = models.User{}
	s.comments[comment.ID] = stored
	return nil
}

func (s *MemoryStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	return &c, nil
}

func (s *MemoryStore) ListCommentsByItems(ctx context.Context, itemIDs []uuid.UUID) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	comments := []models.Comment{}
	for _, c := range s.comments {
		if wanted[c.ItemID] {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (s *MemoryStore) UpdateComment(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	c.Content = content
	c.UpdatedAt = s.now()
	s.comments[id] = c
	return &c, nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(s.comments, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
