package policy

import (
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/google/uuid"
)

// BlockSet is the set of users hidden from a viewer: everyone the viewer blocked
// and everyone who blocked the viewer.
type BlockSet map[uuid.UUID]struct{}

// NewBlockSet builds the set from blocks involving viewerID on either side.
// Rows that do not involve the viewer are ignored.
func NewBlockSet(viewerID uuid.UUID, blocks []models.Block) BlockSet {
	set := make(BlockSet, len(blocks))
	for _, b := range blocks {
		switch viewerID {
		case b.BlockerID:
			set[b.BlockedID] = struct{}{}
		case b.BlockedID:
			set[b.BlockerID] = struct{}{}
		}
	}
	return set
}

func (s BlockSet) Contains(userID uuid.UUID) bool {
	_, ok := s[userID]
	return ok
}

func (s BlockSet) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
