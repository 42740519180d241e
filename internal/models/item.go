package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item belongs to exactly one wishlist. IsPurchased implies ReservedByID is set.
type Item struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WishlistID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"wishlist_id"`
	Name         string     `gorm:"not null;size:255" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Price        *float64   `json:"price"`
	URL          string     `gorm:"type:text" json:"url"`
	ImageData    string     `gorm:"type:text" json:"image_data"`
	IsPurchased  bool       `gorm:"not null;default:false" json:"is_purchased"`
	ReservedByID *uuid.UUID `gorm:"type:uuid;index" json:"reserved_by_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Wishlist     Wishlist   `gorm:"foreignKey:WishlistID" json:"-"`
	ReservedBy   *User      `gorm:"foreignKey:ReservedByID" json:"-"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsReservedBy reports whether userID currently holds the item.
func (i *Item) IsReservedBy(userID uuid.UUID) bool {
	return i.ReservedByID != nil && *i.ReservedByID == userID
}
