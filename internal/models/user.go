package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account. New accounts start unapproved; IsActive=false revokes every
// session on the next request.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email      string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	IsAdmin    bool      `gorm:"not null;default:false" json:"is_admin"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
