package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the privilege level of a user.
type Role int

const (
	RoleStandard Role = 0
	RoleAdmin    Role = 1
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// User represents an account that can authenticate and own posts.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Limit        int       `json:"limit" gorm:"column:post_limit;not null;default:0"`
	Role         Role      `json:"role" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Posts []Post `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the subset of user fields returned by auth endpoints.
type PublicUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Limit int    `json:"limit"`
	Role  Role   `json:"role"`
}

// Public returns the fields safe to echo back on register and login.
func (u *User) Public() PublicUser {
	return PublicUser{
		Name:  u.Name,
		Email: u.Email,
		Limit: u.Limit,
		Role:  u.Role,
	}
}
