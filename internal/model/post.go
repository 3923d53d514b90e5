package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Approval controls whether a post appears in the public feed.
type Approval string

const (
	ApprovalUnapproved Approval = "unapproved"
	ApprovalApproved   Approval = "approved"
)

// Valid reports whether a is a known approval status.
func (a Approval) Valid() bool {
	return a == ApprovalApproved || a == ApprovalUnapproved
}

// Post is a user submitted link with an image hosted on the asset host.
type Post struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Image       string    `json:"image" gorm:"size:1024;not null"`
	URLName     string    `json:"url_name" gorm:"size:255;not null"`
	URL         string    `json:"url" gorm:"size:2048;not null"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Approval    Approval  `json:"approval" gorm:"type:varchar(20);not null;default:'unapproved';index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID and the default approval before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Approval == "" {
		p.Approval = ApprovalUnapproved
	}
	return nil
}

// PostSummary is the title/description projection of a post.
type PostSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}
