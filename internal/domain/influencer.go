package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InfluencerStatus values for the lifecycle column.
const (
	InfluencerActive   = "active"
	InfluencerInactive = "inactive"
)

// Influencer is the identity record for a recruited creator. The handle is
// the business key: unique, immutable after creation, and referenced by
// every child table.
type Influencer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string    `gorm:"size:255;not null" json:"first_name"`
	Handle    string    `gorm:"size:100;uniqueIndex;not null" json:"handle"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Country   string    `gorm:"size:100" json:"country"`
	OwnerName string    `gorm:"size:50;index;not null" json:"owner_name"`
	Status    string    `gorm:"size:20;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Influencer) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// SocialAccounts holds per-platform username/id pairs for one influencer.
// At most one row per handle; numeric ids are resolved lazily and may be
// absent until the first provider lookup succeeds.
type SocialAccounts struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Handle string    `gorm:"size:100;uniqueIndex;not null" json:"handle"`

	TikTokUsername    string `gorm:"column:tiktok_username;size:100" json:"tiktok_username"`
	TikTokID          string `gorm:"column:tiktok_id;size:255" json:"tiktok_id"`
	InstagramUsername string `gorm:"size:100" json:"instagram_username"`
	InstagramID       string `gorm:"size:255" json:"instagram_id"`
	FacebookUsername  string `gorm:"size:100" json:"facebook_username"`
	FacebookID        string `gorm:"size:255" json:"facebook_id"`
	XUsername         string `gorm:"size:100" json:"x_username"`
	XID               string `gorm:"size:255" json:"x_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *SocialAccounts) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
