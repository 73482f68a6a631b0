package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owner is a recruitment team member responsible for a set of influencers.
// Owners are a reference table; influencers point at them by name and the
// link is validated at the application layer, so roster changes never need
// a schema migration.
type Owner struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	DisplayName string    `gorm:"size:100" json:"display_name"`
	Email       string    `gorm:"size:255" json:"email"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Owner) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
