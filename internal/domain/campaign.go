package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign is budget/contract bookkeeping for a marketing push.
type Campaign struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      float64    `gorm:"type:numeric(10,2)" json:"budget"`
	Status      string     `gorm:"size:20;default:active" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Campaign) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Partnership links an influencer to a campaign with delivery targets.
type Partnership struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Handle          string     `gorm:"size:100;index;not null" json:"handle"`
	CampaignID      uuid.UUID  `gorm:"type:uuid" json:"campaign_id"`
	ContractValue   float64    `gorm:"type:numeric(10,2)" json:"contract_value"`
	ExpectedVideos  int        `json:"expected_videos"`
	DeliveredVideos int        `gorm:"default:0" json:"delivered_videos"`
	Status          string     `gorm:"size:20;default:active" json:"status"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Partnership) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
