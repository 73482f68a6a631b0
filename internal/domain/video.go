package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SponsoredVideo is one row per distinct TikTok video id. Counters and
// playback URLs are overwritten on every sync with the provider's current
// values; the transcript, once set, is a permanent cache.
type SponsoredVideo struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Handle         string    `gorm:"size:100;index;not null" json:"handle"`
	TikTokUsername string    `gorm:"column:tiktok_username;size:100;not null" json:"tiktok_username"`
	TikTokVideoID  string    `gorm:"column:tiktok_video_id;size:255;uniqueIndex;not null" json:"tiktok_video_id"`
	Description    string    `gorm:"type:text" json:"description"`

	ViewCount    int64 `gorm:"default:0;index" json:"view_count"`
	LikeCount    int64 `gorm:"default:0;index" json:"like_count"`
	CommentCount int64 `gorm:"default:0" json:"comment_count"`
	ShareCount   int64 `gorm:"default:0" json:"share_count"`

	// Playback URLs all expire; the watermark-free ones are refreshed on
	// every sync and tried in order during transcription.
	PublicVideoURL       string `gorm:"size:1000" json:"public_video_url"`
	WatermarkFreeURL     string `gorm:"size:1000" json:"watermark_free_url"`
	WatermarkFreeURLAlt1 string `gorm:"size:1000" json:"watermark_free_url_alt1"`
	WatermarkFreeURLAlt2 string `gorm:"size:1000" json:"watermark_free_url_alt2"`

	Transcript string `gorm:"type:text" json:"transcript"`

	PublishedAt *time.Time `gorm:"index" json:"published_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *SponsoredVideo) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// EngagementRate is (likes + comments + shares) / views * 100, rounded to
// two decimals. Zero views means zero engagement, never a division error.
func (v *SponsoredVideo) EngagementRate() float64 {
	if v.ViewCount == 0 {
		return 0.0
	}
	rate := float64(v.LikeCount+v.CommentCount+v.ShareCount) / float64(v.ViewCount) * 100
	return math.Round(rate*100) / 100
}

// PlaybackURLs returns the watermark-free candidates in cascade order,
// skipping unset slots.
func (v *SponsoredVideo) PlaybackURLs() []LabeledURL {
	urls := make([]LabeledURL, 0, 3)
	if v.WatermarkFreeURL != "" {
		urls = append(urls, LabeledURL{Label: "primary", URL: v.WatermarkFreeURL})
	}
	if v.WatermarkFreeURLAlt1 != "" {
		urls = append(urls, LabeledURL{Label: "alt1", URL: v.WatermarkFreeURLAlt1})
	}
	if v.WatermarkFreeURLAlt2 != "" {
		urls = append(urls, LabeledURL{Label: "alt2", URL: v.WatermarkFreeURLAlt2})
	}
	return urls
}

// LabeledURL is one playback URL candidate with its cascade slot name.
type LabeledURL struct {
	Label string
	URL   string
}

// VideoDraft is a sponsored video as reported by the provider, before it is
// reconciled against the persisted row.
type VideoDraft struct {
	TikTokVideoID string
	Description   string
	PublishedAt   *time.Time

	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	ShareCount   int64

	PublicVideoURL       string
	WatermarkFreeURL     string
	WatermarkFreeURLAlt1 string
	WatermarkFreeURLAlt2 string
}
