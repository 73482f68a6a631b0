package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

// UpsertStats counts the outcome of one reconciliation batch.
type UpsertStats struct {
	New     int
	Updated int
	Errors  []string
}

// VideoRepository manages sponsored video rows.
type VideoRepository interface {
	List(ctx context.Context, handle string, offset, limit int) ([]domain.SponsoredVideo, error)
	GetByTikTokID(ctx context.Context, tiktokVideoID string) (*domain.SponsoredVideo, error)

	// Locate finds a video for a transcription request: containment match
	// on the public URL, then exact id, then short-id substring. nil when
	// nothing matches (a valid outcome, not an error).
	Locate(ctx context.Context, videoID, shortID string) (*domain.SponsoredVideo, error)

	// UpsertBatch reconciles provider drafts against stored rows inside a
	// single transaction: new ids are inserted whole, existing rows get
	// only counters and playback URLs overwritten. Transcripts and
	// creation timestamps are never touched.
	UpsertBatch(ctx context.Context, handle, tiktokUsername string, drafts []domain.VideoDraft) (UpsertStats, error)

	SaveTranscript(ctx context.Context, tiktokVideoID, transcript string) error

	// SearchTranscribed returns videos that have a transcript, optionally
	// filtered by terms matched against handle, transcript and caption.
	SearchTranscribed(ctx context.Context, terms []string, limit int) ([]domain.SponsoredVideo, error)

	// ListUntranscribed returns videos that still lack a transcript but
	// have at least one watermark-free URL to try, oldest first.
	ListUntranscribed(ctx context.Context, limit int) ([]domain.SponsoredVideo, error)

	// DeleteAll wipes the table. Emergency cleanup only.
	DeleteAll(ctx context.Context) (int64, error)
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a gorm-backed VideoRepository.
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) List(ctx context.Context, handle string, offset, limit int) ([]domain.SponsoredVideo, error) {
	q := r.db.WithContext(ctx).Model(&domain.SponsoredVideo{})
	if handle != "" {
		q = q.Where("handle = ?", handle)
	}
	var videos []domain.SponsoredVideo
	err := q.Order("published_at DESC").Offset(offset).Limit(limit).Find(&videos).Error
	return videos, err
}

func (r *videoRepository) GetByTikTokID(ctx context.Context, tiktokVideoID string) (*domain.SponsoredVideo, error) {
	var video domain.SponsoredVideo
	err := r.db.WithContext(ctx).Where("tiktok_video_id = ?", tiktokVideoID).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) Locate(ctx context.Context, videoID, shortID string) (*domain.SponsoredVideo, error) {
	var video domain.SponsoredVideo

	if videoID != "" {
		err := r.db.WithContext(ctx).
			Where("public_video_url LIKE ?", "%"+videoID+"%").
			First(&video).Error
		if err == nil {
			return &video, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		err = r.db.WithContext(ctx).Where("tiktok_video_id = ?", videoID).First(&video).Error
		if err == nil {
			return &video, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if shortID != "" {
		err := r.db.WithContext(ctx).
			Where("public_video_url LIKE ?", "%"+shortID+"%").
			First(&video).Error
		if err == nil {
			return &video, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

func (r *videoRepository) UpsertBatch(ctx context.Context, handle, tiktokUsername string, drafts []domain.VideoDraft) (UpsertStats, error) {
	var stats UpsertStats

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, draft := range drafts {
			if draft.TikTokVideoID == "" {
				stats.Errors = append(stats.Errors, "draft without video id skipped")
				continue
			}

			// Each draft runs in its own savepoint so a failed
			// statement rolls back alone and the batch still commits
			// for the videos that succeeded. On Postgres any error
			// would otherwise poison the whole transaction.
			err := tx.Transaction(func(stx *gorm.DB) error {
				var existing domain.SponsoredVideo
				err := stx.Where("tiktok_video_id = ?", draft.TikTokVideoID).First(&existing).Error
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					video := domain.SponsoredVideo{
						Handle:               handle,
						TikTokUsername:       tiktokUsername,
						TikTokVideoID:        draft.TikTokVideoID,
						Description:          draft.Description,
						ViewCount:            draft.ViewCount,
						LikeCount:            draft.LikeCount,
						CommentCount:         draft.CommentCount,
						ShareCount:           draft.ShareCount,
						PublicVideoURL:       draft.PublicVideoURL,
						WatermarkFreeURL:     draft.WatermarkFreeURL,
						WatermarkFreeURLAlt1: draft.WatermarkFreeURLAlt1,
						WatermarkFreeURLAlt2: draft.WatermarkFreeURLAlt2,
						PublishedAt:          draft.PublishedAt,
					}
					if err := stx.Create(&video).Error; err != nil {
						return err
					}
					stats.New++
					return nil

				case err != nil:
					return err

				default:
					updates := map[string]any{
						"view_count":              draft.ViewCount,
						"like_count":              draft.LikeCount,
						"comment_count":           draft.CommentCount,
						"share_count":             draft.ShareCount,
						"public_video_url":        draft.PublicVideoURL,
						"watermark_free_url":      draft.WatermarkFreeURL,
						"watermark_free_url_alt1": draft.WatermarkFreeURLAlt1,
						"watermark_free_url_alt2": draft.WatermarkFreeURLAlt2,
					}
					if err := stx.Model(&existing).Updates(updates).Error; err != nil {
						return err
					}
					stats.Updated++
					return nil
				}
			})
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("video %s: %v", draft.TikTokVideoID, err))
			}
		}
		return nil
	})

	return stats, err
}

func (r *videoRepository) SaveTranscript(ctx context.Context, tiktokVideoID, transcript string) error {
	res := r.db.WithContext(ctx).Model(&domain.SponsoredVideo{}).
		Where("tiktok_video_id = ?", tiktokVideoID).
		Update("transcript", transcript)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (r *videoRepository) SearchTranscribed(ctx context.Context, terms []string, limit int) ([]domain.SponsoredVideo, error) {
	q := r.db.WithContext(ctx).Where("transcript <> ''")

	if len(terms) > 0 {
		clauses := make([]string, 0, len(terms))
		args := make([]any, 0, len(terms)*3)
		for _, term := range terms {
			pattern := "%" + strings.ToLower(term) + "%"
			clauses = append(clauses, "LOWER(handle) LIKE ? OR LOWER(transcript) LIKE ? OR LOWER(description) LIKE ?")
			args = append(args, pattern, pattern, pattern)
		}
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}

	var videos []domain.SponsoredVideo
	err := q.Order("created_at DESC").Limit(limit).Find(&videos).Error
	return videos, err
}

func (r *videoRepository) ListUntranscribed(ctx context.Context, limit int) ([]domain.SponsoredVideo, error) {
	var videos []domain.SponsoredVideo
	err := r.db.WithContext(ctx).
		Where("transcript = ''").
		Where("watermark_free_url <> '' OR watermark_free_url_alt1 <> '' OR watermark_free_url_alt2 <> ''").
		Order("created_at ASC").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.SponsoredVideo{})
	return res.RowsAffected, res.Error
}
