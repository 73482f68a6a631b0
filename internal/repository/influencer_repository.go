package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

// InfluencerRepository manages influencers and their social account rows.
type InfluencerRepository interface {
	List(ctx context.Context, offset, limit int) ([]domain.Influencer, error)
	ListActive(ctx context.Context) ([]domain.Influencer, error)
	Create(ctx context.Context, influencer *domain.Influencer, tiktokUsername string) error
	GetByHandle(ctx context.Context, handle string) (*domain.Influencer, error)
	Update(ctx context.Context, influencer *domain.Influencer) error
	// Delete removes the influencer and all child records in one transaction.
	Delete(ctx context.Context, handle string) error

	SocialAccounts(ctx context.Context, handle string) (*domain.SocialAccounts, error)
	SaveTikTokID(ctx context.Context, handle, tiktokID string) error

	// Search matches active influencers on name, handle or owner name.
	Search(ctx context.Context, term string, limit int) ([]domain.Influencer, error)
	// CountByOwner returns the active influencer count per owner name.
	CountByOwner(ctx context.Context) (map[string]int64, error)

	// DeleteWithUnknownOwner removes influencers (and children) whose owner
	// name is not present in the owners table. Emergency cleanup only.
	DeleteWithUnknownOwner(ctx context.Context) (int64, error)
}

type influencerRepository struct {
	db *gorm.DB
}

// NewInfluencerRepository creates a gorm-backed InfluencerRepository.
func NewInfluencerRepository(db *gorm.DB) InfluencerRepository {
	return &influencerRepository{db: db}
}

func (r *influencerRepository) List(ctx context.Context, offset, limit int) ([]domain.Influencer, error) {
	var influencers []domain.Influencer
	err := r.db.WithContext(ctx).Order("handle").Offset(offset).Limit(limit).Find(&influencers).Error
	return influencers, err
}

func (r *influencerRepository) ListActive(ctx context.Context) ([]domain.Influencer, error) {
	var influencers []domain.Influencer
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.InfluencerActive).
		Order("handle").
		Find(&influencers).Error
	return influencers, err
}

func (r *influencerRepository) Create(ctx context.Context, influencer *domain.Influencer, tiktokUsername string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Influencer{}).
		Where("handle = ?", influencer.Handle).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrDuplicateHandle
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(influencer).Error; err != nil {
			return err
		}
		if tiktokUsername != "" {
			accounts := &domain.SocialAccounts{
				Handle:         influencer.Handle,
				TikTokUsername: tiktokUsername,
			}
			if err := tx.Create(accounts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *influencerRepository) GetByHandle(ctx context.Context, handle string) (*domain.Influencer, error) {
	var influencer domain.Influencer
	err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&influencer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInfluencerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &influencer, nil
}

func (r *influencerRepository) Update(ctx context.Context, influencer *domain.Influencer) error {
	return r.db.WithContext(ctx).Save(influencer).Error
}

func (r *influencerRepository) Delete(ctx context.Context, handle string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var influencer domain.Influencer
		if err := tx.Where("handle = ?", handle).First(&influencer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInfluencerNotFound
			}
			return err
		}

		if err := tx.Where("handle = ?", handle).Delete(&domain.SponsoredVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("handle = ?", handle).Delete(&domain.SocialAccounts{}).Error; err != nil {
			return err
		}
		if err := tx.Where("handle = ?", handle).Delete(&domain.Partnership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&influencer).Error
	})
}

func (r *influencerRepository) SocialAccounts(ctx context.Context, handle string) (*domain.SocialAccounts, error) {
	var accounts domain.SocialAccounts
	err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&accounts).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("influencer %s: %w", handle, domain.ErrMissingSocialID)
	}
	if err != nil {
		return nil, err
	}
	return &accounts, nil
}

func (r *influencerRepository) SaveTikTokID(ctx context.Context, handle, tiktokID string) error {
	res := r.db.WithContext(ctx).Model(&domain.SocialAccounts{}).
		Where("handle = ?", handle).
		Update("tiktok_id", tiktokID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("influencer %s: %w", handle, domain.ErrMissingSocialID)
	}
	return nil
}

func (r *influencerRepository) Search(ctx context.Context, term string, limit int) ([]domain.Influencer, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	var influencers []domain.Influencer
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.InfluencerActive).
		Where("LOWER(first_name) LIKE ? OR LOWER(handle) LIKE ? OR LOWER(owner_name) LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&influencers).Error
	return influencers, err
}

func (r *influencerRepository) CountByOwner(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		OwnerName string
		Count     int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Influencer{}).
		Select("owner_name, COUNT(*) AS count").
		Where("status = ?", domain.InfluencerActive).
		Group("owner_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.OwnerName] = row.Count
	}
	return out, nil
}

func (r *influencerRepository) DeleteWithUnknownOwner(ctx context.Context) (int64, error) {
	var handles []string
	err := r.db.WithContext(ctx).Model(&domain.Influencer{}).
		Where("owner_name NOT IN (?)", r.db.Model(&domain.Owner{}).Select("name")).
		Pluck("handle", &handles).Error
	if err != nil {
		return 0, err
	}
	if len(handles) == 0 {
		return 0, nil
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("handle IN ?", handles).Delete(&domain.SponsoredVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("handle IN ?", handles).Delete(&domain.SocialAccounts{}).Error; err != nil {
			return err
		}
		if err := tx.Where("handle IN ?", handles).Delete(&domain.Partnership{}).Error; err != nil {
			return err
		}
		return tx.Where("handle IN ?", handles).Delete(&domain.Influencer{}).Error
	})
	if err != nil {
		return 0, err
	}
	return int64(len(handles)), nil
}
