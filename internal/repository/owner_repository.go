package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

// OwnerRepository manages the owner reference table.
type OwnerRepository interface {
	List(ctx context.Context, activeOnly bool, offset, limit int) ([]domain.Owner, error)
	Create(ctx context.Context, owner *domain.Owner) error
	GetByName(ctx context.Context, name string) (*domain.Owner, error)
	Update(ctx context.Context, owner *domain.Owner) error
	Deactivate(ctx context.Context, name string) error
	// IsActive reports whether the name maps to an active owner; used for
	// application-layer validation of the influencer → owner link.
	IsActive(ctx context.Context, name string) (bool, error)
	ActiveNames(ctx context.Context) ([]string, error)
}

type ownerRepository struct {
	db *gorm.DB
}

// NewOwnerRepository creates a gorm-backed OwnerRepository.
func NewOwnerRepository(db *gorm.DB) OwnerRepository {
	return &ownerRepository{db: db}
}

func (r *ownerRepository) List(ctx context.Context, activeOnly bool, offset, limit int) ([]domain.Owner, error) {
	q := r.db.WithContext(ctx).Model(&domain.Owner{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var owners []domain.Owner
	err := q.Order("name").Offset(offset).Limit(limit).Find(&owners).Error
	return owners, err
}

func (r *ownerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Owner{}).Where("name = ?", owner.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrDuplicateOwner
	}
	return r.db.WithContext(ctx).Create(owner).Error
}

func (r *ownerRepository) GetByName(ctx context.Context, name string) (*domain.Owner, error) {
	var owner domain.Owner
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOwnerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *ownerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	return r.db.WithContext(ctx).Save(owner).Error
}

func (r *ownerRepository) Deactivate(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Model(&domain.Owner{}).Where("name = ?", name).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOwnerNotFound
	}
	return nil
}

func (r *ownerRepository) IsActive(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Owner{}).
		Where("name = ? AND is_active = ?", name, true).
		Count(&count).Error
	return count > 0, err
}

func (r *ownerRepository) ActiveNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&domain.Owner{}).
		Where("is_active = ?", true).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}
