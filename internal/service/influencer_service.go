package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
)

// InfluencerService wraps influencer CRUD with owner validation.
type InfluencerService struct {
	influencers repository.InfluencerRepository
	owners      repository.OwnerRepository
	logger      *slog.Logger
}

// NewInfluencerService creates a new influencer service.
func NewInfluencerService(influencers repository.InfluencerRepository, owners repository.OwnerRepository, logger *slog.Logger) *InfluencerService {
	return &InfluencerService{
		influencers: influencers,
		owners:      owners,
		logger:      logger,
	}
}

func (s *InfluencerService) List(ctx context.Context, offset, limit int) ([]domain.Influencer, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.influencers.List(ctx, offset, limit)
}

// Create registers an influencer and its TikTok account. The owner name
// must reference an active row in the owners table.
func (s *InfluencerService) Create(ctx context.Context, influencer *domain.Influencer, tiktokUsername string) error {
	active, err := s.owners.IsActive(ctx, influencer.OwnerName)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("owner %q: %w", influencer.OwnerName, domain.ErrUnknownOwner)
	}

	if influencer.Status == "" {
		influencer.Status = domain.InfluencerActive
	}
	if err := s.influencers.Create(ctx, influencer, tiktokUsername); err != nil {
		return err
	}
	s.logger.Info("influencer created", "handle", influencer.Handle, "owner", influencer.OwnerName)
	return nil
}

func (s *InfluencerService) Get(ctx context.Context, handle string) (*domain.Influencer, error) {
	return s.influencers.GetByHandle(ctx, handle)
}

// Update applies partial changes. A change of owner is re-validated
// against the owners table.
func (s *InfluencerService) Update(ctx context.Context, handle string, changes map[string]any) (*domain.Influencer, error) {
	influencer, err := s.influencers.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	if v, ok := changes["first_name"].(string); ok {
		influencer.FirstName = v
	}
	if v, ok := changes["phone"].(string); ok {
		influencer.Phone = v
	}
	if v, ok := changes["country"].(string); ok {
		influencer.Country = v
	}
	if v, ok := changes["status"].(string); ok {
		influencer.Status = v
	}
	if v, ok := changes["owner_name"].(string); ok {
		active, err := s.owners.IsActive(ctx, v)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, fmt.Errorf("owner %q: %w", v, domain.ErrUnknownOwner)
		}
		influencer.OwnerName = v
	}

	if err := s.influencers.Update(ctx, influencer); err != nil {
		return nil, err
	}
	return influencer, nil
}

func (s *InfluencerService) Delete(ctx context.Context, handle string) error {
	if err := s.influencers.Delete(ctx, handle); err != nil {
		return err
	}
	s.logger.Info("influencer deleted", "handle", handle)
	return nil
}

func (s *InfluencerService) SocialAccounts(ctx context.Context, handle string) (*domain.SocialAccounts, error) {
	return s.influencers.SocialAccounts(ctx, handle)
}

// PurgeUnknownOwners deletes influencers whose owner is not registered.
func (s *InfluencerService) PurgeUnknownOwners(ctx context.Context) (int64, error) {
	removed, err := s.influencers.DeleteWithUnknownOwner(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Warn("purged influencers with unknown owners", "count", removed)
	}
	return removed, nil
}
