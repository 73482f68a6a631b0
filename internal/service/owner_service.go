package service

import (
	"context"
	"log/slog"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
)

// OwnerService manages the recruitment team reference table.
type OwnerService struct {
	owners repository.OwnerRepository
	logger *slog.Logger
}

// NewOwnerService creates a new owner service.
func NewOwnerService(owners repository.OwnerRepository, logger *slog.Logger) *OwnerService {
	return &OwnerService{owners: owners, logger: logger}
}

func (s *OwnerService) List(ctx context.Context, activeOnly bool, offset, limit int) ([]domain.Owner, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.owners.List(ctx, activeOnly, offset, limit)
}

func (s *OwnerService) Create(ctx context.Context, owner *domain.Owner) error {
	if owner.DisplayName == "" {
		owner.DisplayName = owner.Name
	}
	owner.IsActive = true
	if err := s.owners.Create(ctx, owner); err != nil {
		return err
	}
	s.logger.Info("owner created", "name", owner.Name)
	return nil
}

func (s *OwnerService) Get(ctx context.Context, name string) (*domain.Owner, error) {
	return s.owners.GetByName(ctx, name)
}

func (s *OwnerService) Update(ctx context.Context, name string, changes map[string]any) (*domain.Owner, error) {
	owner, err := s.owners.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if v, ok := changes["display_name"].(string); ok {
		owner.DisplayName = v
	}
	if v, ok := changes["email"].(string); ok {
		owner.Email = v
	}
	if v, ok := changes["is_active"].(bool); ok {
		owner.IsActive = v
	}

	if err := s.owners.Update(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// Deactivate soft-deletes: the owner stops accepting new influencers but
// existing rows keep their reference.
func (s *OwnerService) Deactivate(ctx context.Context, name string) error {
	if err := s.owners.Deactivate(ctx, name); err != nil {
		return err
	}
	s.logger.Info("owner deactivated", "name", name)
	return nil
}
