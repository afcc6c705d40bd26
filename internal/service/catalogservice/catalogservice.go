package catalogservice

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GlebRadaev/smmpanel/internal/domain"
)

type Repo interface {
	FindByServiceID(ctx context.Context, serviceID int) (*domain.Service, error)
	ListActive(ctx context.Context, category, search string) ([]domain.Service, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) ListServices(ctx context.Context, category, search string) ([]domain.Service, error) {
	services, err := s.repo.ListActive(ctx, category, search)
	if err != nil {
		zap.L().Error("failed to list services", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return services, nil
}

// GetService returns an active service; inactive ones are reported as not found.
func (s *Service) GetService(ctx context.Context, serviceID int) (*domain.Service, error) {
	svc, err := s.repo.FindByServiceID(ctx, serviceID)
	if err != nil {
		zap.L().Error("failed to get service", zap.Int("service_id", serviceID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if svc == nil || !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}
	return svc, nil
}
