package business

import (
	"context"
	"fmt"
	"time"

	"billhub/internal/core/tx"
	"billhub/internal/domain"
	"billhub/pkg/numerator"
)

// Service provides business logic for the Business catalog.
type Service struct {
	*domain.CatalogService[*Business]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Business service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Business]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "business",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate generates a code when none was provided.
func (s *Service) prepareForCreate(ctx context.Context, b *Business) error {
	if b.Code == "" {
		cfg := numerator.DefaultConfig("BZ")
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		b.Code = code
	}
	return nil
}

// List retrieves business profiles, re-applying tenant scoping to the page.
func (s *Service) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Business], error) {
	return domain.ListVisible(ctx, s.CatalogService, f)
}
