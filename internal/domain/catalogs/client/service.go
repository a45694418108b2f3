package client

import (
	"context"
	"fmt"
	"time"

	"billhub/internal/core/apperror"
	"billhub/internal/core/id"
	"billhub/internal/core/tx"
	"billhub/internal/domain"
	"billhub/pkg/numerator"
)

// Service provides business logic for the Client catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Client]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Client service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "client",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks before create.
func (s *Service) prepareForCreate(ctx context.Context, c *Client) error {
	// Generate code if not provided
	if c.Code == "" {
		cfg := numerator.DefaultConfig("CL")
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}

	return s.checkEmailUnique(ctx, c)
}

// prepareForUpdate handles uniqueness checks before update.
func (s *Service) prepareForUpdate(ctx context.Context, c *Client) error {
	return s.checkEmailUnique(ctx, c)
}

// FindByEmail retrieves client by email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*Client, error) {
	return s.repo.FindByEmail(ctx, email)
}

// checkEmailUnique rejects a second client with the same email in the tenant.
func (s *Service) checkEmailUnique(ctx context.Context, c *Client) error {
	if c.Email == "" {
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, c.Email)
	if err != nil {
		// Not found is OK; other errors must be propagated
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewDuplicate("client", "email", c.Email)
	}
	return nil
}

// GetForUpdate retrieves client with row lock.
func (s *Service) GetForUpdate(ctx context.Context, clientID id.ID) (*Client, error) {
	return s.repo.GetForUpdate(ctx, clientID)
}

// List retrieves clients, re-applying tenant scoping to the page.
func (s *Service) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Client], error) {
	return domain.ListVisible(ctx, s.CatalogService, f)
}
