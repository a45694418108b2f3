// Package receipt provides read access to receipts. Receipts are born
// settled and never change; they are only ever created by invoice settlement.
package receipt

import (
	"context"
	"fmt"

	"billhub/internal/core/apperror"
	"billhub/internal/core/id"
	"billhub/internal/core/security"
	"billhub/internal/domain"
	"billhub/internal/domain/documents"
)

// Service provides read operations for receipts.
type Service struct {
	repo documents.Repository
}

// NewService creates a new receipt service.
func NewService(repo documents.Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a receipt with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*documents.Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.Kind != documents.KindReceipt {
		return nil, apperror.NewNotFound("receipt", docID.String())
	}
	if err := security.GetScope(ctx).RequireAccess(doc.TenantID); err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines
	return doc, nil
}

// GetForInvoice retrieves the receipt derived from the given invoice.
func (s *Service) GetForInvoice(ctx context.Context, invoiceID id.ID) (*documents.Document, error) {
	doc, err := s.repo.GetByLinkedID(ctx, invoiceID, documents.KindReceipt)
	if err != nil {
		return nil, err
	}
	if err := security.GetScope(ctx).RequireAccess(doc.TenantID); err != nil {
		return nil, err
	}
	return doc, nil
}

// List retrieves receipts with filtering, re-scoped to the caller's tenant.
func (s *Service) List(ctx context.Context, f documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	kind := documents.KindReceipt
	f.Kind = &kind

	result, err := s.repo.List(ctx, f)
	if err != nil {
		return result, err
	}
	result.Items = security.FilterVisible(security.GetScope(ctx), result.Items)
	return result, nil
}

// Delete always refuses: receipts prove settled payments.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return apperror.NewProcedurallyLocked("hard delete", "receipt")
}
