// Package quotation provides the quotation workflow: drafting, sending and
// resolving offers, including invoice derivation for won deals.
package quotation

import (
	"context"
	"fmt"

	"billhub/internal/core/apperror"
	"billhub/internal/core/codegen"
	"billhub/internal/core/id"
	"billhub/internal/core/security"
	"billhub/internal/core/tx"
	"billhub/internal/core/types"
	"billhub/internal/domain"
	"billhub/internal/domain/catalogs/business"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/domain/documents"
	"billhub/pkg/logger"
)

// LineInput describes one requested line.
type LineInput struct {
	ProductID   *id.ID
	Description string
	Quantity    int
	UnitPrice   types.Money
}

// CreateParams collects the inputs for a new quotation.
type CreateParams struct {
	ClientID   id.ID
	BusinessID id.ID
	Lines      []LineInput
	Discount   types.Money
	Notes      string
}

// Service provides business operations for quotations.
type Service struct {
	repo       documents.Repository
	txManager  tx.Manager
	clock      codegen.Clock
	clients    *client.Service
	businesses *business.Service
	auditor    documents.Auditor
	hooks      *domain.HookRegistry[*documents.Document]
}

// NewService creates a new quotation service.
func NewService(
	repo documents.Repository,
	txManager tx.Manager,
	clock codegen.Clock,
	clients *client.Service,
	businesses *business.Service,
	auditor documents.Auditor,
) *Service {
	return &Service{
		repo:       repo,
		txManager:  txManager,
		clock:      clock,
		clients:    clients,
		businesses: businesses,
		auditor:    auditor,
		hooks:      domain.NewHookRegistry[*documents.Document](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*documents.Document] {
	return s.hooks
}

// Create drafts a quotation. The code is stamped from the client name, the
// business's company name and the current clock reading; party details are
// snapshotted so later catalog edits never change issued paperwork.
func (s *Service) Create(ctx context.Context, params CreateParams) (*documents.Document, error) {
	scope := security.GetScope(ctx)

	cl, err := s.clients.GetByID(ctx, params.ClientID)
	if err != nil {
		return nil, err
	}
	if err := scope.RequireAccess(cl.TenantID); err != nil {
		return nil, err
	}

	biz, err := s.businesses.GetByID(ctx, params.BusinessID)
	if err != nil {
		return nil, err
	}
	if err := scope.RequireAccess(biz.TenantID); err != nil {
		return nil, err
	}

	doc := documents.New(documents.KindQuotation, cl.TenantID, cl.Snapshot(), biz.Snapshot(), s.clock())
	doc.ClientID = cl.ID
	doc.BusinessID = biz.ID
	doc.Notes = params.Notes
	for _, line := range params.Lines {
		doc.AddLine(line.ProductID, line.Description, line.Quantity, line.UnitPrice)
	}
	if !params.Discount.IsZero() {
		doc.SetDiscount(params.Discount)
	}

	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return nil, err
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create quotation: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return s.record(ctx, doc, documents.AuditCreate, map[string]any{"code": doc.Code})
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "quotation created", "id", doc.ID, "code", doc.Code)
	return doc, nil
}

// GetByID retrieves a quotation with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*documents.Document, error) {
	doc, err := s.loadWithLines(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := security.GetScope(ctx).RequireAccess(doc.TenantID); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update replaces lines, discount and notes on a draft quotation.
// Sent and resolved quotations are frozen; clone instead.
func (s *Service) Update(ctx context.Context, doc *documents.Document) error {
	if err := s.requireKind(doc); err != nil {
		return err
	}
	if doc.Status != documents.StatusToSend {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"only unsent quotations can be edited; clone to revise a sent one",
		).WithDetail("status", string(doc.Status))
	}

	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	doc.Recalculate()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := security.GetScope(ctx).RequireAccess(current.TenantID); err != nil {
			return err
		}

		doc.Touch(s.clock())
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update quotation: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return s.record(ctx, doc, documents.AuditUpdate, map[string]any{"code": doc.Code})
	})
}

// MarkSent records that the quotation went out to the client. Delivery itself
// is a separate concern; callers deliver first and mark on success.
func (s *Service) MarkSent(ctx context.Context, docID id.ID) (*documents.Document, error) {
	return s.transition(ctx, docID, documents.StatusSent)
}

// MarkRejected resolves a sent quotation as rejected by the client.
func (s *Service) MarkRejected(ctx context.Context, docID id.ID) (*documents.Document, error) {
	return s.transition(ctx, docID, documents.StatusRejected)
}

// MarkLost resolves a sent quotation as lost (went cold, no client decision).
func (s *Service) MarkLost(ctx context.Context, docID id.ID) (*documents.Document, error) {
	return s.transition(ctx, docID, documents.StatusLost)
}

// MarkWon resolves a sent quotation as won and derives the invoice in the
// same transaction. Winning an already-won quotation returns the existing
// invoice instead of minting a duplicate.
func (s *Service) MarkWon(ctx context.Context, docID id.ID) (*documents.Document, error) {
	var invoice *documents.Document

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := s.requireKind(q); err != nil {
			return err
		}
		if err := security.GetScope(ctx).RequireAccess(q.TenantID); err != nil {
			return err
		}

		if q.Status == documents.StatusWon {
			existing, err := s.repo.GetByLinkedID(ctx, q.ID, documents.KindInvoice)
			if err == nil {
				invoice = existing
				return nil
			}
			if !apperror.IsNotFound(err) {
				return err
			}
			// Won but the invoice is missing; fall through and derive it.
		} else {
			from := q.Status
			if err := q.Transition(documents.StatusWon); err != nil {
				return err
			}
			q.Touch(s.clock())
			if err := s.repo.Update(ctx, q); err != nil {
				return fmt.Errorf("update quotation: %w", err)
			}
			if err := s.recordTransition(ctx, q, from, documents.StatusWon); err != nil {
				return err
			}
		}

		lines, err := s.repo.GetLines(ctx, q.ID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		q.Lines = lines

		inv, err := documents.DeriveInvoice(q, s.clock())
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save invoice lines: %w", err)
		}
		if err := s.record(ctx, inv, documents.AuditDerive, map[string]any{
			"code":   inv.Code,
			"origin": q.Code,
		}); err != nil {
			return err
		}

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quotation won", "id", docID, "invoice_code", invoice.Code)
	return invoice, nil
}

// Clone copies a quotation into a fresh draft with a new code stamped from
// the current clock reading. This is the supported way to revise sent or
// resolved quotations.
func (s *Service) Clone(ctx context.Context, docID id.ID) (*documents.Document, error) {
	origin, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	clone := documents.New(documents.KindQuotation, origin.TenantID, origin.Client, origin.Business, s.clock())
	clone.ClientID = origin.ClientID
	clone.BusinessID = origin.BusinessID
	clone.Notes = origin.Notes
	for _, line := range origin.Lines {
		clone.AddLine(line.ProductID, line.Description, line.Quantity, line.UnitPrice)
	}
	clone.SetDiscount(origin.Discount)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, clone); err != nil {
			return fmt.Errorf("create quotation: %w", err)
		}
		if err := s.repo.SaveLines(ctx, clone.ID, clone.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return s.record(ctx, clone, documents.AuditCreate, map[string]any{
			"code":   clone.Code,
			"origin": origin.Code,
		})
	})
	if err != nil {
		return nil, err
	}

	return clone, nil
}

// Delete always refuses: quotations are part of the commercial record and
// stay queryable forever, regardless of the caller's role.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return apperror.NewProcedurallyLocked("hard delete", "quotation")
}

// List retrieves quotations with filtering, re-scoped to the caller's tenant.
func (s *Service) List(ctx context.Context, f documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	kind := documents.KindQuotation
	f.Kind = &kind

	result, err := s.repo.List(ctx, f)
	if err != nil {
		return result, err
	}
	result.Items = security.FilterVisible(security.GetScope(ctx), result.Items)
	return result, nil
}

// --- internals ---

func (s *Service) requireKind(doc *documents.Document) error {
	if doc.Kind != documents.KindQuotation {
		return apperror.NewNotFound("quotation", doc.ID.String())
	}
	return nil
}

func (s *Service) loadWithLines(ctx context.Context, docID id.ID) (*documents.Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := s.requireKind(doc); err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines
	return doc, nil
}

func (s *Service) transition(ctx context.Context, docID id.ID, to documents.Status) (*documents.Document, error) {
	var doc *documents.Document

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := s.requireKind(current); err != nil {
			return err
		}
		if err := security.GetScope(ctx).RequireAccess(current.TenantID); err != nil {
			return err
		}

		from := current.Status
		if err := current.Transition(to); err != nil {
			return err
		}
		current.Touch(s.clock())
		if err := s.repo.Update(ctx, current); err != nil {
			return fmt.Errorf("update quotation: %w", err)
		}
		if err := s.recordTransition(ctx, current, from, to); err != nil {
			return err
		}

		doc = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quotation status changed", "id", docID, "status", to)
	return doc, nil
}

func (s *Service) record(ctx context.Context, doc *documents.Document, action documents.AuditAction, changes map[string]any) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Record(ctx, string(doc.Kind), doc.ID, action, changes)
}

func (s *Service) recordTransition(ctx context.Context, doc *documents.Document, from, to documents.Status) error {
	return s.record(ctx, doc, documents.AuditTransition, map[string]any{
		"status": map[string]any{"old": string(from), "new": string(to)},
		"code":   doc.Code,
	})
}
