// Package statement provides client account statements: a point-in-time
// summary of a client's invoices and what remains outstanding on them.
package statement

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

// Service generates and reads client statements.
type Service struct {
	repo       documents.Repository
	txManager  tx.Manager
	clock      codegen.Clock
	clients    *client.Service
	businesses *business.Service
	auditor    documents.Auditor
}

// NewService creates a new statement service.
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
	}
}

// Generate builds a statement for a client: one line per invoice, with the
// statement's PaymentValue holding the sum already received and BalanceDue
// the amount still outstanding. The statement itself is a stored document
// with its own code, so the client can be sent exactly what was generated.
func (s *Service) Generate(ctx context.Context, clientID, businessID id.ID) (*documents.Document, error) {
	scope := security.GetScope(ctx)

	cl, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := scope.RequireAccess(cl.TenantID); err != nil {
		return nil, err
	}

	biz, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := scope.RequireAccess(biz.TenantID); err != nil {
		return nil, err
	}

	kind := documents.KindInvoice
	invoices, err := s.repo.List(ctx, documents.ListFilter{
		ListFilter: domain.ListFilter{OrderBy: "issued_at", Limit: 1000},
		Kind:       &kind,
		ClientID:   &clientID,
	})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	visible := security.FilterVisible(scope, invoices.Items)
	if len(visible) == 0 {
		return nil, apperror.NewNotFound("invoices for client", clientID.String())
	}

	stm := documents.New(documents.KindStatement, cl.TenantID, cl.Snapshot(), biz.Snapshot(), s.clock())
	stm.ClientID = cl.ID
	stm.BusinessID = biz.ID

	received := types.Zero()
	for _, inv := range visible {
		stm.AddLine(nil, fmt.Sprintf("Invoice %s (%s)", inv.Code, inv.Status), 1, inv.GrandTotal)
		if inv.Status == documents.StatusPaid {
			received = received.Add(inv.PaymentValue)
		}
	}
	stm.Recalculate()

	// Statement totals are the raw invoice sums; the flat tax is already
	// inside each invoice's grand total, so no second tax pass applies.
	total := types.Zero()
	for _, inv := range visible {
		total = total.Add(inv.GrandTotal)
	}
	stm.Subtotal = types.RoundMoney(total)
	stm.PreTax = stm.Subtotal
	stm.Tax = types.Zero()
	stm.GrandTotal = stm.Subtotal
	stm.PaymentValue = types.RoundMoney(received)
	stm.BalanceDue = types.RoundMoney(total.Sub(received))

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, stm); err != nil {
			return fmt.Errorf("create statement: %w", err)
		}
		if err := s.repo.SaveLines(ctx, stm.ID, stm.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		if s.auditor != nil {
			return s.auditor.Record(ctx, string(stm.Kind), stm.ID, documents.AuditCreate, map[string]any{
				"code":      stm.Code,
				"client_id": cl.ID.String(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "statement generated",
		"code", stm.Code,
		"client_id", cl.ID,
		"balance_due", stm.BalanceDue)
	return stm, nil
}

// GetByID retrieves a statement with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*documents.Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.Kind != documents.KindStatement {
		return nil, apperror.NewNotFound("statement", docID.String())
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

// List retrieves statements with filtering, re-scoped to the caller's tenant.
func (s *Service) List(ctx context.Context, f documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	kind := documents.KindStatement
	f.Kind = &kind

	result, err := s.repo.List(ctx, f)
	if err != nil {
		return result, err
	}
	result.Items = security.FilterVisible(security.GetScope(ctx), result.Items)
	return result, nil
}
