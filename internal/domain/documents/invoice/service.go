// Package invoice provides the invoice workflow: payment registration,
// banking confirmation and receipt derivation.
package invoice

import (
	"context"
	"fmt"
	"time"

	"billhub/internal/core/apperror"
	"billhub/internal/core/codegen"
	"billhub/internal/core/id"
	"billhub/internal/core/security"
	"billhub/internal/core/tx"
	"billhub/internal/core/types"
	"billhub/internal/domain"
	"billhub/internal/domain/documents"
	"billhub/pkg/logger"
)

// PaymentParams collects the inputs for registering a payment.
type PaymentParams struct {
	// Value is the amount actually received. May be less than the invoice
	// total; the shortfall lands on the receipt as BalanceDue.
	Value types.Money

	Method documents.PaymentMethod

	// Reference is instrument-specific: cheque number, transfer reference,
	// payment-app transaction id
	Reference string
}

// Service provides business operations for invoices.
type Service struct {
	repo      documents.Repository
	txManager tx.Manager
	clock     codegen.Clock
	auditor   documents.Auditor
}

// NewService creates a new invoice service.
func NewService(repo documents.Repository, txManager tx.Manager, clock codegen.Clock, auditor documents.Auditor) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		clock:     clock,
		auditor:   auditor,
	}
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*documents.Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := s.requireKind(doc); err != nil {
		return nil, err
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

// RegisterPayment settles a pending invoice. Cash and payment-app payments
// are final immediately: the invoice goes to paid and the receipt is derived
// in the same transaction. Cheques and bank transfers park the invoice in
// unbanked until ConfirmBanking; the instrument details are stored so the
// eventual receipt carries them.
//
// Registering a payment on an already-paid invoice returns the existing
// receipt, so retried requests never double-settle.
//
// Returns the receipt, or nil when the invoice went to unbanked.
func (s *Service) RegisterPayment(ctx context.Context, docID id.ID, params PaymentParams) (*documents.Document, error) {
	if !params.Value.IsPositive() {
		return nil, apperror.NewValidation("payment value must be positive").
			WithDetail("field", "value")
	}
	if _, err := documents.ParsePaymentMethod(string(params.Method)); err != nil {
		return nil, err
	}

	var receipt *documents.Document

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.lockInvoice(ctx, docID)
		if err != nil {
			return err
		}

		if inv.Status == documents.StatusPaid {
			existing, err := s.repo.GetByLinkedID(ctx, inv.ID, documents.KindReceipt)
			if err != nil {
				return err
			}
			receipt = existing
			return nil
		}

		from := inv.Status
		now := s.clock()
		payment := documents.PaymentDetails{
			Method:     params.Method,
			Reference:  params.Reference,
			ReceivedAt: now.UTC(),
		}

		if params.Method.RequiresBanking() {
			// Park until the bank statement confirms the funds.
			if err := inv.Transition(documents.StatusUnbanked); err != nil {
				return err
			}
			inv.Payment = &payment
			inv.PaymentValue = types.RoundMoney(params.Value)
			inv.Touch(now)
			if err := s.repo.Update(ctx, inv); err != nil {
				return fmt.Errorf("update invoice: %w", err)
			}
			return s.recordTransition(ctx, inv, from, documents.StatusUnbanked)
		}

		receipt, err = s.settle(ctx, inv, params.Value, payment, now)
		if err != nil {
			return err
		}
		return s.recordTransition(ctx, inv, from, documents.StatusPaid)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment registered", "invoice", docID, "method", params.Method)
	return receipt, nil
}

// ConfirmBanking moves an unbanked invoice to paid once the cheque or
// transfer shows on the bank statement, deriving the receipt from the
// instrument details stored at registration time.
func (s *Service) ConfirmBanking(ctx context.Context, docID id.ID) (*documents.Document, error) {
	var receipt *documents.Document

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.lockInvoice(ctx, docID)
		if err != nil {
			return err
		}

		if inv.Status == documents.StatusPaid {
			existing, err := s.repo.GetByLinkedID(ctx, inv.ID, documents.KindReceipt)
			if err != nil {
				return err
			}
			receipt = existing
			return nil
		}

		if inv.Payment == nil {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"invoice has no registered payment to confirm",
			).WithDetail("invoice_id", inv.ID.String())
		}

		from := inv.Status
		receipt, err = s.settle(ctx, inv, inv.PaymentValue, *inv.Payment, s.clock())
		if err != nil {
			return err
		}
		return s.recordTransition(ctx, inv, from, documents.StatusPaid)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "banking confirmed", "invoice", docID, "receipt", receipt.Code)
	return receipt, nil
}

// Delete always refuses: invoices are part of the commercial record and stay
// queryable forever, regardless of the caller's role.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return apperror.NewProcedurallyLocked("hard delete", "invoice")
}

// List retrieves invoices with filtering, re-scoped to the caller's tenant.
func (s *Service) List(ctx context.Context, f documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	kind := documents.KindInvoice
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
	if doc.Kind != documents.KindInvoice {
		return apperror.NewNotFound("invoice", doc.ID.String())
	}
	return nil
}

func (s *Service) lockInvoice(ctx context.Context, docID id.ID) (*documents.Document, error) {
	inv, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		return nil, err
	}
	if err := s.requireKind(inv); err != nil {
		return nil, err
	}
	if err := security.GetScope(ctx).RequireAccess(inv.TenantID); err != nil {
		return nil, err
	}
	return inv, nil
}

// settle flips the invoice to paid and derives the receipt. Runs inside the
// caller's transaction.
func (s *Service) settle(ctx context.Context, inv *documents.Document, value types.Money, payment documents.PaymentDetails, now time.Time) (*documents.Document, error) {
	if err := inv.Transition(documents.StatusPaid); err != nil {
		return nil, err
	}
	inv.Payment = &payment
	inv.PaymentValue = types.RoundMoney(value)
	inv.Touch(now)
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	lines, err := s.repo.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	inv.Lines = lines

	rct, err := documents.DeriveReceipt(inv, value, payment, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rct); err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}
	if err := s.repo.SaveLines(ctx, rct.ID, rct.Lines); err != nil {
		return nil, fmt.Errorf("save receipt lines: %w", err)
	}
	if s.auditor != nil {
		err = s.auditor.Record(ctx, string(rct.Kind), rct.ID, documents.AuditDerive, map[string]any{
			"code":   rct.Code,
			"origin": inv.Code,
		})
		if err != nil {
			return nil, err
		}
	}
	return rct, nil
}

func (s *Service) recordTransition(ctx context.Context, doc *documents.Document, from, to documents.Status) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Record(ctx, string(doc.Kind), doc.ID, documents.AuditTransition, map[string]any{
		"status": map[string]any{"old": string(from), "new": string(to)},
		"code":   doc.Code,
	})
}
