package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billhub/internal/core/apperror"
	appctx "billhub/internal/core/context"
	"billhub/internal/core/types"
	"billhub/internal/domain/documents"
	"billhub/internal/domain/documents/documenttest"
)

var fixedTime = time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func tenantCtx(tenantID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   "u1",
		TenantID: tenantID,
		Role:     "tenant_user",
	})
}

// seedInvoice stores a pending invoice with a 23000 grand total.
func seedInvoice(t *testing.T, repo *documenttest.FakeRepo) *documents.Document {
	t.Helper()

	inv := documenttest.NewDocument(documents.KindInvoice, "B1", fixedTime)
	inv.Lines = nil
	inv.AddLine(nil, "Consulting", 1, types.MustMoney("20000"))
	repo.Seed(inv)

	require.True(t, types.MoneyEqual(types.MustMoney("23000"), inv.GrandTotal))
	return inv
}

func newFixture(t *testing.T) (*Service, *documenttest.FakeRepo) {
	t.Helper()
	repo := documenttest.NewFakeRepo()
	svc := NewService(repo, documenttest.PassThroughTx{}, fixedClock, documents.NopAuditor{})
	return svc, repo
}

func TestRegisterPayment_CashSettlesImmediately(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := tenantCtx("B1")
	inv := seedInvoice(t, repo)

	rct, err := svc.RegisterPayment(ctx, inv.ID, PaymentParams{
		Value:  types.MustMoney("23000"),
		Method: documents.PaymentCash,
	})
	require.NoError(t, err)
	require.NotNil(t, rct)

	assert.Equal(t, documents.KindReceipt, rct.Kind)
	assert.Equal(t, documents.StatusReceived, rct.Status)
	assert.True(t, rct.BalanceDue.IsZero())

	stored, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusPaid, stored.Status)
}

func TestRegisterPayment_PartialLeavesBalanceDue(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := tenantCtx("B1")
	inv := seedInvoice(t, repo)

	rct, err := svc.RegisterPayment(ctx, inv.ID, PaymentParams{
		Value:  types.MustMoney("12000"),
		Method: documents.PaymentApp,
	})
	require.NoError(t, err)
	require.NotNil(t, rct)

	assert.True(t, types.MoneyEqual(types.MustMoney("12000"), rct.PaymentValue))
	assert.True(t, types.MoneyEqual(types.MustMoney("11000"), rct.BalanceDue))
}

func TestRegisterPayment_ChequeParksUnbanked(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := tenantCtx("B1")
	inv := seedInvoice(t, repo)

	rct, err := svc.RegisterPayment(ctx, inv.ID, PaymentParams{
		Value:     types.MustMoney("23000"),
		Method:    documents.PaymentCheque,
		Reference: "CHQ-0042",
	})
	require.NoError(t, err)
	assert.Nil(t, rct, "no receipt until the cheque is banked")

	stored, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusUnbanked, stored.Status)
	require.NotNil(t, stored.Payment)
	assert.Equal(t, "CHQ-0042", stored.Payment.Reference)
	assert.Equal(t, 0, repo.CountByKind(documents.KindReceipt))
}

func TestConfirmBanking_DerivesReceiptFromStoredInstrument(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := tenantCtx("B1")
	inv := seedInvoice(t, repo)

	_, err := svc.RegisterPayment(ctx, inv.ID, PaymentParams{
		Value:     types.MustMoney("23000"),
		Method:    documents.PaymentBankTransfer,
		Reference: "TRX-4711",
	})
	require.NoError(t, err)

	rct, err := svc.ConfirmBanking(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, rct)

	assert.Equal(t, documents.PaymentBankTransfer, rct.Payment.Method)
	assert.Equal(t, "TRX-4711", rct.Payment.Reference)
	assert.True(t, rct.BalanceDue.IsZero())

	stored, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusPaid, stored.Status)
}

func TestConfirmBanking_RequiresRegisteredPayment(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := tenantCtx("B1")
	inv := seedInvoice(t, repo)

	_, err := svc.ConfirmBanking(ctx, inv.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestRegisterPayment_PaidIsIdempotent(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := tenantCtx("B1")
	inv := seedInvoice(t, repo)

	first, err := svc.RegisterPayment(ctx, inv.ID, PaymentParams{
		Value:  types.MustMoney("23000"),
		Method: documents.PaymentCash,
	})
	require.NoError(t, err)

	second, err := svc.RegisterPayment(ctx, inv.ID, PaymentParams{
		Value:  types.MustMoney("23000"),
		Method: documents.PaymentCash,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.CountByKind(documents.KindReceipt))
}

func TestRegisterPayment_ForeignTenantRefused(t *testing.T) {
	svc, repo := newFixture(t)
	inv := seedInvoice(t, repo)

	_, err := svc.RegisterPayment(tenantCtx("B2"), inv.ID, PaymentParams{
		Value:  types.MustMoney("23000"),
		Method: documents.PaymentCash,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestRegisterPayment_RejectsBadInput(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := tenantCtx("B1")
	inv := seedInvoice(t, repo)

	_, err := svc.RegisterPayment(ctx, inv.ID, PaymentParams{
		Value:  types.Zero(),
		Method: documents.PaymentCash,
	})
	assert.Error(t, err)

	_, err = svc.RegisterPayment(ctx, inv.ID, PaymentParams{
		Value:  types.MustMoney("10"),
		Method: documents.PaymentMethod("barter"),
	})
	assert.Error(t, err)
}

func TestDelete_AlwaysProcedurallyLocked(t *testing.T) {
	svc, repo := newFixture(t)
	inv := seedInvoice(t, repo)

	err := svc.Delete(tenantCtx("B1"), inv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsProcedurallyLocked(err))
}
