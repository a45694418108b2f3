package quotation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billhub/internal/core/apperror"
	appctx "billhub/internal/core/context"
	"billhub/internal/core/types"
	"billhub/internal/domain"
	"billhub/internal/domain/catalogs/business"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/domain/documents"
	"billhub/internal/domain/documents/documenttest"
)

var fixedTime = time.Date(2026, time.February, 4, 10, 15, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func tenantCtx(tenantID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   "u1",
		TenantID: tenantID,
		Role:     "tenant_user",
	})
}

func newFixture(t *testing.T) (*Service, *documenttest.FakeRepo, *client.Client, *business.Business) {
	t.Helper()

	repo := documenttest.NewFakeRepo()
	txm := documenttest.PassThroughTx{}

	cl := client.NewClient("B1", "Alice Tech")
	cl.Email = "alice@example.com"
	biz := business.NewBusiness("B1", "Main profile", "Alice Solutions Ltd")

	clients := client.NewService(documenttest.NewFakeClientRepo(cl), nil, txm)
	businesses := business.NewService(documenttest.NewFakeBusinessRepo(biz), nil, txm)

	svc := NewService(repo, txm, fixedClock, clients, businesses, documents.NopAuditor{})
	return svc, repo, cl, biz
}

func createQuotation(t *testing.T, svc *Service, cl *client.Client, biz *business.Business) *documents.Document {
	t.Helper()

	doc, err := svc.Create(tenantCtx("B1"), CreateParams{
		ClientID:   cl.ID,
		BusinessID: biz.ID,
		Lines: []LineInput{
			{Description: "Consulting", Quantity: 1, UnitPrice: types.MustMoney("20000")},
		},
	})
	require.NoError(t, err)
	return doc
}

func TestCreate_StampsCodeAndSnapshots(t *testing.T) {
	svc, _, cl, biz := newFixture(t)

	doc := createQuotation(t, svc, cl, biz)

	assert.Equal(t, "Q-ATAS-0204261015", doc.Code)
	assert.Equal(t, documents.StatusToSend, doc.Status)
	assert.Equal(t, "B1", doc.TenantID)
	assert.Equal(t, "Alice Tech", doc.Client.Name)
	assert.Equal(t, "Alice Solutions Ltd", doc.Business.Company)
	assert.True(t, types.MoneyEqual(types.MustMoney("23000"), doc.GrandTotal))
}

func TestCreate_ForeignClientRefused(t *testing.T) {
	svc, _, cl, biz := newFixture(t)

	_, err := svc.Create(tenantCtx("B2"), CreateParams{
		ClientID:   cl.ID,
		BusinessID: biz.ID,
		Lines:      []LineInput{{Description: "Work", Quantity: 1, UnitPrice: types.MustMoney("10")}},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestMarkWon_DerivesInvoiceOnce(t *testing.T) {
	svc, repo, cl, biz := newFixture(t)
	ctx := tenantCtx("B1")

	q := createQuotation(t, svc, cl, biz)
	_, err := svc.MarkSent(ctx, q.ID)
	require.NoError(t, err)

	inv, err := svc.MarkWon(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.KindInvoice, inv.Kind)
	assert.Equal(t, "INV-ATAS-0204261015", inv.Code)
	assert.Equal(t, documents.StatusPending, inv.Status)
	require.NotNil(t, inv.LinkedDocumentID)
	assert.Equal(t, q.ID, *inv.LinkedDocumentID)

	// Winning again is idempotent: same invoice, no duplicate
	again, err := svc.MarkWon(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, again.ID)
	assert.Equal(t, 1, repo.CountByKind(documents.KindInvoice))

	stored, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, documents.StatusWon, stored.Status)
}

func TestMarkWon_RequiresSent(t *testing.T) {
	svc, _, cl, biz := newFixture(t)
	ctx := tenantCtx("B1")

	q := createQuotation(t, svc, cl, biz)

	_, err := svc.MarkWon(ctx, q.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}

func TestMarkRejected_Terminal(t *testing.T) {
	svc, _, cl, biz := newFixture(t)
	ctx := tenantCtx("B1")

	q := createQuotation(t, svc, cl, biz)
	_, err := svc.MarkSent(ctx, q.ID)
	require.NoError(t, err)
	_, err = svc.MarkRejected(ctx, q.ID)
	require.NoError(t, err)

	// Rejected is terminal: no way back to sent or forward to won
	_, err = svc.MarkWon(ctx, q.ID)
	assert.Error(t, err)
	_, err = svc.MarkSent(ctx, q.ID)
	assert.Error(t, err)
}

func TestDelete_AlwaysProcedurallyLocked(t *testing.T) {
	svc, _, cl, biz := newFixture(t)

	q := createQuotation(t, svc, cl, biz)

	// Even the platform super admin cannot hard-delete
	superCtx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: "root", Role: "platform_super_admin",
	})
	err := svc.Delete(superCtx, q.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsProcedurallyLocked(err))
}

func TestClone_FreshDraftKeepsContent(t *testing.T) {
	svc, _, cl, biz := newFixture(t)
	ctx := tenantCtx("B1")

	q := createQuotation(t, svc, cl, biz)
	_, err := svc.MarkSent(ctx, q.ID)
	require.NoError(t, err)
	_, err = svc.MarkLost(ctx, q.ID)
	require.NoError(t, err)

	clone, err := svc.Clone(ctx, q.ID)
	require.NoError(t, err)

	assert.NotEqual(t, q.ID, clone.ID)
	assert.Equal(t, documents.StatusToSend, clone.Status)
	assert.Nil(t, clone.LinkedDocumentID)
	require.Len(t, clone.Lines, 1)
	assert.True(t, types.MoneyEqual(q.GrandTotal, clone.GrandTotal))
}

func TestList_FiltersForeignTenants(t *testing.T) {
	svc, repo, cl, biz := newFixture(t)

	createQuotation(t, svc, cl, biz)
	repo.Seed(documenttest.NewDocument(documents.KindQuotation, "B2", fixedTime))

	result, err := svc.List(tenantCtx("B1"), documents.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "B1", result.Items[0].TenantID)
}
