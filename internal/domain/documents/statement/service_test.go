package statement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "billhub/internal/core/context"
	"billhub/internal/core/types"
	"billhub/internal/domain/catalogs/business"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/domain/documents"
	"billhub/internal/domain/documents/documenttest"
)

var fixedTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func tenantCtx(tenantID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   "u1",
		TenantID: tenantID,
		Role:     "tenant_user",
	})
}

func TestGenerate_SummarizesOutstanding(t *testing.T) {
	repo := documenttest.NewFakeRepo()
	txm := documenttest.PassThroughTx{}

	cl := client.NewClient("B1", "Alice Tech")
	biz := business.NewBusiness("B1", "Main profile", "Alice Solutions Ltd")
	clients := client.NewService(documenttest.NewFakeClientRepo(cl), nil, txm)
	businesses := business.NewService(documenttest.NewFakeBusinessRepo(biz), nil, txm)

	// One paid invoice (23000, fully settled), one pending (11500)
	paid := documenttest.NewDocument(documents.KindInvoice, "B1", fixedTime)
	paid.ClientID = cl.ID
	paid.Lines = nil
	paid.AddLine(nil, "Phase one", 1, types.MustMoney("20000"))
	paid.Status = documents.StatusPaid
	paid.PaymentValue = types.MustMoney("23000")
	repo.Seed(paid)

	pending := documenttest.NewDocument(documents.KindInvoice, "B1", fixedTime)
	pending.ClientID = cl.ID
	pending.Lines = nil
	pending.AddLine(nil, "Phase two", 1, types.MustMoney("10000"))
	repo.Seed(pending)

	svc := NewService(repo, txm, fixedClock, clients, businesses, documents.NopAuditor{})

	stm, err := svc.Generate(tenantCtx("B1"), cl.ID, biz.ID)
	require.NoError(t, err)

	assert.Equal(t, documents.KindStatement, stm.Kind)
	assert.Equal(t, documents.StatusIssued, stm.Status)
	assert.Len(t, stm.Lines, 2)

	// 23000 + 11500 invoiced, 23000 received, 11500 outstanding
	assert.True(t, types.MoneyEqual(types.MustMoney("34500"), stm.GrandTotal), "grand = %s", stm.GrandTotal)
	assert.True(t, types.MoneyEqual(types.MustMoney("23000"), stm.PaymentValue))
	assert.True(t, types.MoneyEqual(types.MustMoney("11500"), stm.BalanceDue))

	// Invoice totals already include tax; no second tax pass
	assert.True(t, stm.Tax.IsZero())
}

func TestGenerate_NoInvoices(t *testing.T) {
	repo := documenttest.NewFakeRepo()
	txm := documenttest.PassThroughTx{}

	cl := client.NewClient("B1", "Alice Tech")
	biz := business.NewBusiness("B1", "Main profile", "Alice Solutions Ltd")
	clients := client.NewService(documenttest.NewFakeClientRepo(cl), nil, txm)
	businesses := business.NewService(documenttest.NewFakeBusinessRepo(biz), nil, txm)

	svc := NewService(repo, txm, fixedClock, clients, businesses, documents.NopAuditor{})

	_, err := svc.Generate(tenantCtx("B1"), cl.ID, biz.ID)
	assert.Error(t, err)
}

func TestGenerate_IgnoresForeignInvoices(t *testing.T) {
	repo := documenttest.NewFakeRepo()
	txm := documenttest.PassThroughTx{}

	cl := client.NewClient("B1", "Alice Tech")
	biz := business.NewBusiness("B1", "Main profile", "Alice Solutions Ltd")
	clients := client.NewService(documenttest.NewFakeClientRepo(cl), nil, txm)
	businesses := business.NewService(documenttest.NewFakeBusinessRepo(biz), nil, txm)

	// Foreign-tenant invoice referencing the same client ID must not leak in
	foreign := documenttest.NewDocument(documents.KindInvoice, "B2", fixedTime)
	foreign.ClientID = cl.ID
	repo.Seed(foreign)

	own := documenttest.NewDocument(documents.KindInvoice, "B1", fixedTime)
	own.ClientID = cl.ID
	own.Lines = nil
	own.AddLine(nil, "Work", 1, types.MustMoney("10000"))
	repo.Seed(own)

	svc := NewService(repo, txm, fixedClock, clients, businesses, documents.NopAuditor{})

	stm, err := svc.Generate(tenantCtx("B1"), cl.ID, biz.ID)
	require.NoError(t, err)
	assert.Len(t, stm.Lines, 1)
	assert.True(t, types.MoneyEqual(types.MustMoney("11500"), stm.GrandTotal))
}
