package catalog_repo

import (
	"context"
	"testing"

	appctx "billhub/internal/core/context"
	"billhub/internal/core/security"
	"billhub/internal/domain/filter"
)

func newTestRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "col1"}, func() any { return nil })
}

func tenantCtx(role string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   "U1",
		TenantID: "B1",
		Role:     role,
	})
}

func TestBaseSelect_TenantPredicate(t *testing.T) {
	repo := newTestRepo()
	ctx := tenantCtx(string(security.RoleTenantUser))

	sql, args, err := repo.baseSelect(ctx).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, col1 FROM test_table WHERE tenant_id = $1"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 1 || args[0] != "B1" {
		t.Errorf("Args mismatch\nwant: [B1]\ngot:  %v", args)
	}
}

func TestBaseSelect_SuperAdminUnscoped(t *testing.T) {
	repo := newTestRepo()
	ctx := tenantCtx(string(security.RolePlatformSuperAdmin))

	sql, args, err := repo.baseSelect(ctx).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, col1 FROM test_table"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestSetDeletionMark_TenantPredicate(t *testing.T) {
	repo := newTestRepo()
	ctx := tenantCtx(string(security.RoleTenantUser))

	q := repo.scopeUpdate(ctx, repo.Builder().
		Update(repo.tableName).
		Set("deletion_mark", true).
		Where("id = ?", "X"))

	sql, _, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "UPDATE test_table SET deletion_mark = $1 WHERE id = $2 AND tenant_id = $3"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
}

func TestApplyAdvancedFilters_Operators(t *testing.T) {
	repo := newTestRepo()
	ctx := tenantCtx(string(security.RolePlatformSuperAdmin))

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "GreaterOrEqual",
			item:     filter.Item{Field: "col1", Operator: filter.GreaterOrEqual, Value: 10},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 >= $1",
			wantArgs: []any{10},
		},
		{
			name:     "LessOrEqual",
			item:     filter.Item{Field: "col1", Operator: filter.LessOrEqual, Value: 5},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 <= $1",
			wantArgs: []any{5},
		},
		{
			name:     "Contains",
			item:     filter.Item{Field: "col1", Operator: filter.Contains, Value: "abc"},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 ILIKE $1",
			wantArgs: []any{"%abc%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseQ := repo.baseSelect(ctx)
			q, err := repo.applyAdvancedFilters(baseQ, []filter.Item{tt.item})
			if err != nil {
				t.Fatalf("applyAdvancedFilters failed: %v", err)
			}

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			if args[0] != tt.wantArgs[0] {
				t.Errorf("Args mismatch\nwant: %v\ngot:  %v", tt.wantArgs[0], args[0])
			}
		})
	}

	t.Run("UnknownColumnRejected", func(t *testing.T) {
		baseQ := repo.baseSelect(ctx)
		_, err := repo.applyAdvancedFilters(baseQ, []filter.Item{
			{Field: "evil; DROP TABLE", Operator: filter.Equal, Value: 1},
		})
		if err == nil {
			t.Fatal("expected error for unknown filter column")
		}
	})
}
