package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"billhub/internal/core/entity"
	"billhub/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name", "tenant_id", "email", "phone",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
			Code:     "CL-2026-00001",
			Name:     "Acme Trading",
			TenantID: "B1",
		},
		Email: "acme@example.com",
		Phone: "555-0101",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "CL-2026-00001", m["code"])
	assert.Equal(t, "Acme Trading", m["name"])
	assert.Equal(t, "B1", m["tenant_id"])
	assert.Equal(t, "acme@example.com", m["email"])
	assert.Equal(t, "555-0101", m["phone"])
}

func TestStructToMap_SkipsUntaggedFields(t *testing.T) {
	type withUntagged struct {
		Code   string `db:"code"`
		Hidden string `db:"-"`
		Plain  string
	}

	m := StructToMap(withUntagged{Code: "X", Hidden: "h", Plain: "p"})

	assert.Equal(t, map[string]any{"code": "X"}, m)
}
