package documents

import (
	"context"

	"billhub/internal/core/id"
)

// AuditAction labels an audited document operation.
type AuditAction string

const (
	AuditCreate     AuditAction = "create"
	AuditUpdate     AuditAction = "update"
	AuditTransition AuditAction = "transition"
	AuditDerive     AuditAction = "derive"
)

// Auditor records document history. The storage layer implements it; services
// call it inside the same transaction as the change so the trail never drifts
// from the data.
type Auditor interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action AuditAction, changes map[string]any) error
}

// NopAuditor discards all records. Used in tests.
type NopAuditor struct{}

func (NopAuditor) Record(context.Context, string, id.ID, AuditAction, map[string]any) error {
	return nil
}
