// Package document_repo provides the PostgreSQL implementation for the
// commercial document store. All four document kinds share one table;
// every query carries a tenant predicate derived from the request scope.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billhub/internal/core/apperror"
	"billhub/internal/core/id"
	"billhub/internal/core/security"
	"billhub/internal/domain"
	"billhub/internal/domain/documents"
	"billhub/internal/infrastructure/storage/postgres"
)

const (
	documentTable = "doc_documents"
	lineTable     = "doc_document_lines"
)

// Compile-time check.
var _ documents.Repository = (*DocumentRepo)(nil)

// DocumentRepo implements documents.Repository.
type DocumentRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewDocumentRepo creates a new document repository.
func NewDocumentRepo(txManager *postgres.TxManager) *DocumentRepo {
	return &DocumentRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[documents.Document](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *DocumentRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *DocumentRepo) tenantPredicate(ctx context.Context) squirrel.Sqlizer {
	scope := security.GetScope(ctx)
	if scope.IsSuperAdmin() {
		return nil
	}
	return squirrel.Eq{"tenant_id": scope.TenantID}
}

func (r *DocumentRepo) baseSelect(ctx context.Context) squirrel.SelectBuilder {
	q := r.Builder().
		Select(r.selectCols...).
		From(documentTable)
	if pred := r.tenantPredicate(ctx); pred != nil {
		q = q.Where(pred)
	}
	return q
}

// Create inserts a new document. Lines are saved separately via SaveLines.
func (r *DocumentRepo) Create(ctx context.Context, doc *documents.Document) error {
	data := postgres.StructToMap(doc)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in document")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(documentTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("insert %s: %w", documentTable, err)
	}

	return nil
}

// Update modifies an existing document with optimistic locking.
func (r *DocumentRepo) Update(ctx context.Context, doc *documents.Document) error {
	data := postgres.StructToMap(doc)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in document")
	}

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("document has no 'version' field or it is not an int")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		// Identity, ownership and creation stamps never change
		if col == "id" || col == "tenant_id" || col == "kind" || col == "created_at" || col == "created_by" {
			continue
		}
		if col == "version" {
			continue // optimistic lock, managed here
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Update(documentTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": doc.ID}).
		Where(squirrel.Eq{"version": version})
	if pred := r.tenantPredicate(ctx); pred != nil {
		q = q.Where(pred)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", documentTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(documentTable, doc.ID)
	}

	return nil
}

// GetByID retrieves a document by ID.
func (r *DocumentRepo) GetByID(ctx context.Context, docID id.ID) (*documents.Document, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"id": docID})

	return r.getOne(ctx, q, docID.String())
}

// GetByCode retrieves a document by code.
func (r *DocumentRepo) GetByCode(ctx context.Context, code string) (*documents.Document, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"code": code})

	return r.getOne(ctx, q, code)
}

// GetByLinkedID finds the document of the given kind derived from origin.
func (r *DocumentRepo) GetByLinkedID(ctx context.Context, originID id.ID, kind documents.Kind) (*documents.Document, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"linked_document_id": originID}).
		Where(squirrel.Eq{"kind": kind}).
		Limit(1)

	return r.getOne(ctx, q, originID.String())
}

// GetForUpdate retrieves a document with row lock.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, docID id.ID) (*documents.Document, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"id": docID}).
		Suffix("FOR UPDATE")

	return r.getOne(ctx, q, docID.String())
}

func (r *DocumentRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*documents.Document, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := &documents.Document{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(documentTable, key)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// GetLines retrieves the table part of a document ordered by line number.
func (r *DocumentRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.LineItem, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "description", "quantity", "unit_price").
		From(lineTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []documents.LineItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the table part of a document.
func (r *DocumentRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.LineItem) error {
	querier := r.txManager.GetQuerier(ctx)

	delSQL, delArgs, err := r.Builder().
		Delete(lineTable).
		Where(squirrel.Eq{"document_id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	ins := r.Builder().
		Insert(lineTable).
		Columns("document_id", "line_id", "line_no", "product_id", "description", "quantity", "unit_price")
	for _, line := range lines {
		ins = ins.Values(docID, line.LineID, line.LineNo, line.ProductID, line.Description, line.Quantity, line.UnitPrice)
	}

	insSQL, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := querier.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves documents with filtering and pagination.
func (r *DocumentRepo) List(ctx context.Context, f documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	result := domain.ListResult[*documents.Document]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := r.baseSelect(ctx)

	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if f.Search != "" {
		q = q.Where(squirrel.ILike{"code": "%" + f.Search + "%"})
	}

	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": f.IDs})
	}

	if f.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *f.Kind})
	}
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *f.ClientID})
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"issued_at": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"issued_at": *f.DateTo})
	}

	// Count total (before pagination)
	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(f.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

func (r *DocumentRepo) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.selectCols))
	for _, col := range r.selectCols {
		allowed[col] = struct{}{}
	}

	if strings.TrimSpace(orderBy) == "" {
		return "issued_at DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return field + " " + direction, nil
}
