package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billhub/internal/core/apperror"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/infrastructure/storage/postgres"
)

const clientTable = "cat_clients"

// Compile-time check.
var _ client.Repository = (*ClientRepo)(nil)

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txManager *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*client.Client](
			txManager,
			clientTable,
			postgres.ExtractDBColumns[client.Client](),
			func() *client.Client { return &client.Client{} },
		),
	}
}

// FindByEmail retrieves a client by email within the caller's tenant.
func (r *ClientRepo) FindByEmail(ctx context.Context, email string) (*client.Client, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	c, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("client", email)
		}
		return nil, err
	}
	return c, nil
}
