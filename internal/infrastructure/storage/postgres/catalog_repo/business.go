package catalog_repo

import (
	"billhub/internal/domain/catalogs/business"
	"billhub/internal/infrastructure/storage/postgres"
)

const businessTable = "cat_businesses"

// Compile-time check.
var _ business.Repository = (*BusinessRepo)(nil)

// BusinessRepo implements business.Repository.
type BusinessRepo struct {
	*BaseCatalogRepo[*business.Business]
}

// NewBusinessRepo creates a new business repository.
func NewBusinessRepo(txManager *postgres.TxManager) *BusinessRepo {
	return &BusinessRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*business.Business](
			txManager,
			businessTable,
			postgres.ExtractDBColumns[business.Business](),
			func() *business.Business { return &business.Business{} },
		),
	}
}
