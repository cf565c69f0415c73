package repository

import (
	"context"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// CatalogRepository reads the catalog surface the engine depends on. The only
// write-back is the derived rating average, owned by the rating repository.
type CatalogRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]model.CatalogItem, error)
	// CategoriesForItems resolves the (possibly multi-valued) category set of
	// each item.
	CategoriesForItems(ctx context.Context, ids []string) (map[string][]string, error)
}
