package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/kernel"
)

// ProductRepository reads catalog products. The workflow never writes them.
type ProductRepository interface {
	// GetMany returns the products with the given ids. Missing ids are reported with
	// *errs.ObjectNotFoundError.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*catalog.Product, error)
}
