// internal/service/order/domain/port/catalog.go
package port

import "context"

// Product is the catalog's authoritative view of one product.
type Product struct {
	ID    string
	Name  string
	Price float64
}

// CatalogService is the outbound port to the product catalog. ValidateProducts
// takes the full id set in one batched call; ids unknown to the catalog are
// simply absent from the reply.
type CatalogService interface {
	ValidateProducts(ctx context.Context, ids []string) ([]Product, error)
}
