// internal/service/order/infrastructure/adapter/catalog_http_adapter.go
package adapter

import (
	"context"

	"oms/internal/pkg/httpclient"
	"oms/internal/service/order/domain/port"
)

const productsValidatePath = "/products/validate"

// CatalogHTTPAdapter implements port.CatalogService against the product
// catalog's validate endpoint. The instance is resolved through the registry
// on every call.
type CatalogHTTPAdapter struct {
	client  *httpclient.Client
	service string
}

func NewCatalogHTTPAdapter(client *httpclient.Client, service string) *CatalogHTTPAdapter {
	return &CatalogHTTPAdapter{client: client, service: service}
}

type validateProductsRequest struct {
	IDs []string `json:"ids"`
}

type productPayload struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ValidateProducts sends the full id set in one batched call. Ids the catalog
// does not know are simply absent from the reply; presence checking is the
// caller's job.
func (a *CatalogHTTPAdapter) ValidateProducts(ctx context.Context, ids []string) ([]port.Product, error) {
	var payload []productPayload
	err := a.client.PostJSON(ctx, a.service, productsValidatePath, validateProductsRequest{IDs: ids}, &payload)
	if err != nil {
		return nil, err
	}

	products := make([]port.Product, 0, len(payload))
	for _, p := range payload {
		products = append(products, port.Product{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return products, nil
}
