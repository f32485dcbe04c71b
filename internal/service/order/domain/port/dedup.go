// internal/service/order/domain/port/dedup.go
package port

import "context"

// EventDeduper guards against redelivered notifications. FirstDelivery
// reports whether key has not been seen before; errors must fail open at the
// call site, since the store-level upsert already makes redelivery safe.
// Release gives the claim back when processing fails, so the next delivery
// of the same event is not mistaken for a duplicate.
type EventDeduper interface {
	FirstDelivery(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
