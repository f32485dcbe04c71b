// internal/service/order/infrastructure/adapter/dedup_redis_adapter.go
package adapter

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const dedupKeyTTL = 24 * time.Hour

// DedupRedisAdapter implements port.EventDeduper with a SETNX claim per
// delivery key. The TTL only bounds memory; expiry past it is harmless
// because the store-level upsert is idempotent anyway.
type DedupRedisAdapter struct {
	client *goredis.Client
}

func NewDedupRedisAdapter(client *goredis.Client) *DedupRedisAdapter {
	return &DedupRedisAdapter{client: client}
}

func (a *DedupRedisAdapter) FirstDelivery(ctx context.Context, key string) (bool, error) {
	claimed, err := a.client.SetNX(ctx, dedupKey(key), 1, dedupKeyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("claim dedup key: %w", err)
	}
	return claimed, nil
}

func (a *DedupRedisAdapter) Release(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, dedupKey(key)).Err(); err != nil {
		return fmt.Errorf("release dedup key: %w", err)
	}
	return nil
}

func dedupKey(key string) string {
	return fmt.Sprintf("orders:payment:dedup:{%s}", key)
}
