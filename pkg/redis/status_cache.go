package redis

import (
	"context"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// statusCacheTTL bounds staleness if the tracker falls behind or dies.
const statusCacheTTL = 24 * time.Hour

// PutOrderStatus records the latest fulfillment status for an order.
// Last-write-wins; events for one order share a partition so they arrive in
// publish order.
func PutOrderStatus(ctx context.Context, rdb *rd.Client, orderNo, status string) error {
	return rdb.Set(ctx, OrderStatusKey(orderNo), status, statusCacheTTL).Err()
}

// GetOrderStatus returns the cached status. found=false means no event has
// been observed for that order yet.
func GetOrderStatus(ctx context.Context, rdb *rd.Client, orderNo string) (string, bool, error) {
	s, err := rdb.Get(ctx, OrderStatusKey(orderNo)).Result()
	if err == rd.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}
