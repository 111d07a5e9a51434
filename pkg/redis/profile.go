package redis

import (
	"context"
	"encoding/json"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// profileAddressTTL keeps stale prefill data from outliving an inactive
// account for too long.
const profileAddressTTL = 90 * 24 * time.Hour

// SaveDefaultAddress records the buyer's latest delivery address after a
// successful order. Best effort: callers log failures and never let them
// block order placement.
func SaveDefaultAddress(ctx context.Context, rdb *rd.Client, buyerID string, address any) error {
	b, err := json.Marshal(address)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, ProfileAddressKey(buyerID), b, profileAddressTTL).Err()
}

// GetDefaultAddress returns the stored address JSON. found=false means the
// buyer has no synced address yet.
func GetDefaultAddress(ctx context.Context, rdb *rd.Client, buyerID string) (string, bool, error) {
	s, err := rdb.Get(ctx, ProfileAddressKey(buyerID)).Result()
	if err == rd.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}
