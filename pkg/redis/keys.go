package redis

import "fmt"

// RateLimitKey scopes the checkout rate limiter to one authenticated user.
func RateLimitKey(userID string) string {
	return fmt.Sprintf("medmarket:ratelimit:checkout:%s", userID)
}

// ProfileAddressKey stores a buyer's most recent delivery address for
// checkout prefill.
func ProfileAddressKey(buyerID string) string {
	return fmt.Sprintf("medmarket:profile:address:%s", buyerID)
}

// OrderStatusKey caches the latest fulfillment status per order number,
// maintained by the tracker consumer.
func OrderStatusKey(orderNo string) string {
	return fmt.Sprintf("medmarket:order:status:%s", orderNo)
}
