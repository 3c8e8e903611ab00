package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DeliveryDedupRepo remembers GitHub webhook delivery GUIDs in Redis so
// redelivered webhooks are acknowledged without being reprocessed.
type DeliveryDedupRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewDeliveryDedupRepo creates a new DeliveryDedupRepo with the given Redis client.
func NewDeliveryDedupRepo(client redis.UniversalClient, ttl time.Duration) *DeliveryDedupRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DeliveryDedupRepo{client: client, ttl: ttl}
}

// MarkSeen atomically records a delivery GUID. Returns true if this is the
// first time the GUID was seen.
func (r *DeliveryDedupRepo) MarkSeen(ctx context.Context, deliveryGUID string) (bool, error) {
	if deliveryGUID == "" {
		return false, errors.New("delivery guid cannot be empty")
	}

	first, err := r.client.SetNX(ctx, "webhook:delivery:"+deliveryGUID, 1, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return first, nil
}
