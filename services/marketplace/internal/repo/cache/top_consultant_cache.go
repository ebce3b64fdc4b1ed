package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"estate-market/services/marketplace/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	topConsultantsKey = "top_consultants"
	topConsultantsTTL = 10 * time.Minute
)

type TopConsultantCache interface {
	Get(ctx context.Context) ([]*entity.TopConsultant, bool, error)
	Set(ctx context.Context, tops []*entity.TopConsultant) error
	Invalidate(ctx context.Context) error
}

type topConsultantCache struct {
	client *redis.Client
}

// NewTopConsultantCache always misses when client is nil.
func NewTopConsultantCache(client *redis.Client) TopConsultantCache {
	return &topConsultantCache{client: client}
}

func (c *topConsultantCache) Get(ctx context.Context) ([]*entity.TopConsultant, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, topConsultantsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var tops []*entity.TopConsultant
	if err := json.Unmarshal(data, &tops); err != nil {
		return nil, false, err
	}
	return tops, true, nil
}

func (c *topConsultantCache) Set(ctx context.Context, tops []*entity.TopConsultant) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(tops)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, topConsultantsKey, data, topConsultantsTTL).Err()
}

func (c *topConsultantCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, topConsultantsKey).Err()
}
