package reccache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/glow-advisor/internal/domain/recommend"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// ValkeyCache shares ranked lists across replicas.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a Valkey-backed cache.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "glow"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) ([]skincare.ProductRecommendation, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.fullKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var recs []skincare.ProductRecommendation
	if err := json.Unmarshal([]byte(payload), &recs); err != nil {
		return nil, false, err
	}
	return recs, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, recs []skincare.ProductRecommendation, ttl time.Duration) error {
	payload, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.fullKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) fullKey(key string) string {
	return c.prefix + ":" + key
}

var _ recommend.Cache = (*ValkeyCache)(nil)
