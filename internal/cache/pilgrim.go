// Package cache holds the read-through cache in front of pilgrim queries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/vietanh2810/pilgrim-api/internal/config"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

// NoVersion is returned by GetPage when the list version could not be read.
const NoVersion int64 = -1

const (
	listVersionKey = "pilgrims:list:version"
	detailPrefix   = "pilgrims:detail:"
)

func DetailKey(id uint) string {
	return detailPrefix + strconv.FormatUint(uint64(id), 10)
}

func ListKey(version int64, query string) string {
	return fmt.Sprintf("pilgrims:list:v%d:%s", version, query)
}

// PilgrimCache invalidates list pages by bumping a version counter, so stale
// pages simply stop being addressed and expire on their own.
type PilgrimCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(conf *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
}

func NewPilgrimCache(client *redis.Client, ttl time.Duration) *PilgrimCache {
	return &PilgrimCache{client: client, ttl: ttl}
}

func (c *PilgrimCache) GetPilgrim(ctx context.Context, id uint) (domain.Pilgrim, bool) {
	var p domain.Pilgrim

	return p, c.get(ctx, DetailKey(id), &p)
}

func (c *PilgrimCache) SetPilgrim(ctx context.Context, p domain.Pilgrim) {
	c.set(ctx, DetailKey(p.ID), p)
}

// GetPage looks up a list page under the current list version and returns
// that version. A miss must be filled with SetPage under the same version so
// a page read before an invalidation never lands under the newer version.
func (c *PilgrimCache) GetPage(ctx context.Context, query string) (domain.PilgrimPage, int64, bool) {
	var page domain.PilgrimPage
	version, err := c.listVersion(ctx)
	if err != nil {
		return page, NoVersion, false
	}

	return page, version, c.get(ctx, ListKey(version, query), &page)
}

func (c *PilgrimCache) SetPage(ctx context.Context, version int64, query string, page domain.PilgrimPage) {
	if version < 0 {
		return
	}
	c.set(ctx, ListKey(version, query), page)
}

func (c *PilgrimCache) InvalidateLists(ctx context.Context) error {
	if err := c.client.Incr(ctx, listVersionKey).Err(); err != nil {
		return fmt.Errorf("c.client.Incr -> %w", err)
	}

	return nil
}

func (c *PilgrimCache) InvalidateDetails(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = DetailKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("c.client.Del -> %w", err)
	}

	return nil
}

func (c *PilgrimCache) listVersion(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, listVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		zap.L().Warn("cache: read list version", zap.Error(err))
		return 0, err
	}

	return v, nil
}

func (c *PilgrimCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("cache: get", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		zap.L().Warn("cache: decode", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

func (c *PilgrimCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("cache: encode", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		zap.L().Warn("cache: set", zap.String("key", key), zap.Error(err))
	}
}

// Nop is the cache used when redis is not configured.
type Nop struct{}

func (Nop) GetPilgrim(context.Context, uint) (domain.Pilgrim, bool) { return domain.Pilgrim{}, false }
func (Nop) SetPilgrim(context.Context, domain.Pilgrim) {}
func (Nop) GetPage(context.Context, string) (domain.PilgrimPage, int64, bool) {
	return domain.PilgrimPage{}, NoVersion, false
}
func (Nop) SetPage(context.Context, int64, string, domain.PilgrimPage) {}
func (Nop) InvalidateLists(context.Context) error { return nil }
func (Nop) InvalidateDetails(context.Context, ...uint) error { return nil }
