package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Cache keys for read-mostly listings.
const (
	CacheCategorias = "cache:categorias"
	CacheCatalogo   = "cache:productos:catalogo"
)

// Cache is a read-through JSON cache over Redis. Concurrent misses for the
// same key collapse into a single load. A nil client disables caching.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	sf  singleflight.Group
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetOrLoadJSON fills dest from key, calling load and storing its JSON on a
// miss. Redis failures degrade to calling load directly.
func (c *Cache) GetOrLoadJSON(ctx context.Context, key string, dest any, load func(context.Context) (any, error)) error {
	if c == nil || c.rdb == nil {
		v, err := load(ctx)
		if err != nil {
			return err
		}
		return remarshal(v, dest)
	}

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		if json.Unmarshal(b, dest) == nil {
			return nil
		}
	} else if err != redis.Nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: lectura fallida")
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache: escritura fallida")
		}
		return b, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), dest)
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache: invalidación fallida")
	}
}

// InvalidatePrefix drops every key starting with prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.rdb == nil {
		return
	}
	var keys []string
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("cache: scan fallido")
		return
	}
	c.Invalidate(ctx, keys...)
}

func remarshal(v, dest any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}
