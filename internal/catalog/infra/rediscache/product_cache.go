// Package rediscache is a read-through product cache in front of any catalog
// repository. Cache failures never fail a read; the inner repository answers
// instead.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	"github.com/dwikikusuma/ec-training/internal/catalog/app"
	"github.com/dwikikusuma/ec-training/internal/catalog/domain"
)

const (
	listsKey       = "products:lists"
	notFoundMarker = "notfound"
	notFoundTTL    = time.Minute
)

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

type CachedProductRepo struct {
	next app.ProductRepo
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func NewCachedProductRepo(next app.ProductRepo, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *CachedProductRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedProductRepo{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *CachedProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	key := productKey(id)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return domain.Product{}, fmt.Errorf("%w: product %d", apperr.ErrNotFound, id)
		}
		var p domain.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return p, nil
		}
		c.log.Warn("cached product unreadable, falling back", slog.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("redis get failed, falling back", slog.String("key", key), slog.Any("err", err))
	}

	p, err := c.next.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		if setErr := c.rdb.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
			c.log.Warn("failed to cache miss", slog.String("key", key), slog.Any("err", setErr))
		}
		return domain.Product{}, err
	}
	if err != nil {
		return domain.Product{}, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("failed to cache product", slog.String("key", key), slog.Any("err", err))
		}
	}
	return p, nil
}

// List caches each distinct filter as one field of a single hash so that one
// DEL drops every cached listing.
func (c *CachedProductRepo) List(ctx context.Context, f domain.Filter) ([]domain.Product, error) {
	field, err := json.Marshal(f)
	if err != nil {
		return c.next.List(ctx, f)
	}

	data, err := c.rdb.HGet(ctx, listsKey, string(field)).Bytes()
	switch {
	case err == nil:
		var ps []domain.Product
		if err := json.Unmarshal(data, &ps); err == nil {
			return ps, nil
		}
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("redis hget failed, falling back", slog.Any("err", err))
	}

	ps, err := c.next.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(ps); err == nil {
		pipe := c.rdb.TxPipeline()
		pipe.HSet(ctx, listsKey, string(field), raw)
		pipe.Expire(ctx, listsKey, c.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			c.log.Warn("failed to cache product list", slog.Any("err", err))
		}
	}
	return ps, nil
}

// Invalidate drops the cached entries of the given products and every cached
// listing.
func (c *CachedProductRepo) Invalidate(ctx context.Context, ids ...int64) {
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	keys = append(keys, listsKey)

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("failed to invalidate product cache", slog.Any("keys", keys), slog.Any("err", err))
	}
}
