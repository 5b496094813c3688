package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
)

// CachedStockItemRepository decorates a stockitem.Repository with a
// Redis-backed cache over FindByID only: list/filter queries change too
// often relative to their cost to benefit from caching, but single-ID
// reads (the hot path for movement/restock resolution) do.
type CachedStockItemRepository struct {
	inner  stockitem.Repository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStockItemRepository wraps inner with a Redis FindByID cache.
func NewCachedStockItemRepository(inner stockitem.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedStockItemRepository {
	return &CachedStockItemRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedStockItemRepository) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("stockitem:%s", id.String())
}

// FindByID serves from cache on a hit, else delegates and populates the
// cache for the next read. A cache read/write failure degrades to the
// underlying repository rather than failing the query.
func (c *CachedStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*stockitem.StockItem, error) {
	key := c.cacheKey(id)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var item stockitem.StockItem
		if jsonErr := json.Unmarshal(data, &item); jsonErr == nil {
			c.logger.Debug("cache hit for stock item", zap.String("stock_item_id", id.String()))
			return &item, nil
		}
		_ = c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("stock item cache read failed, falling through", zap.Error(err))
	}

	item, err := c.inner.FindByID(ctx, id)
	if err != nil || item == nil {
		return item, err
	}

	if data, err := json.Marshal(item); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to populate stock item cache", zap.Error(err))
		}
	}
	return item, nil
}

// Save delegates to inner and invalidates any cached copy, since a stale
// cache entry would otherwise outlive the item's real state.
func (c *CachedStockItemRepository) Save(ctx context.Context, item *stockitem.StockItem) error {
	if err := c.inner.Save(ctx, item); err != nil {
		return err
	}
	if err := c.client.Del(ctx, c.cacheKey(item.ID)).Err(); err != nil {
		c.logger.Warn("failed to invalidate stock item cache", zap.Error(err))
	}
	return nil
}

func (c *CachedStockItemRepository) List(ctx context.Context, filter stockitem.Filter) (shared.Paginated[*stockitem.StockItem], error) {
	return c.inner.List(ctx, filter)
}

func (c *CachedStockItemRepository) FindByClassification(ctx context.Context, classification stockitem.Classification) ([]*stockitem.StockItem, error) {
	return c.inner.FindByClassification(ctx, classification)
}

func (c *CachedStockItemRepository) FindUnassigned(ctx context.Context, productID uuid.UUID) ([]*stockitem.StockItem, error) {
	return c.inner.FindUnassigned(ctx, productID)
}

func (c *CachedStockItemRepository) FindExpiring(ctx context.Context, before time.Time, classification *stockitem.Classification) ([]*stockitem.StockItem, error) {
	return c.inner.FindExpiring(ctx, before, classification)
}

func (c *CachedStockItemRepository) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID) ([]*stockitem.StockItem, error) {
	return c.inner.FindByProductAndLocation(ctx, productID, locationID)
}

func (c *CachedStockItemRepository) FindDueForReclassification(ctx context.Context, referenceTime time.Time) ([]*stockitem.StockItem, error) {
	return c.inner.FindDueForReclassification(ctx, referenceTime)
}

var _ stockitem.Repository = (*CachedStockItemRepository)(nil)
