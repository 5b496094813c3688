package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/shared"
)

// CachedLocationRepository decorates a location.Repository with a
// Redis-backed cache over FindByID only, the same FindByID-only shape as
// CachedStockItemRepository: location lookups by id are the hot path for
// movement/FEFO resolution, while list/hierarchy queries are not cached.
type CachedLocationRepository struct {
	inner  location.Repository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedLocationRepository wraps inner with a Redis FindByID cache.
func NewCachedLocationRepository(inner location.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedLocationRepository {
	return &CachedLocationRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedLocationRepository) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("location:%s", id.String())
}

// FindByID serves from cache on a hit, else delegates and populates the
// cache for the next read.
func (c *CachedLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	key := c.cacheKey(id)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var loc location.Location
		if jsonErr := json.Unmarshal(data, &loc); jsonErr == nil {
			c.logger.Debug("cache hit for location", zap.String("location_id", id.String()))
			return &loc, nil
		}
		_ = c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("location cache read failed, falling through", zap.Error(err))
	}

	loc, err := c.inner.FindByID(ctx, id)
	if err != nil || loc == nil {
		return loc, err
	}

	if data, err := json.Marshal(loc); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to populate location cache", zap.Error(err))
		}
	}
	return loc, nil
}

// Save delegates to inner and invalidates any cached copy.
func (c *CachedLocationRepository) Save(ctx context.Context, loc *location.Location) error {
	if err := c.inner.Save(ctx, loc); err != nil {
		return err
	}
	if err := c.client.Del(ctx, c.cacheKey(loc.ID)).Err(); err != nil {
		c.logger.Warn("failed to invalidate location cache", zap.Error(err))
	}
	return nil
}

func (c *CachedLocationRepository) FindByBarcode(ctx context.Context, barcode string) (*location.Location, error) {
	return c.inner.FindByBarcode(ctx, barcode)
}

func (c *CachedLocationRepository) FindByCode(ctx context.Context, code string) (*location.Location, error) {
	return c.inner.FindByCode(ctx, code)
}

func (c *CachedLocationRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*location.Location, error) {
	return c.inner.FindChildren(ctx, parentID)
}

func (c *CachedLocationRepository) FindAncestorChain(ctx context.Context, id uuid.UUID) ([]*location.Location, error) {
	return c.inner.FindAncestorChain(ctx, id)
}

func (c *CachedLocationRepository) List(ctx context.Context, filter location.Filter) (shared.Paginated[*location.Location], error) {
	return c.inner.List(ctx, filter)
}

func (c *CachedLocationRepository) FindAvailable(ctx context.Context, locationType *location.Type) ([]*location.Location, error) {
	return c.inner.FindAvailable(ctx, locationType)
}

func (c *CachedLocationRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	return c.inner.ExistsByBarcode(ctx, barcode)
}

func (c *CachedLocationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return c.inner.ExistsByCode(ctx, code)
}

var _ location.Repository = (*CachedLocationRepository)(nil)
