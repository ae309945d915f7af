package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"homecraft-backend/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "product:detail:"
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"

	DefaultCacheTTL = 5 * time.Minute
)

// CacheManager handles Redis caching for the public catalog reads. All
// operations are best-effort; a miss or a Redis failure falls through to
// Mongo.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redis *redis.Client) *CacheManager {
	return &CacheManager{
		redis: redis,
		ttl:   DefaultCacheTTL,
	}
}

// GetProductList retrieves a cached product list page.
func (cm *CacheManager) GetProductList(ctx context.Context, page, perPage int) (map[string]interface{}, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cachedData, err := cm.redis.Get(ctx, cm.listCacheKey(version, page, perPage)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cachedData), &response); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}

	return response, true
}

// SetProductListAsync caches a product list page asynchronously
func (cm *CacheManager) SetProductListAsync(page, perPage int, response map[string]interface{}) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		jsonBytes, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(bgCtx, cm.listCacheKey(version, page, perPage), jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetProduct retrieves a cached product detail.
func (cm *CacheManager) GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	cachedData, err := cm.redis.Get(ctx, ProductCachePrefix+productID).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(cachedData), &product); err != nil {
		zap.L().Warn("Failed to unmarshal cached product", zap.Error(err))
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a single product asynchronously
func (cm *CacheManager) SetProductAsync(productID string, product *models.Product) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		productJSON, err := json.Marshal(product)
		if err != nil {
			zap.L().Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", productID))
			return
		}

		if err := cm.redis.Set(bgCtx, ProductCachePrefix+productID, productJSON, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

// InvalidateAsync bumps the list cache version and drops the detail entry
// for a written product, so subsequent reads miss.
func (cm *CacheManager) InvalidateAsync(productID string) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cm.redis.Incr(bgCtx, CacheVersionKey).Err(); err != nil {
			zap.L().Warn("Failed to bump product cache version", zap.Error(err))
		}
		if productID != "" {
			if err := cm.redis.Del(bgCtx, ProductCachePrefix+productID).Err(); err != nil {
				zap.L().Warn("Failed to drop cached product", zap.Error(err), zap.String("product_id", productID))
			}
		}
	}()
}

func (cm *CacheManager) listCacheKey(version int64, page, perPage int) string {
	return fmt.Sprintf("%s%d:page:%d:per:%d", ProductListCachePrefix, version, page, perPage)
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	val, err := cm.redis.Get(ctx, CacheVersionKey).Result()
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}
