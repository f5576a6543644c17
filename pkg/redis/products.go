package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/threadline/shopapi/pkg/models"
)

// Read-through product cache for storefront slug lookups.

const productCacheTTL = 24 * time.Hour

func productKey(slug string) string {
	return fmt.Sprintf("product:%s", slug)
}

func CacheSingleProduct(ctx context.Context, product *models.Product) error {
	client := RedisClient()
	defer client.Close()

	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.Slug, err)
	}
	return client.Set(ctx, productKey(product.Slug), productJSON, productCacheTTL).Err()
}

func GetProductBySlugFromCache(ctx context.Context, slug string) (*models.Product, error) {
	client := RedisClient()
	defer client.Close()

	productJSON, err := client.Get(ctx, productKey(slug)).Result()
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

func RemoveProductFromCache(ctx context.Context, slug string) error {
	client := RedisClient()
	defer client.Close()
	return client.Del(ctx, productKey(slug)).Err()
}
