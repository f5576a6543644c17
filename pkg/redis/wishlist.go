package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/threadline/shopapi/pkg/models"
)

// Wishlists are a hash per session keyed by product ID, JSON per entry. Set
// semantics: toggling a product that is present removes it.

const wishlistTTL = 30 * 24 * time.Hour

func wishlistKey(sessionID string) string {
	return fmt.Sprintf("wishlist:%s", sessionID)
}

func GetWishlist(ctx context.Context, sessionID string) ([]models.WishlistItem, error) {
	client := RedisClient()
	defer client.Close()

	entries, err := client.HGetAll(ctx, wishlistKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]models.WishlistItem, 0, len(entries))
	for _, raw := range entries {
		var item models.WishlistItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ToggleWishlist adds the product if absent, removes it if present, and
// reports whether it is in the wishlist afterwards.
func ToggleWishlist(ctx context.Context, sessionID string, item *models.WishlistItem) (bool, error) {
	client := RedisClient()
	defer client.Close()

	key := wishlistKey(sessionID)
	exists, err := client.HExists(ctx, key, item.ProductID).Result()
	if err != nil {
		return false, err
	}

	if exists {
		if err := client.HDel(ctx, key, item.ProductID).Err(); err != nil {
			return false, err
		}
		return false, nil
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return false, err
	}
	pipe := client.TxPipeline()
	pipe.HSet(ctx, key, item.ProductID, raw)
	pipe.Expire(ctx, key, wishlistTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}
