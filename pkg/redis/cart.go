package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/threadline/shopapi/pkg/models"
)

// Session carts live entirely in Redis: one hash per line item plus a set
// indexing the line keys, both expiring together. The cart never touches the
// document store until checkout.

const cartTTL = 24 * time.Hour

func cartIndexKey(sessionID string) string {
	return fmt.Sprintf("cart:%s:items", sessionID)
}

func cartItemKey(sessionID, lineKey string) string {
	return fmt.Sprintf("cart:%s:item:%s", sessionID, lineKey)
}

// GetCart loads a session cart. A session with no items yields an empty
// cart, not an error.
func GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	client := RedisClient()
	defer client.Close()

	lineKeys, err := client.SMembers(ctx, cartIndexKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{
		SessionID: sessionID,
		Items:     make(map[string]*models.CartLineItem, len(lineKeys)),
	}
	for _, lineKey := range lineKeys {
		var item models.CartLineItem
		if err := client.HGetAll(ctx, cartItemKey(sessionID, lineKey)).Scan(&item); err != nil {
			continue
		}
		if item.ProductID == "" {
			// item hash expired out from under the index
			client.SRem(ctx, cartIndexKey(sessionID), lineKey)
			continue
		}
		cart.Items[lineKey] = &item
	}
	cart.Recalculate()
	return cart, nil
}

// AddToCart inserts a line item or, when the same product/size/color is
// already present, bumps its quantity.
func AddToCart(ctx context.Context, sessionID string, item *models.CartLineItem) (*models.Cart, error) {
	client := RedisClient()
	defer client.Close()

	lineKey := item.LineKey()
	itemKey := cartItemKey(sessionID, lineKey)

	existingQty, err := client.HGet(ctx, itemKey, "quantity").Int()
	if err == nil {
		item.Quantity += existingQty
	}
	if item.AddedAt == "" {
		item.AddedAt = time.Now().Format(time.RFC3339)
	}

	pipe := client.TxPipeline()
	pipe.HSet(ctx, itemKey,
		"product_id", item.ProductID,
		"slug", item.Slug,
		"name", item.Name,
		"brand", item.Brand,
		"image", item.Image,
		"price", item.Price,
		"sale_price", item.SalePrice,
		"size", item.Size,
		"color", item.Color,
		"quantity", item.Quantity,
		"added_at", item.AddedAt,
	)
	pipe.Expire(ctx, itemKey, cartTTL)
	pipe.SAdd(ctx, cartIndexKey(sessionID), lineKey)
	pipe.Expire(ctx, cartIndexKey(sessionID), cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to add item to cart %s: %w", sessionID, err)
	}

	return GetCart(ctx, sessionID)
}

// UpdateCartItem sets a line's quantity; zero removes the line.
func UpdateCartItem(ctx context.Context, sessionID, lineKey string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return RemoveFromCart(ctx, sessionID, lineKey)
	}

	client := RedisClient()
	defer client.Close()

	itemKey := cartItemKey(sessionID, lineKey)
	exists, err := client.Exists(ctx, itemKey).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("cart line %s not found", lineKey)
	}

	pipe := client.TxPipeline()
	pipe.HSet(ctx, itemKey, "quantity", quantity)
	pipe.Expire(ctx, itemKey, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return GetCart(ctx, sessionID)
}

func RemoveFromCart(ctx context.Context, sessionID, lineKey string) (*models.Cart, error) {
	client := RedisClient()
	defer client.Close()

	pipe := client.TxPipeline()
	pipe.Del(ctx, cartItemKey(sessionID, lineKey))
	pipe.SRem(ctx, cartIndexKey(sessionID), lineKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return GetCart(ctx, sessionID)
}

// ClearCart removes every line of a session cart.
func ClearCart(ctx context.Context, sessionID string) error {
	client := RedisClient()
	defer client.Close()

	lineKeys, err := client.SMembers(ctx, cartIndexKey(sessionID)).Result()
	if err != nil {
		return err
	}

	pipe := client.TxPipeline()
	for _, lineKey := range lineKeys {
		pipe.Del(ctx, cartItemKey(sessionID, lineKey))
	}
	pipe.Del(ctx, cartIndexKey(sessionID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", sessionID, err)
	}
	return nil
}

// CartStore adapts the package functions to the checkout workflow's
// interface.
type CartStore struct{}

func (CartStore) ClearCart(ctx context.Context, sessionID string) error {
	return ClearCart(ctx, sessionID)
}
