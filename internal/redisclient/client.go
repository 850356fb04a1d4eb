package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/adjust_stock.lua
var adjustStockScript string

// Client is a thin wrapper over Redis holding the stock display cache: one
// hash per product with the last known stock count. The database stays
// authoritative; this cache only serves fast reads.
type Client struct {
	rdb          *redis.Client
	adjustScript *redis.Script
}

// NewClient creates a Redis client and verifies the connection.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:          rdb,
		adjustScript: redis.NewScript(adjustStockScript),
	}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(productID int64) string {
	return fmt.Sprintf("stock:%d", productID)
}

// InitStock overwrites the cached stock for a product.
func (c *Client) InitStock(ctx context.Context, productID int64, stock int) error {
	return c.rdb.HSet(ctx, stockKey(productID), "stock", stock).Err()
}

// Stock retrieves the cached stock for a product. A missing entry is an
// error so callers fall back to the database.
func (c *Client) Stock(ctx context.Context, productID int64) (int, error) {
	stock, err := c.rdb.HGet(ctx, stockKey(productID), "stock").Int()
	if err == redis.Nil {
		return 0, fmt.Errorf("no cached stock for product %d", productID)
	}
	if err != nil {
		return 0, err
	}
	return stock, nil
}

// AdjustStock atomically applies a relative delta to the cached stock,
// clamped at zero. Returns an error when the product has no cache entry.
func (c *Client) AdjustStock(ctx context.Context, productID int64, delta int) error {
	result, err := c.adjustScript.Run(ctx, c.rdb, []string{stockKey(productID)}, delta).Result()
	if err != nil {
		return fmt.Errorf("adjust stock script failed: %w", err)
	}

	if n, ok := result.(int64); ok && n < 0 {
		return fmt.Errorf("no cached stock for product %d", productID)
	}
	return nil
}
