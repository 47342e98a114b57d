package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// decrementStockLua atomically checks and decrements a cached stock count.
// Returns 1 on success, 0 on insufficient stock, -1 when the key is absent
// and the caller must fall back to the database.
const decrementStockLua = `
local stock = redis.call('GET', KEYS[1])
if not stock then
  return -1
end
if tonumber(stock) < tonumber(ARGV[1]) then
  return 0
end
redis.call('DECRBY', KEYS[1], ARGV[1])
return 1
`

// SessionData is what a session token resolves to.
type SessionData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Client struct {
	rdb         *redis.Client
	decrementBy *redis.Script
}

// NewClient creates a new Redis client
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
		rdb:         rdb,
		decrementBy: redis.NewScript(decrementStockLua),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// StoreSession stores a login token with TTL
func (c *Client) StoreSession(ctx context.Context, token string, data SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.rdb.Set(ctx, sessionKey(token), payload, ttl).Err()
}

// GetSession resolves a login token. The second return value is false when
// the token is unknown or expired.
func (c *Client) GetSession(ctx context.Context, token string) (SessionData, bool, error) {
	payload, err := c.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return SessionData{}, false, nil
	}
	if err != nil {
		return SessionData{}, false, err
	}

	var data SessionData
	if err := json.Unmarshal(payload, &data); err != nil {
		return SessionData{}, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return data, true, nil
}

// RefreshSession extends a token's TTL
func (c *Client) RefreshSession(ctx context.Context, token string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, sessionKey(token), ttl).Err()
}

// DeleteSession removes a login token
func (c *Client) DeleteSession(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, sessionKey(token)).Err()
}

// UpdateSessionUsername rewrites the cached username for a token, keeping
// its TTL
func (c *Client) UpdateSessionUsername(ctx context.Context, token, username string) error {
	data, ok, err := c.GetSession(ctx, token)
	if err != nil || !ok {
		return err
	}
	data.Username = username

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.rdb.Set(ctx, sessionKey(token), payload, redis.KeepTTL).Err()
}

// InitStock seeds the cached stock count for a product
func (c *Client) InitStock(ctx context.Context, productID int64, stock int) error {
	return c.rdb.Set(ctx, stockKey(productID), stock, 0).Err()
}

// DecrementStock atomically decrements the cached stock count. The first
// return value reports success; the second is false when the cache holds no
// entry for the product and the database must decide.
func (c *Client) DecrementStock(ctx context.Context, productID int64, quantity int) (ok, cached bool, err error) {
	result, err := c.decrementBy.Run(ctx, c.rdb, []string{stockKey(productID)}, quantity).Result()
	if err != nil {
		return false, false, fmt.Errorf("decrement stock script failed: %w", err)
	}

	code, isInt := result.(int64)
	if !isInt {
		return false, false, fmt.Errorf("unexpected script result type %T", result)
	}

	switch code {
	case 1:
		return true, true, nil
	case 0:
		return false, true, nil
	default:
		return false, false, nil
	}
}

// RestoreStock adds a quantity back to the cached stock count
func (c *Client) RestoreStock(ctx context.Context, productID int64, quantity int) error {
	return c.rdb.IncrBy(ctx, stockKey(productID), int64(quantity)).Err()
}

// DeleteStock drops the cached stock count, used when a product is removed
func (c *Client) DeleteStock(ctx context.Context, productID int64) error {
	return c.rdb.Del(ctx, stockKey(productID)).Err()
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func stockKey(productID int64) string {
	return fmt.Sprintf("stock:%d", productID)
}
