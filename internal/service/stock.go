package service

import (
	"context"
	"time"

	"github.com/dc4ndre/ecommerce-website/internal/redisclient"
	"github.com/dc4ndre/ecommerce-website/internal/store"
	"github.com/dc4ndre/ecommerce-website/internal/util"

	"go.uber.org/zap"
)

// StockClient decrements product stock at checkout. The Redis cache is the
// fast path; the database row stays authoritative and is updated in the
// background after a cache hit, or consulted directly when the cache misses.
type StockClient struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewStockClient creates a new stock client
func NewStockClient(st *store.Store, redis *redisclient.Client) *StockClient {
	return &StockClient{
		store:  st,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// Decrement takes quantity units of stock. Returns false when stock is
// insufficient.
func (sc *StockClient) Decrement(ctx context.Context, productID int64, quantity int) (bool, error) {
	ctx, span := util.StartSpan(ctx, "StockClient.Decrement")
	defer span.End()

	ok, cached, err := sc.redis.DecrementStock(ctx, productID, quantity)
	if err != nil {
		sc.logger.Warn("Redis stock decrement failed, falling back to DB",
			zap.Int64("product_id", productID),
			zap.Error(err))
		return sc.store.DecrementStock(ctx, productID, quantity)
	}

	if !cached {
		return sc.store.DecrementStock(ctx, productID, quantity)
	}
	if !ok {
		util.StockDecrementsFailed.WithLabelValues("insufficient_stock").Inc()
		return false, nil
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if ok, err := sc.store.DecrementStock(ctx, productID, quantity); err != nil || !ok {
			sc.logger.Error("Failed to sync stock decrement to DB",
				zap.Int64("product_id", productID),
				zap.Bool("applied", ok),
				zap.Error(err))
		}
	}()

	return true, nil
}

// Restore returns quantity units of stock, compensating a failed checkout
func (sc *StockClient) Restore(ctx context.Context, productID int64, quantity int) error {
	ctx, span := util.StartSpan(ctx, "StockClient.Restore")
	defer span.End()

	if err := sc.redis.RestoreStock(ctx, productID, quantity); err != nil {
		sc.logger.Error("Failed to restore stock in Redis",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}
	return sc.store.RestoreStock(ctx, productID, quantity)
}
