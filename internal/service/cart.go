package service

import (
	"context"
	"fmt"

	"github.com/dc4ndre/ecommerce-website/internal/redisclient"
	"github.com/dc4ndre/ecommerce-website/internal/state"
	"github.com/dc4ndre/ecommerce-website/internal/store"
	"github.com/dc4ndre/ecommerce-website/internal/util"

	"go.uber.org/zap"
)

// CartService manages shopping carts. Cart rows in the database are
// authoritative; each mutation is mirrored into the user's in-memory cart
// so the session view stays in step without a DB read.
type CartService struct {
	store    *store.Store
	redis    *redisclient.Client
	sessions *state.SessionStore
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(st *store.Store, redis *redisclient.Client, sessions *state.SessionStore) *CartService {
	return &CartService{
		store:    st,
		redis:    redis,
		sessions: sessions,
		logger:   util.GetLogger(),
	}
}

// CartDetail is the customer-facing cart view with product data, line
// subtotals, and a grand total.
type CartDetail struct {
	Items          []CartDetailItem `json:"items"`
	Total          int64            `json:"total"`
	TotalFormatted string           `json:"total_formatted"`
	ItemCount      int              `json:"item_count"`
}

// CartDetailItem is one cart line with pricing.
type CartDetailItem struct {
	ProductID         int64  `json:"product_id"`
	Name              string `json:"name"`
	Price             int64  `json:"price"`
	PriceFormatted    string `json:"price_formatted"`
	Quantity          int    `json:"quantity"`
	Subtotal          int64  `json:"subtotal"`
	SubtotalFormatted string `json:"subtotal_formatted"`
	ImagePath         string `json:"image_path"`
}

// Get retrieves the user's cart with product details and totals
func (cs *CartService) Get(ctx context.Context, userID int64) (*CartDetail, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Get")
	defer span.End()

	lines, err := cs.store.GetCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	detail := &CartDetail{Items: make([]CartDetailItem, 0, len(lines))}
	for _, line := range lines {
		subtotal := line.Price * int64(line.Quantity)
		detail.Total += subtotal
		detail.ItemCount += line.Quantity
		detail.Items = append(detail.Items, CartDetailItem{
			ProductID:         line.ProductID,
			Name:              line.Name,
			Price:             line.Price,
			PriceFormatted:    util.FormatPeso(line.Price),
			Quantity:          line.Quantity,
			Subtotal:          subtotal,
			SubtotalFormatted: util.FormatPeso(subtotal),
			ImagePath:         line.ImagePath,
		})
	}
	detail.TotalFormatted = util.FormatPeso(detail.Total)
	return detail, nil
}

// Add puts quantity of a product into the cart, merging with an existing
// line. Rejects non-positive quantities.
func (cs *CartService) Add(ctx context.Context, userID, productID int64, quantity int) error {
	ctx, span := util.StartSpan(ctx, "CartService.Add")
	defer span.End()

	if quantity <= 0 {
		return state.ErrInvalidQuantity
	}

	if err := cs.store.AddCartItem(ctx, userID, productID, quantity); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	// Mirror into the session cart only after the row committed.
	_, cart := cs.sessions.Acquire(userID)
	_ = cart.Push(productID, quantity)

	util.CartOperationsTotal.WithLabelValues("add").Inc()
	return nil
}

// Update sets the absolute quantity of a cart line; zero or less removes it
func (cs *CartService) Update(ctx context.Context, userID, productID int64, quantity int) error {
	ctx, span := util.StartSpan(ctx, "CartService.Update")
	defer span.End()

	if err := cs.store.SetCartItemQuantity(ctx, userID, productID, quantity); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	_, cart := cs.sessions.Acquire(userID)
	cart.SetQuantity(productID, quantity)

	util.CartOperationsTotal.WithLabelValues("update").Inc()
	return nil
}

// Remove deletes one product from the cart
func (cs *CartService) Remove(ctx context.Context, userID, productID int64) error {
	ctx, span := util.StartSpan(ctx, "CartService.Remove")
	defer span.End()

	if err := cs.store.DeleteCartItem(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	_, cart := cs.sessions.Acquire(userID)
	cart.Remove(productID)

	util.CartOperationsTotal.WithLabelValues("remove").Inc()
	return nil
}

// Clear empties the cart
func (cs *CartService) Clear(ctx context.Context, userID int64) error {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	if err := cs.store.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	_, cart := cs.sessions.Acquire(userID)
	cart.Clear()

	util.CartOperationsTotal.WithLabelValues("clear").Inc()
	return nil
}
