package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dc4ndre/ecommerce-website/internal/broker"
	"github.com/dc4ndre/ecommerce-website/internal/models"
	"github.com/dc4ndre/ecommerce-website/internal/state"
	"github.com/dc4ndre/ecommerce-website/internal/store"
	"github.com/dc4ndre/ecommerce-website/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyCart is returned when checking out with no cart rows.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingShipping is returned when address or contact is blank.
	ErrMissingShipping = errors.New("address and contact are required")
	// ErrInsufficientStock is returned when a cart line exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderService handles checkout and order queries.
type OrderService struct {
	store     *store.Store
	stock     *StockClient
	carts     *CartService
	queue     *state.OrderQueue
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	st *store.Store,
	stock *StockClient,
	carts *CartService,
	queue *state.OrderQueue,
	publisher *broker.EventPublisher,
) *OrderService {
	return &OrderService{
		store:     st,
		stock:     stock,
		carts:     carts,
		queue:     queue,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CheckoutRequest carries the shipping details for a checkout.
type CheckoutRequest struct {
	Address string `json:"address" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	Notes   string `json:"notes"`
}

// CheckoutResponse reports the created order.
type CheckoutResponse struct {
	OrderID        int64  `json:"order_id"`
	Total          int64  `json:"total"`
	TotalFormatted string `json:"total_formatted"`
	Status         string `json:"status"`
}

// Checkout turns the user's cart rows into an order: it decrements stock,
// writes the order and its items, clears the cart, enqueues the order for
// fulfillment, and publishes OrderPlaced.
func (os *OrderService) Checkout(ctx context.Context, userID int64, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if req.Address == "" || req.Contact == "" {
		return nil, ErrMissingShipping
	}

	lines, err := os.store.GetCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := cartTotal(lines)

	taken, err := os.takeStock(ctx, lines)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("stock_error").Inc()
		return nil, err
	}
	if !taken {
		util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
		return nil, ErrInsufficientStock
	}

	order := &models.Order{
		UserID:          userID,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.Address,
		ContactNumber:   req.Contact,
		Notes:           req.Notes,
	}
	if err := os.store.CreateOrder(ctx, order); err != nil {
		os.returnStock(ctx, lines)
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	eventItems := make([]models.OrderItemData, 0, len(lines))
	for _, line := range lines {
		item := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
		}
		if err := os.store.CreateOrderItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		eventItems = append(eventItems, models.OrderItemData{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
		})
	}

	if err := os.carts.Clear(ctx, userID); err != nil {
		os.logger.Error("Failed to clear cart after checkout",
			zap.Int64("user_id", userID),
			zap.Error(err))
	}

	os.queue.Enqueue(state.OrderJob{
		OrderID: order.ID,
		UserID:  userID,
		Total:   total,
		Status:  models.OrderStatusPending,
	})
	util.OrderQueueDepth.Set(float64(os.queue.Len()))
	util.OrdersPlacedTotal.Inc()

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		UserID:      userID,
		TotalAmount: total,
		Items:       eventItems,
	}
	if err := os.publisher.PublishOrderPlaced(ctx, event); err != nil {
		os.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	os.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("total", total))

	return &CheckoutResponse{
		OrderID:        order.ID,
		Total:          total,
		TotalFormatted: util.FormatPeso(total),
		Status:         order.Status,
	}, nil
}

// cartTotal sums line prices in centavos
func cartTotal(lines []store.CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// takeStock decrements stock for every cart line, rolling back earlier
// lines when a later one cannot be filled.
func (os *OrderService) takeStock(ctx context.Context, lines []store.CartLine) (bool, error) {
	for i, line := range lines {
		ok, err := os.stock.Decrement(ctx, line.ProductID, line.Quantity)
		if err != nil || !ok {
			os.returnStock(ctx, lines[:i])
			return false, err
		}
	}
	return true, nil
}

// returnStock compensates already-taken lines
func (os *OrderService) returnStock(ctx context.Context, lines []store.CartLine) {
	for _, line := range lines {
		if err := os.stock.Restore(ctx, line.ProductID, line.Quantity); err != nil {
			os.logger.Error("Failed to restore stock",
				zap.Int64("product_id", line.ProductID),
				zap.Error(err))
		}
	}
}

// ListUserOrders retrieves the user's recent orders
func (os *OrderService) ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return os.store.GetOrdersByUserID(ctx, userID, 10)
}

// ListOrders retrieves every order for the admin view
func (os *OrderService) ListOrders(ctx context.Context) ([]models.OrderSummary, error) {
	return os.store.ListOrders(ctx)
}

// GetOrder retrieves an order and its items
func (os *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := os.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := os.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// ListCustomers retrieves all customers with order aggregates, for admin
func (os *OrderService) ListCustomers(ctx context.Context) ([]models.CustomerSummary, error) {
	return os.store.ListCustomers(ctx)
}

// GetUserTransactions retrieves a customer's purchase history, for admin
func (os *OrderService) GetUserTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return os.store.GetUserTransactions(ctx, userID)
}

// UpdateOrderStatus applies a manual admin status override and publishes
// the change so the customer is notified.
func (os *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, status, expectedDelivery string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	email, err := os.store.GetOrderCustomerEmail(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to look up customer: %w", err)
	}
	if email == "" {
		return fmt.Errorf("order not found: %d", orderID)
	}

	if err := os.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	order, err := os.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to reload order: %w", err)
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:          orderID,
		UserID:           order.UserID,
		Status:           status,
		CustomerEmail:    email,
		ExpectedDelivery: expectedDelivery,
	}
	if err := os.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		os.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	os.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", status))
	return nil
}
