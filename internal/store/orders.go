package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dc4ndre/ecommerce-website/internal/models"
)

// CreateOrder creates a new order
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, total_amount, status, shipping_address, contact_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, order, query,
		order.UserID, order.TotalAmount, order.Status,
		order.ShippingAddress, order.ContactNumber, order.Notes)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus sets the order status unconditionally, used by manual
// admin updates
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	return err
}

// AdvanceOrderStatus moves an order from one status to the next and only
// succeeds when the order is still in the expected prior status. Returns
// false without error when the order has already moved on, which makes the
// fulfillment walk safe to retry and safe to race with an admin override.
func (s *Store) AdvanceOrderStatus(ctx context.Context, orderID int64, from, to string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		to, orderID, from)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetOrdersByUserID retrieves the user's most recent orders
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limit)
	return orders, err
}

// ListOrders retrieves all orders joined with their customers, for admin
func (s *Store) ListOrders(ctx context.Context) ([]models.OrderSummary, error) {
	var orders []models.OrderSummary
	err := s.db.SelectContext(ctx, &orders, `
		SELECT o.id, u.username, u.email, o.total_amount, o.status,
		       o.shipping_address, o.contact_number, o.created_at
		FROM orders o
		JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC`)
	return orders, err
}

// GetOrderCustomerEmail retrieves the email of the customer who placed the
// order. Returns empty without error when the order is unknown.
func (s *Store) GetOrderCustomerEmail(ctx context.Context, orderID int64) (string, error) {
	var email string
	err := s.db.GetContext(ctx, &email, `
		SELECT u.email FROM users u
		JOIN orders o ON u.id = o.user_id
		WHERE o.id = $1`, orderID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return email, err
}

// GetUserTransactions retrieves a customer's orders with item counts
func (s *Store) GetUserTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.SelectContext(ctx, &transactions, `
		SELECT o.id, o.created_at, o.total_amount, o.status,
		       COUNT(oi.id) AS item_count
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.user_id = $1
		GROUP BY o.id, o.created_at, o.total_amount, o.status
		ORDER BY o.created_at DESC`, userID)
	return transactions, err
}

// CreateOrderItem creates a new order item
func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &item.ID, query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1", orderID)
	return items, err
}
