package store

import (
	"context"

	"github.com/dc4ndre/ecommerce-website/internal/models"
)

// CartLine is one cart row joined with its product, as shown to the
// customer and consumed by checkout.
type CartLine struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
	Price     int64  `db:"price" json:"price"`
	Quantity  int    `db:"quantity" json:"quantity"`
	ImagePath string `db:"image_path" json:"image_path"`
}

// GetCartLines retrieves the user's cart rows joined with product data
func (s *Store) GetCartLines(ctx context.Context, userID int64) ([]CartLine, error) {
	var lines []CartLine
	err := s.db.SelectContext(ctx, &lines, `
		SELECT ci.product_id, p.name, p.price, ci.quantity, p.image_path
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.user_id = $1
		ORDER BY ci.id`, userID)
	return lines, err
}

// GetCartItems retrieves the user's raw cart rows
func (s *Store) GetCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM cart_items WHERE user_id = $1 ORDER BY id", userID)
	return items, err
}

// AddCartItem adds quantity of a product to the user's cart, merging with
// an existing row
func (s *Store) AddCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, productID, quantity)
	return err
}

// SetCartItemQuantity sets the absolute quantity for a cart row. A quantity
// of zero or less deletes the row.
func (s *Store) SetCartItemQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.DeleteCartItem(ctx, userID, productID)
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND product_id = $3",
		quantity, userID, productID)
	return err
}

// DeleteCartItem removes one product from the user's cart
func (s *Store) DeleteCartItem(ctx context.Context, userID, productID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2",
		userID, productID)
	return err
}

// ClearCart removes every cart row for the user
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}
