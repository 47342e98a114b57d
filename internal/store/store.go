package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dc4ndre/ecommerce-website/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser creates a new customer account
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, user, query,
		user.Username, user.Email, user.PasswordHash, user.Role)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByCredentials retrieves a user matching a username or email and a
// password hash. Returns nil without error when no user matches.
func (s *Store) GetUserByCredentials(ctx context.Context, login, passwordHash string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE (username = $1 OR email = $1) AND password_hash = $2",
		login, passwordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists reports whether a user with the username or email exists
func (s *Store) UserExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		username, email)
	return exists, err
}

// UsernameTaken reports whether another user already holds the username
func (s *Store) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id != $2)",
		username, excludeID)
	return exists, err
}

// VerifyPassword reports whether the password hash matches the user's
func (s *Store) VerifyPassword(ctx context.Context, userID int64, passwordHash string) (bool, error) {
	var ok bool
	err := s.db.GetContext(ctx, &ok,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND password_hash = $2)",
		userID, passwordHash)
	return ok, err
}

// UpdateUsername updates a user's username
func (s *Store) UpdateUsername(ctx context.Context, userID int64, username string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET username = $1 WHERE id = $2", username, userID)
	return err
}

// UpdatePassword updates a user's password hash
func (s *Store) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	return err
}

// ListCustomers retrieves all customers with order aggregates
func (s *Store) ListCustomers(ctx context.Context) ([]models.CustomerSummary, error) {
	var customers []models.CustomerSummary
	err := s.db.SelectContext(ctx, &customers, `
		SELECT u.id, u.username, u.email, u.role, u.created_at,
		       COUNT(o.id) AS order_count,
		       COALESCE(SUM(o.total_amount), 0) AS total_spent
		FROM users u
		LEFT JOIN orders o ON u.id = o.user_id
		WHERE u.role = $1
		GROUP BY u.id, u.username, u.email, u.role, u.created_at
		ORDER BY u.created_at DESC`, models.RoleCustomer)
	return customers, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActiveProducts retrieves active products, ordered by name
func (s *Store) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE is_active = TRUE ORDER BY name")
	return products, err
}

// SearchActiveProducts retrieves active products whose name or description
// matches the query, ordered by name
func (s *Store) SearchActiveProducts(ctx context.Context, search string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + search + "%"
	err := s.db.SelectContext(ctx, &products, `
		SELECT * FROM products
		WHERE is_active = TRUE AND (name ILIKE $1 OR description ILIKE $1)
		ORDER BY name`, pattern)
	return products, err
}

// GetActiveProductsByIDs retrieves active products by id set, ordered by name
func (s *Store) GetActiveProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM products WHERE is_active = TRUE AND id IN (?) ORDER BY name", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// ListAllProducts retrieves every product including inactive ones, for admin
func (s *Store) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products ORDER BY id DESC")
	return products, err
}

// GetRecommendations retrieves other active products in the same category
func (s *Store) GetRecommendations(ctx context.Context, productID int64, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT * FROM products
		WHERE category_id = (SELECT category_id FROM products WHERE id = $1)
		  AND id != $1 AND is_active = TRUE
		LIMIT $2`, productID, limit)
	return products, err
}

// CreateProduct creates a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock, category_id, image_path, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, product, query,
		product.Name, product.Description, product.Price, product.Stock,
		product.CategoryID, product.ImagePath, product.IsActive)
}

// UpdateProduct updates an existing product
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4,
		    category_id = $5, image_path = $6, is_active = $7
		WHERE id = $8`,
		product.Name, product.Description, product.Price, product.Stock,
		product.CategoryID, product.ImagePath, product.IsActive, product.ID)
	return err
}

// DeleteProduct deletes a product
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

// DecrementStock decrements stock if enough is available. Returns false
// when the remaining stock is insufficient.
func (s *Store) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1",
		quantity, productID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RestoreStock adds stock back, used to compensate a failed checkout
func (s *Store) RestoreStock(ctx context.Context, productID int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock = stock + $1 WHERE id = $2",
		quantity, productID)
	return err
}

// ListCategories retrieves all category rows ordered parents-first
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories,
		"SELECT id, name, parent_id FROM categories ORDER BY parent_id, id")
	return categories, err
}
