package models

import "time"

// User represents a storefront account.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// User roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Product represents a product in the catalog. Prices are stored in
// centavos to avoid floating point arithmetic on money.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       int64     `db:"price" json:"price"`
	Stock       int       `db:"stock" json:"stock"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	ImagePath   string    `db:"image_path" json:"image_path"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Category represents a row of the category table. The in-memory tree is
// rebuilt from these rows at startup.
type Category struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	ParentID int64  `db:"parent_id" json:"parent_id"`
}

// Order represents a customer order.
type Order struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	TotalAmount     int64     `db:"total_amount" json:"total_amount"`
	Status          string    `db:"status" json:"status"`
	ShippingAddress string    `db:"shipping_address" json:"shipping_address"`
	ContactNumber   string    `db:"contact_number" json:"contact_number"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one product line of an order.
type OrderItem struct {
	ID        int64 `db:"id" json:"id"`
	OrderID   int64 `db:"order_id" json:"order_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
	UnitPrice int64 `db:"unit_price" json:"unit_price"`
}

// CartItem represents an authoritative cart row. The in-memory cart is a
// session-scoped mirror of these rows.
type CartItem struct {
	ID        int64 `db:"id" json:"id"`
	UserID    int64 `db:"user_id" json:"user_id"`
	ProductID int64 `db:"product_id" json:"product_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
}

// Order statuses, in fulfillment sequence.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// FulfillmentSequence is the fixed forward path a dequeued order walks.
var FulfillmentSequence = []string{
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusDelivered,
}

// OrderSummary is an admin view of an order joined with its customer.
type OrderSummary struct {
	ID              int64     `db:"id" json:"id"`
	Customer        string    `db:"username" json:"customer"`
	Email           string    `db:"email" json:"email"`
	TotalAmount     int64     `db:"total_amount" json:"total"`
	Status          string    `db:"status" json:"status"`
	ShippingAddress string    `db:"shipping_address" json:"address"`
	ContactNumber   string    `db:"contact_number" json:"contact"`
	CreatedAt       time.Time `db:"created_at" json:"date"`
}

// CustomerSummary is an admin view of a customer with order aggregates.
type CustomerSummary struct {
	ID         int64     `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	Email      string    `db:"email" json:"email"`
	Role       string    `db:"role" json:"role"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	OrderCount int       `db:"order_count" json:"order_count"`
	TotalSpent int64     `db:"total_spent" json:"total_spent"`
}

// Transaction is one order in a customer's purchase history.
type Transaction struct {
	OrderID     int64     `db:"id" json:"order_id"`
	CreatedAt   time.Time `db:"created_at" json:"date"`
	TotalAmount int64     `db:"total_amount" json:"total"`
	Status      string    `db:"status" json:"status"`
	ItemCount   int       `db:"item_count" json:"item_count"`
}
