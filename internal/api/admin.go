package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dc4ndre/ecommerce-website/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

type productRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required"`
	Stock       int    `json:"stock"`
	CategoryID  int64  `json:"category_id"`
	ImagePath   string `json:"image_path"`
	IsActive    *bool  `json:"is_active"`
}

func (r *productRequest) toModel(id int64) *models.Product {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ImagePath:   r.ImagePath,
		IsActive:    active,
	}
}

// adminListProducts lists all products, including inactive ones
func (h *Handler) adminListProducts(c *gin.Context) {
	products, err := h.catalog.ListAllProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// adminCreateProduct creates a product and registers it in the category
// tree and the stock cache
func (h *Handler) adminCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product := req.toModel(0)
	if err := h.catalog.CreateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// adminUpdateProduct updates a product
func (h *Handler) adminUpdateProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product := req.toModel(productID)
	if err := h.catalog.UpdateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// adminDeleteProduct removes a product from the catalog
func (h *Handler) adminDeleteProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// adminUploadImage stores a product image under a collision-proof name
func (h *Handler) adminUploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	name := fmt.Sprintf("%s_%s%s", time.Now().Format("20060102150405"), uuid.New().String(), ext)
	dest := filepath.Join(h.uploadCfg.Dir, name)

	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"image_path": "static/images/" + name,
	})
}

// adminListOrders lists every order with customer details
func (h *Handler) adminListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type statusUpdateRequest struct {
	Status           string `json:"status" binding:"required"`
	ExpectedDelivery string `json:"expected_delivery"`
}

// adminUpdateOrderStatus sets an order's status directly and notifies
// the customer
func (h *Handler) adminUpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.orders.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, req.ExpectedDelivery); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// adminProcessNext dequeues the oldest pending order and starts its
// fulfillment walk
func (h *Handler) adminProcessNext(c *gin.Context) {
	job, ok := h.fulfiller.ProcessNext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "No pending orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order processing started",
		"order_id": job.OrderID,
	})
}

// adminListCustomers returns every customer with order aggregates
func (h *Handler) adminListCustomers(c *gin.Context) {
	customers, err := h.orders.ListCustomers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// adminUserTransactions returns one customer's order history
func (h *Handler) adminUserTransactions(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	transactions, err := h.orders.GetUserTransactions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
