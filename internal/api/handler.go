package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dc4ndre/ecommerce-website/config"
	"github.com/dc4ndre/ecommerce-website/internal/models"
	"github.com/dc4ndre/ecommerce-website/internal/service"
	"github.com/dc4ndre/ecommerce-website/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionCookie = "session_token"

// Handler contains HTTP handlers
type Handler struct {
	auth      *service.AuthService
	catalog   *service.CatalogService
	carts     *service.CartService
	orders    *service.OrderService
	fulfiller *service.Fulfiller
	uploadCfg config.UploadConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	carts *service.CartService,
	orders *service.OrderService,
	fulfiller *service.Fulfiller,
	uploadCfg config.UploadConfig,
) *Handler {
	return &Handler{
		auth:      auth,
		catalog:   catalog,
		carts:     carts,
		orders:    orders,
		fulfiller: fulfiller,
		uploadCfg: uploadCfg,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Static("/static/images", h.uploadCfg.Dir)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.login)
		v1.POST("/auth/logout", h.requireSession(), h.logout)

		v1.GET("/categories", h.listCategories)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.optionalSession(), h.getProduct)

		v1.GET("/history", h.requireSession(), h.getHistory)

		cart := v1.Group("/cart", h.requireSession())
		{
			cart.GET("", h.getCart)
			cart.POST("/items", h.addCartItem)
			cart.PUT("/items/:product_id", h.updateCartItem)
			cart.DELETE("/items/:product_id", h.removeCartItem)
			cart.DELETE("", h.clearCart)
		}

		v1.POST("/checkout", h.requireSession(), h.checkout)
		v1.GET("/orders", h.requireSession(), h.listUserOrders)
		v1.GET("/orders/:id", h.requireSession(), h.getOrder)

		v1.GET("/account", h.requireSession(), h.getAccount)
		v1.PUT("/account", h.requireSession(), h.updateAccount)

		admin := v1.Group("/admin", h.requireSession(), h.requireAdmin())
		{
			admin.GET("/products", h.adminListProducts)
			admin.POST("/products", h.adminCreateProduct)
			admin.PUT("/products/:id", h.adminUpdateProduct)
			admin.DELETE("/products/:id", h.adminDeleteProduct)
			admin.POST("/uploads", h.adminUploadImage)

			admin.GET("/orders", h.adminListOrders)
			admin.PUT("/orders/:id/status", h.adminUpdateOrderStatus)
			admin.POST("/orders/process-next", h.adminProcessNext)

			admin.GET("/customers", h.adminListCustomers)
			admin.GET("/customers/:id/transactions", h.adminUserTransactions)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// sessionToken pulls the token from the Authorization header or the
// session cookie.
func sessionToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if token, err := c.Cookie(sessionCookie); err == nil {
		return token
	}
	return ""
}

// requireSession resolves the session token and aborts when it is
// missing or expired.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		data, found, err := h.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to verify session",
			})
			return
		}
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired, please log in again",
			})
			return
		}

		c.Set("token", token)
		c.Set("userID", data.UserID)
		c.Set("username", data.Username)
		c.Set("role", data.Role)
		c.Next()
	}
}

// optionalSession resolves the session when a token is present but never
// rejects the request. Anonymous browsing stays allowed.
func (h *Handler) optionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}
		data, found, err := h.auth.Authenticate(c.Request.Context(), token)
		if err == nil && found {
			c.Set("token", token)
			c.Set("userID", data.UserID)
			c.Set("username", data.Username)
			c.Set("role", data.Role)
		}
		c.Next()
	}
}

// requireAdmin rejects non-admin sessions. Must run after requireSession.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64("userID")
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
