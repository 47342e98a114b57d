package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dc4ndre/ecommerce-website/internal/models"
	"github.com/dc4ndre/ecommerce-website/internal/redisclient"
	"github.com/dc4ndre/ecommerce-website/internal/state"
	"github.com/dc4ndre/ecommerce-website/internal/store"
	"github.com/dc4ndre/ecommerce-website/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves the product catalog and the category tree, and
// records product views into per-user browsing histories.
type CatalogService struct {
	store    *store.Store
	redis    *redisclient.Client
	tree     *state.CategoryTree
	sessions *state.SessionStore
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st *store.Store, redis *redisclient.Client, tree *state.CategoryTree, sessions *state.SessionStore) *CatalogService {
	return &CatalogService{
		store:    st,
		redis:    redis,
		tree:     tree,
		sessions: sessions,
		logger:   util.GetLogger(),
	}
}

// ProductDetail is a product together with its recommendations.
type ProductDetail struct {
	models.Product
	PriceFormatted  string           `json:"price_formatted"`
	Recommendations []models.Product `json:"recommendations"`
}

// LoadCatalog rebuilds the category tree from the category table and seeds
// product membership from every active product. Duplicate category rows are
// ignored so reloading is idempotent. Also primes the stock cache.
func (c *CatalogService) LoadCatalog(ctx context.Context) error {
	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	for _, cat := range categories {
		if err := c.tree.AddCategory(cat.ID, cat.Name, cat.ParentID); err != nil {
			if errors.Is(err, state.ErrDuplicateCategory) {
				continue
			}
			return fmt.Errorf("failed to add category %d: %w", cat.ID, err)
		}
	}

	products, err := c.store.ListActiveProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range products {
		c.tree.AddProduct(p.CategoryID, p.ID)

		if err := c.redis.InitStock(ctx, p.ID, p.Stock); err != nil {
			c.logger.Warn("Failed to prime stock cache",
				zap.Int64("product_id", p.ID),
				zap.Error(err))
		}
	}

	c.logger.Info("Catalog loaded",
		zap.Int("categories", len(categories)),
		zap.Int("products", len(products)))
	return nil
}

// CategoryTree returns the serializable category tree
func (c *CatalogService) CategoryTree() *state.CategoryTreeView {
	return c.tree.Tree()
}

// ListProducts retrieves active products, filtered by a search query or a
// category subtree. Category 0 means the full catalog; the subtree id set
// comes from the in-memory tree, products themselves from the database.
func (c *CatalogService) ListProducts(ctx context.Context, categoryID *int64, search string) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	if search != "" {
		return c.store.SearchActiveProducts(ctx, search)
	}

	if categoryID == nil || *categoryID == state.RootCategoryID {
		return c.store.ListActiveProducts(ctx)
	}

	ids := c.tree.ProductsIn(*categoryID)
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return c.store.GetActiveProductsByIDs(ctx, ids)
}

// ViewProduct retrieves a product with recommendations and, for a logged-in
// viewer, records the view in that user's browsing history. A userID of
// zero means anonymous.
func (c *CatalogService) ViewProduct(ctx context.Context, userID, productID int64) (*ProductDetail, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ViewProduct")
	defer span.End()

	product, err := c.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if userID != 0 {
		history, _ := c.sessions.Acquire(userID)
		history.Record(product.ID, product.Name, product.ImagePath, product.Price)
		util.ProductViewsTotal.Inc()
	}

	recs, err := c.store.GetRecommendations(ctx, productID, 3)
	if err != nil {
		c.logger.Warn("Failed to load recommendations",
			zap.Int64("product_id", productID),
			zap.Error(err))
		recs = nil
	}

	return &ProductDetail{
		Product:         *product,
		PriceFormatted:  util.FormatPeso(product.Price),
		Recommendations: recs,
	}, nil
}

// History returns the user's browsing history snapshot
func (c *CatalogService) History(userID int64) state.HistorySnapshot {
	history, _ := c.sessions.Acquire(userID)
	return history.Snapshot()
}

// ListAllProducts retrieves every product for the admin view
func (c *CatalogService) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	return c.store.ListAllProducts(ctx)
}

// GetProduct retrieves a product without recording a view, for admin
func (c *CatalogService) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	return c.store.GetProductByID(ctx, productID)
}

// CreateProduct creates a product, registers it in the category tree, and
// seeds its stock cache entry.
func (c *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if err := c.store.CreateProduct(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if product.IsActive {
		c.tree.AddProduct(product.CategoryID, product.ID)
	}
	if err := c.redis.InitStock(ctx, product.ID, product.Stock); err != nil {
		c.logger.Warn("Failed to seed stock cache",
			zap.Int64("product_id", product.ID),
			zap.Error(err))
	}

	c.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID))
	return nil
}

// UpdateProduct updates a product and moves its category membership when
// the category or active flag changed.
func (c *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if err := c.store.UpdateProduct(ctx, product); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	c.tree.RemoveProduct(product.ID)
	if product.IsActive {
		c.tree.AddProduct(product.CategoryID, product.ID)
	}
	if err := c.redis.InitStock(ctx, product.ID, product.Stock); err != nil {
		c.logger.Warn("Failed to refresh stock cache",
			zap.Int64("product_id", product.ID),
			zap.Error(err))
	}

	c.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	return nil
}

// DeleteProduct removes a product and its category membership
func (c *CatalogService) DeleteProduct(ctx context.Context, productID int64) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if err := c.store.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	c.tree.RemoveProduct(productID)
	if err := c.redis.DeleteStock(ctx, productID); err != nil {
		c.logger.Warn("Failed to drop stock cache",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}

	c.logger.Info("Product deleted", zap.Int64("product_id", productID))
	return nil
}
