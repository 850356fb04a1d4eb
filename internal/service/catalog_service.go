package service

import (
	"context"
	"net/url"

	"storefront/internal/models"
	"storefront/internal/redisclient"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// StockCache is the stock display cache the catalog maintains. Implemented
// by redisclient.Client.
type StockCache interface {
	InitStock(ctx context.Context, productID int64, stock int) error
	Stock(ctx context.Context, productID int64) (int, error)
	AdjustStock(ctx context.Context, productID int64, delta int) error
}

var _ StockCache = (*redisclient.Client)(nil)

// CatalogService serves the product catalog and keeps the Redis stock
// display cache warm. The database stays authoritative; the cache only
// accelerates stock lookups.
type CatalogService struct {
	store  store.Store
	cache  StockCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(st store.Store, cache StockCache) *CatalogService {
	return &CatalogService{
		store:  st,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest represents a request to add a catalog product.
type CreateProductRequest struct {
	Nom         string   `json:"nom" binding:"required"`
	Description string   `json:"description"`
	Prix        *float64 `json:"prix" binding:"required"`
	Stock       *int     `json:"stock" binding:"required"`
	Image       string   `json:"image"`
	Actif       *bool    `json:"actif"`
	CategoryID  *int64   `json:"id_categorie"`
}

// Products retrieves all products, newest first.
func (cs *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	products, err := cs.store.Products(ctx)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to load products")
	}
	return products, nil
}

// ProductByID retrieves one product.
func (cs *CatalogService) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := cs.store.ProductByID(ctx, id)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to load product")
	}
	if p == nil {
		return nil, Errf(KindProductNotFound, "product %d not found", id)
	}
	return p, nil
}

// CreateProduct validates and inserts a product, then seeds its cache entry.
func (cs *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req.Nom == "" || req.Prix == nil || req.Stock == nil {
		return nil, Errf(KindValidation, "nom, prix and stock are required")
	}
	if *req.Prix < 0 {
		return nil, Errf(KindValidation, "prix must not be negative")
	}
	if *req.Stock < 0 {
		return nil, Errf(KindValidation, "stock must not be negative")
	}
	if req.Image != "" {
		if u, err := url.ParseRequestURI(req.Image); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, Errf(KindValidation, "image is not a valid URL")
		}
	}

	actif := true
	if req.Actif != nil {
		actif = *req.Actif
	}

	p := &models.Product{
		Nom:         req.Nom,
		Description: req.Description,
		Prix:        *req.Prix,
		Image:       req.Image,
		Stock:       *req.Stock,
		Actif:       actif,
		CategoryID:  req.CategoryID,
	}
	if err := cs.store.CreateProduct(ctx, p); err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to create product")
	}

	util.ProductsCreatedTotal.Inc()
	cs.logger.Info("Product created", zap.Int64("product_id", p.ID), zap.String("nom", p.Nom))

	if cs.cache != nil {
		if err := cs.cache.InitStock(ctx, p.ID, p.Stock); err != nil {
			cs.logger.Warn("Failed to seed stock cache", zap.Int64("product_id", p.ID), zap.Error(err))
		}
	}

	return p, nil
}

// Categories retrieves all categories.
func (cs *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := cs.store.Categories(ctx)
	if err != nil {
		return nil, WrapErr(KindPersistence, err, "failed to load categories")
	}
	return categories, nil
}

// ProductStock returns the current stock for a product, preferring the
// Redis cache and falling back to the database on a miss or error.
func (cs *CatalogService) ProductStock(ctx context.Context, productID int64) (int, error) {
	if cs.cache != nil {
		stock, err := cs.cache.Stock(ctx, productID)
		if err == nil {
			return stock, nil
		}
		cs.logger.Warn("Stock cache miss, falling back to DB",
			zap.Int64("product_id", productID), zap.Error(err))
	}

	p, err := cs.ProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Stock, nil
}

// SyncStockCache pushes every product's stock into Redis. Called at boot and
// harmless to repeat.
func (cs *CatalogService) SyncStockCache(ctx context.Context) error {
	if cs.cache == nil {
		return nil
	}

	products, err := cs.store.Products(ctx)
	if err != nil {
		return WrapErr(KindPersistence, err, "failed to load products for cache sync")
	}

	for _, p := range products {
		if err := cs.cache.InitStock(ctx, p.ID, p.Stock); err != nil {
			util.StockCacheSyncTotal.WithLabelValues("error").Inc()
			cs.logger.Error("Failed to sync stock to cache",
				zap.Int64("product_id", p.ID), zap.Error(err))
			continue
		}
		util.StockCacheSyncTotal.WithLabelValues("ok").Inc()
	}

	cs.logger.Info("Stock cache synced", zap.Int("count", len(products)))
	return nil
}

// RefreshStock re-reads one product's stock from the database into the
// cache. Used by the event worker after order mutations.
func (cs *CatalogService) RefreshStock(ctx context.Context, productID int64) error {
	if cs.cache == nil {
		return nil
	}

	p, err := cs.store.ProductByID(ctx, productID)
	if err != nil || p == nil {
		return err
	}
	return cs.cache.InitStock(ctx, p.ID, p.Stock)
}

// ApplyStockDelta applies a relative stock change to the cache entry. A
// product with no cache entry falls back to a full refresh from the database.
func (cs *CatalogService) ApplyStockDelta(ctx context.Context, productID int64, delta int) error {
	if cs.cache == nil {
		return nil
	}

	if err := cs.cache.AdjustStock(ctx, productID, delta); err != nil {
		cs.logger.Warn("Stock cache adjust failed, refreshing from DB",
			zap.Int64("product_id", productID), zap.Error(err))
		return cs.RefreshStock(ctx, productID)
	}
	return nil
}
