package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tradesync/internal/caching"
	"tradesync/internal/models"
	"tradesync/internal/repositories"
)

// CatalogHandlers serves read access to the reconciled catalog.
type CatalogHandlers struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	cache      caching.CacheService
}

func NewCatalogHandlers(categories repositories.CategoryRepository, products repositories.ProductRepository, cache caching.CacheService) *CatalogHandlers {
	return &CatalogHandlers{
		categories: categories,
		products:   products,
		cache:      cache,
	}
}

func listParams(c echo.Context) (models.Status, int, int) {
	status := models.StatusActive
	if s := c.QueryParam("status"); s == string(models.StatusDeleted) {
		status = models.StatusDeleted
	}
	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return status, limit, offset
}

// ListCategories returns one page of categories, read through the cache.
func (h *CatalogHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	status, limit, offset := listParams(c)

	if cached, err := h.cache.GetCategories(ctx, status, limit, offset); err == nil && cached != nil {
		return c.JSON(http.StatusOK, cached)
	}

	categories, err := h.categories.List(ctx, status, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list categories")
	}
	if err := h.cache.SetCategories(ctx, status, limit, offset, categories); err != nil {
		log.Printf("handlers: cache categories: %v", err)
	}
	return c.JSON(http.StatusOK, categories)
}

// ListProducts returns one page of products, read through the cache.
func (h *CatalogHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	status, limit, offset := listParams(c)

	if cached, err := h.cache.GetProducts(ctx, status, limit, offset); err == nil && cached != nil {
		return c.JSON(http.StatusOK, cached)
	}

	products, err := h.products.List(ctx, status, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list products")
	}
	if err := h.cache.SetProducts(ctx, status, limit, offset, products); err != nil {
		log.Printf("handlers: cache products: %v", err)
	}
	return c.JSON(http.StatusOK, products)
}
