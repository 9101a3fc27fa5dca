// internal/handlers/catalog.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javiei/proomtb-backend/internal/catalog"
	"github.com/javiei/proomtb-backend/internal/services"
	"github.com/javiei/proomtb-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	state := catalog.FilterState{
		Category:   c.DefaultQuery("category", catalog.CategoryAll),
		SearchTerm: c.Query("search"),
		Brand:      c.Query("brand"),
	}

	if ceilingStr := c.Query("max_price"); ceilingStr != "" {
		if ceiling, err := strconv.ParseFloat(ceilingStr, 64); err == nil {
			state.PriceCeiling = ceiling
		}
	}

	visible := 0
	if visibleStr := c.Query("visible"); visibleStr != "" {
		if v, err := strconv.Atoi(visibleStr); err == nil {
			visible = v
		}
	}

	products, hasMore, total := h.catalogService.Query(state, visible)

	utils.SuccessResponseWithMeta(c, gin.H{
		"products": products,
	}, gin.H{
		"total":     total,
		"visible":   len(products),
		"has_more":  hasMore,
		"page_size": h.catalogService.PageSize(),
	})
}

// GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.BadRequestResponse(c, "Product ID is required", nil)
		return
	}

	product, err := h.catalogService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// GET /products/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"categories": h.catalogService.Categories(),
	})
}

// POST /catalog/refresh
func (h *CatalogHandler) RefreshCatalog(c *gin.Context) {
	if err := h.catalogService.Refresh(c.Request.Context()); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Catalog refreshed",
	})
}
