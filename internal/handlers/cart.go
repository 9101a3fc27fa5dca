// internal/handlers/cart.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javiei/proomtb-backend/internal/cart"
	"github.com/javiei/proomtb-backend/internal/services"
	"github.com/javiei/proomtb-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

type AddItemRequest struct {
	ProductID string   `json:"product_id" validate:"required"`
	Name      string   `json:"name,omitempty"`
	Price     float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Image     string   `json:"image,omitempty"`
	Images    []string `json:"images,omitempty"`
	Color     string   `json:"color,omitempty"`
	Size      string   `json:"size,omitempty"`
	Quantity  int      `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store := h.cartService.Store()
	utils.SuccessResponse(c, gin.H{
		"items": store.Lines(),
		"total": store.Total(),
		"count": store.Count(),
	})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	store := h.cartService.Store()
	ok := store.Add(cart.Item{
		ID:     req.ProductID,
		Name:   req.Name,
		Price:  req.Price,
		Image:  req.Image,
		Images: req.Images,
		Color:  req.Color,
		Size:   req.Size,
	}, qty)
	if !ok {
		utils.BadRequestResponse(c, "Item could not be added to the cart", nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items": store.Lines(),
		"total": store.Total(),
		"count": store.Count(),
	})
}

// PUT /cart/items/:key
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	key := c.Param("key")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store := h.cartService.Store()
	store.SetQuantity(key, req.Quantity)

	utils.SuccessResponse(c, gin.H{
		"items": store.Lines(),
		"total": store.Total(),
		"count": store.Count(),
	})
}

// DELETE /cart/items/:key
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store := h.cartService.Store()
	store.Remove(c.Param("key"))

	utils.SuccessResponse(c, gin.H{
		"items": store.Lines(),
		"total": store.Total(),
		"count": store.Count(),
	})
}

// DELETE /cart/products/:id
func (h *CartHandler) RemoveProduct(c *gin.Context) {
	store := h.cartService.Store()
	store.RemoveProduct(c.Param("id"))

	utils.SuccessResponse(c, gin.H{
		"items": store.Lines(),
		"total": store.Total(),
		"count": store.Count(),
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store := h.cartService.Store()
	store.Clear()

	utils.SuccessResponse(c, gin.H{
		"items": store.Lines(),
		"total": store.Total(),
		"count": store.Count(),
	})
}

// POST /cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	order, err := h.cartService.Checkout(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			utils.BadRequestResponse(c, "Cart is empty", nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"order": order,
	})
}

// GET /cart/orders
func (h *CartHandler) GetOrders(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.cartService.ListOrders(c.Request.Context(), userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}
