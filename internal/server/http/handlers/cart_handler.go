package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/server/http/dto"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)
	cart, err := h.facade.Cart(c.Request.Context(), userID)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// Add handles POST /api/cart/items/:itemID.
func (h *CartHandler) Add(c *gin.Context) {
	userID := CurrentUserID(c)
	itemID := c.Param("itemID")
	if itemID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	cart, err := h.facade.AddToCart(c.Request.Context(), userID, itemID)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// Remove handles DELETE /api/cart/items/:itemID.
func (h *CartHandler) Remove(c *gin.Context) {
	userID := CurrentUserID(c)
	itemID := c.Param("itemID")
	if itemID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	cart, err := h.facade.RemoveFromCart(c.Request.Context(), userID, itemID)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	userID := CurrentUserID(c)
	if err := h.facade.ClearCart(c.Request.Context(), userID); err != nil {
		c.Status(statusForError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func toCartResponse(cart model.Cart) dto.CartResponse {
	items := make(map[string]int, len(cart))
	for itemID, quantity := range cart {
		items[itemID] = quantity
	}
	return dto.CartResponse{Items: items}
}
