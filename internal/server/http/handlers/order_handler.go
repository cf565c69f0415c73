package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/server/http/dto"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	address := model.Address{
		Line1:      req.Address.Line1,
		Line2:      req.Address.Line2,
		City:       req.Address.City,
		PostalCode: req.Address.PostalCode,
		Phone:      req.Address.Phone,
		Email:      req.Address.Email,
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), userID, address)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusCreated, dto.CreateOrderResponse{
		OrderID:           order.ID,
		ProcessorOrderRef: order.ProcessorOrderRef,
		Amount:            order.Amount,
	})
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ConfirmPayment handles POST /api/orders/:orderID/payment.
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	orderID := c.Param("orderID")
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.ConfirmPayment(c.Request.Context(), orderID,
		req.ProcessorOrderRef, req.ProcessorPaymentRef, req.Signature)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Webhook handles POST /api/payment/webhook. The route is unauthenticated;
// the recomputed signature is the authentication.
func (h *OrderHandler) Webhook(c *gin.Context) {
	var req dto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	_, err := h.facade.ConfirmPayment(c.Request.Context(), req.OrderID,
		req.ProcessorOrderRef, req.ProcessorPaymentRef, req.Signature)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.Status(http.StatusOK)
}

// ListAll handles GET /api/admin/orders.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.facade.AllOrders(c.Request.Context())
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// SetStatus handles PATCH /api/admin/orders/:orderID/status.
func (h *OrderHandler) SetStatus(c *gin.Context) {
	orderID := c.Param("orderID")
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.SetOrderStatus(c.Request.Context(), orderID, model.OrderStatus(req.Status))
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.Status(http.StatusOK)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemPayload{
			ItemID:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:               order.ID,
		Status:           string(order.Status),
		Amount:           order.Amount,
		PaymentConfirmed: order.PaymentConfirmed,
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return response
}
