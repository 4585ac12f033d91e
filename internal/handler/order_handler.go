package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campusdeals/campus-deals-api/internal/dto"
	"github.com/campusdeals/campus-deals-api/internal/middleware"
	"github.com/campusdeals/campus-deals-api/internal/service"
	"github.com/campusdeals/campus-deals-api/pkg/response"
)

// OrderHandler handles buy/sell order requests
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Place creates a new order for the caller
// POST /api/v1/orders
func (h *OrderHandler) Place(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, response.CodeInvalidToken, "Not authenticated")
		return
	}

	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), userID.(string), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			response.BadRequest(c, "Invalid order")
			return
		}
		if errors.Is(err, service.ErrUnavailable) {
			response.Unavailable(c, "Backing store is unavailable, try again later")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, "Order placed", result)
}

// List returns the caller's orders
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, response.CodeInvalidToken, "Not authenticated")
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrUnavailable) {
			response.Unavailable(c, "Backing store is unavailable, try again later")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, "OK", result)
}
