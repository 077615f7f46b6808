package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellerhq/seller_api/internal/middleware"
	"github.com/sellerhq/seller_api/internal/models"
	"github.com/sellerhq/seller_api/internal/service"
	"github.com/sellerhq/seller_api/internal/utils"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

// OrderHandler handles order-related HTTP endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List returns the vendor's orders with optional filters and pagination.
func (h *OrderHandler) List(c *gin.Context) {
	params := woocommerce.OrderListParams{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   1,
	}
	limit := 20
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			params.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	params.PerPage = limit

	orders, total, err := h.orderService.List(c.Request.Context(), middleware.GetToken(c), params)
	if err != nil {
		upstreamError(c, err, "Failed to list orders")
		return
	}

	utils.SuccessWithPagination(c, 200, "Orders retrieved successfully", gin.H{
		"orders": orders,
	}, params.Page, limit, total)
}

// Get returns a single order.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), middleware.GetToken(c), id)
	if err != nil {
		if err == utils.ErrOrderNotFound {
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		upstreamError(c, err, "Failed to get order")
		return
	}
	utils.Success(c, 200, "Order retrieved successfully", order)
}

// UpdateStatus moves an order to a new fulfilment status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input models.OrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), middleware.GetToken(c), id, input)
	if err != nil {
		if err == utils.ErrOrderNotFound {
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		upstreamError(c, err, "Failed to update order")
		return
	}
	utils.Success(c, 200, "Order updated successfully", order)
}

// Waybill returns the order's shipping waybill reference.
func (h *OrderHandler) Waybill(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	waybill, err := h.orderService.Waybill(c.Request.Context(), middleware.GetToken(c), id)
	if err != nil {
		switch err {
		case utils.ErrOrderNotFound:
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
		case utils.ErrWaybillNotFound:
			utils.Error(c, 404, "WAYBILL_NOT_FOUND", "No waybill has been generated for this order")
		default:
			upstreamError(c, err, "Failed to get waybill")
		}
		return
	}
	utils.Success(c, 200, "Waybill retrieved successfully", waybill)
}
