package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/service"
	apperrors "github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type PlaceOrderRequest struct {
	OrderID         string                   `json:"order_id"`
	CustomerName    string                   `json:"customer_name"`
	CustomerPhone   string                   `json:"customer_phone"`
	CustomerEmail   string                   `json:"customer_email"`
	ShippingAddress string                   `json:"shipping_address"`
	CustomerMessage string                   `json:"customer_message"`
	Items           []service.OrderItemInput `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// Place creates an order priced from the live catalog
// POST /api/v1/orders
func (ctrl *OrderController) Place(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid order data")
		return
	}

	order, err := ctrl.orderService.Place(c.Request.Context(), service.PlaceOrderInput{
		OrderID:         req.OrderID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		CustomerMessage: req.CustomerMessage,
		Items:           req.Items,
	})
	if err != nil {
		respondError(c, err, "place order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed",
		"order":   order.Public(),
	})
}

// Track lets a customer look up their order
// GET /api/v1/orders/track?order_id=&email=
func (ctrl *OrderController) Track(c *gin.Context) {
	order, err := ctrl.orderService.Track(c.Query("order_id"), c.Query("email"))
	if err != nil {
		respondError(c, err, "track order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// List returns orders, newest first
// GET /api/v1/admin/orders
func (ctrl *OrderController) List(c *gin.Context) {
	result, err := ctrl.orderService.List(c.Query("status"), pageParam(c))
	if err != nil {
		respondError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export downloads orders as an XLSX workbook
// GET /api/v1/admin/orders/export
func (ctrl *OrderController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.Export(c.Query("status"))
	if err != nil {
		respondError(c, err, "export orders")
		return
	}

	f, err := buildOrderWorkbook(orders)
	if err != nil {
		respondError(c, err, "build order workbook")
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		respondError(c, err, "write order workbook")
		return
	}

	log.Info("Orders exported", map[string]interface{}{
		"count": len(orders),
	})
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Get returns one order
// GET /api/v1/admin/orders/:id
func (ctrl *OrderController) Get(c *gin.Context) {
	order, err := ctrl.orderService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateStatus moves an order to any status
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status is required")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "update order status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Delete removes an order
// DELETE /api/v1/admin/orders/:id
func (ctrl *OrderController) Delete(c *gin.Context) {
	if err := ctrl.orderService.Delete(c.Param("id")); err != nil {
		respondError(c, err, "delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
