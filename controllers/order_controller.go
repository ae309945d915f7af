package controllers

import (
	"net/http"

	"homecraft-backend/errors"
	"homecraft-backend/middleware"
	"homecraft-backend/models"
	"homecraft-backend/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type OrderController struct {
	Orders repository.OrderRepo
}

func NewOrderController(orders repository.OrderRepo) *OrderController {
	return &OrderController{Orders: orders}
}

// GetOrders lists all orders, newest first. Admin only.
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.Orders.FindAll(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetMyOrders lists the authenticated customer's own orders.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	customerID, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	orders, err := oc.Orders.FindByCustomer(c.Request.Context(), customerID)
	if err != nil {
		zap.L().Error("Failed to fetch customer orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID fetches one order. Accessible to the owning customer or an
// admin.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := oc.Orders.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			_ = c.Error(errors.ErrNotFound.WithMessage("Order not found"))
		} else {
			zap.L().Error("Failed to fetch order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		}
		return
	}

	if !middleware.IsAdmin(c) && order.Customer.Hex() != middleware.UserID(c) {
		_ = c.Error(errors.ErrForbidden.WithMessage("Access Denied."))
		return
	}
	c.JSON(http.StatusOK, order)
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus sets the fulfillment status. Admin only; any status
// may move to any other.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			zap.L().Error("Failed to update order status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order. Admin only.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			zap.L().Error("Failed to delete order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order removed"})
}
