package controllers

import (
	"net/http"

	"homecraft-backend/middleware"
	"homecraft-backend/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type CustomerController struct {
	Customers repository.CustomerRepo
}

func NewCustomerController(customers repository.CustomerRepo) *CustomerController {
	return &CustomerController{Customers: customers}
}

// GetCustomers lists all customers. Admin only.
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.Customers.FindAll(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch customers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomerByID fetches one customer. Admin only.
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	customer, err := cc.Customers.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			zap.L().Error("Failed to fetch customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer"})
		}
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GetProfile returns the authenticated customer's own record.
func (cc *CustomerController) GetProfile(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	customer, err := cc.Customers.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateProfile mutates a customer profile. Self-or-admin.
func (cc *CustomerController) UpdateProfile(c *gin.Context) {
	targetID := c.Param("id")
	if middleware.UserID(c) != targetID && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied. You can only update your own profile."})
		return
	}

	id, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Password and email changes go through their own flows.
	updates := map[string]interface{}{}
	for _, field := range []string{"name", "phone", "address"} {
		if v, ok := req[field]; ok {
			updates[field] = v
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	customer, err := cc.Customers.Update(c.Request.Context(), id, updates)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			zap.L().Error("Failed to update customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		}
		return
	}
	c.JSON(http.StatusOK, customer)
}

type passwordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UpdatePassword changes the authenticated customer's password after
// verifying the current one. Owner only.
func (cc *CustomerController) UpdatePassword(c *gin.Context) {
	var req passwordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a valid current password and a new password of at least 6 characters."})
		return
	}

	id, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	customer, err := cc.Customers.FindByID(c.Request.Context(), id)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid current password"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	if err := cc.Customers.UpdatePassword(c.Request.Context(), id, string(hash)); err != nil {
		zap.L().Error("Failed to update password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteCustomer removes a customer account. Admin only.
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	if err := cc.Customers.Delete(c.Request.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			zap.L().Error("Failed to delete customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
