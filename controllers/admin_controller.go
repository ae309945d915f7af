package controllers

import (
	"net/http"

	"homecraft-backend/middleware"
	"homecraft-backend/models"
	"homecraft-backend/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AdminController struct {
	Admins repository.AdminRepo
	// RegistrationSecret gates creation of new admin accounts.
	RegistrationSecret string
}

func NewAdminController(admins repository.AdminRepo, registrationSecret string) *AdminController {
	return &AdminController{Admins: admins, RegistrationSecret: registrationSecret}
}

type adminRegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Secret   string `json:"secret"`
}

// RegisterAdmin creates a new admin account. Requires both an admin token
// and the registration secret.
func (ac *AdminController) RegisterAdmin(c *gin.Context) {
	var req adminRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide username and password"})
		return
	}

	if req.Secret != ac.RegistrationSecret {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to create an admin."})
		return
	}

	if _, err := ac.Admins.FindByUsername(c.Request.Context(), req.Username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Admin with that username already exists"})
		return
	} else if err != mongo.ErrNoDocuments {
		zap.L().Error("Failed to check existing admin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during admin creation"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during admin creation"})
		return
	}

	admin := &models.Admin{Username: req.Username, Password: string(hash)}
	if err := ac.Admins.Create(c.Request.Context(), admin); err != nil {
		zap.L().Error("Failed to create admin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during admin creation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"_id":      admin.ID.Hex(),
		"username": admin.Username,
	})
}

// GetAdmins lists all admin accounts. Admin only.
func (ac *AdminController) GetAdmins(c *gin.Context) {
	admins, err := ac.Admins.FindAll(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch admins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, admins)
}

// GetProfile returns the authenticated admin's own record, used for
// session verification on page refresh.
func (ac *AdminController) GetProfile(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin id"})
		return
	}

	admin, err := ac.Admins.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		return
	}
	c.JSON(http.StatusOK, admin)
}

// DeleteAdmin removes an admin account. Self-deletion is refused.
func (ac *AdminController) DeleteAdmin(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin id"})
		return
	}

	if id.Hex() == middleware.UserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account."})
		return
	}

	if err := ac.Admins.Delete(c.Request.Context(), id); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		} else {
			zap.L().Error("Failed to delete admin", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin removed successfully"})
}
