package controllers

import (
	"net/http"

	"homecraft-backend/errors"
	"homecraft-backend/models"
	"homecraft-backend/repository"
	"homecraft-backend/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	Customers repository.CustomerRepo
	Admins    repository.AdminRepo
	Tokens    *services.TokenService
}

func NewAuthController(customers repository.CustomerRepo, admins repository.AdminRepo, tokens *services.TokenService) *AuthController {
	return &AuthController{Customers: customers, Admins: admins, Tokens: tokens}
}

type signupRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Phone    string         `json:"phone"`
	Address  models.Address `json:"address" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new customer and returns a customer-realm token.
func (ac *AuthController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := ac.Customers.FindByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	} else if err != mongo.ErrNoDocuments {
		zap.L().Error("Failed to check existing customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		return
	}

	customer := &models.Customer{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := ac.Customers.Create(c.Request.Context(), customer); err != nil {
		zap.L().Error("Failed to create customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		return
	}

	token, err := ac.Tokens.GenerateCustomerToken(customer.ID.Hex())
	if err != nil {
		zap.L().Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup successful",
		"token":   token,
		"user": gin.H{
			"id":      customer.ID.Hex(),
			"name":    customer.Name,
			"email":   customer.Email,
			"phone":   customer.Phone,
			"address": customer.Address,
		},
	})
}

// Login authenticates a customer by email and password.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := ac.Customers.FindByEmail(c.Request.Context(), req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)) != nil {
		_ = c.Error(errors.ErrInvalidCredentials.WithMessage("Invalid email or password"))
		return
	}

	token, err := ac.Tokens.GenerateCustomerToken(customer.ID.Hex())
	if err != nil {
		zap.L().Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":      customer.ID.Hex(),
			"name":    customer.Name,
			"email":   customer.Email,
			"phone":   customer.Phone,
			"address": customer.Address,
		},
	})
}

// LoginAdmin authenticates against the admin realm. Admin tokens are
// short-lived and distinct from customer tokens.
func (ac *AuthController) LoginAdmin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := ac.Admins.FindByUsername(c.Request.Context(), req.Username)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		_ = c.Error(errors.ErrInvalidCredentials)
		return
	}

	token, err := ac.Tokens.GenerateAdminToken(admin.ID.Hex())
	if err != nil {
		zap.L().Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":      admin.ID.Hex(),
			"name":    admin.Username,
			"isAdmin": true,
		},
	})
}
