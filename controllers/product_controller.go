package controllers

import (
	"math"
	"net/http"
	"strconv"

	"homecraft-backend/models"
	"homecraft-backend/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ProductController struct {
	Products repository.ProductRepo
	Cache    *CacheManager
}

func NewProductController(products repository.ProductRepo, cache *CacheManager) *ProductController {
	return &ProductController{Products: products, Cache: cache}
}

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock" binding:"min=0"`
}

// GetProducts retrieves a paginated product listing. Public read; cached.
func (pc *ProductController) GetProducts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("perPage", "10"))
	if err != nil || perPage <= 0 {
		perPage = 10
	}

	if cached, ok := pc.Cache.GetProductList(c.Request.Context(), page, perPage); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := pc.Products.Find(c.Request.Context(), page, perPage)
	if err != nil {
		zap.L().Error("Error finding products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	response := gin.H{
		"products": products,
		"meta": gin.H{
			"page":       page,
			"perPage":    perPage,
			"total":      total,
			"totalPages": totalPages,
		},
	}
	pc.Cache.SetProductListAsync(page, perPage, response)

	c.JSON(http.StatusOK, response)
}

// GetProductByID retrieves a single product. Public read; cached.
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id := c.Param("id")
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if cached, ok := pc.Cache.GetProduct(c.Request.Context(), id); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := pc.Products.FindByID(c.Request.Context(), productID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			zap.L().Error("Database error fetching product", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	pc.Cache.SetProductAsync(id, product)
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a catalog entry. Admin only.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
	}
	if err := pc.Products.Create(c.Request.Context(), product); err != nil {
		zap.L().Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	pc.Cache.InvalidateAsync("")
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct edits a catalog entry. Admin only.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	for _, field := range []string{"name", "description", "price", "image", "category", "stock"} {
		if v, ok := req[field]; ok {
			updates[field] = v
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	product, err := pc.Products.Update(c.Request.Context(), productID, updates)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			zap.L().Error("Failed to update product", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}

	pc.Cache.InvalidateAsync(id)
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a catalog entry. Admin only.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := pc.Products.Delete(c.Request.Context(), productID); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			zap.L().Error("Failed to delete product", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		}
		return
	}

	pc.Cache.InvalidateAsync(id)
	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}
