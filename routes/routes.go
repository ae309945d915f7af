package routes

import (
	"homecraft-backend/controllers"
	"homecraft-backend/middleware"
	"homecraft-backend/repository"
	"homecraft-backend/services"

	"github.com/gin-gonic/gin"
)

// Controllers bundles every handler group for registration.
type Controllers struct {
	Auth     *controllers.AuthController
	Product  *controllers.ProductController
	Customer *controllers.CustomerController
	Admin    *controllers.AdminController
	Order    *controllers.OrderController
	Payment  *controllers.PaymentController
}

// Register wires the full HTTP surface. The webhook route stays outside
// the authenticated groups: it is verified by signature, not bearer token,
// and must read the raw request body.
func Register(
	r *gin.Engine,
	ctrl *Controllers,
	tokens *services.TokenService,
	customers repository.CustomerRepo,
	admins repository.AdminRepo,
	loginLimiter gin.HandlerFunc,
) {
	protect := middleware.Protect(tokens, customers, admins)
	adminOnly := middleware.AdminOnly()

	// Customer signup and login
	user := r.Group("/api/user")
	user.Use(loginLimiter)
	{
		user.POST("/signup", ctrl.Auth.Signup)
		user.POST("/login", ctrl.Auth.Login)
	}

	// Catalog: public reads, admin writes
	products := r.Group("/api/products")
	{
		products.GET("", ctrl.Product.GetProducts)
		products.GET("/:id", ctrl.Product.GetProductByID)
		products.POST("", protect, adminOnly, ctrl.Product.CreateProduct)
		products.PUT("/:id", protect, adminOnly, ctrl.Product.UpdateProduct)
		products.DELETE("/:id", protect, adminOnly, ctrl.Product.DeleteProduct)
	}

	customersGroup := r.Group("/api/customers", protect)
	{
		customersGroup.GET("/profile", ctrl.Customer.GetProfile)
		customersGroup.PUT("/profile/:id", ctrl.Customer.UpdateProfile)
		customersGroup.PUT("/password", ctrl.Customer.UpdatePassword)
		customersGroup.GET("", adminOnly, ctrl.Customer.GetCustomers)
		customersGroup.GET("/:id", adminOnly, ctrl.Customer.GetCustomerByID)
		customersGroup.DELETE("/:id", adminOnly, ctrl.Customer.DeleteCustomer)
	}

	orders := r.Group("/api/orders", protect)
	{
		orders.GET("", adminOnly, ctrl.Order.GetOrders)
		orders.GET("/myorders", ctrl.Order.GetMyOrders)
		orders.GET("/:id", ctrl.Order.GetOrderByID) // owner or admin, checked in handler
		orders.PUT("/:id", adminOnly, ctrl.Order.UpdateOrderStatus)
		orders.DELETE("/:id", adminOnly, ctrl.Order.DeleteOrder)
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/login", loginLimiter, ctrl.Auth.LoginAdmin)
		admin.GET("/profile", protect, adminOnly, ctrl.Admin.GetProfile)
		admin.GET("", protect, adminOnly, ctrl.Admin.GetAdmins)
		admin.POST("", protect, adminOnly, ctrl.Admin.RegisterAdmin)
		admin.DELETE("/:id", protect, adminOnly, ctrl.Admin.DeleteAdmin)
	}

	payment := r.Group("/api/payment")
	{
		payment.POST("/create-checkout-session", protect, ctrl.Payment.CreateCheckoutSession)
		payment.POST("/webhook", ctrl.Payment.StripeWebhook)
		payment.GET("/session/:id", protect, ctrl.Payment.GetSession)
	}
}
