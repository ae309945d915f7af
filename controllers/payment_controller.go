package controllers

import (
	"encoding/json"
	"net/http"

	"homecraft-backend/logger"
	"homecraft-backend/middleware"
	"homecraft-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type PaymentController struct {
	Checkout *services.CheckoutService
	Stripe   *services.StripeService
}

func NewPaymentController(checkout *services.CheckoutService, stripe *services.StripeService) *PaymentController {
	return &PaymentController{Checkout: checkout, Stripe: stripe}
}

type checkoutSessionRequest struct {
	CartItems []services.CartItem `json:"cartItems" binding:"required,dive"`
}

// CreateCheckoutSession opens a hosted payment session for the
// authenticated customer's cart.
func (pc *PaymentController) CreateCheckoutSession(c *gin.Context) {
	var req checkoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty."})
		return
	}

	sessionID, svcErr := pc.Checkout.CreateSession(c.Request.Context(), middleware.UserID(c), req.CartItems)
	if svcErr != nil {
		zap.L().Warn("Failed to create checkout session",
			zap.String("request_id", logger.RequestID(c)),
			zap.String("customer_id", middleware.UserID(c)),
			zap.Error(svcErr),
		)
		_ = c.Error(svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}

// StripeWebhook receives the gateway's asynchronous completion events.
// The signature must verify before anything is processed; after that the
// response is always 200, and processing failures are logged for manual
// reconciliation since the gateway only retries delivery.
func (pc *PaymentController) StripeWebhook(c *gin.Context) {
	event, err := pc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		zap.L().Warn("Stripe webhook signature verification failed",
			zap.String("request_id", logger.RequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			zap.L().Error("Failed to unmarshal checkout session", zap.Error(err))
			break
		}
		zap.L().Info("Processing completed checkout session",
			zap.String("event_id", event.ID),
			zap.String("session_id", sess.ID),
		)
		pc.Checkout.HandleCompletedSession(c.Request.Context(), &sess)
	default:
		zap.L().Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// GetSession returns the session detail for the success page, with line
// items expanded so the client can render purchased items and the
// shipping address from metadata.
func (pc *PaymentController) GetSession(c *gin.Context) {
	sess, err := pc.Stripe.RetrieveSession(c.Param("id"))
	if err != nil {
		zap.L().Error("Failed to retrieve checkout session", zap.String("session_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}
