package services

import (
	"context"
	"encoding/json"
	"fmt"

	"homecraft-backend/errors"
	"homecraft-backend/models"
	"homecraft-backend/repository"

	"github.com/stripe/stripe-go/v80"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CartItem is one client-declared cart line. Name and Price are advisory
// only; pricing is always recomputed from the catalog store.
type CartItem struct {
	ProductID string  `json:"_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// metadataLine is the cart composition persisted into session metadata,
// the only channel by which the completion handler learns what to fulfill.
type metadataLine struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// CheckoutService owns the cart-to-order flow: server-side repricing when
// a session is opened, and order materialization when the gateway reports
// completion.
type CheckoutService struct {
	products    repository.ProductRepo
	customers   repository.CustomerRepo
	orders      repository.OrderRepo
	gateway     CheckoutGateway
	frontendURL string
}

func NewCheckoutService(
	products repository.ProductRepo,
	customers repository.CustomerRepo,
	orders repository.OrderRepo,
	gateway CheckoutGateway,
	frontendURL string,
) *CheckoutService {
	return &CheckoutService{
		products:    products,
		customers:   customers,
		orders:      orders,
		gateway:     gateway,
		frontendURL: frontendURL,
	}
}

// CreateSession verifies every cart line against the catalog, recomputes
// the grand total from stored prices, and opens a hosted payment session.
// The returned id is the handle the client redirects into.
func (s *CheckoutService) CreateSession(ctx context.Context, customerID string, items []CartItem) (string, *errors.Error) {
	if len(items) == 0 {
		return "", errors.ErrEmptyCart
	}

	customerOID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return "", errors.Wrap(errors.ErrBadRequest.WithMessage("Invalid customer id"), err)
	}

	customer, err := s.customers.FindByID(ctx, customerOID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", errors.ErrCustomerNotFound
		}
		return "", errors.Wrap(errors.ErrInternalServer, err)
	}

	var subtotal float64
	metaLines := make([]metadataLine, 0, len(items))
	for _, item := range items {
		productOID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return "", errors.Wrap(errors.ErrBadRequest.WithMessage("Invalid product id"), err)
		}

		product, err := s.products.FindByID(ctx, productOID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return "", errors.ErrProductNotFound.WithMessage(fmt.Sprintf("Product '%s' not found", item.Name))
			}
			return "", errors.Wrap(errors.ErrInternalServer, err)
		}
		if product.Stock < item.Quantity {
			return "", errors.ErrInsufficientStock.WithMessage(fmt.Sprintf("Not enough stock for '%s'", product.Name))
		}

		subtotal += product.Price * float64(item.Quantity)
		metaLines = append(metaLines, metadataLine{Product: item.ProductID, Quantity: item.Quantity})
	}

	total := GrandTotal(subtotal)

	cartJSON, err := json.Marshal(metaLines)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternalServer, err)
	}
	addressJSON, err := json.Marshal(customer.Address)
	if err != nil {
		return "", errors.Wrap(errors.ErrInternalServer, err)
	}

	sessionID, err := s.gateway.CreateSession(&SessionParams{
		AmountMinor:   ToMinorUnits(total),
		Currency:      "inr",
		Description:   fmt.Sprintf("Order for %s", customer.Name),
		CustomerEmail: customer.Email,
		Metadata: map[string]string{
			"customerId":      customerID,
			"cartItems":       string(cartJSON),
			"shippingAddress": string(addressJSON),
		},
		SuccessURL: s.frontendURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/cart",
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrInternalServer.WithMessage("Failed to create checkout session"), err)
	}

	zap.L().Info("Checkout session created",
		zap.String("session_id", sessionID),
		zap.String("customer_id", customerID),
		zap.Float64("subtotal", subtotal),
		zap.Float64("total", total),
	)
	return sessionID, nil
}

// HandleCompletedSession is the one state-transition point from cart to
// paid order. Any failure here is logged and swallowed: the payment has
// already succeeded, the gateway only retries delivery, and the gap is
// left to manual reconciliation.
func (s *CheckoutService) HandleCompletedSession(ctx context.Context, sess *stripe.CheckoutSession) {
	customerID := sess.Metadata["customerId"]
	cartJSON := sess.Metadata["cartItems"]
	addressJSON := sess.Metadata["shippingAddress"]

	if customerID == "" || cartJSON == "" || addressJSON == "" {
		// A session without our metadata was created outside the normal
		// initiator path; fabricating an order from it would be worse.
		zap.L().Error("Webhook session missing required metadata",
			zap.String("session_id", sess.ID),
			zap.Any("metadata", sess.Metadata),
		)
		return
	}

	// Idempotency guard: gateways redeliver events at-least-once.
	if _, err := s.orders.FindBySessionID(ctx, sess.ID); err == nil {
		zap.L().Warn("Order for session already exists, skipping duplicate webhook",
			zap.String("session_id", sess.ID),
		)
		return
	} else if err != mongo.ErrNoDocuments {
		zap.L().Error("Failed to check for existing order",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return
	}

	var lines []metadataLine
	if err := json.Unmarshal([]byte(cartJSON), &lines); err != nil {
		zap.L().Error("Failed to decode cart metadata",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return
	}
	var address models.Address
	if err := json.Unmarshal([]byte(addressJSON), &address); err != nil {
		zap.L().Error("Failed to decode shipping address metadata",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return
	}
	customerOID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		zap.L().Error("Invalid customer id in session metadata",
			zap.String("session_id", sess.ID),
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		return
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		productOID, err := primitive.ObjectIDFromHex(line.Product)
		if err != nil {
			zap.L().Error("Invalid product id in session metadata, skipping line",
				zap.String("session_id", sess.ID),
				zap.String("product_id", line.Product),
			)
			continue
		}
		product, err := s.products.FindByID(ctx, productOID)
		if err != nil {
			zap.L().Error("Product not found during fulfillment, skipping line",
				zap.String("session_id", sess.ID),
				zap.String("product_id", line.Product),
				zap.Error(err),
			)
			continue
		}

		// Clamp at zero: stock may already have dropped from a concurrent
		// order. This prevents negative displayed stock, not overselling.
		newStock := product.Stock - line.Quantity
		if newStock < 0 {
			newStock = 0
		}
		if err := s.products.UpdateStock(ctx, product.ID, newStock); err != nil {
			zap.L().Error("Failed to decrement stock",
				zap.String("session_id", sess.ID),
				zap.String("product_id", line.Product),
				zap.Error(err),
			)
			return
		}

		items = append(items, models.OrderItem{
			Product:  product.ID,
			Name:     product.Name,
			Quantity: line.Quantity,
			Price:    product.Price,
		})
	}

	if len(items) == 0 {
		zap.L().Error("No valid products for order creation",
			zap.String("session_id", sess.ID),
		)
		return
	}

	// The gateway-reported paid amount is the order total, not a
	// re-derived figure.
	order := &models.Order{
		Customer:        customerOID,
		Items:           items,
		TotalAmount:     float64(sess.AmountTotal) / 100,
		ShippingAddress: address,
		PaymentDetails: models.PaymentDetails{
			SessionID:     sess.ID,
			PaymentStatus: "Paid",
		},
		Status: models.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		zap.L().Error("Failed to create order from webhook",
			zap.String("session_id", sess.ID),
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		return
	}

	zap.L().Info("Order created from completed session",
		zap.String("session_id", sess.ID),
		zap.String("order_id", order.ID.Hex()),
		zap.String("customer_id", customerID),
		zap.Float64("total_amount", order.TotalAmount),
	)
}
