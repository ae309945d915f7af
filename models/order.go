package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order fulfillment statuses. Admins may set any status directly; there is
// no enforced transition order.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem freezes the unit price at purchase time; later catalog price
// changes do not affect existing orders.
type OrderItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Name     string             `json:"name" bson:"name"`
	Quantity int                `json:"quantity" bson:"quantity"`
	Price    float64            `json:"price" bson:"price"`
}

// PaymentDetails ties an order to its gateway session. SessionID carries a
// unique index, making it the idempotency key for webhook order creation.
type PaymentDetails struct {
	SessionID     string `json:"sessionId" bson:"session_id"`
	PaymentStatus string `json:"paymentStatus" bson:"payment_status"`
}

type Order struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Customer        primitive.ObjectID `json:"customer" bson:"customer"`
	Items           []OrderItem        `json:"items" bson:"items"`
	TotalAmount     float64            `json:"totalAmount" bson:"total_amount"`
	ShippingAddress Address            `json:"shippingAddress" bson:"shipping_address"`
	PaymentDetails  PaymentDetails     `json:"paymentDetails" bson:"payment_details"`
	Status          string             `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"createdAt,omitempty" bson:"created_at,omitempty"`
	UpdatedAt       time.Time          `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}
