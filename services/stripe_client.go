package services

import (
	"bytes"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// CheckoutGateway is the outbound surface of the payment processor used by
// the checkout flow. Narrowed to an interface so tests can stub the
// gateway without network calls.
type CheckoutGateway interface {
	CreateSession(params *SessionParams) (string, error)
	RetrieveSession(id string) (*stripe.CheckoutSession, error)
}

// SessionParams carries everything needed to open a hosted checkout
// session. Metadata is the only channel by which the completion webhook
// learns what to fulfill.
type SessionParams struct {
	AmountMinor   int64
	Currency      string
	Description   string
	CustomerEmail string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

type StripeService struct {
	SecretKey     string
	WebhookSecret string
}

func NewStripeService(secretKey, webhookSecret string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookSecret: webhookSecret}
}

// CreateSession opens a hosted Stripe checkout session for the computed
// grand total and returns its opaque id.
func (s *StripeService) CreateSession(p *SessionParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Your Total Purchase from HomeCraft"),
						Description: stripe.String(p.Description),
					},
					UnitAmount: stripe.Int64(p.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(p.CustomerEmail),
		SuccessURL:    stripe.String(p.SuccessURL),
		CancelURL:     stripe.String(p.CancelURL),
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// RetrieveSession fetches a session with its line items expanded, for the
// client-facing success page.
func (s *StripeService) RetrieveSession(id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items.data.price.product")
	return session.Get(id, params)
}

// ParseWebhook verifies the inbound notification's signature against the
// shared webhook secret and returns the decoded event.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookSecret)
}
