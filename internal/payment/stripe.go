package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	EventCheckoutCompleted = "checkout.session.completed"
	PaymentStatusPaid      = "paid"
)

// CheckoutRequest describes a hosted payment page for one stay.
type CheckoutRequest struct {
	CustomerEmail string
	Description   string
	AmountCents   int64
	Metadata      map[string]string
}

type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// CompletedCheckout is the part of a checkout session the booking flow reads.
type CompletedCheckout struct {
	SessionID        string
	CustomerEmail    string
	PaymentStatus    string
	AmountTotalCents int64
	Metadata         map[string]string
}

func (c *CompletedCheckout) Paid() bool {
	return c.PaymentStatus == PaymentStatusPaid
}

// Event is a verified webhook delivery. Checkout is set only for completed checkouts.
type Event struct {
	ID       string
	Type     string
	Checkout *CompletedCheckout
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature and decodes the event.
	// A bad signature returns domain.ErrInvalidSignature.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type StripeGateway struct {
	sessions      *session.Client
	webhookSecret string
	currency      string
	successURL    string
	cancelURL     string
}

func NewStripeGateway(secretKey, webhookSecret, currency, successURL, cancelURL string) *StripeGateway {
	return &StripeGateway{
		sessions:      &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		webhookSecret: webhookSecret,
		currency:      currency,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(req.CustomerEmail),
		SuccessURL:    stripe.String(g.successURL),
		CancelURL:     stripe.String(g.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	logger.ExternalServiceCall("stripe", "checkout.session.create", "amount", req.AmountCents)
	s, err := g.sessions.New(params)
	logger.ExternalServiceResult("stripe", "checkout.session.create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	return parseEvent(payload, signature, g.webhookSecret)
}

func parseEvent(payload []byte, signature, secret string) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		logger.Warn("Rejected webhook delivery", "error", err)
		return nil, domain.ErrInvalidSignature
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	email := cs.CustomerEmail
	if cs.CustomerDetails != nil && cs.CustomerDetails.Email != "" {
		email = cs.CustomerDetails.Email
	}
	out.Checkout = &CompletedCheckout{
		SessionID:        cs.ID,
		CustomerEmail:    email,
		PaymentStatus:    string(cs.PaymentStatus),
		AmountTotalCents: cs.AmountTotal,
		Metadata:         cs.Metadata,
	}
	return out, nil
}
