// Package payment collects order payments through Stripe PaymentIntents.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	tradeapp "github.com/menswear/backend/internal/application/trade"
	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

var _ tradeapp.PaymentGateway = (*StripeGateway)(nil)

// Stripe event types the order flow reacts to
const (
	eventPaymentSucceeded = "payment_intent.succeeded"
	eventPaymentFailed    = "payment_intent.payment_failed"
	eventPaymentCanceled  = "payment_intent.canceled"
)

// ErrInvalidSignature is returned when a webhook payload fails verification
var ErrInvalidSignature = errors.New("stripe: webhook signature verification failed")

// StripeGateway creates payment intents and verifies webhook deliveries
type StripeGateway struct {
	intents       *paymentintent.Client
	webhookSecret string
	logger        *zap.Logger
}

// Option configures a StripeGateway
type Option func(*StripeGateway)

// WithBackend replaces the Stripe API backend, used by tests
func WithBackend(backend stripe.Backend) Option {
	return func(g *StripeGateway) {
		g.intents.B = backend
	}
}

// NewStripeGateway creates a gateway from the payment configuration
func NewStripeGateway(cfg config.PaymentConfig, logger *zap.Logger, opts ...Option) (*StripeGateway, error) {
	if cfg.StripeSecretKey == "" {
		return nil, errors.New("stripe: secret key is required")
	}
	if !strings.HasPrefix(cfg.StripeSecretKey, "sk_") && !strings.HasPrefix(cfg.StripeSecretKey, "rk_") {
		return nil, errors.New("stripe: secret key must start with sk_ or rk_")
	}

	g := &StripeGateway{
		intents: &paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: cfg.StripeSecretKey,
		},
		webhookSecret: cfg.StripeWebhookSecret,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// CreatePaymentIntent starts a card payment for an order.
// The idempotency key makes retries for the same order and amount return the same intent.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, input tradeapp.PaymentIntentInput) (*tradeapp.PaymentIntent, error) {
	if input.AmountMinor <= 0 {
		return nil, fmt.Errorf("stripe: amount must be positive, got %d", input.AmountMinor)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(input.AmountMinor),
		Currency: stripe.String(strings.ToLower(input.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("Order " + input.OrderNumber),
	}
	params.Context = ctx
	params.AddMetadata("order_id", input.OrderID.String())
	params.AddMetadata("order_number", input.OrderNumber)
	if input.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(input.CustomerEmail)
	}
	params.SetIdempotencyKey(fmt.Sprintf("order-%s-%d", input.OrderID, input.AmountMinor))

	pi, err := g.intents.New(params)
	if err != nil {
		g.logger.Error("Failed to create payment intent",
			zap.String("order_number", input.OrderNumber),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Info("Created payment intent",
		zap.String("order_number", input.OrderNumber),
		zap.String("payment_intent_id", pi.ID))

	return toPaymentIntent(pi), nil
}

// GetPaymentIntent fetches the current state of an intent
func (g *StripeGateway) GetPaymentIntent(ctx context.Context, id string) (*tradeapp.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to get payment intent: %w", err)
	}
	return toPaymentIntent(pi), nil
}

// ParseWebhook verifies the Stripe-Signature header and extracts the payment outcome.
// Events the order flow does not handle come back with PaymentEventIgnored.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*tradeapp.PaymentEvent, error) {
	if g.webhookSecret == "" {
		return nil, errors.New("stripe: webhook secret is not configured")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		g.logger.Warn("Rejected Stripe webhook", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &tradeapp.PaymentEvent{
		EventID: event.ID,
		Kind:    tradeapp.PaymentEventIgnored,
	}

	switch string(event.Type) {
	case eventPaymentSucceeded:
		result.Kind = tradeapp.PaymentEventSucceeded
	case eventPaymentFailed:
		result.Kind = tradeapp.PaymentEventFailed
	case eventPaymentCanceled:
		result.Kind = tradeapp.PaymentEventCanceled
	default:
		g.logger.Debug("Ignoring Stripe event", zap.String("event_type", string(event.Type)))
		return result, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("stripe: failed to decode payment intent: %w", err)
	}
	result.PaymentIntentID = pi.ID
	result.OrderID = pi.Metadata["order_id"]
	result.AmountMinor = pi.Amount
	return result, nil
}

func toPaymentIntent(pi *stripe.PaymentIntent) *tradeapp.PaymentIntent {
	return &tradeapp.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
	}
}
