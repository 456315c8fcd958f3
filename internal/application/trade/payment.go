package trade

import (
	"context"

	"github.com/google/uuid"
)

// PaymentEventKind classifies a verified payment webhook
type PaymentEventKind string

const (
	PaymentEventIgnored   PaymentEventKind = "ignored"
	PaymentEventSucceeded PaymentEventKind = "succeeded"
	PaymentEventFailed    PaymentEventKind = "failed"
	PaymentEventCanceled  PaymentEventKind = "canceled"
)

// PaymentIntentInput is what the gateway needs to start a payment
type PaymentIntentInput struct {
	OrderID       uuid.UUID
	OrderNumber   string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
}

// PaymentIntent is the provider's view of a payment
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	AmountMinor  int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// PaymentEvent is a verified webhook reduced to what the order flow needs
type PaymentEvent struct {
	EventID         string           `json:"event_id"`
	Kind            PaymentEventKind `json:"kind"`
	PaymentIntentID string           `json:"payment_intent_id,omitempty"`
	OrderID         string           `json:"order_id,omitempty"`
	AmountMinor     int64            `json:"amount,omitempty"`
}

// PaymentGateway creates payment intents and verifies webhooks
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, input PaymentIntentInput) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}
