// Package payment provides the card payment gateway used for checkout.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// CheckoutInput describes the order a checkout session is opened for
type CheckoutInput struct {
	OrderNumber   string
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	Description   string
}

// CheckoutOutput is the provider-side session opened for an order
type CheckoutOutput struct {
	SessionID   string
	CheckoutURL string
}

// WebhookOutcome is what a verified provider event means for an order
type WebhookOutcome int

const (
	// WebhookIgnored means the event type carries no order state change
	WebhookIgnored WebhookOutcome = iota
	// WebhookPaid means the payment for the order completed
	WebhookPaid
	// WebhookFailed means the payment attempt for the order failed
	WebhookFailed
)

// WebhookEvent is a verified, decoded provider webhook event
type WebhookEvent struct {
	EventID     string
	EventType   string
	Outcome     WebhookOutcome
	OrderNumber string
	Reference   string
}

// Gateway abstracts the payment provider for checkout and webhook handling
type Gateway interface {
	// CreateCheckout opens a provider checkout session for the order
	CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutOutput, error)
	// VerifyWebhook checks the event signature and decodes the order outcome
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
