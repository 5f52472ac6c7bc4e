package payment

import (
	"context"
	"errors"
)

// ErrGatewayDisabled is returned when card payments are switched off in
// configuration. Cash-on-delivery orders are unaffected.
var ErrGatewayDisabled = errors.New("payment gateway is disabled")

// DisabledGateway is the gateway used when payments are not configured
type DisabledGateway struct{}

// NewDisabledGateway creates a new DisabledGateway
func NewDisabledGateway() *DisabledGateway {
	return &DisabledGateway{}
}

// CreateCheckout always fails; no provider is configured
func (g *DisabledGateway) CreateCheckout(_ context.Context, _ CheckoutInput) (*CheckoutOutput, error) {
	return nil, ErrGatewayDisabled
}

// VerifyWebhook always fails; no provider is configured
func (g *DisabledGateway) VerifyWebhook(_ []byte, _ string) (*WebhookEvent, error) {
	return nil, ErrGatewayDisabled
}

// Ensure DisabledGateway implements Gateway
var _ Gateway = (*DisabledGateway)(nil)
