package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	infraconfig "github.com/vclothes/backend/internal/infrastructure/config"
)

// orderNumberMetadataKey carries the order number through Stripe objects so
// webhook events can be tied back to the order they settle.
const orderNumberMetadataKey = "order_number"

// StripeGateway implements Gateway against the Stripe API
type StripeGateway struct {
	config *infraconfig.PaymentConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *infraconfig.PaymentConfig, logger *zap.Logger) (*StripeGateway, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}
	if config.Currency == "" {
		return nil, fmt.Errorf("stripe: currency is required")
	}

	stripe.Key = config.SecretKey

	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreateCheckout opens a Stripe Checkout session for the order. The order
// total charges as a single line item; the order number travels in the
// session metadata and payment intent metadata.
func (g *StripeGateway) CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutOutput, error) {
	currency := input.Currency
	if currency == "" {
		currency = g.config.Currency
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.config.SuccessURL),
		CancelURL:  stripe.String(g.config.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(toMinorUnits(input.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(input.Description),
					},
				},
			},
		},
		Metadata: map[string]string{
			orderNumberMetadataKey: input.OrderNumber,
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				orderNumberMetadataKey: input.OrderNumber,
			},
		},
	}
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("order_number", input.OrderNumber),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("order_number", input.OrderNumber),
		zap.String("session_id", sess.ID))

	return &CheckoutOutput{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}

// VerifyWebhook checks the Stripe signature and decodes the event into an
// order outcome. Events that carry no order number or no handled type come
// back as WebhookIgnored rather than an error, so the webhook endpoint can
// acknowledge them and stop Stripe from retrying.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.config.WebhookSecret)
	if err != nil {
		g.logger.Error("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	decoded := &WebhookEvent{
		EventID:   event.ID,
		EventType: string(event.Type),
		Outcome:   WebhookIgnored,
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
		}
		decoded.OrderNumber = sess.Metadata[orderNumberMetadataKey]
		decoded.Reference = sess.ID
		if sess.PaymentIntent != nil {
			decoded.Reference = sess.PaymentIntent.ID
		}
		if decoded.OrderNumber != "" {
			decoded.Outcome = WebhookPaid
		}
	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment intent: %w", err)
		}
		decoded.OrderNumber = intent.Metadata[orderNumberMetadataKey]
		decoded.Reference = intent.ID
		if decoded.OrderNumber != "" {
			decoded.Outcome = WebhookFailed
		}
	default:
		g.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
	}

	if decoded.Outcome == WebhookIgnored {
		g.logger.Debug("Webhook event carries no order outcome",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return decoded, nil
}

// toMinorUnits converts a decimal amount to the currency's minor units.
// Stripe charges in cents; amounts round half up to the nearest cent.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Ensure StripeGateway implements Gateway
var _ Gateway = (*StripeGateway)(nil)
