package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/vclothes/backend/internal/application/order"
	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/shared/valueobject"
	"github.com/vclothes/backend/internal/infrastructure/payment"
)

// fakeOrderRepo is an in-memory order.Repository with the optimistic version
// check of the real one
type fakeOrderRepo struct {
	orders map[uuid.UUID]order.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]order.Order)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return &o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByPurchaser(_ context.Context, purchaserID uuid.UUID, _ shared.Filter) ([]order.Order, error) {
	var out []order.Order
	for _, o := range r.orders {
		if o.PurchaserID == purchaserID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]order.Order, error) {
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) SaveWithLock(_ context.Context, o *order.Order) error {
	stored, ok := r.orders[o.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != o.Version {
		return shared.ErrConcurrencyConflict
	}
	o.Version++
	r.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

// fakeGateway records checkout calls and plays back canned webhook events
type fakeGateway struct {
	checkouts []payment.CheckoutInput
	event     *payment.WebhookEvent
	verifyErr error
}

func (g *fakeGateway) CreateCheckout(_ context.Context, input payment.CheckoutInput) (*payment.CheckoutOutput, error) {
	g.checkouts = append(g.checkouts, input)
	return &payment.CheckoutOutput{
		SessionID:   "cs_test_123",
		CheckoutURL: "https://checkout.stripe.com/c/pay/cs_test_123",
	}, nil
}

func (g *fakeGateway) VerifyWebhook(_ []byte, _ string) (*payment.WebhookEvent, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.event, nil
}

func placeCardOrder(t *testing.T, repo *fakeOrderRepo, purchaserID uuid.UUID) *order.Order {
	t.Helper()
	address, err := valueobject.NewAddress("Jamie Doe", "1 Market St", "Springfield", "12345", "US")
	require.NoError(t, err)
	item := order.NewLineItem(uuid.New(), "Linen Shirt", nil, 2, decimal.NewFromInt(25))
	o, err := order.NewOrder(purchaserID, address, order.PaymentMethodCard, []order.LineItem{item})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

func newPaymentFixture(gateway payment.Gateway, repo *fakeOrderRepo) *PaymentService {
	orders := orderapp.NewOrderService(nil, repo, nil, 3, zap.NewNop())
	return NewPaymentService(gateway, repo, orders, zap.NewNop())
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestPaymentService_StartCheckout(t *testing.T) {
	t.Run("opens session for own pending card order", func(t *testing.T) {
		repo := newFakeOrderRepo()
		gateway := &fakeGateway{}
		service := newPaymentFixture(gateway, repo)
		purchaserID := uuid.New()
		o := placeCardOrder(t, repo, purchaserID)

		resp, err := service.StartCheckout(context.Background(), o.ID, purchaserID, false, "jamie@example.com")

		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", resp.SessionID)
		assert.NotEmpty(t, resp.CheckoutURL)
		require.Len(t, gateway.checkouts, 1)
		assert.Equal(t, o.OrderNumber, gateway.checkouts[0].OrderNumber)
		assert.True(t, gateway.checkouts[0].Amount.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, "jamie@example.com", gateway.checkouts[0].CustomerEmail)
	})

	t.Run("rejects checkout for someone else's order", func(t *testing.T) {
		repo := newFakeOrderRepo()
		service := newPaymentFixture(&fakeGateway{}, repo)
		o := placeCardOrder(t, repo, uuid.New())

		_, err := service.StartCheckout(context.Background(), o.ID, uuid.New(), false, "")

		assert.Equal(t, shared.ErrForbidden, err)
	})

	t.Run("staff can start checkout for any order", func(t *testing.T) {
		repo := newFakeOrderRepo()
		service := newPaymentFixture(&fakeGateway{}, repo)
		o := placeCardOrder(t, repo, uuid.New())

		_, err := service.StartCheckout(context.Background(), o.ID, uuid.New(), true, "")

		assert.NoError(t, err)
	})

	t.Run("rejects cash on delivery order", func(t *testing.T) {
		repo := newFakeOrderRepo()
		service := newPaymentFixture(&fakeGateway{}, repo)
		purchaserID := uuid.New()

		address, err := valueobject.NewAddress("Jamie Doe", "1 Market St", "Springfield", "12345", "US")
		require.NoError(t, err)
		item := order.NewLineItem(uuid.New(), "Linen Shirt", nil, 1, decimal.NewFromInt(25))
		o, err := order.NewOrder(purchaserID, address, order.PaymentMethodCashOnDelivery, []order.LineItem{item})
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), o))

		_, err = service.StartCheckout(context.Background(), o.ID, purchaserID, false, "")

		assert.Equal(t, "INVALID_STATE", errorCode(t, err))
	})

	t.Run("rejects already paid order", func(t *testing.T) {
		repo := newFakeOrderRepo()
		service := newPaymentFixture(&fakeGateway{}, repo)
		purchaserID := uuid.New()
		o := placeCardOrder(t, repo, purchaserID)
		require.NoError(t, o.MarkPaid("pi_test"))
		require.NoError(t, repo.Save(context.Background(), o))

		_, err := service.StartCheckout(context.Background(), o.ID, purchaserID, false, "")

		assert.Equal(t, "INVALID_STATE", errorCode(t, err))
	})
}

func TestPaymentService_ProcessWebhook(t *testing.T) {
	t.Run("paid event marks the order paid", func(t *testing.T) {
		repo := newFakeOrderRepo()
		o := placeCardOrder(t, repo, uuid.New())
		gateway := &fakeGateway{event: &payment.WebhookEvent{
			EventID:     "evt_1",
			EventType:   "checkout.session.completed",
			Outcome:     payment.WebhookPaid,
			OrderNumber: o.OrderNumber,
			Reference:   "pi_test_1",
		}}
		service := newPaymentFixture(gateway, repo)

		result, err := service.ProcessWebhook(context.Background(), []byte("{}"), "sig")

		require.NoError(t, err)
		assert.True(t, result.Processed)

		stored, err := repo.FindByOrderNumber(context.Background(), o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPaid, stored.PaymentStatus)
		assert.Equal(t, "pi_test_1", stored.PaymentReference)
	})

	t.Run("repeated paid event is acknowledged", func(t *testing.T) {
		repo := newFakeOrderRepo()
		o := placeCardOrder(t, repo, uuid.New())
		gateway := &fakeGateway{event: &payment.WebhookEvent{
			EventID:     "evt_1",
			EventType:   "checkout.session.completed",
			Outcome:     payment.WebhookPaid,
			OrderNumber: o.OrderNumber,
			Reference:   "pi_test_1",
		}}
		service := newPaymentFixture(gateway, repo)

		_, err := service.ProcessWebhook(context.Background(), []byte("{}"), "sig")
		require.NoError(t, err)
		result, err := service.ProcessWebhook(context.Background(), []byte("{}"), "sig")

		require.NoError(t, err)
		assert.True(t, result.Processed)
	})

	t.Run("failed event marks the payment failed", func(t *testing.T) {
		repo := newFakeOrderRepo()
		o := placeCardOrder(t, repo, uuid.New())
		gateway := &fakeGateway{event: &payment.WebhookEvent{
			EventID:     "evt_2",
			EventType:   "payment_intent.payment_failed",
			Outcome:     payment.WebhookFailed,
			OrderNumber: o.OrderNumber,
			Reference:   "pi_test_2",
		}}
		service := newPaymentFixture(gateway, repo)

		result, err := service.ProcessWebhook(context.Background(), []byte("{}"), "sig")

		require.NoError(t, err)
		assert.True(t, result.Processed)

		stored, err := repo.FindByOrderNumber(context.Background(), o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusFailed, stored.PaymentStatus)
	})

	t.Run("unknown order is acknowledged without error", func(t *testing.T) {
		repo := newFakeOrderRepo()
		gateway := &fakeGateway{event: &payment.WebhookEvent{
			EventID:     "evt_3",
			EventType:   "checkout.session.completed",
			Outcome:     payment.WebhookPaid,
			OrderNumber: "ORD-UNKNOWN",
			Reference:   "pi_test_3",
		}}
		service := newPaymentFixture(gateway, repo)

		result, err := service.ProcessWebhook(context.Background(), []byte("{}"), "sig")

		require.NoError(t, err)
		assert.False(t, result.Processed)
		assert.Equal(t, "Order not found", result.Message)
	})

	t.Run("ignored event type is acknowledged", func(t *testing.T) {
		repo := newFakeOrderRepo()
		gateway := &fakeGateway{event: &payment.WebhookEvent{
			EventID:   "evt_4",
			EventType: "charge.updated",
			Outcome:   payment.WebhookIgnored,
		}}
		service := newPaymentFixture(gateway, repo)

		result, err := service.ProcessWebhook(context.Background(), []byte("{}"), "sig")

		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "Event type not handled", result.Message)
	})

	t.Run("signature failure propagates", func(t *testing.T) {
		repo := newFakeOrderRepo()
		gateway := &fakeGateway{verifyErr: errors.New("webhook signature verification failed")}
		service := newPaymentFixture(gateway, repo)

		_, err := service.ProcessWebhook(context.Background(), []byte("{}"), "bad")

		assert.Error(t, err)
	})
}
