package order

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/application/inventory"
	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/infrastructure/telemetry"
)

// OrderService places and manages orders. Order creation prices each line
// from the current catalog, deducts the stock and persists the order through
// the injected transaction scope: with the default transactional scope the
// whole order is all-or-nothing, with a no-op scope each line commits as it
// is processed.
type OrderService struct {
	scope         inventory.TransactionScope
	orderRepo     order.Repository
	publisher     shared.EventPublisher
	retryAttempts int
	logger        *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	scope inventory.TransactionScope,
	orderRepo order.Repository,
	publisher shared.EventPublisher,
	retryAttempts int,
	logger *zap.Logger,
) *OrderService {
	if retryAttempts < 1 {
		retryAttempts = inventory.DefaultSaveRetryAttempts
	}
	return &OrderService{
		scope:         scope,
		orderRepo:     orderRepo,
		publisher:     publisher,
		retryAttempts: retryAttempts,
		logger:        logger,
	}
}

// Create places an order for the purchaser. Insufficient stock on any line
// aborts the whole order; a version conflict with a concurrent writer retries
// the transaction against fresh stock state.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest, purchaserID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "order.create",
		attribute.Int("order.lines", len(req.Items)))
	defer span.End()

	address, err := req.ShippingAddress.toAddress()
	if err != nil {
		return nil, err
	}
	method := order.PaymentMethod(req.PaymentMethod)
	if method != order.PaymentMethodCard && method != order.PaymentMethodCashOnDelivery {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported payment method")
	}

	var placed *order.Order
	err = inventory.RetryOnConflict(s.retryAttempts, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			lines, err := s.priceAndDeduct(ctx, repos.ProductRepo(), req.Items)
			if err != nil {
				return err
			}

			created, err := order.NewOrder(purchaserID, address, method, lines)
			if err != nil {
				return err
			}
			if err := repos.OrderRepo().Save(ctx, created); err != nil {
				return err
			}
			placed = created
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.number", placed.OrderNumber))
	s.logger.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("order_number", placed.OrderNumber),
		zap.String("total", placed.TotalAmount.String()),
		zap.Int("lines", len(placed.Items)))
	s.publishEvents(ctx, placed)
	return ToOrderResponse(placed), nil
}

// priceAndDeduct loads each referenced product once, snapshots the line
// prices, applies the deductions and saves the products under optimistic
// locking.
func (s *OrderService) priceAndDeduct(ctx context.Context, products catalog.ProductRepository, items []OrderItemRequest) ([]order.LineItem, error) {
	loaded := make(map[uuid.UUID]*catalog.Product)
	sequence := make([]uuid.UUID, 0, len(items))
	lines := make([]order.LineItem, 0, len(items))

	for _, item := range items {
		product, ok := loaded[item.ProductID]
		if !ok {
			var err error
			product, err = products.FindByID(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			loaded[item.ProductID] = product
			sequence = append(sequence, item.ProductID)
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("INVALID_STATE", "Product "+product.SKU+" is not available")
		}

		unitPrice, err := product.UnitPrice(item.VariantSKU)
		if err != nil {
			return nil, err
		}
		if err := product.DeductStock(item.VariantSKU, item.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, order.NewLineItem(product.ID, product.Name, item.VariantSKU, item.Quantity, unitPrice))
	}

	for _, id := range sequence {
		product := loaded[id]
		if err := product.Reconcile(); err != nil {
			return nil, err
		}
		if err := products.SaveWithLock(ctx, product); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// Get returns an order by ID. A non-staff caller only sees their own orders.
func (s *OrderService) Get(ctx context.Context, id, requesterID uuid.UUID, staff bool) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !staff && o.PurchaserID != requesterID {
		return nil, shared.ErrForbidden
	}
	return ToOrderResponse(o), nil
}

// ListByPurchaser returns a page of the purchaser's own orders
func (s *OrderService) ListByPurchaser(ctx context.Context, purchaserID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByPurchaser(ctx, purchaserID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *ToOrderResponse(&orders[i]))
	}
	return out, nil
}

// List returns a page of all orders
func (s *OrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToOrderResponse(&orders[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// MarkPaid records a verified payment against the order, keyed by order
// number as payment providers reference it. Idempotent for a repeated webhook
// delivery carrying the same reference.
func (s *OrderService) MarkPaid(ctx context.Context, orderNumber, reference string) (*OrderResponse, error) {
	var response *OrderResponse
	var paid *order.Order
	err := inventory.RetryOnConflict(s.retryAttempts, func() error {
		o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
		if err != nil {
			return err
		}
		if err := o.MarkPaid(reference); err != nil {
			return err
		}
		if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
			return err
		}
		response = ToOrderResponse(o)
		paid = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("order payment recorded", zap.String("order_number", orderNumber))
	s.publishEvents(ctx, paid)
	return response, nil
}

// MarkPaymentFailed records a failed payment attempt
func (s *OrderService) MarkPaymentFailed(ctx context.Context, orderNumber string) error {
	return inventory.RetryOnConflict(s.retryAttempts, func() error {
		o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
		if err != nil {
			return err
		}
		if err := o.MarkPaymentFailed(); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, o)
	})
}

// Ship marks the order shipped
func (s *OrderService) Ship(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, (*order.Order).Ship)
}

// Deliver marks the order delivered
func (s *OrderService) Deliver(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, (*order.Order).Deliver)
}

// Cancel cancels an unshipped order and restores the deducted stock through
// the same reconciliation pipeline the deduction went through. A non-staff
// caller only cancels their own orders.
func (s *OrderService) Cancel(ctx context.Context, id, requesterID uuid.UUID, staff bool) (*OrderResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "order.cancel",
		attribute.String("order.id", id.String()))
	defer span.End()

	var response *OrderResponse
	var cancelled *order.Order
	err := inventory.RetryOnConflict(s.retryAttempts, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			o, err := repos.OrderRepo().FindByID(ctx, id)
			if err != nil {
				return err
			}
			if !staff && o.PurchaserID != requesterID {
				return shared.ErrForbidden
			}
			if err := o.Cancel(); err != nil {
				return err
			}

			if err := s.restoreStock(ctx, repos.ProductRepo(), o); err != nil {
				return err
			}

			if err := repos.OrderRepo().SaveWithLock(ctx, o); err != nil {
				return err
			}
			response = ToOrderResponse(o)
			cancelled = o
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.logger.Info("order cancelled", zap.String("order_id", id.String()))
	s.publishEvents(ctx, cancelled)
	return response, nil
}

// restoreStock gives the order's quantities back to the products. Variant
// stock returns to the first store in the variant's ledger, which is also the
// store the first-available deduction drained first.
func (s *OrderService) restoreStock(ctx context.Context, products catalog.ProductRepository, o *order.Order) error {
	loaded := make(map[uuid.UUID]*catalog.Product)
	sequence := make([]uuid.UUID, 0, len(o.Items))

	for _, item := range o.Items {
		product, ok := loaded[item.ProductID]
		if !ok {
			var err error
			product, err = products.FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			loaded[item.ProductID] = product
			sequence = append(sequence, item.ProductID)
		}

		storeID := uuid.Nil
		if item.VariantSKU != nil {
			variant := product.FindVariant(*item.VariantSKU)
			if variant == nil {
				return shared.NewDomainError("VARIANT_NOT_FOUND", "Variant "+*item.VariantSKU+" no longer exists on product "+product.SKU)
			}
			if len(variant.StoreStocks) > 0 {
				storeID = variant.StoreStocks[0].StoreID
			}
		}
		if err := product.ReceiveStock(item.VariantSKU, storeID, item.Quantity); err != nil {
			return err
		}
	}

	for _, id := range sequence {
		product := loaded[id]
		if err := product.Reconcile(); err != nil {
			return err
		}
		if err := products.SaveWithLock(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// transition loads the order, applies the state change and persists it under
// optimistic locking.
func (s *OrderService) transition(ctx context.Context, id uuid.UUID, change func(*order.Order) error) (*OrderResponse, error) {
	var response *OrderResponse
	err := inventory.RetryOnConflict(s.retryAttempts, func() error {
		o, err := s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := change(o); err != nil {
			return err
		}
		if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
			return err
		}
		response = ToOrderResponse(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// publishEvents drains the aggregate's recorded events into the publisher.
// Publication happens after the transaction commits, so a handler failure
// never rolls back the order itself.
func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}
}
