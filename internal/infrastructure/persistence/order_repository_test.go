package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/shared/valueobject"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	address, err := valueobject.NewAddress("Jamie Doe", "1 Market St", "Springfield", "12345", "US")
	require.NoError(t, err)

	item := order.NewLineItem(uuid.New(), "Linen Shirt", nil, 2, decimal.NewFromInt(25))
	o, err := order.NewOrder(uuid.New(), address, order.PaymentMethodCashOnDelivery, []order.LineItem{item})
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_FindByOrderNumber(t *testing.T) {
	t.Run("finds order with line items", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "order_number", "payment_status", "fulfillment_status", "version"}).
			AddRow(orderID, "ORD-20260830-0001", "pending", "pending", 1)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ORD-20260830-0001", 1).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT \* FROM "order_line_items" WHERE "order_line_items"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_name", "quantity"}).
				AddRow(uuid.New(), orderID, "Linen Shirt", 2))

		found, err := repo.FindByOrderNumber(context.Background(), "ORD-20260830-0001")

		assert.NoError(t, err)
		assert.NotNil(t, found)
		assert.Equal(t, orderID, found.ID)
		assert.Len(t, found.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns domain error for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ORD-MISSING", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByOrderNumber(context.Background(), "ORD-MISSING")

		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	t.Run("bumps version after guarded update", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o := testOrder(t)
		o.Version = 2

		mock.ExpectExec(`UPDATE "orders" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), o)

		assert.NoError(t, err)
		assert.Equal(t, 3, o.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o := testOrder(t)
		o.Version = 2

		mock.ExpectExec(`UPDATE "orders" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), o)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.Equal(t, 2, o.Version, "stale save must not bump the version")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Count(t *testing.T) {
	t.Run("counts with payment status filter", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE payment_status = \$1`).
			WithArgs("paid").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		filter := shared.DefaultFilter()
		filter.Filters = map[string]any{"payment_status": "paid"}
		count, err := repo.Count(context.Background(), filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
