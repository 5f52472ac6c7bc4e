package engagement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	userID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	t.Run("requires a user", func(t *testing.T) {
		_, err := NewWishlist(uuid.Nil)
		assert.Error(t, err)
	})

	t.Run("adds and removes products", func(t *testing.T) {
		w, err := NewWishlist(userID)
		require.NoError(t, err)

		require.NoError(t, w.AddProduct(productA))
		require.NoError(t, w.AddProduct(productB))
		assert.True(t, w.Contains(productA))
		assert.Len(t, w.Items, 2)

		require.NoError(t, w.RemoveProduct(productA))
		assert.False(t, w.Contains(productA))
		assert.Len(t, w.Items, 1)
	})

	t.Run("adding twice is a no-op", func(t *testing.T) {
		w, err := NewWishlist(userID)
		require.NoError(t, err)
		require.NoError(t, w.AddProduct(productA))
		require.NoError(t, w.AddProduct(productA))
		assert.Len(t, w.Items, 1)
	})

	t.Run("removing an absent product fails", func(t *testing.T) {
		w, err := NewWishlist(userID)
		require.NoError(t, err)
		assert.Error(t, w.RemoveProduct(productA))
	})
}

func TestNotification(t *testing.T) {
	t.Run("creates unread notification", func(t *testing.T) {
		n, err := NewNotification(uuid.New(), NotificationKindOrderPaid, "Order paid", "Your order was paid", NotificationPayload{"order_number": "ORD-20260830-000001"})
		require.NoError(t, err)
		assert.False(t, n.Read)
		assert.Nil(t, n.ReadAt)
	})

	t.Run("requires title and recipient", func(t *testing.T) {
		_, err := NewNotification(uuid.Nil, NotificationKindGeneral, "x", "", nil)
		assert.Error(t, err)
		_, err = NewNotification(uuid.New(), NotificationKindGeneral, " ", "", nil)
		assert.Error(t, err)
	})

	t.Run("mark read is idempotent", func(t *testing.T) {
		n, err := NewNotification(uuid.New(), NotificationKindGeneral, "Hello", "", nil)
		require.NoError(t, err)

		n.MarkRead()
		require.NotNil(t, n.ReadAt)
		first := *n.ReadAt

		n.MarkRead()
		assert.Equal(t, first, *n.ReadAt)
	})
}
