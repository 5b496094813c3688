package movement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockMovement(t *testing.T) {
	tenantID, stockItemID, productID := uuid.New(), uuid.New(), uuid.New()
	src, dst := uuid.New(), uuid.New()

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, stockItemID, productID, &src, &dst, 0, ReasonTransfer)
		assert.Error(t, err)
	})

	t.Run("rejects when both locations are nil", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, stockItemID, productID, nil, nil, 5, ReasonTransfer)
		assert.Error(t, err)
	})

	t.Run("rejects identical source and destination", func(t *testing.T) {
		same := uuid.New()
		_, err := NewStockMovement(tenantID, stockItemID, productID, &same, &same, 5, ReasonTransfer)
		assert.Error(t, err)
	})

	t.Run("rejects unknown reason", func(t *testing.T) {
		_, err := NewStockMovement(tenantID, stockItemID, productID, &src, &dst, 5, Reason("BOGUS"))
		assert.Error(t, err)
	})

	t.Run("inbound receipt allows nil source", func(t *testing.T) {
		m, err := NewStockMovement(tenantID, stockItemID, productID, nil, &dst, 5, ReasonPutaway)
		require.NoError(t, err)
		assert.Equal(t, StatusInitiated, m.Status)
		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockMovementInitiated, events[0].EventType())
	})
}

func TestStockMovement_StateMachine(t *testing.T) {
	tenantID, stockItemID, productID := uuid.New(), uuid.New(), uuid.New()
	src, dst := uuid.New(), uuid.New()

	newMovement := func() *StockMovement {
		m, err := NewStockMovement(tenantID, stockItemID, productID, &src, &dst, 5, ReasonTransfer)
		require.NoError(t, err)
		m.ClearDomainEvents()
		return m
	}

	t.Run("completes from initiated", func(t *testing.T) {
		m := newMovement()
		require.NoError(t, m.Complete())
		assert.Equal(t, StatusCompleted, m.Status)
		require.NotNil(t, m.CompletedAt)
		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockMovementCompleted, events[0].EventType())
	})

	t.Run("cancels from initiated with a reason", func(t *testing.T) {
		m := newMovement()
		assert.Error(t, m.Cancel(""))
		require.NoError(t, m.Cancel("picked wrong item"))
		assert.Equal(t, StatusCancelled, m.Status)
		assert.Equal(t, "picked wrong item", m.CancelReason)
	})

	t.Run("cannot complete a cancelled movement", func(t *testing.T) {
		m := newMovement()
		require.NoError(t, m.Cancel("oops"))
		assert.Error(t, m.Complete())
	})

	t.Run("cannot cancel a completed movement", func(t *testing.T) {
		m := newMovement()
		require.NoError(t, m.Complete())
		assert.Error(t, m.Cancel("too late"))
	})
}
