package threshold

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestNew(t *testing.T) {
	tenantID, productID := uuid.New(), uuid.New()

	t.Run("rejects negative minimum", func(t *testing.T) {
		_, err := New(tenantID, productID, nil, -1, nil, false)
		assert.Error(t, err)
	})

	t.Run("rejects maximum not exceeding minimum", func(t *testing.T) {
		_, err := New(tenantID, productID, nil, 10, intPtr(10), false)
		assert.Error(t, err)
	})

	t.Run("creates and emits ThresholdConfigured", func(t *testing.T) {
		th, err := New(tenantID, productID, nil, 5, intPtr(20), true)
		require.NoError(t, err)
		events := th.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeThresholdConfigured, events[0].EventType())
	})
}

func TestCheckLevel(t *testing.T) {
	tenantID, productID := uuid.New(), uuid.New()

	t.Run("below minimum emits StockLevelBelowMinimum", func(t *testing.T) {
		th, err := New(tenantID, productID, nil, 10, intPtr(50), true)
		require.NoError(t, err)
		events := th.CheckLevel(3)
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockLevelBelowMinimum, events[0].EventType())
	})

	t.Run("above maximum emits StockLevelAboveMaximum", func(t *testing.T) {
		th, err := New(tenantID, productID, nil, 10, intPtr(50), true)
		require.NoError(t, err)
		events := th.CheckLevel(75)
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockLevelAboveMaximum, events[0].EventType())
	})

	t.Run("within band emits nothing", func(t *testing.T) {
		th, err := New(tenantID, productID, nil, 10, intPtr(50), true)
		require.NoError(t, err)
		assert.Empty(t, th.CheckLevel(25))
	})

	t.Run("nil maximum never triggers above-maximum", func(t *testing.T) {
		th, err := New(tenantID, productID, nil, 10, nil, true)
		require.NoError(t, err)
		assert.Empty(t, th.CheckLevel(1000))
	})
}

func TestUpdateLevels(t *testing.T) {
	tenantID, productID := uuid.New(), uuid.New()
	th, err := New(tenantID, productID, nil, 10, intPtr(50), true)
	require.NoError(t, err)
	th.ClearDomainEvents()

	t.Run("rejects invalid band", func(t *testing.T) {
		assert.Error(t, th.UpdateLevels(50, intPtr(10), true))
	})

	t.Run("updates and emits ThresholdConfigured", func(t *testing.T) {
		require.NoError(t, th.UpdateLevels(20, intPtr(100), false))
		assert.Equal(t, 20, th.Minimum)
		assert.Equal(t, 100, *th.Maximum)
		assert.False(t, th.EnableAutoRestock)
		events := th.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeThresholdConfigured, events[0].EventType())
	})
}

func TestAppliesToLocation(t *testing.T) {
	tenantID, productID, locationID := uuid.New(), uuid.New(), uuid.New()

	t.Run("tenant-wide threshold applies to every location", func(t *testing.T) {
		th, err := New(tenantID, productID, nil, 1, nil, false)
		require.NoError(t, err)
		assert.True(t, th.AppliesToLocation(locationID))
		assert.True(t, th.AppliesToLocation(uuid.New()))
	})

	t.Run("location-scoped threshold applies only to that location", func(t *testing.T) {
		th, err := New(tenantID, productID, &locationID, 1, nil, false)
		require.NoError(t, err)
		assert.True(t, th.AppliesToLocation(locationID))
		assert.False(t, th.AppliesToLocation(uuid.New()))
	})
}
