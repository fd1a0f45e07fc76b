package monitoring

import (
	"errors"
	"testing"
	"time"

	"burgerstock/internal/fulfillment"
	"burgerstock/internal/models"
	"burgerstock/internal/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_Snapshot(t *testing.T) {
	m := NewMonitor()
	start := m.startTime
	m.now = func() time.Time { return start.Add(90 * time.Second) }

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.OrderProcessed(fulfillment.Outcome{
		Resolved: &order.Resolved{Type: models.OrderTypeBurger},
		Receipt: &fulfillment.Receipt{Record: &models.OrderRecord{
			ID: 7, OrderType: models.OrderTypeBurger, Customizations: "No Onion", CreatedAt: created,
		}},
	})
	m.OrderProcessed(fulfillment.Outcome{
		Resolved: &order.Resolved{Type: models.OrderTypeFries},
		Err:      errors.New("Not enough Potato Fries. Need 1, have 0"),
	})
	m.StockRestocked(models.StockItem{Name: "Buns"}, decimal.NewFromInt(5))

	s := m.Snapshot()
	assert.Equal(t, 90.0, s.UptimeSeconds)
	assert.Equal(t, int64(1), s.Fulfilled[models.OrderTypeBurger])
	assert.Equal(t, int64(1), s.Rejected[models.OrderTypeFries])
	assert.Equal(t, int64(1), s.Restocks)
	require.NotNil(t, s.LastOrder)
	assert.Equal(t, uint(7), s.LastOrder.ID)
	assert.Equal(t, "No Onion", s.LastOrder.Customizations)
	assert.Equal(t, created, s.LastOrder.At)
}

func TestMonitor_RecordRejected(t *testing.T) {
	m := NewMonitor()
	m.RecordRejected(models.OrderTypeMeal)
	m.OrderProcessed(fulfillment.Outcome{
		Resolved: &order.Resolved{Type: models.OrderTypeMeal},
		Err:      models.NewInvalidInput("Please select a drink for the meal."),
	})

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.Rejected[models.OrderTypeMeal])
	assert.Empty(t, s.Fulfilled)
}

func TestMonitor_SnapshotIsACopy(t *testing.T) {
	m := NewMonitor()
	m.OrderProcessed(fulfillment.Outcome{Resolved: &order.Resolved{Type: models.OrderTypeDrink}})

	s := m.Snapshot()
	s.Fulfilled[models.OrderTypeDrink] = 100

	assert.Equal(t, int64(1), m.Snapshot().Fulfilled[models.OrderTypeDrink])
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.OrderProcessed(fulfillment.Outcome{Resolved: &order.Resolved{Type: models.OrderTypeMeal}})
	m.StockRestocked(models.StockItem{}, decimal.NewFromInt(1))

	m.Reset()

	s := m.Snapshot()
	assert.Empty(t, s.Fulfilled)
	assert.Zero(t, s.Restocks)
	assert.Nil(t, s.LastOrder)
}
