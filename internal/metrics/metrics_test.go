package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"burgerstock/internal/fulfillment"
	"burgerstock/internal/models"
	"burgerstock/internal/order"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderProcessedCountsOutcomes(t *testing.T) {
	c := NewCollector()
	burger := &order.Resolved{Type: models.OrderTypeBurger}

	c.OrderProcessed(fulfillment.Outcome{
		Resolved: burger,
		Receipt: &fulfillment.Receipt{Stock: []models.StockItem{
			{Name: "Patty", Quantity: decimal.NewFromInt(9), Category: "Burger", Unit: "nos", ReorderLevel: decimal.NewFromInt(50)},
		}},
		Duration: 3 * time.Millisecond,
	})
	c.OrderProcessed(fulfillment.Outcome{
		Resolved: burger,
		Err:      &models.InsufficientStockError{Name: "Patty", Need: decimal.NewFromInt(1), Have: decimal.Zero},
	})
	c.OrderProcessed(fulfillment.Outcome{
		Resolved: &order.Resolved{Type: models.OrderTypeDrink},
		Err:      &models.NotFoundError{Name: "Root Beer"},
	})
	c.OrderProcessed(fulfillment.Outcome{
		Resolved: burger,
		Err:      errors.New("disk full"),
	})
	c.RecordRejected(models.OrderTypeFries)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("burger", OutcomeFulfilled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("burger", OutcomeInsufficient)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("drink", OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("burger", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orders.WithLabelValues("fries", OutcomeInvalid)))

	assert.Equal(t, 9.0, testutil.ToFloat64(c.stock.WithLabelValues("Patty", "Burger", "nos")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lowStock.WithLabelValues("Patty")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestOrderProcessedIgnoresEmptyOutcome(t *testing.T) {
	c := NewCollector()
	c.OrderProcessed(fulfillment.Outcome{})
	assert.Equal(t, 0, testutil.CollectAndCount(c.orders))
}

func TestStockRestocked(t *testing.T) {
	c := NewCollector()

	c.StockRestocked(models.StockItem{
		Name:         "Potato Fries",
		Quantity:     decimal.RequireFromString("12.5"),
		Category:     "Fries",
		Unit:         "kg",
		ReorderLevel: decimal.NewFromInt(10),
	}, decimal.RequireFromString("2.5"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.restocks.WithLabelValues("Potato Fries")))
	assert.Equal(t, 12.5, testutil.ToFloat64(c.stock.WithLabelValues("Potato Fries", "Fries", "kg")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.lowStock.WithLabelValues("Potato Fries")))
}

func TestHandlerServesRegistry(t *testing.T) {
	c := NewCollector()
	c.RecordRejected(models.OrderTypeMeal)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `burgerstock_orders_total{outcome="invalid",type="meal"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
