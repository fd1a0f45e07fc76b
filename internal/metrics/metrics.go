package metrics

import (
	"errors"
	"net/http"

	"burgerstock/internal/fulfillment"
	"burgerstock/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Outcome labels for orders_total.
const (
	OutcomeFulfilled    = "fulfilled"
	OutcomeInsufficient = "insufficient_stock"
	OutcomeNotFound     = "not_found"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

// Collector owns the service's prometheus collectors in a private registry.
type Collector struct {
	registry *prometheus.Registry

	orders   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	stock    *prometheus.GaugeVec
	lowStock *prometheus.GaugeVec
	restocks *prometheus.CounterVec
}

// NewCollector creates a collector with Go runtime and process collectors registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "burgerstock_orders_total",
				Help: "Orders processed, by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "burgerstock_order_duration_seconds",
				Help:    "Time taken to validate and deduct an order",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"type"},
		),
		stock: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "burgerstock_stock_quantity",
				Help: "Current quantity of a stock item",
			},
			[]string{"item", "category", "unit"},
		),
		lowStock: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "burgerstock_stock_low",
				Help: "1 when a stock item is at or below its reorder level",
			},
			[]string{"item"},
		),
		restocks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "burgerstock_restocks_total",
				Help: "Restock operations, by item",
			},
			[]string{"item"},
		),
	}

	registry.MustRegister(
		c.orders,
		c.duration,
		c.stock,
		c.lowStock,
		c.restocks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the private registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// OrderProcessed implements fulfillment.Observer.
func (c *Collector) OrderProcessed(o fulfillment.Outcome) {
	if o.Resolved == nil {
		return
	}
	orderType := string(o.Resolved.Type)
	c.orders.WithLabelValues(orderType, outcome(o.Err)).Inc()
	c.duration.WithLabelValues(orderType).Observe(o.Duration.Seconds())

	if o.Receipt != nil {
		c.SetStock(o.Receipt.Stock...)
	}
}

// StockRestocked implements fulfillment.Observer.
func (c *Collector) StockRestocked(item models.StockItem, _ decimal.Decimal) {
	c.restocks.WithLabelValues(item.Name).Inc()
	c.SetStock(item)
}

// RecordRejected counts an order that never reached the engine.
func (c *Collector) RecordRejected(t models.OrderType) {
	c.orders.WithLabelValues(string(t), OutcomeInvalid).Inc()
}

// SetStock refreshes the stock gauges for items.
func (c *Collector) SetStock(items ...models.StockItem) {
	for _, it := range items {
		qty, _ := it.Quantity.Float64()
		c.stock.WithLabelValues(it.Name, it.Category, it.Unit).Set(qty)
		low := 0.0
		if it.IsLowStock() {
			low = 1
		}
		c.lowStock.WithLabelValues(it.Name).Set(low)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeFulfilled
	case errors.Is(err, models.ErrInsufficientStock):
		return OutcomeInsufficient
	case errors.Is(err, models.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, models.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
