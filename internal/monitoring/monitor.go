package monitoring

import (
	"sync"
	"time"

	"burgerstock/internal/fulfillment"
	"burgerstock/internal/models"

	"github.com/shopspring/decimal"
)

// Monitor keeps in-process counters for the /api/v1/stats endpoint.
type Monitor struct {
	mu        sync.RWMutex
	startTime time.Time
	now       func() time.Time

	fulfilled map[models.OrderType]int64
	rejected  map[models.OrderType]int64
	restocks  int64
	lastOrder *LastOrder
}

// LastOrder describes the most recent committed order.
type LastOrder struct {
	ID             uint             `json:"id"`
	OrderType      models.OrderType `json:"order_type"`
	Customizations string           `json:"customizations"`
	At             time.Time        `json:"at"`
}

// Stats is a point-in-time copy of the monitor's counters.
type Stats struct {
	UptimeSeconds float64                    `json:"uptime_seconds"`
	Fulfilled     map[models.OrderType]int64 `json:"fulfilled"`
	Rejected      map[models.OrderType]int64 `json:"rejected"`
	Restocks      int64                      `json:"restocks"`
	LastOrder     *LastOrder                 `json:"last_order,omitempty"`
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		startTime: time.Now(),
		now:       time.Now,
		fulfilled: make(map[models.OrderType]int64),
		rejected:  make(map[models.OrderType]int64),
	}
}

// OrderProcessed implements fulfillment.Observer.
func (m *Monitor) OrderProcessed(o fulfillment.Outcome) {
	if o.Resolved == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if o.Err != nil {
		m.rejected[o.Resolved.Type]++
		return
	}
	m.fulfilled[o.Resolved.Type]++
	if o.Receipt != nil && o.Receipt.Record != nil {
		rec := o.Receipt.Record
		m.lastOrder = &LastOrder{
			ID:             rec.ID,
			OrderType:      rec.OrderType,
			Customizations: rec.Customizations,
			At:             rec.CreatedAt,
		}
	}
}

// RecordRejected counts an order refused before it reached the engine.
func (m *Monitor) RecordRejected(t models.OrderType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[t]++
}

// StockRestocked implements fulfillment.Observer.
func (m *Monitor) StockRestocked(models.StockItem, decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restocks++
}

// Snapshot returns a copy safe to hand to other goroutines.
func (m *Monitor) Snapshot() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		UptimeSeconds: m.now().Sub(m.startTime).Seconds(),
		Fulfilled:     make(map[models.OrderType]int64, len(m.fulfilled)),
		Rejected:      make(map[models.OrderType]int64, len(m.rejected)),
		Restocks:      m.restocks,
	}
	for k, v := range m.fulfilled {
		s.Fulfilled[k] = v
	}
	for k, v := range m.rejected {
		s.Rejected[k] = v
	}
	if m.lastOrder != nil {
		last := *m.lastOrder
		s.LastOrder = &last
	}
	return s
}

// Reset clears all counters
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fulfilled = make(map[models.OrderType]int64)
	m.rejected = make(map[models.OrderType]int64)
	m.restocks = 0
	m.lastOrder = nil
}
