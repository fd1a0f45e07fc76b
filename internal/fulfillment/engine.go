package fulfillment

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"burgerstock/internal/ledger"
	"burgerstock/internal/models"
	"burgerstock/internal/order"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// SuccessMessage is returned for every order that was fully deducted.
const SuccessMessage = "Order completed successfully"

// Result is the outcome reported back to the cashier.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Receipt describes a committed order.
type Receipt struct {
	Result
	Record *models.OrderRecord
	// Deducted maps each item to the quantity removed from stock.
	Deducted map[string]decimal.Decimal
	// Stock holds the post-commit rows of every touched item.
	Stock []models.StockItem
}

// Outcome is passed to observers after every fulfillment attempt.
type Outcome struct {
	Resolved *order.Resolved
	Receipt  *Receipt
	Err      error
	Duration time.Duration
}

// Observer is notified after commits and rejections, outside the transaction.
type Observer interface {
	OrderProcessed(o Outcome)
	StockRestocked(item models.StockItem, added decimal.Decimal)
}

// Engine performs the check-then-deduct protocol against the ledger. Every
// mutation runs inside one transaction and behind one mutex, so two orders for
// the same ingredient can never both pass validation against the same stock.
type Engine struct {
	ledger    *ledger.Ledger
	log       *slog.Logger
	mu        sync.Mutex
	observers []Observer
}

// NewEngine creates an engine over l.
func NewEngine(l *ledger.Ledger, log *slog.Logger, observers ...Observer) *Engine {
	return &Engine{
		ledger:    l,
		log:       log,
		observers: observers,
	}
}

// Observe registers another observer. It must be called before the engine serves requests.
func (e *Engine) Observe(o Observer) {
	e.observers = append(e.observers, o)
}

// Fulfill validates and deducts a resolved order without writing an order record.
// On failure the ledger is untouched and the returned error is one of
// *models.NotFoundError or *models.InsufficientStockError, or an infrastructure error.
func (e *Engine) Fulfill(ctx context.Context, res *order.Resolved) (Result, error) {
	receipt, err := e.run(ctx, res, false)
	if err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	return receipt.Result, nil
}

// Place fulfills res and appends its order record in the same transaction.
func (e *Engine) Place(ctx context.Context, res *order.Resolved) (*Receipt, error) {
	return e.run(ctx, res, true)
}

// Restock adds qty to a single item under the same lock as order deductions.
func (e *Engine) Restock(ctx context.Context, name string, qty decimal.Decimal) (*models.StockItem, error) {
	e.mu.Lock()
	item, err := e.ledger.Restock(ctx, name, qty)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, o := range e.observers {
		o.StockRestocked(*item, qty)
	}
	return item, nil
}

func (e *Engine) run(ctx context.Context, res *order.Resolved, record bool) (*Receipt, error) {
	if res == nil || len(res.Items) == 0 {
		return nil, models.NewInvalidInput("Please select an order.")
	}
	start := time.Now()

	e.mu.Lock()
	receipt, err := e.commit(ctx, res, record)
	e.mu.Unlock()

	if err == nil {
		stock, snapErr := e.ledger.ItemsNamed(ctx, res.Names())
		if snapErr != nil {
			e.log.Warn("failed to load stock after order", "error", snapErr)
		}
		receipt.Stock = stock
	}

	e.report(res, receipt, err, time.Since(start))
	return receipt, err
}

func (e *Engine) commit(ctx context.Context, res *order.Resolved, record bool) (*Receipt, error) {
	receipt := &Receipt{
		Result:   Result{Success: true, Message: SuccessMessage},
		Deducted: make(map[string]decimal.Decimal, len(res.Items)),
	}

	err := e.ledger.Transaction(ctx, func(tx *gorm.DB) error {
		names := res.Names()

		// Validation pass: nothing is written until every entry is satisfied.
		items := make(map[string]*models.StockItem, len(names))
		for _, name := range names {
			need := res.Items[name]
			item, err := e.ledger.Lookup(tx, name)
			if err != nil {
				return err
			}
			if item.Quantity.LessThan(need) {
				return &models.InsufficientStockError{Name: name, Need: need, Have: item.Quantity}
			}
			items[name] = item
		}

		// Deduction pass.
		for _, name := range names {
			qty := res.Deduction(name)
			if qty.Sign() <= 0 {
				continue
			}
			if err := e.ledger.Decrement(tx, items[name], qty); err != nil {
				return err
			}
			receipt.Deducted[name] = qty
		}

		if !record {
			return nil
		}
		rec, err := e.ledger.AppendOrderRecord(tx, res.Type, res.Summary)
		if err != nil {
			return err
		}
		receipt.Record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (e *Engine) report(res *order.Resolved, receipt *Receipt, err error, d time.Duration) {
	switch {
	case err == nil:
		e.log.Info("order fulfilled", "type", res.Type, "summary", res.Summary, "items", len(res.Items))
	case errors.Is(err, models.ErrInsufficientStock), errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrInvalidInput):
		e.log.Info("order rejected", "type", res.Type, "summary", res.Summary, "reason", err.Error())
	default:
		e.log.Error("order failed", "type", res.Type, "summary", res.Summary, "error", err)
	}

	out := Outcome{Resolved: res, Receipt: receipt, Err: err, Duration: d}
	for _, o := range e.observers {
		o.OrderProcessed(out)
	}
}
