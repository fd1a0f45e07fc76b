package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"burgerstock/internal/database"
	"burgerstock/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// maxCustomizations mirrors the width of order_records.customizations.
const maxCustomizations = 500

// Ledger is the persistent stock ledger and order log.
type Ledger struct {
	db       *gorm.DB
	log      *slog.Logger
	lockRows bool
}

// New creates a ledger over an already migrated database.
func New(db *gorm.DB, log *slog.Logger) *Ledger {
	return &Ledger{
		db:  db,
		log: log,
		// SQLite has no row locks; its single connection serialises writers.
		lockRows: db.Dialect().GetName() == database.DialectPostgres,
	}
}

// Filter narrows ListItems.
type Filter struct {
	// Category limits results to one category. Empty or "All" means every item.
	Category string
	LowStock bool
}

// Summary is the headline count shown above the inventory table.
type Summary struct {
	TotalItems    int `json:"total_items"`
	LowStockCount int `json:"low_stock_count"`
}

// Transaction runs fn inside a database transaction. Any error or panic from
// fn rolls the transaction back so no partial change is ever committed.
func (l *Ledger) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := l.db.BeginTx(ctx, nil)
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			l.log.Error("transaction rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Lookup loads a stock item inside tx, locking the row where the database supports it.
func (l *Ledger) Lookup(tx *gorm.DB, name string) (*models.StockItem, error) {
	q := tx
	if l.lockRows {
		q = q.Set("gorm:query_option", "FOR UPDATE")
	}
	return find(q, name)
}

// GetItem returns the named stock item or a *models.NotFoundError.
func (l *Ledger) GetItem(ctx context.Context, name string) (*models.StockItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return find(l.db, name)
}

func find(q *gorm.DB, name string) (*models.StockItem, error) {
	var item models.StockItem
	if err := q.Where("name = ?", name).First(&item).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, &models.NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("failed to load stock item %s: %w", name, err)
	}
	return &item, nil
}

// Decrement removes qty from item inside tx. Callers validate the whole order
// first; the negative check here only guards the ledger invariant.
func (l *Ledger) Decrement(tx *gorm.DB, item *models.StockItem, qty decimal.Decimal) error {
	remaining := item.Quantity.Sub(qty)
	if remaining.Sign() < 0 {
		return &models.InsufficientStockError{Name: item.Name, Need: qty, Have: item.Quantity}
	}
	item.Quantity = remaining
	if err := tx.Save(item).Error; err != nil {
		return fmt.Errorf("failed to update inventory for %s: %w", item.Name, err)
	}
	return nil
}

// Increment adds qty to the named item inside tx.
func (l *Ledger) Increment(tx *gorm.DB, name string, qty decimal.Decimal) (*models.StockItem, error) {
	if qty.Sign() <= 0 {
		return nil, models.NewInvalidInput("Quantity must be a positive number.")
	}
	if !qty.Equal(qty.Truncate(models.QuantityScale)) {
		return nil, models.NewInvalidInput("Quantity must have at most %d decimal places.", models.QuantityScale)
	}
	item, err := l.Lookup(tx, name)
	if err != nil {
		return nil, err
	}
	if item.Unit != string(models.UnitKilogram) && !qty.IsInteger() {
		return nil, models.NewInvalidInput("Quantity must be a positive whole number.")
	}
	item.Quantity = item.Quantity.Add(qty)
	if err := tx.Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to restock %s: %w", name, err)
	}
	return item, nil
}

// Restock atomically adds qty to a single item.
func (l *Ledger) Restock(ctx context.Context, name string, qty decimal.Decimal) (*models.StockItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewInvalidInput("Please select an item.")
	}

	var item *models.StockItem
	err := l.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		item, err = l.Increment(tx, name, qty)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("stock restocked", "item", item.Name, "added", qty.String(), "quantity", item.Quantity.String())
	return item, nil
}

// ListItems returns stock items ordered by category then name, or by name
// alone when a category is selected.
func (l *Ledger) ListItems(ctx context.Context, f Filter) ([]models.StockItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := l.db
	if f.Category != "" && f.Category != "All" {
		q = q.Where("category = ?", f.Category).Order("name asc")
	} else {
		q = q.Order("category asc").Order("name asc")
	}

	var items []models.StockItem
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}

	if f.LowStock {
		low := items[:0]
		for _, it := range items {
			if it.IsLowStock() {
				low = append(low, it)
			}
		}
		items = low
	}
	return items, nil
}

// ItemsNamed returns the current rows for names, ordered by name.
func (l *Ledger) ItemsNamed(ctx context.Context, names []string) ([]models.StockItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	var items []models.StockItem
	if err := l.db.Where("name IN (?)", names).Order("name asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load stock items: %w", err)
	}
	return items, nil
}

// Categories returns the distinct categories present in the ledger.
func (l *Ledger) Categories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var categories []string
	if err := l.db.Model(&models.StockItem{}).Order("category asc").Pluck("DISTINCT category", &categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Summary counts all items and those at or below their reorder level.
func (l *Ledger) Summary(ctx context.Context) (Summary, error) {
	items, err := l.ListItems(ctx, Filter{})
	if err != nil {
		return Summary{}, err
	}
	s := Summary{TotalItems: len(items)}
	for _, it := range items {
		if it.IsLowStock() {
			s.LowStockCount++
		}
	}
	return s, nil
}

// AppendOrderRecord writes the audit entry for a fulfilled order inside tx.
func (l *Ledger) AppendOrderRecord(tx *gorm.DB, t models.OrderType, summary string) (*models.OrderRecord, error) {
	if !t.Valid() {
		return nil, models.NewInvalidInput("Unknown order type %q.", t)
	}
	record := &models.OrderRecord{
		OrderType:      t,
		Customizations: truncate(summary, maxCustomizations),
	}
	if err := tx.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}
	return record, nil
}

// ListOrders returns the most recent order records, newest first.
func (l *Ledger) ListOrders(ctx context.Context, limit int) ([]models.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := l.db.Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var records []models.OrderRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return records, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
