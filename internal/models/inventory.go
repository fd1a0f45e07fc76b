package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityScale is the number of decimal places stored for stock quantities.
const QuantityScale = 3

// StockItem represents a single ingredient or drink tracked in the stock ledger.
// Quantities are decimals because fries are stocked in fractional kilograms
// while everything else is counted in whole pieces or bottles.
type StockItem struct {
	ID           uint            `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"type:varchar(120);unique_index;not null" json:"name"`
	Quantity     decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity"`
	Unit         string          `gorm:"type:varchar(32);not null" json:"unit"`
	Category     string          `gorm:"type:varchar(64);not null" json:"category"`
	ReorderLevel decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName sets the table name for StockItem
func (StockItem) TableName() string {
	return "stock_items"
}

// IsLowStock reports whether the item is at or below its reorder level.
func (s StockItem) IsLowStock() bool {
	return s.Quantity.LessThanOrEqual(s.ReorderLevel)
}

// StockCategory represents the category of a stock item
type StockCategory string

const (
	CategoryBurger     StockCategory = "Burger"
	CategoryFries      StockCategory = "Fries"
	CategorySoftDrinks StockCategory = "Soft Drinks"
)

// StockUnit represents the display unit of a stock item
type StockUnit string

const (
	UnitPieces   StockUnit = "nos"
	UnitKilogram StockUnit = "kg"
	UnitBottles  StockUnit = "bottles"
)
