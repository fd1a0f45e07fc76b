package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors let HTTP handlers pick a status code with errors.Is.
var (
	ErrNotFound          = errors.New("stock item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
)

// NotFoundError names the stock item that an order or restock referenced.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Item '%s' not found in inventory", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError carries the exact shortfall for one item.
type InsufficientStockError struct {
	Name string
	Need decimal.Decimal
	Have decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough %s. Need %s, have %s", e.Name, e.Need.String(), e.Have.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidInputError is raised before anything reaches the ledger.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput keeps call sites short.
func NewInvalidInput(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
