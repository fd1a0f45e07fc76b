package models

import (
	"time"
)

// OrderRecord is the append-only audit entry written once per fulfilled order.
type OrderRecord struct {
	ID             uint      `gorm:"primary_key" json:"id"`
	OrderType      OrderType `gorm:"type:varchar(64);not null" json:"order_type"`
	Customizations string    `gorm:"type:varchar(500)" json:"customizations"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

// TableName sets the table name for OrderRecord
func (OrderRecord) TableName() string {
	return "order_records"
}

// OrderType represents the kind of order placed at the counter
type OrderType string

const (
	OrderTypeBurger OrderType = "burger"
	OrderTypeFries  OrderType = "fries"
	OrderTypeDrink  OrderType = "drink"
	OrderTypeMeal   OrderType = "meal"
)

// Valid reports whether t is one of the known order types.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeBurger, OrderTypeFries, OrderTypeDrink, OrderTypeMeal:
		return true
	}
	return false
}
