package ledger

import (
	"context"
	"fmt"

	"burgerstock/internal/catalog"
	"burgerstock/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// DefaultInitialQuantity is the stock every predefined item starts with.
const DefaultInitialQuantity = 10

// SeedReport describes what Seed changed.
type SeedReport struct {
	Created     int
	Replenished int
}

// Seed populates an empty ledger with the catalog's predefined items and then
// bumps any item sitting at exactly zero back to the initial quantity.
func (l *Ledger) Seed(ctx context.Context, cat *catalog.Catalog, initial int64) (SeedReport, error) {
	if initial <= 0 {
		initial = DefaultInitialQuantity
	}
	qty := decimal.NewFromInt(initial)

	var report SeedReport
	err := l.Transaction(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.StockItem{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count stock items: %w", err)
		}

		if count == 0 {
			for _, spec := range cat.Items {
				item := models.StockItem{
					Name:         spec.Name,
					Quantity:     qty,
					Unit:         string(spec.Unit),
					Category:     string(spec.Category),
					ReorderLevel: spec.ReorderLevel,
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("failed to seed %s: %w", spec.Name, err)
				}
				report.Created++
			}
		}

		var empty []models.StockItem
		if err := tx.Where("quantity = ?", 0).Find(&empty).Error; err != nil {
			return fmt.Errorf("failed to find empty stock items: %w", err)
		}
		for i := range empty {
			empty[i].Quantity = qty
			if err := tx.Save(&empty[i]).Error; err != nil {
				return fmt.Errorf("failed to replenish %s: %w", empty[i].Name, err)
			}
			report.Replenished++
		}
		return nil
	})
	if err != nil {
		return SeedReport{}, err
	}

	if report.Created > 0 {
		l.log.Info("initialized ledger with predefined items", "items", report.Created, "quantity", initial)
	}
	if report.Replenished > 0 {
		l.log.Info("replenished empty stock items", "items", report.Replenished, "quantity", initial)
	}
	return report, nil
}
