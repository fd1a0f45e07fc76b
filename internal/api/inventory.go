package api

import (
	"fmt"
	"net/http"
	"strconv"

	"burgerstock/internal/ledger"
	"burgerstock/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// restockRequest is the body of POST /api/v1/inventory/restock.
type restockRequest struct {
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ListInventory returns the stock table with its category filter and counters.
func (s *Server) ListInventory(c *gin.Context) {
	ctx := c.Request.Context()
	category := c.DefaultQuery("category", "All")

	lowOnly := false
	if raw := c.Query("low_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "low_stock must be true or false"})
			return
		}
		lowOnly = v
	}

	items, err := s.ledger.ListItems(ctx, ledger.Filter{Category: category, LowStock: lowOnly})
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}
	categories, err := s.ledger.Categories(ctx)
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}
	summary, err := s.ledger.Summary(ctx)
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":             items,
		"categories":        categories,
		"selected_category": category,
		"total_items":       summary.TotalItems,
		"low_stock_count":   summary.LowStockCount,
	})
}

// GetItem returns one stock item by name.
func (s *Server) GetItem(c *gin.Context) {
	item, err := s.ledger.GetItem(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}
	c.JSON(http.StatusOK, item)
}

// Restock adds stock to a single item.
func (s *Server) Restock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a positive number."})
		return
	}

	item, err := s.engine.Restock(c.Request.Context(), req.ItemName, req.Quantity)
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Added %s %s to '%s'. New total: %s", req.Quantity, item.Unit, item.Name, item.Quantity),
		"item":    item,
	})
}

// GetMenu lists what the order forms offer.
func (s *Server) GetMenu(c *gin.Context) {
	cat := s.composer.Catalog()

	drinks, err := s.ledger.ListItems(c.Request.Context(), ledger.Filter{Category: string(cat.DrinksCategory)})
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}
	drinkNames := make([]string, 0, len(drinks))
	for _, d := range drinks {
		drinkNames = append(drinkNames, d.Name)
	}

	extras := make([]gin.H, 0, len(cat.Extras))
	for _, e := range cat.Extras {
		extras = append(extras, gin.H{"name": e.Name, "base": e.Base})
	}
	recipe := make([]gin.H, 0, len(cat.Burger))
	for _, ing := range cat.Burger {
		recipe = append(recipe, gin.H{"name": ing.Name, "quantity": ing.Quantity})
	}

	c.JSON(http.StatusOK, gin.H{
		"burger":            recipe,
		"optional":          cat.Optional,
		"extras":            extras,
		"meals":             cat.Meals,
		"drinks":            drinkNames,
		"fries_item":        cat.FriesItem,
		"fries_sets_per_kg": cat.FriesSetsPerKg,
		"order_types": []models.OrderType{
			models.OrderTypeBurger, models.OrderTypeFries, models.OrderTypeDrink, models.OrderTypeMeal,
		},
	})
}

// GetStats returns the in-process counters.
func (s *Server) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Snapshot())
}
