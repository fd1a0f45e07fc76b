package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"burgerstock/internal/order"

	"github.com/gin-gonic/gin"
)

const (
	defaultOrdersLimit = 20
	maxOrdersLimit     = 200
)

// Quantities are pointers so an omitted field defaults to 1 while an explicit
// 0 is still rejected.
type friesRequest struct {
	Sets *int64 `json:"sets"`
}

type drinkRequest struct {
	DrinkName string `json:"drink_name"`
	Quantity  *int64 `json:"quantity"`
}

type mealRequest struct {
	MealType     string `json:"meal_type"`
	MealDrink    string `json:"meal_drink"`
	MealQuantity *int64 `json:"meal_quantity"`
}

func orOne(v *int64) int64 {
	if v == nil {
		return 1
	}
	return *v
}

// bind decodes an optional JSON body; an empty body leaves v untouched.
func bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// PlaceBurger orders one burger with optional opt-outs and extras.
func (s *Server) PlaceBurger(c *gin.Context) {
	var req order.Burger
	if !bind(c, &req) {
		return
	}
	s.place(c, req)
}

// PlaceFries orders fries by the set.
func (s *Server) PlaceFries(c *gin.Context) {
	var req friesRequest
	if !bind(c, &req) {
		return
	}
	s.place(c, order.Fries{Sets: orOne(req.Sets)})
}

// PlaceDrink orders bottles of one soft drink.
func (s *Server) PlaceDrink(c *gin.Context) {
	var req drinkRequest
	if !bind(c, &req) {
		return
	}
	s.place(c, order.Drink{Name: req.DrinkName, Quantity: orOne(req.Quantity)})
}

// PlaceMeal orders one or more meal bundles.
func (s *Server) PlaceMeal(c *gin.Context) {
	var req mealRequest
	if !bind(c, &req) {
		return
	}
	s.place(c, order.Meal{Name: req.MealType, Drink: req.MealDrink, Quantity: orOne(req.MealQuantity)})
}

func (s *Server) place(c *gin.Context, req order.Request) {
	res, err := s.composer.Resolve(req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordRejected(req.Type())
		}
		if s.monitor != nil {
			s.monitor.RecordRejected(req.Type())
		}
		s.fail(c, err, err.Error())
		return
	}

	receipt, err := s.engine.Place(c.Request.Context(), res)
	if err != nil {
		s.fail(c, err, s.composer.Explain(res, err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      receipt.Message,
		"confirmation": res.Confirmation(receipt.Message),
		"order":        receipt.Record,
		"deducted":     receipt.Deducted,
		"stock":        receipt.Stock,
	})
}

// ListOrders returns the most recent order records.
func (s *Server) ListOrders(c *gin.Context) {
	limit := defaultOrdersLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxOrdersLimit {
		limit = maxOrdersLimit
	}

	records, err := s.ledger.ListOrders(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": records, "count": len(records)})
}
