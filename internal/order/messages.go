package order

import (
	"errors"
	"fmt"

	"burgerstock/internal/models"

	"github.com/shopspring/decimal"
)

// Explain renders a fulfillment failure for the cashier. Fries orders are
// reported in sets, the unit they were placed in.
func (c *Composer) Explain(res *Resolved, err error) string {
	if err == nil {
		return ""
	}
	if res == nil || res.Type != models.OrderTypeFries {
		return err.Error()
	}

	have := decimal.Zero
	var short *models.InsufficientStockError
	var missing *models.NotFoundError
	switch {
	case errors.As(err, &short) && short.Name == c.catalog.FriesItem:
		have = short.Have
	case errors.As(err, &missing) && missing.Name == c.catalog.FriesItem:
	default:
		return err.Error()
	}

	return fmt.Sprintf("Not enough fries! Need %d sets (%s kg), but only have %d sets (%s kg) available.",
		res.FriesSets, res.FriesKg.StringFixed(1), c.catalog.AvailableSets(have), have.String())
}
