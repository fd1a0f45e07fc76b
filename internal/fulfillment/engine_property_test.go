package fulfillment

import (
	"context"
	"errors"
	"testing"

	"burgerstock/internal/catalog"
	"burgerstock/internal/models"
	"burgerstock/internal/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var drinkNames = []string{"Cola", "Lemon Lime", "Orange", "Mango", "Root Beer"}

func drawRequest(t *rapid.T, cat *catalog.Catalog) order.Request {
	switch rapid.IntRange(0, 3).Draw(t, "kind") {
	case 0:
		without := rapid.SliceOfDistinct(rapid.SampledFrom(cat.Optional), func(s string) string { return s }).Draw(t, "without")
		return order.Burger{
			Without: without,
			Extras: map[string]int64{
				"Cheese": rapid.Int64Range(0, 3).Draw(t, "cheese"),
				"Patty":  rapid.Int64Range(0, 2).Draw(t, "patty"),
			},
		}
	case 1:
		return order.Fries{Sets: rapid.Int64Range(1, 12).Draw(t, "sets")}
	case 2:
		return order.Drink{
			Name:     rapid.SampledFrom(drinkNames).Draw(t, "drink"),
			Quantity: rapid.Int64Range(1, 4).Draw(t, "drinks"),
		}
	default:
		meals := make([]string, 0, len(cat.Meals))
		for _, m := range cat.Meals {
			meals = append(meals, m.Name)
		}
		return order.Meal{
			Name:     rapid.SampledFrom(meals).Draw(t, "meal"),
			Drink:    rapid.SampledFrom(drinkNames).Draw(t, "meal drink"),
			Quantity: rapid.Int64Range(1, 3).Draw(t, "meals"),
		}
	}
}

func TestFulfillmentPreservesLedgerInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		legacy := rapid.Bool().Draw(rt, "legacy fries")
		f, done := newFixture(rt, order.WithLegacyFriesDeduct(legacy))
		defer done()
		cat := f.composer.Catalog()

		for _, spec := range cat.Items {
			n := rapid.IntRange(0, 6).Draw(rt, spec.Name)
			qty := decimal.NewFromInt(int64(n))
			if spec.Unit == models.UnitKilogram {
				qty = decimal.New(int64(n), -1)
			}
			f.setQty(rt, spec.Name, qty)
		}

		placed := 0
		steps := rapid.IntRange(1, 15).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			res, err := f.composer.Resolve(drawRequest(rt, cat))
			require.NoError(rt, err)

			before := f.snapshot(rt)
			receipt, err := f.engine.Place(context.Background(), res)
			after := f.snapshot(rt)

			for name, qty := range after {
				if decimal.RequireFromString(qty).Sign() < 0 {
					rt.Fatalf("%s went negative: %s", name, qty)
				}
			}

			if err != nil {
				if !errors.Is(err, models.ErrInsufficientStock) && !errors.Is(err, models.ErrNotFound) {
					rt.Fatalf("unexpected error: %v", err)
				}
				require.Equal(rt, before, after, "rejected order changed stock")
				continue
			}

			placed++
			for name, qty := range before {
				want := decimal.RequireFromString(qty)
				if d, ok := receipt.Deducted[name]; ok {
					want = want.Sub(d)
				}
				got := decimal.RequireFromString(after[name])
				if !got.Equal(want) {
					rt.Fatalf("%s: want %s after order, got %s", name, want, got)
				}
			}
		}

		require.Len(rt, f.orders(rt), placed)
	})
}
