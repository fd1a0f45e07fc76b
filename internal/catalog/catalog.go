package catalog

import (
	"fmt"

	"burgerstock/internal/models"

	"github.com/shopspring/decimal"
)

// ItemSpec describes a predefined stock item used when seeding the ledger.
type ItemSpec struct {
	Name         string
	Unit         models.StockUnit
	Category     models.StockCategory
	ReorderLevel decimal.Decimal
}

// Ingredient is one line of the standard burger recipe.
type Ingredient struct {
	Name     string
	Quantity int64
}

// Extra is an ingredient a customer may add on top of the recipe.
type Extra struct {
	Name string
	Base int64
}

// Meal is a bundle of burgers, fries sets and drinks sold as one unit.
type Meal struct {
	Name      string `json:"name"`
	Burgers   int64  `json:"burger"`
	FriesSets int64  `json:"fries_sets"`
	Drinks    int64  `json:"drink"`
}

// Catalog holds the fixed recipes and bundles the restaurant sells.
// Slices keep their declaration order so order summaries are stable.
type Catalog struct {
	Items          []ItemSpec
	Burger         []Ingredient
	Optional       []string
	Extras         []Extra
	Meals          []Meal
	FriesSetsPerKg int64
	FriesItem      string
	DrinksCategory models.StockCategory
}

// Default returns the burger restaurant's catalog. Each call builds a new value.
func Default() *Catalog {
	return &Catalog{
		Items: []ItemSpec{
			{Name: "Buns", Unit: models.UnitPieces, Category: models.CategoryBurger, ReorderLevel: decimal.NewFromInt(50)},
			{Name: "Lettuce", Unit: models.UnitPieces, Category: models.CategoryBurger, ReorderLevel: decimal.NewFromInt(30)},
			{Name: "Tomatoes", Unit: models.UnitPieces, Category: models.CategoryBurger, ReorderLevel: decimal.NewFromInt(30)},
			{Name: "Onion", Unit: models.UnitPieces, Category: models.CategoryBurger, ReorderLevel: decimal.NewFromInt(30)},
			{Name: "Patty", Unit: models.UnitPieces, Category: models.CategoryBurger, ReorderLevel: decimal.NewFromInt(50)},
			{Name: "Cheese", Unit: models.UnitPieces, Category: models.CategoryBurger, ReorderLevel: decimal.NewFromInt(40)},
			{Name: "Tomato Sauce", Unit: models.UnitPieces, Category: models.CategoryBurger, ReorderLevel: decimal.NewFromInt(20)},

			{Name: "Potato Fries", Unit: models.UnitKilogram, Category: models.CategoryFries, ReorderLevel: decimal.NewFromInt(10)},

			{Name: "Cola", Unit: models.UnitBottles, Category: models.CategorySoftDrinks, ReorderLevel: decimal.NewFromInt(24)},
			{Name: "Lemon Lime", Unit: models.UnitBottles, Category: models.CategorySoftDrinks, ReorderLevel: decimal.NewFromInt(24)},
			{Name: "Orange", Unit: models.UnitBottles, Category: models.CategorySoftDrinks, ReorderLevel: decimal.NewFromInt(24)},
			{Name: "Mango", Unit: models.UnitBottles, Category: models.CategorySoftDrinks, ReorderLevel: decimal.NewFromInt(24)},
		},
		Burger: []Ingredient{
			{Name: "Buns", Quantity: 1},
			{Name: "Lettuce", Quantity: 1},
			{Name: "Tomatoes", Quantity: 1},
			{Name: "Onion", Quantity: 1},
			{Name: "Patty", Quantity: 1},
			{Name: "Tomato Sauce", Quantity: 1},
		},
		Optional: []string{"Lettuce", "Tomatoes", "Onion"},
		Extras: []Extra{
			{Name: "Cheese", Base: 1},
			{Name: "Patty", Base: 1},
		},
		Meals: []Meal{
			{Name: "Basic Meal", Burgers: 1, FriesSets: 1, Drinks: 1},
			{Name: "Deluxe Meal", Burgers: 1, FriesSets: 2, Drinks: 2},
			{Name: "Family Meal", Burgers: 4, FriesSets: 4, Drinks: 4},
		},
		// 1 set = 200g
		FriesSetsPerKg: 5,
		FriesItem:      "Potato Fries",
		DrinksCategory: models.CategorySoftDrinks,
	}
}

// Meal looks up a bundle by its display name.
func (c *Catalog) Meal(name string) (Meal, bool) {
	for _, m := range c.Meals {
		if m.Name == name {
			return m, true
		}
	}
	return Meal{}, false
}

// IsOptional checks if the ingredient can be left off a burger
func (c *Catalog) IsOptional(name string) bool {
	for _, o := range c.Optional {
		if o == name {
			return true
		}
	}
	return false
}

// ExtraBase returns the per-unit quantity of an extra ingredient.
func (c *Catalog) ExtraBase(name string) (int64, bool) {
	for _, e := range c.Extras {
		if e.Name == name {
			return e.Base, true
		}
	}
	return 0, false
}

// Item returns the seed definition for a stock item.
func (c *Catalog) Item(name string) (ItemSpec, bool) {
	for _, it := range c.Items {
		if it.Name == name {
			return it, true
		}
	}
	return ItemSpec{}, false
}

// FriesKg converts fries sets into the kilograms tracked by the ledger.
func (c *Catalog) FriesKg(sets int64) decimal.Decimal {
	return decimal.NewFromInt(sets).Div(decimal.NewFromInt(c.FriesSetsPerKg))
}

// AvailableSets is the number of whole sets that kg of fries can serve.
func (c *Catalog) AvailableSets(kg decimal.Decimal) int64 {
	return kg.Mul(decimal.NewFromInt(c.FriesSetsPerKg)).Floor().IntPart()
}

// Categories returns the distinct seed categories in declaration order.
func (c *Catalog) Categories() []models.StockCategory {
	seen := make(map[models.StockCategory]bool)
	var out []models.StockCategory
	for _, it := range c.Items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

// Validate checks that every recipe, extra and the fries item refer to a seeded item.
func (c *Catalog) Validate() error {
	if c.FriesSetsPerKg <= 0 {
		return fmt.Errorf("fries sets per kg must be greater than 0")
	}
	if _, ok := c.Item(c.FriesItem); !ok {
		return fmt.Errorf("fries item %q is not a predefined item", c.FriesItem)
	}
	names := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if it.Name == "" {
			return fmt.Errorf("predefined item name is required")
		}
		if names[it.Name] {
			return fmt.Errorf("predefined item %q is declared twice", it.Name)
		}
		names[it.Name] = true
	}
	inRecipe := make(map[string]bool, len(c.Burger))
	for _, ing := range c.Burger {
		if !names[ing.Name] {
			return fmt.Errorf("burger ingredient %q is not a predefined item", ing.Name)
		}
		if ing.Quantity <= 0 {
			return fmt.Errorf("burger ingredient %q must have a positive quantity", ing.Name)
		}
		inRecipe[ing.Name] = true
	}
	for _, o := range c.Optional {
		if !inRecipe[o] {
			return fmt.Errorf("optional ingredient %q is not part of the burger recipe", o)
		}
	}
	for _, e := range c.Extras {
		if !names[e.Name] {
			return fmt.Errorf("extra ingredient %q is not a predefined item", e.Name)
		}
		if e.Base <= 0 {
			return fmt.Errorf("extra ingredient %q must have a positive base quantity", e.Name)
		}
	}
	for _, m := range c.Meals {
		if m.Burgers < 0 || m.FriesSets < 0 || m.Drinks < 0 {
			return fmt.Errorf("meal %q has a negative component", m.Name)
		}
	}
	return nil
}
