package order

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"burgerstock/internal/catalog"
	"burgerstock/internal/models"

	"github.com/shopspring/decimal"
)

// Resolved is the flattened ingredient -> quantity mapping for one request,
// ready to be validated against the stock ledger.
type Resolved struct {
	Type    models.OrderType
	Summary string

	// Items is what the ledger must hold for the order to go through.
	Items map[string]decimal.Decimal
	// Deductions overrides the amount taken from stock for individual items.
	// Items absent here are deducted exactly as validated.
	Deductions map[string]decimal.Decimal

	Burgers   int64
	FriesSets int64
	FriesKg   decimal.Decimal
	Drinks    int64
	DrinkName string
	MealName  string
	Meals     int64
}

// Names returns the item names in sorted order.
func (r *Resolved) Names() []string {
	names := make([]string, 0, len(r.Items))
	for name := range r.Items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Deduction returns the quantity to remove from stock for name.
func (r *Resolved) Deduction(name string) decimal.Decimal {
	if d, ok := r.Deductions[name]; ok {
		return d
	}
	return r.Items[name]
}

// Confirmation is the cashier-facing text shown after a successful order.
func (r *Resolved) Confirmation(message string) string {
	switch r.Type {
	case models.OrderTypeBurger:
		return fmt.Sprintf("Burger order completed! %s", message)
	case models.OrderTypeFries:
		kg := decimal.Zero
		for name := range r.Items {
			kg = kg.Add(r.Deduction(name))
		}
		return fmt.Sprintf("Fries order completed! %d sets (%s kg deducted from inventory)", r.FriesSets, kg.StringFixed(1))
	case models.OrderTypeDrink:
		return fmt.Sprintf("Drink order completed! %s x%d", r.DrinkName, r.Drinks)
	case models.OrderTypeMeal:
		return fmt.Sprintf("%dx %s completed! Total: %d burger(s), %d fries set(s) (%s kg), %d drink(s)",
			r.Meals, r.MealName, r.Burgers, r.FriesSets, r.FriesKg.StringFixed(1), r.Drinks)
	}
	return message
}

func (r *Resolved) add(name string, qty decimal.Decimal) {
	r.Items[name] = r.Items[name].Add(qty)
}

// dropZeros removes entries that need nothing from stock.
func (r *Resolved) dropZeros() {
	for name, qty := range r.Items {
		if qty.Sign() <= 0 {
			delete(r.Items, name)
			delete(r.Deductions, name)
		}
	}
}

// Option configures a Composer
type Option func(*Composer)

// WithLegacyFriesDeduct makes standalone fries orders deduct only the whole
// kilograms of the requirement while still validating the fractional amount.
func WithLegacyFriesDeduct(enabled bool) Option {
	return func(c *Composer) {
		c.legacyFries = enabled
	}
}

// Composer turns order requests into resolved ingredient requirements.
type Composer struct {
	catalog     *catalog.Catalog
	legacyFries bool
}

// NewComposer creates a composer bound to an immutable catalog.
func NewComposer(cat *catalog.Catalog, opts ...Option) *Composer {
	c := &Composer{catalog: cat}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the catalog the composer resolves against.
func (c *Composer) Catalog() *catalog.Catalog {
	return c.catalog
}

// Resolve builds the ingredient requirements for req. Malformed requests fail
// with a *models.InvalidInputError before any stock is consulted.
func (c *Composer) Resolve(req Request) (*Resolved, error) {
	switch r := req.(type) {
	case Burger:
		return c.burger(r)
	case *Burger:
		return c.burger(*r)
	case Fries:
		return c.fries(r)
	case *Fries:
		return c.fries(*r)
	case Drink:
		return c.drink(r)
	case *Drink:
		return c.drink(*r)
	case Meal:
		return c.meal(r)
	case *Meal:
		return c.meal(*r)
	case nil:
		return nil, models.NewInvalidInput("Please select an order.")
	default:
		return nil, models.NewInvalidInput("Unsupported order type %q.", req.Type())
	}
}

func (c *Composer) burger(b Burger) (*Resolved, error) {
	res := newResolved(models.OrderTypeBurger)
	if err := c.addBurgers(res, 1); err != nil {
		return nil, err
	}
	res.Burgers = 1

	without := make(map[string]bool, len(b.Without))
	for _, name := range b.Without {
		if !c.catalog.IsOptional(name) {
			return nil, models.NewInvalidInput("%s cannot be left out of a burger.", name)
		}
		without[name] = true
	}
	for name, n := range b.Extras {
		if _, ok := c.catalog.ExtraBase(name); !ok {
			return nil, models.NewInvalidInput("%s is not available as an extra.", name)
		}
		if n < 0 {
			return nil, models.NewInvalidInput("Extra %s count must not be negative.", name)
		}
	}

	var details []string
	for _, name := range c.catalog.Optional {
		if without[name] {
			res.Items[name] = decimal.Zero
			details = append(details, "No "+name)
		}
	}
	for _, extra := range c.catalog.Extras {
		n := b.Extras[extra.Name]
		if n > 0 {
			qty, ok := scale(extra.Base, n)
			if !ok {
				return nil, models.NewInvalidInput("Extra %s count is too large.", extra.Name)
			}
			res.add(extra.Name, decimal.NewFromInt(qty))
			details = append(details, fmt.Sprintf("Extra %s x%d", extra.Name, n))
		}
	}

	res.dropZeros()
	if len(details) == 0 {
		res.Summary = "Standard"
	} else {
		res.Summary = strings.Join(details, ", ")
	}
	return res, nil
}

func (c *Composer) fries(f Fries) (*Resolved, error) {
	if f.Sets < 1 {
		return nil, models.NewInvalidInput("Fries quantity must be at least 1 set.")
	}
	res := newResolved(models.OrderTypeFries)
	kg := c.catalog.FriesKg(f.Sets)
	res.add(c.catalog.FriesItem, kg)
	if c.legacyFries {
		res.Deductions[c.catalog.FriesItem] = kg.Floor()
	}
	res.FriesSets = f.Sets
	res.FriesKg = kg
	res.Summary = fmt.Sprintf("%d sets (%s kg)", f.Sets, kg.StringFixed(1))
	res.dropZeros()
	return res, nil
}

func (c *Composer) drink(d Drink) (*Resolved, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, models.NewInvalidInput("Please select a drink.")
	}
	if d.Quantity < 1 {
		return nil, models.NewInvalidInput("Drink quantity must be at least 1.")
	}
	res := newResolved(models.OrderTypeDrink)
	res.add(name, decimal.NewFromInt(d.Quantity))
	res.Drinks = d.Quantity
	res.DrinkName = name
	res.Summary = fmt.Sprintf("%s x%d", name, d.Quantity)
	return res, nil
}

func (c *Composer) meal(m Meal) (*Resolved, error) {
	spec, ok := c.catalog.Meal(m.Name)
	if !ok {
		return nil, models.NewInvalidInput("Please select a valid meal.")
	}
	drink := strings.TrimSpace(m.Drink)
	if drink == "" {
		return nil, models.NewInvalidInput("Please select a drink for the meal.")
	}
	if m.Quantity < 1 {
		return nil, models.NewInvalidInput("Meal quantity must be at least 1.")
	}

	burgers, okBurgers := scale(spec.Burgers, m.Quantity)
	sets, okSets := scale(spec.FriesSets, m.Quantity)
	drinks, okDrinks := scale(spec.Drinks, m.Quantity)
	if !okBurgers || !okSets || !okDrinks {
		return nil, models.NewInvalidInput("Meal quantity is too large.")
	}

	res := newResolved(models.OrderTypeMeal)
	res.Burgers = burgers
	if err := c.addBurgers(res, burgers); err != nil {
		return nil, err
	}

	res.FriesSets = sets
	res.FriesKg = c.catalog.FriesKg(sets)
	res.add(c.catalog.FriesItem, res.FriesKg)

	res.Drinks = drinks
	res.add(drink, decimal.NewFromInt(drinks))

	res.DrinkName = drink
	res.MealName = spec.Name
	res.Meals = m.Quantity
	res.Summary = fmt.Sprintf("%dx %s with %s", m.Quantity, spec.Name, drink)
	res.dropZeros()
	return res, nil
}

// addBurgers adds count full standard recipes.
func (c *Composer) addBurgers(res *Resolved, count int64) error {
	for _, ing := range c.catalog.Burger {
		qty, ok := scale(ing.Quantity, count)
		if !ok {
			return models.NewInvalidInput("Too many burgers in one order.")
		}
		res.add(ing.Name, decimal.NewFromInt(qty))
	}
	return nil
}

// scale returns per*n for non-negative operands, or false if it overflows int64.
func scale(per, n int64) (int64, bool) {
	if per < 0 || n < 0 {
		return 0, false
	}
	if per != 0 && n > math.MaxInt64/per {
		return 0, false
	}
	return per * n, true
}

func newResolved(t models.OrderType) *Resolved {
	return &Resolved{
		Type:       t,
		Items:      make(map[string]decimal.Decimal),
		Deductions: make(map[string]decimal.Decimal),
		FriesKg:    decimal.Zero,
	}
}
