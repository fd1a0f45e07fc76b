package order

import "burgerstock/internal/models"

// Request is a customer-facing order choice. The set of implementations is closed:
// Burger, Fries, Drink and Meal.
type Request interface {
	Type() models.OrderType
	isRequest()
}

// Burger is a single burger built from the standard recipe.
type Burger struct {
	// Without lists optional ingredients the customer opted out of.
	Without []string `json:"without"`
	// Extras maps an extra ingredient to how many extra portions to add.
	Extras map[string]int64 `json:"extras"`
}

// Fries is a purchase counted in sets; one set is 200g.
type Fries struct {
	Sets int64 `json:"sets"`
}

// Drink is a number of bottles of one soft drink.
type Drink struct {
	Name     string `json:"drink_name"`
	Quantity int64  `json:"quantity"`
}

// Meal is a number of bundles, all served with the same drink.
type Meal struct {
	Name     string `json:"meal_type"`
	Drink    string `json:"meal_drink"`
	Quantity int64  `json:"meal_quantity"`
}

func (Burger) Type() models.OrderType { return models.OrderTypeBurger }
func (Fries) Type() models.OrderType  { return models.OrderTypeFries }
func (Drink) Type() models.OrderType  { return models.OrderTypeDrink }

// Type returns the order kind, not the meal name.
func (Meal) Type() models.OrderType { return models.OrderTypeMeal }

func (Burger) isRequest() {}
func (Fries) isRequest()  {}
func (Drink) isRequest()  {}
func (Meal) isRequest()   {}
