package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// ApiClient handles requests to the burgerstock API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a client for baseURL, falling back to
// BURGERSTOCK_API_URL and then localhost.
func NewApiClient(baseURL string) *ApiClient {
	if baseURL == "" {
		baseURL = os.Getenv("BURGERSTOCK_API_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ApiClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

// APIError is a non-2xx response with the server's error text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StockItem mirrors the server's stock row. Quantities arrive as decimal strings.
type StockItem struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
	Category     string `json:"category"`
	ReorderLevel string `json:"reorder_level"`
}

// isLow reports whether an item is at or below its reorder level.
func isLow(it StockItem) bool {
	qty, err := strconv.ParseFloat(it.Quantity, 64)
	if err != nil {
		return false
	}
	reorder, err := strconv.ParseFloat(it.ReorderLevel, 64)
	if err != nil {
		return false
	}
	return qty <= reorder
}

// InventoryPage is the body of GET /api/v1/inventory.
type InventoryPage struct {
	Items            []StockItem `json:"items"`
	Categories       []string    `json:"categories"`
	SelectedCategory string      `json:"selected_category"`
	TotalItems       int         `json:"total_items"`
	LowStockCount    int         `json:"low_stock_count"`
}

// Meal is one bundle on the menu.
type Meal struct {
	Name      string `json:"name"`
	Burgers   int64  `json:"burger"`
	FriesSets int64  `json:"fries_sets"`
	Drinks    int64  `json:"drink"`
}

// Menu is the body of GET /api/v1/menu.
type Menu struct {
	Optional []string `json:"optional"`
	Extras   []struct {
		Name string `json:"name"`
		Base int64  `json:"base"`
	} `json:"extras"`
	Meals  []Meal   `json:"meals"`
	Drinks []string `json:"drinks"`
}

// Order is one row of the order log.
type Order struct {
	ID             uint      `json:"id"`
	OrderType      string    `json:"order_type"`
	Customizations string    `json:"customizations"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderResult is the body returned after a successful order.
type OrderResult struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	Confirmation string      `json:"confirmation"`
	Order        Order       `json:"order"`
	Stock        []StockItem `json:"stock"`
}

// BurgerOrder is the body of POST /api/v1/orders/burger.
type BurgerOrder struct {
	Without []string         `json:"without,omitempty"`
	Extras  map[string]int64 `json:"extras,omitempty"`
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}
	return true, nil
}

// GetInventory lists stock, optionally limited to one category.
func (c *ApiClient) GetInventory(category string) (*InventoryPage, error) {
	path := "/api/v1/inventory"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var page InventoryPage
	if err := c.get(path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMenu fetches what can be ordered.
func (c *ApiClient) GetMenu() (*Menu, error) {
	var menu Menu
	if err := c.get("/api/v1/menu", &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

// Restock adds quantity to an item and returns the server's message.
func (c *ApiClient) Restock(item, quantity string) (string, error) {
	body := map[string]json.RawMessage{
		"item_name": mustJSON(item),
		"quantity":  json.RawMessage(quantity),
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.post("/api/v1/inventory/restock", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// PlaceBurger orders one burger.
func (c *ApiClient) PlaceBurger(b BurgerOrder) (*OrderResult, error) {
	return c.placeOrder("burger", b)
}

// PlaceFries orders fries by the set.
func (c *ApiClient) PlaceFries(sets int64) (*OrderResult, error) {
	return c.placeOrder("fries", map[string]int64{"sets": sets})
}

// PlaceDrink orders bottles of one drink.
func (c *ApiClient) PlaceDrink(name string, quantity int64) (*OrderResult, error) {
	return c.placeOrder("drink", map[string]interface{}{"drink_name": name, "quantity": quantity})
}

// PlaceMeal orders meal bundles served with one drink.
func (c *ApiClient) PlaceMeal(mealType, drink string, quantity int64) (*OrderResult, error) {
	return c.placeOrder("meal", map[string]interface{}{
		"meal_type":     mealType,
		"meal_drink":    drink,
		"meal_quantity": quantity,
	})
}

// GetOrders retrieves the most recent orders
func (c *ApiClient) GetOrders(limit int) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.get("/api/v1/orders?limit="+strconv.Itoa(limit), &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *ApiClient) placeOrder(kind string, body interface{}) (*OrderResult, error) {
	var out OrderResult
	if err := c.post("/api/v1/orders/"+kind, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ApiClient) get(path string, out interface{}) error {
	resp, err := c.httpClient.Get(c.BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func (c *ApiClient) post(path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: e.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("request failed with status code: %d", resp.StatusCode)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func mustJSON(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
