package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderSendsBodyAndDecodesResult(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"Order completed successfully","confirmation":"2x Basic Meal completed!","order":{"id":4,"order_type":"meal","customizations":"2x Basic Meal with Cola"}}`))
	}))
	defer srv.Close()

	res, err := NewApiClient(srv.URL).PlaceMeal("Basic Meal", "Cola", 2)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/orders/meal", gotPath)
	assert.Equal(t, "Basic Meal", gotBody["meal_type"])
	assert.Equal(t, 2.0, gotBody["meal_quantity"])
	assert.Equal(t, "2x Basic Meal completed!", res.Confirmation)
	assert.Equal(t, uint(4), res.Order.ID)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Not enough Patty. Need 1, have 0"}`))
	}))
	defer srv.Close()

	_, err := NewApiClient(srv.URL).PlaceBurger(BurgerOrder{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Not enough Patty. Need 1, have 0", apiErr.Message)
}

func TestRestockSendsNumericQuantity(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"message":"Added 2.5 kg to 'Potato Fries'. New total: 12.5"}`))
	}))
	defer srv.Close()

	msg, err := NewApiClient(srv.URL).Restock("Potato Fries", "2.5")
	require.NoError(t, err)
	assert.Equal(t, "Added 2.5 kg to 'Potato Fries'. New total: 12.5", msg)
	assert.Equal(t, 2.5, gotBody["quantity"])
	assert.Equal(t, "Potato Fries", gotBody["item_name"])
}

func TestGetInventoryAndLowStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Soft Drinks", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`{"items":[{"name":"Cola","quantity":"30","reorder_level":"24"},{"name":"Mango","quantity":"3","reorder_level":"24"}],"total_items":12,"low_stock_count":11}`))
	}))
	defer srv.Close()

	page, err := NewApiClient(srv.URL).GetInventory("Soft Drinks")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.False(t, isLow(page.Items[0]))
	assert.True(t, isLow(page.Items[1]))
	assert.Equal(t, 11, page.LowStockCount)

	rows := inventoryRows(page.Items)
	assert.Equal(t, "", rows[0][5])
	assert.NotEmpty(t, rows[1][5])
}
