package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBurger(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    BurgerOrder
		wantErr bool
	}{
		{name: "standard", input: "", want: BurgerOrder{}},
		{name: "opt out", input: "no:Onion,Lettuce", want: BurgerOrder{Without: []string{"Onion", "Lettuce"}}},
		{
			name:  "extras",
			input: "extra:Cheese=2,Patty",
			want:  BurgerOrder{Extras: map[string]int64{"Cheese": 2, "Patty": 1}},
		},
		{
			name:  "both",
			input: "no:Tomatoes extra:Cheese=1 extra:Cheese=1",
			want:  BurgerOrder{Without: []string{"Tomatoes"}, Extras: map[string]int64{"Cheese": 2}},
		},
		{name: "bad count", input: "extra:Cheese=0", wantErr: true},
		{name: "unknown option", input: "with:Bacon", wantErr: true},
		{name: "bare word", input: "Onion", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseBurger(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDrink(t *testing.T) {
	name, qty, err := parseDrink("Cola")
	require.NoError(t, err)
	assert.Equal(t, "Cola", name)
	assert.Equal(t, int64(1), qty)

	name, qty, err = parseDrink(" Lemon Lime , 3 ")
	require.NoError(t, err)
	assert.Equal(t, "Lemon Lime", name)
	assert.Equal(t, int64(3), qty)

	_, _, err = parseDrink(",2")
	assert.EqualError(t, err, "please select a drink")

	_, _, err = parseDrink("Cola,-1")
	assert.Error(t, err)
}

func TestParseMeal(t *testing.T) {
	meal, drink, qty, err := parseMeal("Deluxe Meal,Mango,2")
	require.NoError(t, err)
	assert.Equal(t, "Deluxe Meal", meal)
	assert.Equal(t, "Mango", drink)
	assert.Equal(t, int64(2), qty)

	_, _, qty, err = parseMeal("Basic Meal,Cola")
	require.NoError(t, err)
	assert.Equal(t, int64(1), qty)

	_, _, _, err = parseMeal("Basic Meal")
	assert.Error(t, err)
	_, _, _, err = parseMeal("Basic Meal, ")
	assert.EqualError(t, err, "please select a drink for the meal")
}

func TestParseRestock(t *testing.T) {
	name, qty, err := parseRestock("Potato Fries, 2.5")
	require.NoError(t, err)
	assert.Equal(t, "Potato Fries", name)
	assert.Equal(t, "2.5", qty)

	for _, bad := range []string{"Buns", "Buns,0", "Buns,abc", ",4"} {
		_, _, err := parseRestock(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseCount(t *testing.T) {
	n, err := parseCount("")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = parseCount("7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = parseCount("1.5")
	assert.Error(t, err)
}
