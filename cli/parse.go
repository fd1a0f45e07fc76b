package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseCount reads a positive whole number; empty input means 1.
func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a positive whole number", s)
	}
	return n, nil
}

// parseRestock reads "<item>,<quantity>".
func parseRestock(input string) (string, string, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("format: <item name>,<quantity>")
	}
	name := strings.TrimSpace(parts[0])
	qty := strings.TrimSpace(parts[1])
	if name == "" {
		return "", "", fmt.Errorf("please select an item")
	}
	f, err := strconv.ParseFloat(qty, 64)
	if err != nil || f <= 0 {
		return "", "", fmt.Errorf("quantity must be a positive number")
	}
	return name, qty, nil
}

// parseBurger reads space separated options such as
// "no:Onion,Lettuce extra:Cheese=2,Patty". Empty input is a standard burger.
func parseBurger(input string) (BurgerOrder, error) {
	var b BurgerOrder
	for _, field := range strings.Fields(input) {
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			return BurgerOrder{}, fmt.Errorf("unknown option %q", field)
		}
		switch strings.ToLower(key) {
		case "no":
			b.Without = append(b.Without, splitList(value)...)
		case "extra":
			for _, entry := range splitList(value) {
				name, count, hasCount := strings.Cut(entry, "=")
				n := int64(1)
				if hasCount {
					var err error
					if n, err = parseCount(count); err != nil {
						return BurgerOrder{}, err
					}
				}
				if b.Extras == nil {
					b.Extras = make(map[string]int64)
				}
				b.Extras[name] += n
			}
		default:
			return BurgerOrder{}, fmt.Errorf("unknown option %q", key)
		}
	}
	return b, nil
}

// parseDrink reads "<drink>[,<quantity>]".
func parseDrink(input string) (string, int64, error) {
	name, rest, _ := strings.Cut(input, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("please select a drink")
	}
	n, err := parseCount(rest)
	if err != nil {
		return "", 0, err
	}
	return name, n, nil
}

// parseMeal reads "<meal>,<drink>[,<quantity>]".
func parseMeal(input string) (string, string, int64, error) {
	parts := strings.Split(input, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return "", "", 0, fmt.Errorf("format: <meal>,<drink>[,<quantity>]")
	}
	meal := strings.TrimSpace(parts[0])
	drink := strings.TrimSpace(parts[1])
	if meal == "" {
		return "", "", 0, fmt.Errorf("please select a valid meal")
	}
	if drink == "" {
		return "", "", 0, fmt.Errorf("please select a drink for the meal")
	}
	n := int64(1)
	if len(parts) == 3 {
		var err error
		if n, err = parseCount(parts[2]); err != nil {
			return "", "", 0, err
		}
	}
	return meal, drink, n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
