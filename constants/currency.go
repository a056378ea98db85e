package constants

import (
	"strings"
)

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	INR Currency = "INR"
)

var allCurrencies = []Currency{
	USD,
	EUR,
	GBP,
	JPY,
	INR,
}

func CurrencyCodes() []string {
	result := make([]string, len(allCurrencies))
	for i, c := range allCurrencies {
		result[i] = string(c)
	}
	return result
}

func CanonicalizeCurrency(input string) (Currency, bool) {
	if input == "" {
		return USD, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// symbols and common spellings
	synonyms := map[string]Currency{
		"$":       USD,
		"us$":     USD,
		"dollar":  USD,
		"dollars": USD,
		"€":       EUR,
		"euro":    EUR,
		"euros":   EUR,
		"£":       GBP,
		"pound":   GBP,
		"pounds":  GBP,
		"¥":       JPY,
		"yen":     JPY,
		"₹":       INR,
		"rupee":   INR,
		"rupees":  INR,
	}

	if c, ok := synonyms[normalized]; ok {
		return c, true
	}

	for _, c := range allCurrencies {
		if normalized == strings.ToLower(string(c)) {
			return c, true
		}
	}

	return USD, false
}
