package numtext

import (
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"invoicepipe/constants"
)

var (
	currencySymbolRx = regexp.MustCompile(`[$€£¥₹]`)
	currencyCodeRx   = regexp.MustCompile(`(?i)\b(usd|eur|gbp|cad|aud|jpy|inr|dop)\b`)

	// moneyPatternRx matches bare monetary numerics: thousands-grouped
	// integers with optional cents, or any number with exactly two decimals.
	moneyPatternRx = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d{2})?$|^-?\d+\.\d{2}$`)

	firstNumberRx = regexp.MustCompile(`-?\d+(\.\d+)?`)
)

// ParseDecimal parses a money-ish string, tolerating currency symbols,
// currency codes, thousands separators, and parenthesized negatives.
// Returns nil when the remainder is not a single numeric value.
func ParseDecimal(s string) *decimal.Decimal {
	c := Clean(s)
	if c == "" {
		return nil
	}

	neg := false
	if strings.HasPrefix(c, "(") && strings.HasSuffix(c, ")") {
		neg = true
		c = strings.TrimSuffix(strings.TrimPrefix(c, "("), ")")
	}

	c = currencySymbolRx.ReplaceAllString(c, "")
	c = currencyCodeRx.ReplaceAllString(c, "")
	c = strings.TrimSpace(c)

	// Decimal comma ("12,50") vs thousands separators ("1,234.56").
	if strings.Contains(c, ",") {
		if !strings.Contains(c, ".") && decimalCommaRx.MatchString(c) {
			c = strings.Replace(c, ",", ".", 1)
		} else {
			c = strings.ReplaceAll(c, ",", "")
		}
	}
	c = strings.ReplaceAll(c, " ", "")

	d, err := decimal.NewFromString(c)
	if err != nil {
		return nil
	}
	if neg {
		d = d.Neg()
	}
	return &d
}

var decimalCommaRx = regexp.MustCompile(`^-?\d+,\d{1,2}$`)

// ParseQuantity parses a quantity, additionally tolerating unit words
// such as "3 hrs" or "2.5 units": when the whole string does not parse,
// the first numeric token wins.
func ParseQuantity(s string) *decimal.Decimal {
	if d := ParseDecimal(s); d != nil {
		return d
	}
	c := strings.ReplaceAll(Clean(s), ",", "")
	m := firstNumberRx.FindString(c)
	if m == "" {
		return nil
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return nil
	}
	return &d
}

// IsCurrencyLike reports whether a string reads as a money value: it
// carries a currency symbol or matches a monetary numeric pattern.
func IsCurrencyLike(s string) bool {
	c := Clean(s)
	if c == "" {
		return false
	}
	return currencySymbolRx.MatchString(c) || moneyPatternRx.MatchString(c)
}

var symbolToCode = []struct {
	symbol string
	code   string
}{
	{"€", "EUR"},
	{"£", "GBP"},
	{"₹", "INR"},
	{"¥", "JPY"},
	{"$", "USD"},
}

// DetectCurrency scans textual fields for a currency symbol or ISO code
// and returns the inferred code, or "" when nothing matches.
func DetectCurrency(texts []string) string {
	for _, t := range texts {
		for _, sc := range symbolToCode {
			if strings.Contains(t, sc.symbol) {
				return sc.code
			}
		}
	}
	for _, t := range texts {
		if m := currencyCodeRx.FindString(t); m != "" {
			return strings.ToUpper(m)
		}
	}
	return ""
}

// DefaultCurrency returns the configured fallback currency code.
func DefaultCurrency() string {
	if c := strings.TrimSpace(os.Getenv("DEFAULT_CURRENCY")); c != "" {
		if canonical, ok := constants.CanonicalizeCurrency(c); ok {
			return string(canonical)
		}
		return strings.ToUpper(c)
	}
	return string(constants.USD)
}

var codeToSymbol = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
}

// PrettyMoney renders a decimal as a grouped, fixed-2 money string with
// the currency's symbol when known ("$1,234.50"), else "CODE 1,234.50".
func PrettyMoney(d decimal.Decimal, code string) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	grouped := b.String() + "." + frac
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	if sym, ok := codeToSymbol[strings.ToUpper(code)]; ok {
		return sign + sym + grouped
	}
	if code == "" {
		return sign + grouped
	}
	return strings.ToUpper(code) + " " + sign + grouped
}
