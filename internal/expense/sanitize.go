package expense

import (
	"regexp"

	"github.com/shopspring/decimal"

	"invoicepipe/internal/numtext"
)

// Summary/heading row detection. "Total Fees" and "Total Disbursements"
// are headings, but "Total Fee" (singular) is a legitimate billable line;
// the carve-out is a prefix check because RE2 has no lookahead.
var (
	totalFeesHeadingRx = regexp.MustCompile(`(?i)^\s*total\s*fees\b`)
	totalFeePrefixRx   = regexp.MustCompile(`(?i)^\s*total\s*fee`)
	summaryHeadingRx   = regexp.MustCompile(`(?i)^\s*(sub\s*total|subtotal|total|tax|vat|discount|fee\s*discount)\b`)
)

func isSummaryRow(desc string) bool {
	if totalFeesHeadingRx.MatchString(desc) {
		return true
	}
	if totalFeePrefixRx.MatchString(desc) {
		return false
	}
	return summaryHeadingRx.MatchString(desc)
}

var integerSnapTolerance = decimal.NewFromFloat(0.001)

// SanitizeLineItems converts resolved raw rows into typed line items:
// cleans text, drops summary/heading rows, parses decimals (nil on
// failure, never an error), computes a missing amount from qty*price,
// discards a zero quantity that contradicts a real amount, infers a
// missing quantity from amount/price, and drops rows that end up fully
// empty. Caller-supplied values are only filled, never overwritten.
func SanitizeLineItems(items []LineItem) []SanitizedItem {
	cleaned := make([]SanitizedItem, 0, len(items))
	for _, it := range items {
		desc := numtext.Clean(it.Description)
		qtyRaw := numtext.Clean(it.Quantity)
		priceRaw := numtext.Clean(it.UnitPrice)
		amountRaw := numtext.Clean(it.Amount)

		if desc != "" && isSummaryRow(desc) {
			continue
		}

		qty := numtext.ParseQuantity(qtyRaw)
		price := numtext.ParseDecimal(priceRaw)
		amount := numtext.ParseDecimal(amountRaw)

		if amount == nil && qty != nil && price != nil {
			a := qty.Mul(*price).Round(2)
			amount = &a
		}

		// A zero quantity next to a real amount with no usable unit price
		// is almost always an OCR misread, not a free line.
		if qty != nil && qty.IsZero() && amount != nil && !amount.IsZero() &&
			(price == nil || price.IsZero()) {
			qty = nil
		}

		if qty == nil && amount != nil && price != nil && !price.IsZero() {
			q := amount.Div(*price).Round(3)
			nearest := q.Round(0)
			if q.Sub(nearest).Abs().LessThanOrEqual(integerSnapTolerance) {
				q = nearest
			}
			qty = &q
		}

		if desc == "" && qty == nil && price == nil && amount == nil {
			continue
		}

		cleaned = append(cleaned, SanitizedItem{
			Description: desc,
			Quantity:    qty,
			UnitPrice:   price,
			Amount:      amount,
		})
	}
	return cleaned
}
