package expense

import (
	"strings"

	"github.com/shopspring/decimal"

	"invoicepipe/internal/numtext"
)

// candidates holds everything collected from one line item's fields before
// reconciliation: a single description and quantity, plus ordered,
// duplicate-free rate and amount candidate lists.
type candidates struct {
	description string
	quantityRaw string
	rates       []string
	amounts     []string
}

// pushUnique appends a trimmed value unless it is empty or already listed.
func pushUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// collectCandidates scans a line item's fields twice: a type-first pass
// that also settles description and quantity, then a label-only pass that
// appends further rate/amount candidates. When a document total is known,
// amounts that merely echo it are filtered out, unless that would leave
// no amount at all.
func collectCandidates(fields RawLineItem, totalHint *decimal.Decimal) candidates {
	var c candidates

	for _, f := range fields {
		t := strings.ToUpper(strings.TrimSpace(f.Type))
		label := strings.ToLower(strings.TrimSpace(f.Label))

		if c.description == "" {
			if _, ok := descriptionTypes[t]; ok || (label != "" && descLabelRx.MatchString(label)) {
				c.description = strings.TrimSpace(f.Value)
			}
		}

		_, isQty := quantityTypes[t]
		if isQty || (label != "" && qtyLabelRx.MatchString(label)) {
			if c.quantityRaw == "" {
				c.quantityRaw = f.Value
			}
		}

		if _, ok := unitPriceTypes[t]; ok {
			c.rates = pushUnique(c.rates, f.Value)
		}
		if _, ok := amountTypes[t]; ok {
			c.amounts = pushUnique(c.amounts, f.Value)
		}
	}

	for _, f := range fields {
		label := strings.ToLower(strings.TrimSpace(f.Label))
		if label == "" {
			continue
		}
		if rateLabelRx.MatchString(label) {
			c.rates = pushUnique(c.rates, f.Value)
		}
		if amountLabelRx.MatchString(label) {
			c.amounts = pushUnique(c.amounts, f.Value)
		}
	}

	if totalHint != nil && len(c.amounts) > 0 {
		filtered := make([]string, 0, len(c.amounts))
		for _, a := range c.amounts {
			ad := numtext.ParseDecimal(a)
			if ad == nil || !closeTo(ad, totalHint) {
				filtered = append(filtered, a)
			}
		}
		if len(filtered) > 0 {
			c.amounts = filtered
		}
	}

	return c
}
