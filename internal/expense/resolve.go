package expense

import (
	"github.com/shopspring/decimal"

	"invoicepipe/internal/numtext"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// Scoring adjustments. A currency-formatted rate is suspicious (rates
	// are usually plain numbers), a currency-formatted amount is expected,
	// and an amount that lands on a whole cent is slightly preferred. The
	// rate/amount asymmetry is deliberate and corpus-tuned; do not
	// "correct" it.
	rateCurrencyPenalty    = decimal.NewFromFloat(0.03)
	amountCurrencyBonus    = decimal.NewFromFloat(0.05)
	wholeCentBonus         = decimal.NewFromFloat(0.01)
	amountBelowRatePenalty = decimal.NewFromFloat(0.10)

	pairErrorCeiling = decimal.NewFromInt(1_000_000_000)
)

func rateAdjustment(s string) decimal.Decimal {
	if numtext.IsCurrencyLike(s) {
		return rateCurrencyPenalty
	}
	return decimal.Zero
}

func amountAdjustment(s string) decimal.Decimal {
	adj := decimal.Zero
	if numtext.IsCurrencyLike(s) {
		adj = adj.Sub(amountCurrencyBonus)
	}
	if d := numtext.ParseDecimal(s); d != nil && d.Mul(hundred).IsInteger() {
		adj = adj.Sub(wholeCentBonus)
	}
	return adj
}

// resolveLineItem turns one raw line item into a resolved row. With a
// parseable quantity and candidates on both sides it searches every
// (rate, amount) pair for the one whose product best explains the amount;
// otherwise it falls back to first candidates. Missing values are computed
// from the other two, never overwriting what the document supplied, and a
// transposed rate/amount column pair is swapped back when the arithmetic
// only works the other way around.
func resolveLineItem(fields RawLineItem, totalHint *decimal.Decimal) LineItem {
	c := collectCandidates(fields, totalHint)
	qty := numtext.ParseQuantity(c.quantityRaw)

	var rate, amount string
	if qty != nil && len(c.rates) > 0 && len(c.amounts) > 0 {
		best := pairErrorCeiling
		for _, r := range c.rates {
			rd := numtext.ParseDecimal(r)
			if rd == nil {
				continue
			}
			for _, a := range c.amounts {
				ad := numtext.ParseDecimal(a)
				if ad == nil {
					continue
				}
				expected := qty.Mul(*rd).Round(2)
				pairErr := expected.Sub(*ad).Abs()
				pairErr = pairErr.Add(rateAdjustment(r))
				pairErr = pairErr.Add(amountAdjustment(a))
				if qty.GreaterThanOrEqual(one) && ad.LessThan(*rd) {
					// a line total should be at least the unit rate
					pairErr = pairErr.Add(amountBelowRatePenalty)
				}
				if pairErr.LessThan(best) {
					best = pairErr
					rate, amount = r, a
				}
			}
		}
	}

	if rate == "" && len(c.rates) > 0 {
		rate = c.rates[0]
	}
	if amount == "" && len(c.amounts) > 0 {
		amount = c.amounts[0]
	}

	// Fill gaps only; never overwrite what was detected.
	if amount == "" && qty != nil {
		if rd := numtext.ParseDecimal(rate); rd != nil {
			amount = qty.Mul(*rd).Round(2).StringFixed(2)
		}
	}
	if rate == "" && qty != nil && !qty.IsZero() {
		if ad := numtext.ParseDecimal(amount); ad != nil {
			rate = ad.Div(*qty).Round(2).StringFixed(2)
		}
	}

	// Swapped-column correction: qty*rate inconsistent with the amount but
	// qty*amount lands on the rate means the table columns were transposed.
	rd := numtext.ParseDecimal(rate)
	ad := numtext.ParseDecimal(amount)
	if qty != nil && rd != nil && ad != nil {
		expected := qty.Mul(*rd).Round(2)
		if !closeTo(&expected, ad) {
			swapped := qty.Mul(*ad).Round(2)
			if closeTo(&swapped, rd) {
				rate, amount = amount, rate
			}
		}
	}

	return LineItem{
		Description: c.description,
		Quantity:    c.quantityRaw,
		UnitPrice:   rate,
		Amount:      amount,
	}
}
