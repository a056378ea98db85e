package expense

import (
	"sort"
	"strings"
)

// NoInvoiceBucket is the grouping key for documents without an invoice
// number. It is distinct from every real value, including "0".
const NoInvoiceBucket = "__NO_ID__"

// groupKey is the trimmed invoice number, or the sentinel bucket when
// absent or blank.
func groupKey(d Document) string {
	if k := strings.TrimSpace(d.InvoiceNumber); k != "" {
		return k
	}
	return NoInvoiceBucket
}

// mergeScore ranks documents within a group: one point per present header
// field, plus a low-weight line-item tiebreak.
func mergeScore(d Document) float64 {
	s := 0.0
	if d.Total != "" {
		s++
	}
	if d.InvoiceDate != "" {
		s++
	}
	if d.PaymentTerms != "" {
		s++
	}
	return s + float64(len(d.LineItems))/1000.0
}

// MergeByInvoiceNumber collapses page-level documents into one per
// invoice number. The best-scored document of each group becomes the
// base; missing header fields are filled (never overwritten) from the
// remaining documents in score order, and line items are concatenated in
// that same order with duplicates preserved. Output follows the first
// appearance of each key in the input.
func MergeByInvoiceNumber(docs []Document) []Document {
	if len(docs) == 0 {
		return nil
	}

	groups := make(map[string][]Document)
	var order []string
	for _, d := range docs {
		k := groupKey(d)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], d)
	}

	merged := make([]Document, 0, len(order))
	for _, k := range order {
		group := append([]Document(nil), groups[k]...)
		sort.SliceStable(group, func(i, j int) bool {
			return mergeScore(group[i]) > mergeScore(group[j])
		})

		base := group[0]
		for _, other := range group[1:] {
			if base.InvoiceDate == "" && other.InvoiceDate != "" {
				base.InvoiceDate = other.InvoiceDate
			}
			if base.PaymentTerms == "" && other.PaymentTerms != "" {
				base.PaymentTerms = other.PaymentTerms
			}
			if base.Total == "" && other.Total != "" {
				base.Total = other.Total
			}
		}

		var items []LineItem
		for _, d := range group {
			items = append(items, d.LineItems...)
		}
		base.LineItems = items

		merged = append(merged, base)
	}
	return merged
}
