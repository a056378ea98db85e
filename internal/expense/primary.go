package expense

import (
	"sort"

	"invoicepipe/internal/numtext"
)

// nonEmptyItemCount counts line items carrying at least one non-empty
// field.
func nonEmptyItemCount(d Document) int {
	n := 0
	for _, it := range d.LineItems {
		if it.Description != "" || it.Quantity != "" || it.UnitPrice != "" || it.Amount != "" {
			n++
		}
	}
	return n
}

// ChoosePrimary picks the best invoice of a batch: documents whose total
// parses are preferred when any exist, and among those the one with the
// most populated line items wins, earliest first on ties. Returns nil on
// empty input; callers report that and continue.
func ChoosePrimary(docs []Document) *Document {
	if len(docs) == 0 {
		return nil
	}

	var candidates []Document
	for _, d := range docs {
		if numtext.ParseDecimal(d.Total) != nil {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		candidates = append([]Document(nil), docs...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return nonEmptyItemCount(candidates[i]) > nonEmptyItemCount(candidates[j])
	})
	best := candidates[0]
	return &best
}
