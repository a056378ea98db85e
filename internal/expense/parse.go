package expense

import (
	"regexp"
	"strings"

	"invoicepipe/internal/numtext"
)

// summaryValueByType returns the first non-empty value whose declared type
// matches typeName exactly.
func summaryValueByType(fields []Field, typeName string) string {
	for _, f := range fields {
		if f.Type == typeName && f.Value != "" {
			return f.Value
		}
	}
	return ""
}

// summaryValueByLabel returns the first field whose lower-cased label
// matches any of the regexes. Fields are the outer loop, so document
// order beats regex order.
func summaryValueByLabel(fields []Field, rxs []*regexp.Regexp) string {
	for _, f := range fields {
		label := strings.TrimSpace(f.Label)
		if label == "" || f.Value == "" {
			continue
		}
		lower := strings.ToLower(label)
		for _, rx := range rxs {
			if rx.MatchString(lower) {
				return f.Value
			}
		}
	}
	return ""
}

// summaryValue resolves a header field: declared-type alternates in order
// first, label regexes as the fallback.
func summaryValue(fields []Field, types []string, rxs []*regexp.Regexp) string {
	for _, t := range types {
		if v := summaryValueByType(fields, t); v != "" {
			return v
		}
	}
	return summaryValueByLabel(fields, rxs)
}

// ParsePages normalizes raw analysis pages into one Document per reported
// document group: header fields via type-first/label-fallback, line items
// via candidate reconciliation. The document total, when parseable, is
// passed down so row amounts that merely echo it can be discarded.
func ParsePages(pages []Page) []Document {
	var docs []Document
	for _, page := range pages {
		for _, raw := range page.Documents {
			sf := raw.SummaryFields

			doc := Document{
				InvoiceNumber: summaryValue(sf, invoiceNumberTypes, invoiceNumberLabelRxs),
				InvoiceDate:   summaryValue(sf, invoiceDateTypes, invoiceDateLabelRxs),
				Total:         summaryValue(sf, totalTypes, totalLabelRxs),
				PaymentTerms:  summaryValue(sf, paymentTermsTypes, paymentTermsLabelRxs),
			}

			totalHint := numtext.ParseDecimal(doc.Total)
			for _, group := range raw.LineItemGroups {
				for _, li := range group.LineItems {
					doc.LineItems = append(doc.LineItems, resolveLineItem(li, totalHint))
				}
			}

			docs = append(docs, doc)
		}
	}
	return docs
}
