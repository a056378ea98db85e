// Package expense converts the loosely-typed field output of an expense
// analysis service into consistent invoice and line-item records. All
// decision logic lives here; fetching, persistence, and rendering are the
// callers' concern.
package expense

import (
	"github.com/shopspring/decimal"
)

// Field is one detected key/value from the analysis service: an optional
// declared type (e.g. "UNIT_PRICE"), an optional label as printed on the
// document, and the detected value text. Empty string means absent.
type Field struct {
	Type  string
	Label string
	Value string
}

// RawLineItem is the ordered field set of one detail-table row.
type RawLineItem []Field

// LineItemGroup is one detected table of line items.
type LineItemGroup struct {
	LineItems []RawLineItem
}

// RawDocument is one document group as reported by the service,
// typically covering a single page.
type RawDocument struct {
	SummaryFields  []Field
	LineItemGroups []LineItemGroup
}

// Page is one page of analysis results, holding zero or more document
// groups.
type Page struct {
	Documents []RawDocument
}

// LineItem is a resolved detail row. Values stay raw strings; numeric
// typing happens only in SanitizeLineItems.
type LineItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

// Document is a normalized invoice: header fields plus resolved line
// items. Produced per page by ParsePages and per invoice number by
// MergeByInvoiceNumber.
type Document struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	InvoiceDate   string     `json:"invoiceDate"`
	Total         string     `json:"total"`
	PaymentTerms  string     `json:"paymentTerms"`
	LineItems     []LineItem `json:"lineItems"`
}

// TextFields returns every textual value on the document, header first,
// for currency-hint scanning.
func (d *Document) TextFields() []string {
	out := []string{d.InvoiceNumber, d.InvoiceDate, d.Total, d.PaymentTerms}
	for _, it := range d.LineItems {
		out = append(out, it.Description, it.Quantity, it.UnitPrice, it.Amount)
	}
	return out
}

// SanitizedItem is a typed line item. Nil decimals mean the value was
// absent or unparseable; a sanitized item is never mutated afterward.
type SanitizedItem struct {
	Description string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	Amount      *decimal.Decimal
}

var (
	tolerancePct = decimal.NewFromFloat(0.02)
	toleranceAbs = decimal.NewFromFloat(0.05)
)

// closeTo reports whether a is within max(2% of b, 0.05) of b. This single
// tolerance rule backs echoed-total detection, swap detection, and pair
// scoring.
func closeTo(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return false
	}
	tol := decimal.Max(b.Abs().Mul(tolerancePct), toleranceAbs)
	return a.Sub(*b).Abs().LessThanOrEqual(tol)
}
