package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"invoicepipe/internal/common"
	"invoicepipe/internal/expense"
	"invoicepipe/internal/numtext"
)

// CleanLineItem is one typed row of the clean artifact. Nil renders as
// JSON null, mirroring absent values.
type CleanLineItem struct {
	Description *string `json:"description"`
	Quantity    *string `json:"quantity"`
	UnitPrice   *string `json:"unitPrice"`
	Amount      *string `json:"amount"`
}

// CleanInvoice is the normalized artifact written next to each input:
// cleaned header text, YYYY-MM-DD date when recognized, and fixed-2
// money strings.
type CleanInvoice struct {
	InvoiceNumber *string         `json:"invoiceNumber"`
	InvoiceDate   *string         `json:"invoiceDate"`
	PaymentTerms  *string         `json:"paymentTerms"`
	LineItems     []CleanLineItem `json:"lineItems"`
	Total         *string         `json:"total"`
	Currency      string          `json:"currency"`
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fixed2OrNil(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

// BuildCleanInvoice sanitizes the document's line items and assembles the
// clean artifact.
func BuildCleanInvoice(doc *expense.Document, currency string) CleanInvoice {
	items := expense.SanitizeLineItems(doc.LineItems)
	clean := CleanInvoice{
		InvoiceNumber: strOrNil(numtext.Clean(doc.InvoiceNumber)),
		InvoiceDate:   strOrNil(numtext.NormalizeDate(doc.InvoiceDate)),
		PaymentTerms:  strOrNil(numtext.Clean(doc.PaymentTerms)),
		LineItems:     make([]CleanLineItem, 0, len(items)),
		Total:         fixed2OrNil(numtext.ParseDecimal(doc.Total)),
		Currency:      currency,
	}
	for _, it := range items {
		row := CleanLineItem{
			Description: strOrNil(it.Description),
			UnitPrice:   fixed2OrNil(it.UnitPrice),
			Amount:      fixed2OrNil(it.Amount),
		}
		if it.Quantity != nil {
			q := it.Quantity.String()
			row.Quantity = &q
		}
		clean.LineItems = append(clean.LineItems, row)
	}
	return clean
}

// WriteCleanJSON validates the clean artifact against its schema and
// writes it as indented JSON. Returns the written path.
func WriteCleanJSON(dir, baseName string, clean CleanInvoice) (string, error) {
	data, err := json.MarshalIndent(clean, "", "  ")
	if err != nil {
		return "", common.WrapError(err, "marshal clean invoice")
	}
	if err := ValidateCleanInvoice(data); err != nil {
		return "", common.WrapError(err, "clean invoice failed schema check")
	}
	path := filepath.Join(dir, baseName+"_clean.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", common.WrapError(err, "write clean invoice")
	}
	return path, nil
}
