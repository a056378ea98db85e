package export

import (
	"fmt"
	"io"

	"invoicepipe/internal/expense"
	"invoicepipe/internal/numtext"
)

const reportRule = "---------------------------------------------------------------"

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WriteReport renders a fixed-width console report of one invoice, with
// money values formatted in the hinted currency.
func WriteReport(w io.Writer, doc *expense.Document, currency string) {
	invNo := orDash(numtext.Clean(doc.InvoiceNumber))
	invDate := orDash(numtext.NormalizeDate(doc.InvoiceDate))
	terms := orDash(numtext.Clean(doc.PaymentTerms))
	items := expense.SanitizeLineItems(doc.LineItems)

	fmt.Fprintln(w, "\n================ INVOICE =================")
	fmt.Fprintf(w, "Invoice Number : %s\n", invNo)
	fmt.Fprintf(w, "Invoice Date   : %s\n", invDate)
	fmt.Fprintf(w, "Payment Terms  : %s\n", terms)
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "%-40s %8s %14s %14s\n", "Description", "Qty", "Unit Price", "Amount")
	fmt.Fprintln(w, reportRule)

	for _, it := range items {
		desc := orDash(it.Description)
		if r := []rune(desc); len(r) > 40 {
			desc = string(r[:40])
		}
		qty, unit, amt := "-", "-", "-"
		if it.Quantity != nil {
			qty = it.Quantity.String()
		}
		if it.UnitPrice != nil {
			unit = numtext.PrettyMoney(*it.UnitPrice, currency)
		}
		if it.Amount != nil {
			amt = numtext.PrettyMoney(*it.Amount, currency)
		}
		fmt.Fprintf(w, "%-40s %8s %14s %14s\n", desc, qty, unit, amt)
	}

	fmt.Fprintln(w, reportRule)
	total := "-"
	if d := numtext.ParseDecimal(doc.Total); d != nil {
		total = numtext.PrettyMoney(*d, currency)
	}
	fmt.Fprintf(w, "%54s %14s\n", "Invoice Total:", total)
	fmt.Fprintln(w, "===============================================================")
	fmt.Fprintln(w)
}
