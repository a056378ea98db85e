package expense

import (
	"regexp"

	"invoicepipe/internal/numtext"
)

// lookupKeyValue returns the value of the first pair whose key matches any
// of the regexes, pairs outer so document order wins.
func lookupKeyValue(kvs []KeyValue, rxs []*regexp.Regexp) string {
	for _, kv := range kvs {
		for _, rx := range rxs {
			if rx.MatchString(kv.Key) {
				return kv.Value
			}
		}
	}
	return ""
}

// NeedsFormsFallback reports whether a merged invoice still has header
// gaps a forms pass could patch. An invoice number that reads like a
// money value counts as missing.
func NeedsFormsFallback(d *Document) bool {
	return d.InvoiceNumber == "" ||
		numtext.IsCurrencyLike(d.InvoiceNumber) ||
		d.InvoiceDate == "" ||
		d.PaymentTerms == ""
}

// PatchFromForms fills the invoice number, date, and payment terms from
// forms key-values, using the same label regexes as the normalizer. Only
// missing fields are touched; the total is never patched.
func PatchFromForms(d *Document, kvs []KeyValue) {
	if d.InvoiceNumber == "" || numtext.IsCurrencyLike(d.InvoiceNumber) {
		if v := lookupKeyValue(kvs, invoiceNumberLabelRxs); v != "" && !numtext.IsCurrencyLike(v) {
			d.InvoiceNumber = v
		}
	}
	if d.InvoiceDate == "" {
		if v := lookupKeyValue(kvs, invoiceDateLabelRxs); v != "" {
			d.InvoiceDate = v
		}
	}
	if d.PaymentTerms == "" {
		if v := lookupKeyValue(kvs, paymentTermsLabelRxs); v != "" {
			d.PaymentTerms = v
		}
	}
}
