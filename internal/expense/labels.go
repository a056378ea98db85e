package expense

import "regexp"

// Declared-type names recognized on line-item fields. Keys are compared
// after uppercasing the detected type.
var (
	descriptionTypes = map[string]struct{}{
		"ITEM": {}, "DESCRIPTION": {}, "PRODUCT_CODE": {}, "SERVICE": {},
	}
	quantityTypes = map[string]struct{}{
		"QUANTITY": {}, "QTY": {}, "HOURS": {}, "HOUR": {}, "UNITS": {},
	}
	unitPriceTypes = map[string]struct{}{
		"UNIT_PRICE": {}, "PRICE": {}, "RATE": {},
	}
	amountTypes = map[string]struct{}{
		"AMOUNT": {}, "TOTAL": {}, "LINE_TOTAL": {}, "NET_AMOUNT": {},
		"LINE_AMOUNT": {}, "AMOUNT_AFTER_DISCOUNT": {},
	}
)

// Label fallbacks for line-item fields, matched against the lower-cased
// label text.
var (
	descLabelRx   = regexp.MustCompile(`(?i)\b(description|item|service)\b`)
	qtyLabelRx    = regexp.MustCompile(`(?i)\b(hours?|qty|quantity|units?|pcs?)\b`)
	rateLabelRx   = regexp.MustCompile(`(?i)\b(rate|unit price|price)\b`)
	amountLabelRx = regexp.MustCompile(`(?i)\b(amount|line amount|line total|total)\b`)
)

// Header label fallbacks, ordered: the normalizer walks fields first and
// regexes second, so earlier fields win over later ones.
var (
	invoiceNumberLabelRxs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(invoice|inv)\s*(no\.?|number|#)\b`),
	}
	invoiceDateLabelRxs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\binvoice\s*date\b`),
	}
	totalLabelRxs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(grand\s+)?total\b`),
		regexp.MustCompile(`(?i)\btotal\s+amount\b`),
		regexp.MustCompile(`(?i)\bamount\s+due\b`),
	}
	paymentTermsLabelRxs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bpayment\s*terms\b`),
		regexp.MustCompile(`(?i)\bpayment\s*due\b`),
		regexp.MustCompile(`(?i)\bterms\b`),
	}
)

// Declared-type alternates for header fields, tried in order before any
// label matching.
var (
	invoiceNumberTypes = []string{"INVOICE_RECEIPT_ID", "INVOICE_NUMBER"}
	invoiceDateTypes   = []string{"INVOICE_RECEIPT_DATE", "INVOICE_DATE"}
	totalTypes         = []string{"TOTAL", "GRAND_TOTAL"}
	paymentTermsTypes  = []string{"PAYMENT_TERMS", "TERMS"}
)
