package export

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"invoicepipe/internal/expense"
)

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	WriteReport(&buf, sampleInvoice(), "USD")
	out := buf.String()

	for _, want := range []string{
		"Invoice Number : INV-42",
		"Invoice Date   : 2024-03-15",
		"Payment Terms  : Net 30",
		"$100.00",
		"$200.00",
		"Invoice Total:",
		"$320.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Subtotal") {
		t.Errorf("summary row leaked into report:\n%s", out)
	}
}

func TestWriteReportMultibyteDescription(t *testing.T) {
	doc := &expense.Document{
		InvoiceNumber: "INV-7",
		LineItems: []expense.LineItem{
			{Description: strings.Repeat("é", 45), Quantity: "1", UnitPrice: "10.00", Amount: "10.00"},
		},
	}
	var buf bytes.Buffer
	WriteReport(&buf, doc, "USD")
	out := buf.String()

	if !utf8.ValidString(out) {
		t.Fatalf("report is not valid UTF-8:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("é", 40)) {
		t.Errorf("description prefix missing from report:\n%s", out)
	}
	if strings.Contains(out, strings.Repeat("é", 41)) {
		t.Errorf("description was not truncated:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"truncated here", 9, "truncate…"},
		{"héllo wörld désc", 7, "héllo …"},
		{"日本語の説明", 4, "日本語…"},
		{"ab", 1, "a"},
		{"ab", 0, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestBuildWorkbookXLSX(t *testing.T) {
	rows := []WorkbookRow{
		{SourceFile: "a.pdf", Currency: "USD", Invoice: sampleInvoice()},
		{SourceFile: "skipped.pdf"},
	}
	data, err := BuildWorkbookXLSX(rows, nil)
	if err != nil {
		t.Fatalf("BuildWorkbookXLSX: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook bytes")
	}
	// XLSX files are zip archives
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("workbook does not look like a zip archive: % x", data[:4])
	}
}
