package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"invoicepipe/internal/expense"
	"invoicepipe/internal/numtext"
)

// WorkbookRow ties a parsed invoice to the file it came from.
type WorkbookRow struct {
	SourceFile string
	Currency   string
	Invoice    *expense.Document
}

// BuildWorkbookXLSX returns an XLSX workbook (as bytes) with one row per
// sanitized line item across the given invoices.
func BuildWorkbookXLSX(invoices []WorkbookRow, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on Invoices.
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Source File",
		"Invoice Number",
		"Invoice Date",
		"Payment Terms",
		"Description",
		"Qty",
		"Unit Price",
		"Amount",
		"Invoice Total",
		"Currency",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	rows := 0
	for _, wr := range invoices {
		if wr.Invoice == nil {
			continue
		}
		invNo := numtext.Clean(wr.Invoice.InvoiceNumber)
		invDate := numtext.NormalizeDate(wr.Invoice.InvoiceDate)
		terms := numtext.Clean(wr.Invoice.PaymentTerms)
		total := ""
		if d := numtext.ParseDecimal(wr.Invoice.Total); d != nil {
			total = d.StringFixed(2)
		}

		items := expense.SanitizeLineItems(wr.Invoice.LineItems)
		if len(items) == 0 {
			items = []expense.SanitizedItem{{}}
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		for _, it := range items {
			write(1, wr.SourceFile)
			write(2, invNo)
			write(3, invDate)
			write(4, terms)
			write(5, truncate(it.Description, 140))
			if it.Quantity != nil {
				write(6, it.Quantity.String())
			}
			if it.UnitPrice != nil {
				write(7, it.UnitPrice.StringFixed(2))
			}
			if it.Amount != nil {
				write(8, it.Amount.StringFixed(2))
			}
			write(9, total)
			write(10, wr.Currency)
			row++
			rows++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // source file
	_ = f.SetColWidth(sheet, "B", "B", 18) // invoice number
	_ = f.SetColWidth(sheet, "C", "C", 14) // date
	_ = f.SetColWidth(sheet, "D", "D", 18) // terms
	_ = f.SetColWidth(sheet, "E", "E", 48) // description
	_ = f.SetColWidth(sheet, "F", "H", 12) // qty/unit/amount
	_ = f.SetColWidth(sheet, "I", "I", 14) // total
	_ = f.SetColWidth(sheet, "J", "J", 10) // currency

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"invoices", len(invoices),
		"rows", rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
