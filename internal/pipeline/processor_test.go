package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"invoicepipe/constants"
	"invoicepipe/internal/expense"
	"invoicepipe/internal/repository"
)

type fakeUploader struct {
	key string
	err error
}

func (f *fakeUploader) UploadFile(ctx context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

type fakeAnalyzer struct {
	jobID  string
	status constants.JobStatus
	pages  []expense.Page

	formsStatus constants.JobStatus
	formsPages  []expense.BlockPage
	formsCalled bool
}

func (f *fakeAnalyzer) AnalyzeExpenseAuto(ctx context.Context, key string) (string, constants.JobStatus, []expense.Page, error) {
	return f.jobID, f.status, f.pages, nil
}

func (f *fakeAnalyzer) AnalyzeForms(ctx context.Context, key string) (constants.JobStatus, []expense.BlockPage, error) {
	f.formsCalled = true
	return f.formsStatus, f.formsPages, nil
}

type savedInvoice struct {
	doc     expense.Document
	primary bool
}

type fakeRepo struct {
	saved []savedInvoice
}

func (f *fakeRepo) SaveInvoice(ctx context.Context, sourceFile, s3Key, currency string, doc *expense.Document, primary bool) (uuid.UUID, error) {
	f.saved = append(f.saved, savedInvoice{doc: *doc, primary: primary})
	return uuid.New(), nil
}

func (f *fakeRepo) ListBySourceFile(ctx context.Context, sourceFile string) ([]repository.StoredInvoice, error) {
	return nil, nil
}

func completePages() []expense.Page {
	return []expense.Page{{
		Documents: []expense.RawDocument{{
			SummaryFields: []expense.Field{
				{Type: "INVOICE_RECEIPT_ID", Value: "INV-1"},
				{Type: "INVOICE_RECEIPT_DATE", Value: "2024-03-15"},
				{Type: "TOTAL", Value: "$200.00"},
				{Label: "Payment Terms", Value: "Net 30"},
			},
			LineItemGroups: []expense.LineItemGroup{{
				LineItems: []expense.RawLineItem{{
					{Type: "ITEM", Value: "Consulting"},
					{Type: "QUANTITY", Value: "2"},
					{Type: "UNIT_PRICE", Value: "100.00"},
					{Type: "AMOUNT", Value: "200.00"},
				}},
			}},
		}},
	}}
}

func TestProcessFile(t *testing.T) {
	t.Run("happy path writes artifacts and report", func(t *testing.T) {
		dir := t.TempDir()
		var report bytes.Buffer
		analyzer := &fakeAnalyzer{jobID: "job-1", status: constants.JobStatusSucceeded, pages: completePages()}
		p := NewProcessor(nil, &fakeUploader{key: "uploads/ab12cd34-inv.pdf"}, analyzer, nil, dir, &report)

		res, err := p.ProcessFile(context.Background(), "/tmp/inv one.pdf")
		if err != nil {
			t.Fatalf("ProcessFile: %v", err)
		}
		if res.Status != string(constants.JobStatusSucceeded) || res.JobID != "job-1" {
			t.Errorf("result = %+v", res)
		}
		if res.Invoices != 1 {
			t.Errorf("invoices = %d, want 1", res.Invoices)
		}
		if res.Primary == nil || res.Primary.InvoiceNumber != "INV-1" {
			t.Errorf("primary = %+v", res.Primary)
		}
		if res.Currency != "USD" {
			t.Errorf("currency = %q, want USD from $ hint", res.Currency)
		}
		if analyzer.formsCalled {
			t.Error("forms fallback must not run for a complete header")
		}
		if !strings.Contains(report.String(), "INV-1") {
			t.Errorf("report missing invoice number:\n%s", report.String())
		}

		for _, name := range []string{"inv_one.textract_raw.json", "inv_one.parsed.json", "inv_one_clean.json"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("artifact %s missing: %v", name, err)
			}
		}
		if res.CleanJSON != filepath.Join(dir, "inv_one_clean.json") {
			t.Errorf("cleanJson = %q", res.CleanJSON)
		}
	})

	t.Run("failed job reported without error", func(t *testing.T) {
		analyzer := &fakeAnalyzer{jobID: "job-2", status: constants.JobStatusFailed}
		p := NewProcessor(nil, &fakeUploader{key: "k"}, analyzer, nil, "", nil)

		res, err := p.ProcessFile(context.Background(), "x.pdf")
		if err != nil {
			t.Fatalf("ProcessFile: %v", err)
		}
		if res.Status != string(constants.JobStatusFailed) || res.Primary != nil {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("no usable invoice reported without error", func(t *testing.T) {
		analyzer := &fakeAnalyzer{jobID: "job-3", status: constants.JobStatusSucceeded, pages: nil}
		p := NewProcessor(nil, &fakeUploader{key: "k"}, analyzer, nil, "", nil)

		res, err := p.ProcessFile(context.Background(), "x.pdf")
		if err != nil {
			t.Fatalf("ProcessFile: %v", err)
		}
		if res.Message == "" || res.Primary != nil {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("forms fallback patches missing header", func(t *testing.T) {
		pages := completePages()
		// drop payment terms so the fallback triggers
		pages[0].Documents[0].SummaryFields = pages[0].Documents[0].SummaryFields[:3]
		analyzer := &fakeAnalyzer{
			jobID:       "job-4",
			status:      constants.JobStatusSucceeded,
			pages:       pages,
			formsStatus: constants.JobStatusSucceeded,
			formsPages: []expense.BlockPage{{Blocks: []expense.Block{
				{
					ID:          "k1",
					BlockType:   expense.BlockTypeKeyValueSet,
					EntityTypes: []string{expense.EntityTypeKey},
					Relationships: []expense.Relationship{
						{Type: expense.RelationshipChild, IDs: []string{"w1", "w2"}},
						{Type: expense.RelationshipValue, IDs: []string{"v1"}},
					},
				},
				{ID: "w1", BlockType: expense.BlockTypeWord, Text: "Payment"},
				{ID: "w2", BlockType: expense.BlockTypeWord, Text: "Terms"},
				{
					ID:        "v1",
					BlockType: expense.BlockTypeKeyValueSet,
					Relationships: []expense.Relationship{
						{Type: expense.RelationshipChild, IDs: []string{"w3", "w4"}},
					},
				},
				{ID: "w3", BlockType: expense.BlockTypeWord, Text: "Net"},
				{ID: "w4", BlockType: expense.BlockTypeWord, Text: "45"},
			}}},
		}
		p := NewProcessor(nil, &fakeUploader{key: "k"}, analyzer, nil, "", nil)

		res, err := p.ProcessFile(context.Background(), "x.pdf")
		if err != nil {
			t.Fatalf("ProcessFile: %v", err)
		}
		if !analyzer.formsCalled {
			t.Fatal("forms fallback did not run")
		}
		if res.Primary == nil || res.Primary.PaymentTerms != "Net 45" {
			t.Errorf("primary = %+v, want patched terms Net 45", res.Primary)
		}
	})

	t.Run("persists every merged invoice, patched primary flagged", func(t *testing.T) {
		pages := completePages()
		pages[0].Documents = append(pages[0].Documents, expense.RawDocument{
			SummaryFields: []expense.Field{
				{Type: "INVOICE_RECEIPT_ID", Value: "INV-2"},
				{Type: "TOTAL", Value: "50.00"},
			},
		})
		analyzer := &fakeAnalyzer{jobID: "job-5", status: constants.JobStatusSucceeded, pages: pages}
		repo := &fakeRepo{}
		p := NewProcessor(nil, &fakeUploader{key: "k"}, analyzer, repo, "", nil)

		if _, err := p.ProcessFile(context.Background(), "x.pdf"); err != nil {
			t.Fatalf("ProcessFile: %v", err)
		}
		if len(repo.saved) != 2 {
			t.Fatalf("saved %d invoices, want 2", len(repo.saved))
		}
		primaries := 0
		for _, s := range repo.saved {
			if s.primary {
				primaries++
				if s.doc.InvoiceNumber != "INV-1" {
					t.Errorf("primary saved as %q, want INV-1", s.doc.InvoiceNumber)
				}
			}
		}
		if primaries != 1 {
			t.Errorf("flagged %d primaries, want exactly 1", primaries)
		}
	})
}
