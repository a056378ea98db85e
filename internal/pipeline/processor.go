package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"invoicepipe/constants"
	"invoicepipe/internal/common"
	"invoicepipe/internal/expense"
	"invoicepipe/internal/export"
	"invoicepipe/internal/numtext"
	"invoicepipe/internal/repository"
)

// Uploader puts a local document into the analysis bucket and returns
// its object key.
type Uploader interface {
	UploadFile(ctx context.Context, path string) (string, error)
}

// Analyzer runs remote expense and forms analysis against an uploaded
// object.
type Analyzer interface {
	AnalyzeExpenseAuto(ctx context.Context, key string) (string, constants.JobStatus, []expense.Page, error)
	AnalyzeForms(ctx context.Context, key string) (constants.JobStatus, []expense.BlockPage, error)
}

// Result summarizes one processed file for the batch summary.
type Result struct {
	SourceFile string `json:"file"`
	JobID      string `json:"jobId,omitempty"`
	Status     string `json:"status"`
	S3Key      string `json:"s3Key,omitempty"`
	CleanJSON  string `json:"cleanJson,omitempty"`
	Invoices   int    `json:"invoices,omitempty"`
	Message    string `json:"message,omitempty"`

	Primary  *expense.Document `json:"-"`
	Currency string            `json:"-"`
}

// Processor coordinates upload, remote analysis, parsing, merge, forms
// fallback, reporting, and persistence for one document at a time.
type Processor struct {
	logger      *slog.Logger
	uploader    Uploader
	analyzer    Analyzer
	invoices    repository.InvoiceRepository
	artifactDir string
	reportOut   io.Writer
}

func NewProcessor(
	logger *slog.Logger,
	uploader Uploader,
	analyzer Analyzer,
	invoices repository.InvoiceRepository,
	artifactDir string,
	reportOut io.Writer,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if reportOut == nil {
		reportOut = os.Stdout
	}
	return &Processor{
		logger:      logger,
		uploader:    uploader,
		analyzer:    analyzer,
		invoices:    invoices,
		artifactDir: artifactDir,
		reportOut:   reportOut,
	}
}

// ProcessFile runs the full pipeline for one local document. Remote-job
// failure and unusable documents come back as a Result with no error;
// only infrastructure problems error out.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Result, error) {
	ctx = common.WithSourceFile(ctx, path)
	res := Result{SourceFile: path}

	key, err := p.uploader.UploadFile(ctx, path)
	if err != nil {
		return res, err
	}
	res.S3Key = key

	jobID, status, pages, err := p.analyzer.AnalyzeExpenseAuto(ctx, key)
	res.JobID = jobID
	res.Status = string(status)
	if err != nil {
		return res, err
	}
	if !constants.Usable(status) {
		p.logger.Warn("analysis job did not succeed", "source_file", path, "job_id", jobID, "status", res.Status)
		return res, nil
	}
	ctx = common.WithJobID(ctx, jobID)

	baseName := artifactBaseName(path)
	p.dumpArtifact(baseName+".textract_raw.json", pages)

	parsed := expense.ParsePages(pages)
	merged := expense.MergeByInvoiceNumber(parsed)
	res.Invoices = len(merged)
	p.dumpArtifact(baseName+".parsed.json", merged)

	primary := expense.ChoosePrimary(merged)
	if primary == nil {
		p.logger.Warn("no usable invoice found", "source_file", path, "job_id", jobID)
		res.Message = common.ErrNoUsableData.Error()
		return res, nil
	}

	// The primary is a detached copy; remember which merged entry it came
	// from before the fallback can rewrite its invoice number.
	primaryKey := strings.TrimSpace(primary.InvoiceNumber)

	if expense.NeedsFormsFallback(primary) {
		p.runFormsFallback(ctx, key, primary)
	}

	currency := numtext.DetectCurrency(primary.TextFields())
	if currency == "" {
		currency = numtext.DefaultCurrency()
	}
	res.Primary = primary
	res.Currency = currency

	export.WriteReport(p.reportOut, primary, currency)

	if p.artifactDir != "" {
		clean := export.BuildCleanInvoice(primary, currency)
		cleanPath, err := export.WriteCleanJSON(p.artifactDir, baseName, clean)
		if err != nil {
			return res, err
		}
		res.CleanJSON = cleanPath
	}

	if p.invoices != nil {
		if err := p.persist(ctx, path, key, currency, merged, primary, primaryKey); err != nil {
			return res, err
		}
	}
	return res, nil
}

// runFormsFallback patches missing header fields from a FORMS analysis.
// Fallback failure is logged, never fatal.
func (p *Processor) runFormsFallback(ctx context.Context, key string, primary *expense.Document) {
	status, fpages, err := p.analyzer.AnalyzeForms(ctx, key)
	if err != nil {
		p.logger.Warn("forms fallback failed", "s3_key", key, "error", err)
		return
	}
	if !constants.Usable(status) {
		p.logger.Warn("forms job did not succeed", "s3_key", key, "status", string(status))
		return
	}
	kv := expense.ParseFormsKeyValues(fpages)
	expense.PatchFromForms(primary, kv)
	p.logger.Debug("forms fallback applied", "s3_key", key, "pairs", len(kv))
}

func (p *Processor) persist(ctx context.Context, path, key, currency string, merged []expense.Document, primary *expense.Document, primaryKey string) error {
	seenPrimary := false
	for i := range merged {
		doc := &merged[i]
		isPrimary := false
		if !seenPrimary && strings.TrimSpace(doc.InvoiceNumber) == primaryKey {
			// Persist the patched primary, not the stale merged entry.
			doc = primary
			isPrimary = true
			seenPrimary = true
		}
		if _, err := p.invoices.SaveInvoice(ctx, path, key, currency, doc, isPrimary); err != nil {
			return err
		}
	}
	return nil
}

// dumpArtifact writes intermediate JSON next to the clean artifact; dump
// failures are logged and ignored.
func (p *Processor) dumpArtifact(name string, v any) {
	if p.artifactDir == "" {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		p.logger.Warn("artifact marshal failed", "name", name, "error", err)
		return
	}
	path := filepath.Join(p.artifactDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		p.logger.Warn("artifact write failed", "path", path, "error", err)
	}
}

func artifactBaseName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, " ", "_")
}
