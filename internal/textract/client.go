package textract

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awstextract "github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"invoicepipe/constants"
	"invoicepipe/internal/common"
	"invoicepipe/internal/expense"
)

// API is the subset of the Textract SDK the client depends on.
type API interface {
	StartExpenseAnalysis(ctx context.Context, params *awstextract.StartExpenseAnalysisInput, optFns ...func(*awstextract.Options)) (*awstextract.StartExpenseAnalysisOutput, error)
	GetExpenseAnalysis(ctx context.Context, params *awstextract.GetExpenseAnalysisInput, optFns ...func(*awstextract.Options)) (*awstextract.GetExpenseAnalysisOutput, error)
	AnalyzeExpense(ctx context.Context, params *awstextract.AnalyzeExpenseInput, optFns ...func(*awstextract.Options)) (*awstextract.AnalyzeExpenseOutput, error)
	StartDocumentAnalysis(ctx context.Context, params *awstextract.StartDocumentAnalysisInput, optFns ...func(*awstextract.Options)) (*awstextract.StartDocumentAnalysisOutput, error)
	GetDocumentAnalysis(ctx context.Context, params *awstextract.GetDocumentAnalysisInput, optFns ...func(*awstextract.Options)) (*awstextract.GetDocumentAnalysisOutput, error)
}

// Client runs expense and forms analysis jobs against documents already
// uploaded to S3.
type Client struct {
	api            API
	bucket         string
	pollInterval   time.Duration
	pageFetchPause time.Duration
	logger         *slog.Logger
}

func NewClient(api API, bucket string, cfg common.PipelineConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}
	pause := cfg.PageFetchPause
	if pause < 0 {
		pause = 0
	}
	return &Client{
		api:            api,
		bucket:         bucket,
		pollInterval:   poll,
		pageFetchPause: pause,
		logger:         logger,
	}
}

func (c *Client) s3Object(key string) *types.S3Object {
	return &types.S3Object{
		Bucket: aws.String(c.bucket),
		Name:   aws.String(key),
	}
}

// StartExpenseJob starts an asynchronous expense analysis and returns the
// remote job ID.
func (c *Client) StartExpenseJob(ctx context.Context, key string) (string, error) {
	out, err := c.api.StartExpenseAnalysis(ctx, &awstextract.StartExpenseAnalysisInput{
		DocumentLocation: &types.DocumentLocation{S3Object: c.s3Object(key)},
	})
	if err != nil {
		return "", common.WrapError(err, "start expense analysis")
	}
	jobID := aws.ToString(out.JobId)
	c.logger.Info("expense analysis started", "job_id", jobID, "s3_key", key)
	return jobID, nil
}

// WaitForExpenseJob polls until the expense job reaches a terminal status.
func (c *Client) WaitForExpenseJob(ctx context.Context, jobID string) (constants.JobStatus, error) {
	for {
		out, err := c.api.GetExpenseAnalysis(ctx, &awstextract.GetExpenseAnalysisInput{
			JobId:      aws.String(jobID),
			MaxResults: aws.Int32(1),
		})
		if err != nil {
			return constants.JobStatusError, common.WrapError(err, "poll expense analysis")
		}
		status := constants.JobStatus(out.JobStatus)
		if constants.Terminal(status) {
			c.logger.Info("expense analysis finished", "job_id", jobID, "status", string(status),
				"source_file", common.SourceFileFromContext(ctx))
			return status, nil
		}
		if err := sleepCtx(ctx, c.pollInterval); err != nil {
			return constants.JobStatusError, err
		}
	}
}

// FetchExpensePages retrieves every result page of a finished expense job.
func (c *Client) FetchExpensePages(ctx context.Context, jobID string) ([]expense.Page, error) {
	var pages []expense.Page
	var nextToken *string
	for {
		out, err := c.api.GetExpenseAnalysis(ctx, &awstextract.GetExpenseAnalysisInput{
			JobId:     aws.String(jobID),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, common.WrapError(err, "fetch expense analysis page")
		}
		pages = append(pages, toExpensePage(out.ExpenseDocuments))
		if out.NextToken == nil {
			return pages, nil
		}
		nextToken = out.NextToken
		if err := sleepCtx(ctx, c.pageFetchPause); err != nil {
			return nil, err
		}
	}
}

// AnalyzeExpenseSync runs the synchronous expense API, used for single-page
// image formats.
func (c *Client) AnalyzeExpenseSync(ctx context.Context, key string) ([]expense.Page, error) {
	out, err := c.api.AnalyzeExpense(ctx, &awstextract.AnalyzeExpenseInput{
		Document: &types.Document{S3Object: c.s3Object(key)},
	})
	if err != nil {
		return nil, common.WrapError(err, "analyze expense")
	}
	return []expense.Page{toExpensePage(out.ExpenseDocuments)}, nil
}

// AnalyzeExpenseAuto picks the async or sync expense path from the object
// key's extension. The returned job ID is empty on the sync path.
func (c *Client) AnalyzeExpenseAuto(ctx context.Context, key string) (string, constants.JobStatus, []expense.Page, error) {
	ext := constants.NormalizeExt(filepath.Ext(key))
	if !constants.AsyncExt(ext) {
		pages, err := c.AnalyzeExpenseSync(ctx, key)
		if err != nil {
			return "", constants.JobStatusError, nil, err
		}
		return "", constants.JobStatusSucceeded, pages, nil
	}

	jobID, err := c.StartExpenseJob(ctx, key)
	if err != nil {
		return "", constants.JobStatusError, nil, err
	}
	status, err := c.WaitForExpenseJob(ctx, jobID)
	if err != nil {
		return jobID, constants.JobStatusError, nil, err
	}
	if !constants.Usable(status) {
		return jobID, status, nil, nil
	}
	pages, err := c.FetchExpensePages(ctx, jobID)
	if err != nil {
		return jobID, constants.JobStatusError, nil, err
	}
	return jobID, status, pages, nil
}

// AnalyzeForms runs a FORMS document analysis and returns the raw block
// pages of the finished job.
func (c *Client) AnalyzeForms(ctx context.Context, key string) (constants.JobStatus, []expense.BlockPage, error) {
	out, err := c.api.StartDocumentAnalysis(ctx, &awstextract.StartDocumentAnalysisInput{
		DocumentLocation: &types.DocumentLocation{S3Object: c.s3Object(key)},
		FeatureTypes:     []types.FeatureType{types.FeatureTypeForms},
	})
	if err != nil {
		return constants.JobStatusError, nil, common.WrapError(err, "start forms analysis")
	}
	jobID := aws.ToString(out.JobId)
	c.logger.Info("forms analysis started", "job_id", jobID, "s3_key", key)

	var status constants.JobStatus
	for {
		got, err := c.api.GetDocumentAnalysis(ctx, &awstextract.GetDocumentAnalysisInput{
			JobId:      aws.String(jobID),
			MaxResults: aws.Int32(1),
		})
		if err != nil {
			return constants.JobStatusError, nil, common.WrapError(err, "poll forms analysis")
		}
		status = constants.JobStatus(got.JobStatus)
		if constants.Terminal(status) {
			break
		}
		if err := sleepCtx(ctx, c.pollInterval); err != nil {
			return constants.JobStatusError, nil, err
		}
	}
	if !constants.Usable(status) {
		return status, nil, nil
	}

	var pages []expense.BlockPage
	var nextToken *string
	for {
		got, err := c.api.GetDocumentAnalysis(ctx, &awstextract.GetDocumentAnalysisInput{
			JobId:     aws.String(jobID),
			NextToken: nextToken,
		})
		if err != nil {
			return constants.JobStatusError, nil, common.WrapError(err, "fetch forms analysis page")
		}
		pages = append(pages, toBlockPage(got.Blocks))
		if got.NextToken == nil {
			return status, pages, nil
		}
		nextToken = got.NextToken
		if err := sleepCtx(ctx, c.pageFetchPause); err != nil {
			return constants.JobStatusError, nil, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
