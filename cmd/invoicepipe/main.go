package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awstextract "github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/joho/godotenv"

	"invoicepipe/constants"
	"invoicepipe/internal/common"
	"invoicepipe/internal/export"
	"invoicepipe/internal/pipeline"
	"invoicepipe/internal/repository"
	"invoicepipe/internal/storage"
	"invoicepipe/internal/textract"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem   = flag.Bool("inmem", false, "persist to an in-memory SQLite database")
		noDB    = flag.Bool("no-db", false, "skip invoice persistence")
		out     = flag.String("out", "", "output XLSX file path (optional)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		printError("Usage: invoicepipe [flags] <invoice.pdf> [<invoice2.png> ...]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Pipeline.ArtifactDir != "" {
		if err := os.MkdirAll(cfg.Pipeline.ArtifactDir, 0o755); err != nil {
			logger.Error("failed to create artifact directory", "dir", cfg.Pipeline.ArtifactDir, "error", err)
			os.Exit(1)
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}
	analyzer := textract.NewClient(awstextract.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.Pipeline, logger)

	uploader, err := storage.NewUploader(cfg.S3, logger)
	if err != nil {
		logger.Error("failed to create uploader", "error", err)
		os.Exit(1)
	}

	var invoicesRepo repository.InvoiceRepository
	if !*noDB {
		dbCfg := repository.Config{
			DSN:         cfg.Database.DSN,
			MaxConns:    cfg.Database.MaxConns,
			DialTimeout: cfg.Database.DialTimeout,
		}
		if *inmem {
			dbCfg.DSN = ""
		}
		db, err := repository.Open(ctx, dbCfg, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close(logger)
		invoicesRepo, err = repository.NewInvoiceRepository(ctx, db, logger)
		if err != nil {
			logger.Error("failed to initialize repository", "error", err)
			os.Exit(1)
		}
	}

	processor := pipeline.NewProcessor(logger, uploader, analyzer, invoicesRepo, cfg.Pipeline.ArtifactDir, os.Stdout)

	var (
		results  []pipeline.Result
		workbook []export.WorkbookRow
	)
	for _, file := range files {
		logger.Info("processing file", "source_file", file)
		res, err := processor.ProcessFile(ctx, file)
		if err != nil {
			logger.Error("failed to process file", "source_file", file, "error", err)
			res.Status = string(constants.JobStatusError)
			res.Message = err.Error()
		}
		results = append(results, res)
		if res.Primary != nil {
			workbook = append(workbook, export.WorkbookRow{
				SourceFile: res.SourceFile,
				Currency:   res.Currency,
				Invoice:    res.Primary,
			})
		}
	}

	if *out != "" && len(workbook) > 0 {
		xlsxBytes, err := export.BuildWorkbookXLSX(workbook, logger)
		if err != nil {
			logger.Error("failed to build workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
			logger.Error("failed to write output file", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", *out, "invoices", len(workbook))
	}

	fmt.Println("\n=== SUMMARY ===")
	summary, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		logger.Error("failed to marshal summary", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(summary))
}
