package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"invoicepipe/internal/common"
	"invoicepipe/internal/expense"
)

const schema = `
CREATE TABLE IF NOT EXISTS invoices (
	id             TEXT PRIMARY KEY,
	source_file    TEXT NOT NULL,
	s3_key         TEXT NOT NULL DEFAULT '',
	invoice_number TEXT NOT NULL DEFAULT '',
	invoice_date   TEXT NOT NULL DEFAULT '',
	payment_terms  TEXT NOT NULL DEFAULT '',
	total          TEXT NOT NULL DEFAULT '',
	currency       TEXT NOT NULL DEFAULT '',
	is_primary     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS invoice_line_items (
	id          TEXT PRIMARY KEY,
	invoice_id  TEXT NOT NULL REFERENCES invoices(id),
	position    INTEGER NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	quantity    TEXT NOT NULL DEFAULT '',
	unit_price  TEXT NOT NULL DEFAULT '',
	amount      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_invoices_source_file ON invoices(source_file);
CREATE INDEX IF NOT EXISTS idx_line_items_invoice_id ON invoice_line_items(invoice_id);
`

// StoredInvoice is one persisted invoice with its line items.
type StoredInvoice struct {
	ID            uuid.UUID
	SourceFile    string
	S3Key         string
	InvoiceNumber string
	InvoiceDate   string
	PaymentTerms  string
	Total         string
	Currency      string
	IsPrimary     bool
	CreatedAt     time.Time
	Items         []StoredLineItem
}

// StoredLineItem is one persisted invoice row.
type StoredLineItem struct {
	ID          uuid.UUID
	Position    int
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// InvoiceRepository persists parsed invoices.
type InvoiceRepository interface {
	SaveInvoice(ctx context.Context, sourceFile, s3Key, currency string, doc *expense.Document, primary bool) (uuid.UUID, error)
	ListBySourceFile(ctx context.Context, sourceFile string) ([]StoredInvoice, error)
}

type invoiceRepository struct {
	db     *DB
	logger *slog.Logger
}

// NewInvoiceRepository creates the schema if needed and returns a repository
// over it.
func NewInvoiceRepository(ctx context.Context, db *DB, logger *slog.Logger) (InvoiceRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, common.NewAppError("DB_MIGRATE", "failed to create schema", err)
	}
	return &invoiceRepository{db: db, logger: logger}, nil
}

func (r *invoiceRepository) SaveInvoice(ctx context.Context, sourceFile, s3Key, currency string, doc *expense.Document, primary bool) (uuid.UUID, error) {
	v := common.NewValidator()
	v.Field("source_file", sourceFile, common.Required, common.MaxLength(512))
	if currency != "" {
		v.Field("currency", currency, common.CurrencyCode)
	}
	if v.HasErrors() {
		return uuid.Nil, common.NewAppError("DB_SAVE", v.ErrorMessage(), common.ErrValidation)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, common.NewAppError("DB_SAVE", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	id := uuid.New()
	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO invoices (id, source_file, s3_key, invoice_number, invoice_date, payment_terms, total, currency, is_primary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id.String(), sourceFile, s3Key,
		doc.InvoiceNumber, doc.InvoiceDate, doc.PaymentTerms,
		doc.Total, currency, primary, time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, common.NewAppError("DB_SAVE", "failed to insert invoice", err)
	}

	for i, item := range doc.LineItems {
		_, err = tx.ExecContext(ctx, r.db.Rebind(`
			INSERT INTO invoice_line_items (id, invoice_id, position, description, quantity, unit_price, amount)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			uuid.NewString(), id.String(), i,
			item.Description, item.Quantity, item.UnitPrice, item.Amount,
		)
		if err != nil {
			return uuid.Nil, common.NewAppError("DB_SAVE", "failed to insert line item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, common.NewAppError("DB_SAVE", "failed to commit", err)
	}
	r.logger.Debug("saved invoice", "invoice_id", id, "source_file", sourceFile,
		"job_id", common.JobIDFromContext(ctx), "items", len(doc.LineItems))
	return id, nil
}

func (r *invoiceRepository) ListBySourceFile(ctx context.Context, sourceFile string) ([]StoredInvoice, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, source_file, s3_key, invoice_number, invoice_date, payment_terms, total, currency, is_primary, created_at
		FROM invoices WHERE source_file = ? ORDER BY created_at, id`), sourceFile)
	if err != nil {
		return nil, common.NewAppError("DB_LIST", "failed to query invoices", err)
	}
	defer rows.Close()

	var invoices []StoredInvoice
	for rows.Next() {
		var inv StoredInvoice
		var id string
		if err := rows.Scan(&id, &inv.SourceFile, &inv.S3Key, &inv.InvoiceNumber, &inv.InvoiceDate,
			&inv.PaymentTerms, &inv.Total, &inv.Currency, &inv.IsPrimary, &inv.CreatedAt); err != nil {
			return nil, common.NewAppError("DB_LIST", "failed to scan invoice", err)
		}
		inv.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, common.NewAppError("DB_LIST", "invalid invoice id", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_LIST", "failed to iterate invoices", err)
	}

	for i := range invoices {
		items, err := r.listItems(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}
	return invoices, nil
}

func (r *invoiceRepository) listItems(ctx context.Context, invoiceID uuid.UUID) ([]StoredLineItem, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, position, description, quantity, unit_price, amount
		FROM invoice_line_items WHERE invoice_id = ? ORDER BY position`), invoiceID.String())
	if err != nil {
		return nil, common.NewAppError("DB_LIST", "failed to query line items", err)
	}
	defer rows.Close()

	var items []StoredLineItem
	for rows.Next() {
		var item StoredLineItem
		var id string
		if err := rows.Scan(&id, &item.Position, &item.Description, &item.Quantity, &item.UnitPrice, &item.Amount); err != nil {
			return nil, common.NewAppError("DB_LIST", "failed to scan line item", err)
		}
		item.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, common.NewAppError("DB_LIST", "invalid line item id", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
