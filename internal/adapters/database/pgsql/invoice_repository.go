package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new repository for invoice and line item data.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

var _ ports.InvoiceRepository = (*InvoiceRepository)(nil)

const invoiceColumns = `
	id, currency, document_type, document_number, contract_number,
	seller_fk, buyer_fk, transaction_date, due_date, vat_obligation,
	created_at, updated_at`

const lineItemColumns = `
	id, invoice_fk, item_code, name, quantity, unit_of_measure,
	unit_price, discount, vat_rate, vat_category, created_at, updated_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.Currency,
		&inv.DocumentType,
		&inv.DocumentNumber,
		&inv.ContractNumber,
		&inv.SellerID,
		&inv.BuyerID,
		&inv.TransactionDate,
		&inv.DueDate,
		&inv.VATObligation,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func scanLineItem(row pgx.Row) (*domain.LineItem, error) {
	var li domain.LineItem
	err := row.Scan(
		&li.ID,
		&li.InvoiceID,
		&li.ItemCode,
		&li.Name,
		&li.Quantity,
		&li.UnitOfMeasure,
		&li.UnitPrice,
		&li.Discount,
		&li.VATRate,
		&li.VATCategory,
		&li.CreatedAt,
		&li.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &li, nil
}

// CreateInvoiceWithItems inserts the invoice header, all line items and the
// initial status row within a single database transaction. If any insert
// fails everything is rolled back so partial invoices never become visible.
func (r *InvoiceRepository) CreateInvoiceWithItems(ctx context.Context, invoice domain.Invoice, items []domain.LineItem, initial domain.InvoiceStatus) (*domain.Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	invoiceQuery := `
		INSERT INTO invoice (
			currency, document_type, document_number, contract_number,
			seller_fk, buyer_fk, transaction_date, due_date, vat_obligation,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id;
	`
	err = tx.QueryRow(ctx, invoiceQuery,
		invoice.Currency,
		invoice.DocumentType,
		invoice.DocumentNumber,
		invoice.ContractNumber,
		invoice.SellerID,
		invoice.BuyerID,
		invoice.TransactionDate,
		invoice.DueDate,
		invoice.VATObligation,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Scan(&invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO line_item (
			invoice_fk, item_code, name, quantity, unit_of_measure,
			unit_price, discount, vat_rate, vat_category, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, li := range items {
		batch.Queue(itemQuery,
			invoice.ID,
			li.ItemCode,
			li.Name,
			li.Quantity,
			li.UnitOfMeasure,
			li.UnitPrice,
			li.Discount,
			li.VATRate,
			li.VATCategory,
			li.CreatedAt,
			li.UpdatedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to insert line items for invoice %d: %w", invoice.ID, err)
	}

	statusQuery := `
		INSERT INTO status (invoice_fk, status_label, created_at, updated_at)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := tx.Exec(ctx, statusQuery, invoice.ID, string(initial), invoice.CreatedAt, invoice.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert initial status for invoice %d: %w", invoice.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice %d: %w", invoice.ID, err)
	}
	return &invoice, nil
}

func (r *InvoiceRepository) FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoice WHERE id = $1;`, invoiceColumns)
	invoice, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %d: %w", id, err)
	}
	return invoice, nil
}

// filterClause builds the WHERE clause and arguments for an invoice filter.
func filterClause(f ports.InvoiceFilter) (string, []any) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SellerID != nil {
		conditions = append(conditions, "seller_fk = "+arg(*f.SellerID))
		if f.CounterpartyID != nil {
			conditions = append(conditions, "buyer_fk = "+arg(*f.CounterpartyID))
		}
	}
	if f.BuyerID != nil {
		conditions = append(conditions, "buyer_fk = "+arg(*f.BuyerID))
		if f.CounterpartyID != nil {
			conditions = append(conditions, "seller_fk = "+arg(*f.CounterpartyID))
		}
	}
	if f.DocumentType != nil {
		conditions = append(conditions, "document_type = "+arg(*f.DocumentType))
	}
	if f.DateFrom != nil {
		conditions = append(conditions, "transaction_date >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		conditions = append(conditions, "transaction_date <= "+arg(*f.DateTo))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// FindInvoices returns one page ordered by created_at DESC with id DESC as a
// deterministic tie breaker, plus the total count of matching invoices.
func (r *InvoiceRepository) FindInvoices(ctx context.Context, filter ports.InvoiceFilter) ([]domain.Invoice, int64, error) {
	where, args := filterClause(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM invoice` + where + `;`
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	pageArgs := append(args, filter.PageSize, filter.Offset())
	pageQuery := fmt.Sprintf(
		`SELECT %s FROM invoice%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d;`,
		invoiceColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := r.pool.Query(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating invoice rows: %w", rows.Err())
	}
	return invoices, total, nil
}

func (r *InvoiceRepository) FindLineItemsByInvoiceID(ctx context.Context, invoiceID int64) ([]domain.LineItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM line_item WHERE invoice_fk = $1 ORDER BY id;`, lineItemColumns)
	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for invoice %d: %w", invoiceID, err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		items = append(items, *item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", rows.Err())
	}
	return items, nil
}

func (r *InvoiceRepository) FindLineItemsByInvoiceIDs(ctx context.Context, invoiceIDs []int64) (map[int64][]domain.LineItem, error) {
	grouped := make(map[int64][]domain.LineItem, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return grouped, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM line_item WHERE invoice_fk = ANY($1) ORDER BY invoice_fk, id;`, lineItemColumns)
	rows, err := r.pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		grouped[item.InvoiceID] = append(grouped[item.InvoiceID], *item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", rows.Err())
	}
	return grouped, nil
}

// FindLineItemsMatching returns the line items of every invoice matching the
// filter, ignoring pagination. The statistics shown next to a listing page
// must cover the full filtered set.
func (r *InvoiceRepository) FindLineItemsMatching(ctx context.Context, filter ports.InvoiceFilter) ([]domain.LineItem, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(
		`SELECT %s FROM line_item WHERE invoice_fk IN (SELECT id FROM invoice%s) ORDER BY invoice_fk, id;`,
		lineItemColumns, where,
	)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for statistics: %w", err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		items = append(items, *item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", rows.Err())
	}
	return items, nil
}

// DeleteInvoice removes the invoice; line items and the status row go with it
// via the ON DELETE CASCADE foreign keys.
func (r *InvoiceRepository) DeleteInvoice(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM invoice WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
