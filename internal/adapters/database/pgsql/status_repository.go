package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository creates a new repository for invoice status data.
func NewStatusRepository(pool *pgxpool.Pool) *StatusRepository {
	return &StatusRepository{pool: pool}
}

var _ ports.StatusRepository = (*StatusRepository)(nil)

func (r *StatusRepository) FindStatusByInvoiceID(ctx context.Context, invoiceID int64) (*domain.Status, error) {
	query := `
		SELECT id, invoice_fk, status_label, created_at, updated_at
		FROM status
		WHERE invoice_fk = $1;
	`
	var s domain.Status
	err := r.pool.QueryRow(ctx, query, invoiceID).Scan(
		&s.ID,
		&s.InvoiceID,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // invoice has no status row yet
		}
		return nil, fmt.Errorf("failed to find status for invoice %d: %w", invoiceID, err)
	}
	return &s, nil
}

func (r *StatusRepository) InsertStatus(ctx context.Context, status domain.Status) (*domain.Status, error) {
	query := `
		INSERT INTO status (invoice_fk, status_label, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	err := r.pool.QueryRow(ctx, query,
		status.InvoiceID,
		string(status.Status),
		status.CreatedAt,
		status.UpdatedAt,
	).Scan(&status.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert status for invoice %d: %w", status.InvoiceID, err)
	}
	return &status, nil
}

func (r *StatusRepository) UpdateStatus(ctx context.Context, status domain.Status) (*domain.Status, error) {
	query := `
		UPDATE status
		SET status_label = $1, updated_at = $2
		WHERE invoice_fk = $3;
	`
	cmdTag, err := r.pool.Exec(ctx, query, string(status.Status), status.UpdatedAt, status.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to update status for invoice %d: %w", status.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("status row vanished for invoice %d: %w", status.InvoiceID, pgx.ErrNoRows)
	}
	return &status, nil
}

// CountBySellerGrouped aggregates the seller's outgoing invoices: total,
// counts per status label (left join, so invoices without a status row land
// in the NULL group) and the count without any status.
func (r *StatusRepository) CountBySellerGrouped(ctx context.Context, sellerID int64) (int64, map[string]int64, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoice WHERE seller_fk = $1;`, sellerID,
	).Scan(&total); err != nil {
		return 0, nil, 0, fmt.Errorf("failed to count seller invoices: %w", err)
	}

	query := `
		SELECT s.status_label, COUNT(i.id)
		FROM invoice i
		LEFT JOIN status s ON s.invoice_fk = i.id
		WHERE i.seller_fk = $1
		GROUP BY s.status_label;
	`
	rows, err := r.pool.Query(ctx, query, sellerID)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("failed to group seller invoices by status: %w", err)
	}
	defer rows.Close()

	byStatus := map[string]int64{}
	var withoutStatus int64
	for rows.Next() {
		var label *string
		var count int64
		if err := rows.Scan(&label, &count); err != nil {
			return 0, nil, 0, fmt.Errorf("failed to scan status count row: %w", err)
		}
		if label == nil {
			withoutStatus = count
			continue
		}
		byStatus[*label] = count
	}
	if rows.Err() != nil {
		return 0, nil, 0, fmt.Errorf("error iterating status count rows: %w", rows.Err())
	}
	return total, byStatus, withoutStatus, nil
}

// CountForBuyer returns the buyer's total incoming invoice count and how many
// are still in the received state.
func (r *StatusRepository) CountForBuyer(ctx context.Context, buyerID int64) (int64, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoice WHERE buyer_fk = $1;`, buyerID,
	).Scan(&total); err != nil {
		return 0, 0, fmt.Errorf("failed to count buyer invoices: %w", err)
	}

	var received int64
	query := `
		SELECT COUNT(i.id)
		FROM invoice i
		JOIN status s ON s.invoice_fk = i.id
		WHERE i.buyer_fk = $1 AND s.status_label = $2;
	`
	if err := r.pool.QueryRow(ctx, query, buyerID, string(domain.StatusReceived)).Scan(&received); err != nil {
		return 0, 0, fmt.Errorf("failed to count received invoices: %w", err)
	}
	return total, received, nil
}
