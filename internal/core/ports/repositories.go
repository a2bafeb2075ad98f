package ports

import (
	"context"
	"time"

	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
)

// InvoiceFilter narrows invoice queries. Pointer fields are ignored when nil.
// Exactly one of SellerID/BuyerID is set by the service depending on whether
// the caller wants the outgoing or the incoming view.
type InvoiceFilter struct {
	SellerID       *int64
	BuyerID        *int64
	CounterpartyID *int64
	DocumentType   *string
	DateFrom       *time.Time // transaction date, inclusive
	DateTo         *time.Time // transaction date, inclusive
	Page           int
	PageSize       int
}

// Offset returns the row offset implied by Page/PageSize.
func (f InvoiceFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize
}

// LegalEntityRepository persists registered businesses and individuals.
type LegalEntityRepository interface {
	SaveLegalEntity(ctx context.Context, entity domain.LegalEntity) (*domain.LegalEntity, error)
	FindLegalEntityByID(ctx context.Context, id int64) (*domain.LegalEntity, error)
	FindLegalEntityByUsername(ctx context.Context, username string) (*domain.LegalEntity, error)
	FindLegalEntityByTaxID(ctx context.Context, taxID string) (*domain.LegalEntity, error)
	FindLegalEntityByNationalID(ctx context.Context, nationalID string) (*domain.LegalEntity, error)
	FindLegalEntitiesByIDs(ctx context.Context, ids []int64) (map[int64]domain.LegalEntity, error)
	FindLegalEntities(ctx context.Context) ([]domain.LegalEntity, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
	DeleteLegalEntity(ctx context.Context, id int64) error
}

// InvoiceRepository persists invoices and their line items.
type InvoiceRepository interface {
	// CreateInvoiceWithItems inserts the invoice, all its line items and the
	// initial status row in a single database transaction. Partial invoices
	// must never become visible.
	CreateInvoiceWithItems(ctx context.Context, invoice domain.Invoice, items []domain.LineItem, initial domain.InvoiceStatus) (*domain.Invoice, error)
	FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error)
	// FindInvoices returns one page ordered by created_at DESC, id DESC,
	// together with the total number of invoices matching the filter.
	FindInvoices(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, int64, error)
	FindLineItemsByInvoiceID(ctx context.Context, invoiceID int64) ([]domain.LineItem, error)
	FindLineItemsByInvoiceIDs(ctx context.Context, invoiceIDs []int64) (map[int64][]domain.LineItem, error)
	// FindLineItemsMatching returns the line items of every invoice matching
	// the filter, ignoring pagination. Used for full-result-set statistics.
	FindLineItemsMatching(ctx context.Context, filter InvoiceFilter) ([]domain.LineItem, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

// StatusRepository persists the one-to-one invoice lifecycle records.
type StatusRepository interface {
	// FindStatusByInvoiceID returns (nil, nil) when the invoice has no status
	// row yet; "invoice does not exist" is the caller's concern.
	FindStatusByInvoiceID(ctx context.Context, invoiceID int64) (*domain.Status, error)
	InsertStatus(ctx context.Context, status domain.Status) (*domain.Status, error)
	UpdateStatus(ctx context.Context, status domain.Status) (*domain.Status, error)
	// CountBySellerGrouped returns the seller's total invoice count, counts
	// grouped by status label and the count of invoices without a status row.
	CountBySellerGrouped(ctx context.Context, sellerID int64) (total int64, byStatus map[string]int64, withoutStatus int64, err error)
	// CountForBuyer returns the buyer's total invoice count and how many are
	// still in the received state.
	CountForBuyer(ctx context.Context, buyerID int64) (total int64, received int64, err error)
}
