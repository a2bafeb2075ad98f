package ports

import (
	"context"

	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
)

// LegalEntitySvc is the directory facade: registration, verification workflow
// and lookups.
type LegalEntitySvc interface {
	Register(ctx context.Context, req dto.RegisterLegalEntityRequest) (*domain.LegalEntity, error)
	// Authenticate returns apperrors.ErrUnauthorized for unknown username or
	// password mismatch and apperrors.ErrForbidden for unverified accounts.
	Authenticate(ctx context.Context, username, password string) (*domain.LegalEntity, error)
	Verify(ctx context.Context, id int64) error
	Unverify(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.LegalEntity, error)
	List(ctx context.Context) ([]domain.LegalEntity, error)
}

// InvoiceSvc issues invoices and produces the seller/buyer facing views with
// derived totals.
type InvoiceSvc interface {
	Issue(ctx context.Context, req dto.IssueInvoiceRequest) (*dto.IssueInvoiceResponse, error)
	GetDetail(ctx context.Context, id int64) (*dto.InvoiceDetailResponse, error)
	ListOutgoing(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
	ListIncoming(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
	Delete(ctx context.Context, id int64) error
}

// StatusSvc manages the invoice lifecycle records.
type StatusSvc interface {
	// Get returns apperrors.ErrNotFound when the invoice itself does not
	// exist, and (nil, nil) when it exists but has no status row yet.
	Get(ctx context.Context, invoiceID int64) (*domain.Status, error)
	// Set upserts the status label; created reports whether a new row was
	// inserted rather than an existing one overwritten.
	Set(ctx context.Context, invoiceID int64, label string) (status *domain.Status, created bool, err error)
	// Reopen moves a terminal invoice back to the received state.
	Reopen(ctx context.Context, invoiceID int64) (*domain.Status, error)
	SellerStatistics(ctx context.Context, taxID string) (*dto.SellerStatusStatisticsResponse, error)
	BuyerStatistics(ctx context.Context, nationalID string) (*dto.BuyerStatusStatisticsResponse, error)
}

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	LegalEntity LegalEntitySvc
	Invoice     InvoiceSvc
	Status      StatusSvc
}
