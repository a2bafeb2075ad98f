package services

import (
	"context"
	"fmt"
	"time"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
)

// StatusService manages the one-to-one lifecycle record of invoices and the
// per-status counters shown on the dashboards.
type StatusService struct {
	statusRepo  ports.StatusRepository
	invoiceRepo ports.InvoiceRepository
	entityRepo  ports.LegalEntityRepository
}

// NewStatusService creates a new StatusService.
func NewStatusService(statusRepo ports.StatusRepository, invoiceRepo ports.InvoiceRepository, entityRepo ports.LegalEntityRepository) *StatusService {
	return &StatusService{statusRepo: statusRepo, invoiceRepo: invoiceRepo, entityRepo: entityRepo}
}

var _ ports.StatusSvc = (*StatusService)(nil)

// Get returns the status of an invoice. A missing invoice is ErrNotFound; an
// existing invoice without a status row returns (nil, nil).
func (s *StatusService) Get(ctx context.Context, invoiceID int64) (*domain.Status, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.statusRepo.FindStatusByInvoiceID(ctx, invoiceID)
}

// Set upserts the status label. When no status row exists yet one is created;
// otherwise the existing label is overwritten, last write wins. Transitions
// out of a terminal state are rejected with ErrConflict; use Reopen for that.
func (s *StatusService) Set(ctx context.Context, invoiceID int64, label string) (*domain.Status, bool, error) {
	next, err := domain.ParseInvoiceStatus(label)
	if err != nil {
		return nil, false, err
	}

	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return nil, false, err
	}

	existing, err := s.statusRepo.FindStatusByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	if existing == nil {
		created, err := s.statusRepo.InsertStatus(ctx, domain.Status{
			InvoiceID:   invoiceID,
			Status:      next,
			AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
		})
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}

	if !domain.CanTransition(existing.Status, next) {
		return nil, false, fmt.Errorf("%w: cannot change status from %q to %q", apperrors.ErrConflict, existing.Status, next)
	}

	existing.Status = next
	existing.UpdatedAt = now
	updated, err := s.statusRepo.UpdateStatus(ctx, *existing)
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

// Reopen moves a terminal invoice back to the received state. This is the
// only sanctioned way out of plaćeno/odbijeno.
func (s *StatusService) Reopen(ctx context.Context, invoiceID int64) (*domain.Status, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return nil, err
	}

	existing, err := s.statusRepo.FindStatusByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: invoice has no status to reopen", apperrors.ErrNotFound)
	}

	existing.Status = domain.StatusReceived
	existing.UpdatedAt = time.Now()
	return s.statusRepo.UpdateStatus(ctx, *existing)
}

// SellerStatistics counts the outgoing invoices of the entity with the given
// tax id, grouped by status.
func (s *StatusService) SellerStatistics(ctx context.Context, taxID string) (*dto.SellerStatusStatisticsResponse, error) {
	seller, err := s.entityRepo.FindLegalEntityByTaxID(ctx, taxID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up seller: %w", err)
	}
	if seller == nil {
		return nil, fmt.Errorf("%w: seller not found", apperrors.ErrNotFound)
	}

	total, byStatus, withoutStatus, err := s.statusRepo.CountBySellerGrouped(ctx, seller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate seller statistics: %w", err)
	}
	return &dto.SellerStatusStatisticsResponse{
		Total:         total,
		ByStatus:      byStatus,
		WithoutStatus: withoutStatus,
	}, nil
}

// BuyerStatistics counts the incoming invoices of the entity with the given
// national id and how many are still new.
func (s *StatusService) BuyerStatistics(ctx context.Context, nationalID string) (*dto.BuyerStatusStatisticsResponse, error) {
	buyer, err := s.entityRepo.FindLegalEntityByNationalID(ctx, nationalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up buyer: %w", err)
	}
	if buyer == nil {
		return nil, fmt.Errorf("%w: buyer not found", apperrors.ErrNotFound)
	}

	total, received, err := s.statusRepo.CountForBuyer(ctx, buyer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate buyer statistics: %w", err)
	}
	return &dto.BuyerStatusStatisticsResponse{Total: total, Received: received}, nil
}
