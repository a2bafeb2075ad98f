package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
	"github.com/efakturaplus/efaktura_backend/internal/middleware"
	"github.com/efakturaplus/efaktura_backend/internal/utils/vat"
	"github.com/shopspring/decimal"
)

// InvoiceService issues invoices transactionally and builds the seller and
// buyer facing views with amounts derived through the VAT calculator.
type InvoiceService struct {
	invoiceRepo ports.InvoiceRepository
	entityRepo  ports.LegalEntityRepository
	statusRepo  ports.StatusRepository
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoiceRepo ports.InvoiceRepository, entityRepo ports.LegalEntityRepository, statusRepo ports.StatusRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo, entityRepo: entityRepo, statusRepo: statusRepo}
}

var _ ports.InvoiceSvc = (*InvoiceService)(nil)

// Issue resolves the seller by PIB and the buyer by JMBG, validates every
// line item, then inserts the invoice, its line items and the initial
// "primljen" status in one database transaction.
func (s *InvoiceService) Issue(ctx context.Context, req dto.IssueInvoiceRequest) (*dto.IssueInvoiceResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	seller, err := s.entityRepo.FindLegalEntityByTaxID(ctx, req.SellerTaxID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up seller: %w", err)
	}
	if seller == nil {
		return nil, fmt.Errorf("%w: seller not found", apperrors.ErrNotFound)
	}

	buyer, err := s.entityRepo.FindLegalEntityByNationalID(ctx, req.BuyerNationalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up buyer: %w", err)
	}
	if buyer == nil {
		return nil, fmt.Errorf("%w: buyer not found", apperrors.ErrNotFound)
	}

	transactionDate, err := time.Parse("2006-01-02", req.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid transaction date", apperrors.ErrValidation)
	}
	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid due date", apperrors.ErrValidation)
		}
		dueDate = &parsed
	}

	now := time.Now()
	invoice := domain.Invoice{
		Currency:        domain.Currency(req.Currency),
		DocumentType:    req.DocumentType,
		DocumentNumber:  req.DocumentNumber,
		ContractNumber:  req.ContractNumber,
		SellerID:        seller.ID,
		BuyerID:         buyer.ID,
		TransactionDate: transactionDate,
		DueDate:         dueDate,
		VATObligation:   req.VATObligation == dto.VATObligationCharges,
		AuditFields:     domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	if !invoice.Currency.IsValid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, req.Currency)
	}

	items := make([]domain.LineItem, len(req.LineItems))
	for i, row := range req.LineItems {
		item := domain.LineItem{
			ItemCode:      row.ItemCode,
			Name:          row.Name,
			Quantity:      row.Quantity,
			UnitOfMeasure: row.UnitOfMeasure,
			UnitPrice:     row.UnitPrice,
			Discount:      decimal.Zero,
			VATRate:       domain.DefaultVATRate,
			VATCategory:   row.VATCategory,
			AuditFields:   domain.AuditFields{CreatedAt: now, UpdatedAt: now},
		}
		if row.Discount != nil {
			item.Discount = *row.Discount
		}
		if row.VATRate != nil {
			item.VATRate = *row.VATRate
		}
		if item.UnitOfMeasure == "" {
			item.UnitOfMeasure = domain.DefaultUnitOfMeasure
		}
		if item.VATCategory == "" {
			item.VATCategory = domain.DefaultVATCategory
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", row.LineNumber, err)
		}
		items[i] = item
	}

	created, err := s.invoiceRepo.CreateInvoiceWithItems(ctx, invoice, items, domain.StatusReceived)
	if err != nil {
		return nil, fmt.Errorf("failed to issue invoice: %w", err)
	}

	totals := vat.InvoiceTotals(items)
	logger.Info("Invoice issued",
		slog.Int64("invoice_id", created.ID),
		slog.Int64("document_number", created.DocumentNumber),
		slog.String("gross_total", totals.Gross.String()),
	)

	return &dto.IssueInvoiceResponse{
		InvoiceID:      created.ID,
		DocumentNumber: created.DocumentNumber,
		NetTotal:       totals.Net,
		VATTotal:       totals.VAT,
		GrossTotal:     totals.Gross,
		Status:         string(domain.StatusReceived),
	}, nil
}

// GetDetail returns the full single-invoice view with nested seller/buyer,
// line items, totals and the VAT breakdown.
func (s *InvoiceService) GetDetail(ctx context.Context, id int64) (*dto.InvoiceDetailResponse, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	seller, err := s.entityRepo.FindLegalEntityByID(ctx, invoice.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller for invoice %d: %w", id, err)
	}
	buyer, err := s.entityRepo.FindLegalEntityByID(ctx, invoice.BuyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load buyer for invoice %d: %w", id, err)
	}
	if seller == nil || buyer == nil {
		return nil, fmt.Errorf("%w: invoice counterparty missing", apperrors.ErrNotFound)
	}

	items, err := s.invoiceRepo.FindLineItemsByInvoiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items for invoice %d: %w", id, err)
	}

	status, err := s.statusRepo.FindStatusByInvoiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load status for invoice %d: %w", id, err)
	}
	var statusLabel *string
	if status != nil {
		label := string(status.Status)
		statusLabel = &label
	}

	totals := vat.InvoiceTotals(items)
	return &dto.InvoiceDetailResponse{
		ID:              invoice.ID,
		Currency:        string(invoice.Currency),
		DocumentType:    invoice.DocumentType,
		DocumentNumber:  invoice.DocumentNumber,
		ContractNumber:  invoice.ContractNumber,
		Seller:          dto.ToLegalEntityResponse(seller),
		Buyer:           dto.ToLegalEntityResponse(buyer),
		TransactionDate: invoice.TransactionDate,
		DueDate:         invoice.DueDate,
		VATObligation:   invoice.VATObligation,
		CreatedAt:       invoice.CreatedAt,
		LineItems:       dto.ToLineItemResponses(items),
		NetTotal:        totals.Net,
		VATTotal:        totals.VAT,
		GrossTotal:      totals.Gross,
		VATBreakdown:    vat.VATBreakdown(items),
		Status:          statusLabel,
	}, nil
}

// ListOutgoing returns the seller-facing page for the entity with the given
// tax id.
func (s *InvoiceService) ListOutgoing(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	seller, err := s.entityRepo.FindLegalEntityByTaxID(ctx, params.TaxID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up seller: %w", err)
	}
	if seller == nil {
		return nil, fmt.Errorf("%w: seller not found", apperrors.ErrNotFound)
	}

	filter := filterFromParams(params)
	filter.SellerID = &seller.ID
	return s.list(ctx, filter, false)
}

// ListIncoming returns the buyer-facing page for the entity with the given
// national id.
func (s *InvoiceService) ListIncoming(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	buyer, err := s.entityRepo.FindLegalEntityByNationalID(ctx, params.NationalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up buyer: %w", err)
	}
	if buyer == nil {
		return nil, fmt.Errorf("%w: buyer not found", apperrors.ErrNotFound)
	}

	filter := filterFromParams(params)
	filter.BuyerID = &buyer.ID
	return s.list(ctx, filter, true)
}

// Delete removes an invoice; the database cascades to its line items and
// status row.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	return s.invoiceRepo.DeleteInvoice(ctx, id)
}

func filterFromParams(params dto.ListInvoicesParams) ports.InvoiceFilter {
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 15
	}
	if pageSize > 100 {
		pageSize = 100
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	return ports.InvoiceFilter{
		CounterpartyID: params.CounterpartyID,
		DocumentType:   params.DocumentType,
		DateFrom:       params.DateFrom,
		DateTo:         params.DateTo,
		Page:           page,
		PageSize:       pageSize,
	}
}

// list assembles one page of summaries plus statistics over the full
// filtered result set. incoming selects whether the counterparty shown is
// the seller (buyer view) or the buyer (seller view).
func (s *InvoiceService) list(ctx context.Context, filter ports.InvoiceFilter, incoming bool) (*dto.ListInvoicesResponse, error) {
	invoices, total, err := s.invoiceRepo.FindInvoices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoiceIDs := make([]int64, len(invoices))
	counterpartyIDs := make([]int64, 0, len(invoices))
	for i, inv := range invoices {
		invoiceIDs[i] = inv.ID
		if incoming {
			counterpartyIDs = append(counterpartyIDs, inv.SellerID)
		} else {
			counterpartyIDs = append(counterpartyIDs, inv.BuyerID)
		}
	}

	itemsByInvoice, err := s.invoiceRepo.FindLineItemsByInvoiceIDs(ctx, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}
	counterparties, err := s.entityRepo.FindLegalEntitiesByIDs(ctx, counterpartyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load counterparties: %w", err)
	}

	summaries := make([]dto.InvoiceSummaryResponse, len(invoices))
	for i, inv := range invoices {
		items := itemsByInvoice[inv.ID]
		totals := vat.InvoiceTotals(items)

		counterpartyID := inv.BuyerID
		if incoming {
			counterpartyID = inv.SellerID
		}
		var counterpartyName string
		if cp, ok := counterparties[counterpartyID]; ok {
			counterpartyName = cp.DisplayName()
		}

		summaries[i] = dto.InvoiceSummaryResponse{
			ID:               inv.ID,
			Currency:         string(inv.Currency),
			DocumentType:     inv.DocumentType,
			DocumentNumber:   inv.DocumentNumber,
			ContractNumber:   inv.ContractNumber,
			CounterpartyName: counterpartyName,
			TransactionDate:  inv.TransactionDate,
			DueDate:          inv.DueDate,
			VATObligation:    inv.VATObligation,
			CreatedAt:        inv.CreatedAt,
			LineItems:        dto.ToLineItemResponses(items),
			NetTotal:         totals.Net,
			VATTotal:         totals.VAT,
			GrossTotal:       totals.Gross,
		}
	}

	// Statistics cover every invoice matching the filter, not just this page.
	allItems, err := s.invoiceRepo.FindLineItemsMatching(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statistics: %w", err)
	}
	fullTotals := vat.InvoiceTotals(allItems)

	lastPage := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	if lastPage < 1 {
		lastPage = 1
	}

	return &dto.ListInvoicesResponse{
		Items: summaries,
		Pagination: dto.PaginationResponse{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Total:    total,
			LastPage: lastPage,
		},
		Statistics: dto.InvoiceStatisticsResponse{
			Count:      total,
			NetTotal:   fullTotals.Net,
			VATTotal:   fullTotals.VAT,
			GrossTotal: fullTotals.Gross,
		},
	}, nil
}
