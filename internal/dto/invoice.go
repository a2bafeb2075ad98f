package dto

import (
	"time"

	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/utils/vat"
	"github.com/shopspring/decimal"
)

// VAT obligation wire values, as submitted by the invoice composer.
const (
	VATObligationCharges       = "obracunava"
	VATObligationDoesNotCharge = "neObracunava"
)

// IssueLineItemRequest is one row of an invoice being issued.
type IssueLineItemRequest struct {
	LineNumber    int              `json:"lineNumber" binding:"required,min=1"`
	ItemCode      *int64           `json:"itemCode"`
	Name          string           `json:"name" binding:"required"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	UnitOfMeasure string           `json:"unitOfMeasure"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	Discount      *decimal.Decimal `json:"discount"`
	VATRate       *int             `json:"vatRate"`
	VATCategory   string           `json:"vatCategory"`
}

// IssueInvoiceRequest carries the full invoice-issuance payload. The seller is
// resolved by tax id (PIB) and the buyer by national id (JMBG).
type IssueInvoiceRequest struct {
	Currency         string                 `json:"currency" binding:"required,oneof=RSD EUR USD"`
	DocumentType     string                 `json:"documentType" binding:"required"`
	DocumentNumber   int64                  `json:"documentNumber" binding:"required"`
	ContractNumber   *string                `json:"contractNumber"`
	SellerTaxID      string                 `json:"sellerTaxID" binding:"required,len=9,numeric"`
	BuyerNationalID  string                 `json:"buyerNationalID" binding:"required,len=13,numeric"`
	TransactionDate  string                 `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	DueDate          *string                `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	VATObligation    string                 `json:"vatObligation" binding:"required,oneof=obracunava neObracunava"`
	LineItems        []IssueLineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// IssueInvoiceResponse reports the created invoice and its derived totals.
type IssueInvoiceResponse struct {
	InvoiceID      int64           `json:"invoiceID"`
	DocumentNumber int64           `json:"documentNumber"`
	NetTotal       decimal.Decimal `json:"netTotal"`
	VATTotal       decimal.Decimal `json:"vatTotal"`
	GrossTotal     decimal.Decimal `json:"grossTotal"`
	Status         string          `json:"status"`
}

// ListInvoicesParams are the query parameters shared by the outgoing and
// incoming listing endpoints. TaxID selects the seller view, NationalID the
// buyer view.
type ListInvoicesParams struct {
	TaxID          string     `form:"taxID"`
	NationalID     string     `form:"nationalID"`
	DateFrom       *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo         *time.Time `form:"dateTo" time_format:"2006-01-02"`
	CounterpartyID *int64     `form:"counterpartyID"`
	DocumentType   *string    `form:"documentType"`
	Page           int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize       int        `form:"pageSize,default=15" binding:"omitempty,min=1,max=100"`
}

// LineItemResponse is a line item together with its derived amounts.
type LineItemResponse struct {
	ID              int64           `json:"id"`
	ItemCode        *int64          `json:"itemCode"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitOfMeasure   string          `json:"unitOfMeasure"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	VATRate         int             `json:"vatRate"`
	VATCategory     string          `json:"vatCategory"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	VATAmount       decimal.Decimal `json:"vatAmount"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
}

// InvoiceSummaryResponse is one row of a listing page.
type InvoiceSummaryResponse struct {
	ID               int64              `json:"id"`
	Currency         string             `json:"currency"`
	DocumentType     string             `json:"documentType"`
	DocumentNumber   int64              `json:"documentNumber"`
	ContractNumber   *string            `json:"contractNumber"`
	CounterpartyName string             `json:"counterpartyName"`
	TransactionDate  time.Time          `json:"transactionDate"`
	DueDate          *time.Time         `json:"dueDate"`
	VATObligation    bool               `json:"vatObligation"`
	CreatedAt        time.Time          `json:"createdAt"`
	LineItems        []LineItemResponse `json:"lineItems"`
	NetTotal         decimal.Decimal    `json:"netTotal"`
	VATTotal         decimal.Decimal    `json:"vatTotal"`
	GrossTotal       decimal.Decimal    `json:"grossTotal"`
}

// PaginationResponse describes the returned page.
type PaginationResponse struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
	LastPage int   `json:"lastPage"`
}

// InvoiceStatisticsResponse aggregates over the full filtered result set,
// not just the returned page.
type InvoiceStatisticsResponse struct {
	Count      int64           `json:"count"`
	NetTotal   decimal.Decimal `json:"netTotal"`
	VATTotal   decimal.Decimal `json:"vatTotal"`
	GrossTotal decimal.Decimal `json:"grossTotal"`
}

// ListInvoicesResponse is one page of invoice summaries plus pagination
// metadata and full-set statistics.
type ListInvoicesResponse struct {
	Items      []InvoiceSummaryResponse  `json:"items"`
	Pagination PaginationResponse        `json:"pagination"`
	Statistics InvoiceStatisticsResponse `json:"statistics"`
}

// InvoiceDetailResponse is the full single-invoice view used by the document
// detail page and as input to document rendering.
type InvoiceDetailResponse struct {
	ID              int64               `json:"id"`
	Currency        string              `json:"currency"`
	DocumentType    string              `json:"documentType"`
	DocumentNumber  int64               `json:"documentNumber"`
	ContractNumber  *string             `json:"contractNumber"`
	Seller          LegalEntityResponse `json:"seller"`
	Buyer           LegalEntityResponse `json:"buyer"`
	TransactionDate time.Time           `json:"transactionDate"`
	DueDate         *time.Time          `json:"dueDate"`
	VATObligation   bool                `json:"vatObligation"`
	CreatedAt       time.Time           `json:"createdAt"`
	LineItems       []LineItemResponse  `json:"lineItems"`
	NetTotal        decimal.Decimal     `json:"netTotal"`
	VATTotal        decimal.Decimal     `json:"vatTotal"`
	GrossTotal      decimal.Decimal     `json:"grossTotal"`
	VATBreakdown    []vat.VATGroup      `json:"vatBreakdown"`
	Status          *string             `json:"status"`
}

// ToLineItemResponse converts a line item and attaches its derived amounts.
func ToLineItemResponse(li *domain.LineItem) LineItemResponse {
	amounts := vat.Amounts(*li)
	return LineItemResponse{
		ID:              li.ID,
		ItemCode:        li.ItemCode,
		Name:            li.Name,
		Quantity:        li.Quantity,
		UnitOfMeasure:   li.UnitOfMeasure,
		UnitPrice:       li.UnitPrice,
		Discount:        li.Discount,
		DiscountPercent: amounts.DiscountPercent,
		VATRate:         li.VATRate,
		VATCategory:     li.VATCategory,
		NetAmount:       amounts.Net,
		VATAmount:       amounts.VAT,
		GrossAmount:     amounts.Gross,
	}
}

// ToLineItemResponses converts a slice of line items.
func ToLineItemResponses(items []domain.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i := range items {
		responses[i] = ToLineItemResponse(&items[i])
	}
	return responses
}
