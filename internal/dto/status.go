package dto

import (
	"time"

	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
)

// SetStatusRequest carries the new status label for an invoice.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,max=255"`
}

// StatusResponse is the lifecycle record of one invoice.
type StatusResponse struct {
	ID        int64     `json:"id"`
	InvoiceID int64     `json:"invoiceID"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SellerStatusStatisticsResponse counts a seller's outgoing invoices per
// status, including those that have no status row yet.
type SellerStatusStatisticsResponse struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"byStatus"`
	WithoutStatus int64            `json:"withoutStatus"`
}

// BuyerStatusStatisticsResponse counts a buyer's incoming invoices and how
// many are still unprocessed.
type BuyerStatusStatisticsResponse struct {
	Total    int64 `json:"total"`
	Received int64 `json:"received"`
}

// ToStatusResponse converts a domain.Status to its response DTO.
func ToStatusResponse(s *domain.Status) StatusResponse {
	return StatusResponse{
		ID:        s.ID,
		InvoiceID: s.InvoiceID,
		Status:    string(s.Status),
		UpdatedAt: s.UpdatedAt,
	}
}
