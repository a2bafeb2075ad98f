package domain

import (
	"fmt"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
)

// InvoiceStatus is the lifecycle state of an invoice. The persisted labels
// are the Serbian workflow values.
type InvoiceStatus string

const (
	StatusReceived InvoiceStatus = "primljen"
	StatusPending  InvoiceStatus = "na čekanju"
	StatusPaid     InvoiceStatus = "plaćeno"
	StatusRejected InvoiceStatus = "odbijeno"
)

// ParseInvoiceStatus maps a label to a known status.
func ParseInvoiceStatus(label string) (InvoiceStatus, error) {
	switch InvoiceStatus(label) {
	case StatusReceived, StatusPending, StatusPaid, StatusRejected:
		return InvoiceStatus(label), nil
	}
	return "", fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, label)
}

// statusTransitions is the allowed lifecycle graph. Paid and Rejected are
// terminal; going back to Received requires the explicit Reopen operation.
var statusTransitions = map[InvoiceStatus][]InvoiceStatus{
	StatusReceived: {StatusPending, StatusPaid, StatusRejected},
	StatusPending:  {StatusPaid, StatusRejected},
	StatusPaid:     {},
	StatusRejected: {},
}

// CanTransition reports whether an invoice may move from one status to
// another. Setting the same status again is always allowed (idempotent
// upsert).
func CanTransition(from, to InvoiceStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Status is the one-to-one lifecycle record attached to an invoice. Only the
// latest value is kept; there is no history of prior statuses.
type Status struct {
	ID        int64         `json:"id"`
	InvoiceID int64         `json:"invoiceID"`
	Status    InvoiceStatus `json:"status"`
	AuditFields
}
