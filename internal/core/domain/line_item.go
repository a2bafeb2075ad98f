package domain

import (
	"fmt"
	"strings"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LineItem is a single purchased good or service row on an invoice.
// Amounts derived from it (net, VAT, gross) are computed, never persisted.
type LineItem struct {
	ID            int64           `json:"id"`
	InvoiceID     int64           `json:"invoiceID"`
	ItemCode      *int64          `json:"itemCode"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Discount      decimal.Decimal `json:"discount"`
	VATRate       int             `json:"vatRate"`
	VATCategory   string          `json:"vatCategory"`
	AuditFields
}

// DefaultUnitOfMeasure is applied when a line item does not specify one.
const DefaultUnitOfMeasure = "kom"

// DefaultVATCategory is the standard-rate VAT category code.
const DefaultVATCategory = "S20"

// DefaultVATRate is the standard Serbian VAT percentage.
const DefaultVATRate = 20

// Validate enforces the line item invariants. Violations are reported as
// apperrors.ErrValidation so callers can surface them as 422 responses.
func (li *LineItem) Validate() error {
	if strings.TrimSpace(li.Name) == "" {
		return fmt.Errorf("%w: line item name is required", apperrors.ErrValidation)
	}
	if li.Quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: quantity must be greater than 0", apperrors.ErrValidation)
	}
	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price cannot be negative", apperrors.ErrValidation)
	}
	if li.Discount.IsNegative() {
		return fmt.Errorf("%w: discount cannot be negative", apperrors.ErrValidation)
	}
	if gross := li.Quantity.Mul(li.UnitPrice); li.Discount.GreaterThan(gross) {
		return fmt.Errorf("%w: discount cannot exceed quantity times unit price", apperrors.ErrValidation)
	}
	if li.VATRate < 0 || li.VATRate > 100 {
		return fmt.Errorf("%w: VAT rate must be between 0 and 100", apperrors.ErrValidation)
	}
	return nil
}
