package domain

import "time"

// Currency is the tag currency of an invoice. Amounts are not converted
// between currencies.
type Currency string

const (
	CurrencyRSD Currency = "RSD"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// IsValid reports whether the currency is one of the supported codes.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyRSD, CurrencyEUR, CurrencyUSD:
		return true
	}
	return false
}

// Invoice represents one billing document between a seller and a buyer.
// Monetary totals are never stored on the invoice; they are derived from the
// line items on every read.
type Invoice struct {
	ID              int64      `json:"id"`
	Currency        Currency   `json:"currency"`
	DocumentType    string     `json:"documentType"`
	DocumentNumber  int64      `json:"documentNumber"`
	ContractNumber  *string    `json:"contractNumber"`
	SellerID        int64      `json:"sellerID"`
	BuyerID         int64      `json:"buyerID"`
	TransactionDate time.Time  `json:"transactionDate"`
	DueDate         *time.Time `json:"dueDate"`
	VATObligation   bool       `json:"vatObligation"`
	AuditFields
}

// IsOverdue reports whether the invoice is past its due date at the given
// moment. Invoices without a due date are never overdue.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.DueDate == nil {
		return false
	}
	return now.After(*i.DueDate)
}

// DaysUntilDue returns the number of whole days until the due date (negative
// when past due), or nil when the invoice has no due date.
func (i *Invoice) DaysUntilDue(now time.Time) *int {
	if i.DueDate == nil {
		return nil
	}
	days := int(i.DueDate.Sub(now).Hours() / 24)
	return &days
}
