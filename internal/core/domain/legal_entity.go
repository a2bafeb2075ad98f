package domain

import (
	"strings"
	"time"
)

// LegalEntity represents a registered business or individual that can act as
// the seller or the buyer on an invoice. Accounts start unverified and must be
// verified by an administrator before they can authenticate.
type LegalEntity struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	NationalID   string  `json:"nationalID"` // JMBG, 13 digits, unique
	BirthDate    time.Time `json:"birthDate"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	CompanyName  string  `json:"companyName"`
	TaxID        *string `json:"taxID"` // PIB, 9 digits, unique; nil for individuals
	PostalCode   string  `json:"postalCode"`
	City         string  `json:"city"`
	Address      string  `json:"address"`
	IsVerified   bool    `json:"isVerified"`
	AuditFields
}

// DisplayName returns the company name when present, otherwise the personal
// name. Used as the counterparty label on invoice listings and documents.
func (e *LegalEntity) DisplayName() string {
	if name := strings.TrimSpace(e.CompanyName); name != "" {
		return name
	}
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
