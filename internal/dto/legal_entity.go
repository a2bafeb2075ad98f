package dto

import (
	"time"

	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
)

// RegisterLegalEntityRequest carries the registration form of a new business
// or individual. The account is created unverified.
type RegisterLegalEntityRequest struct {
	Username    string `json:"username" binding:"required,max=50"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"firstName" binding:"required,max=50"`
	LastName    string `json:"lastName" binding:"required,max=50"`
	NationalID  string `json:"nationalID" binding:"required,len=13,numeric"`
	BirthDate   string `json:"birthDate" binding:"required,datetime=2006-01-02"`
	Email       string `json:"email" binding:"required,email,max=100"`
	Phone       string `json:"phone" binding:"required,max=20"`
	CompanyName string `json:"companyName" binding:"omitempty"`
	TaxID       string `json:"taxID" binding:"omitempty,len=9,numeric"`
	PostalCode  string `json:"postalCode" binding:"required,max=10"`
	City        string `json:"city" binding:"required,max=100"`
	Address     string `json:"address" binding:"required"`
}

// LoginRequest carries username/password credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LegalEntityResponse is the safe projection of a legal entity; the password
// hash is never serialized.
type LegalEntityResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	NationalID  string    `json:"nationalID"`
	BirthDate   time.Time `json:"birthDate"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CompanyName string    `json:"companyName"`
	TaxID       *string   `json:"taxID"`
	PostalCode  string    `json:"postalCode"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token string              `json:"token"`
	User  LegalEntityResponse `json:"user"`
}

// ListLegalEntitiesResponse wraps the directory listing.
type ListLegalEntitiesResponse struct {
	Entities []LegalEntityResponse `json:"entities"`
}

// ToLegalEntityResponse converts a domain.LegalEntity to its response DTO.
func ToLegalEntityResponse(e *domain.LegalEntity) LegalEntityResponse {
	return LegalEntityResponse{
		ID:          e.ID,
		Username:    e.Username,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		NationalID:  e.NationalID,
		BirthDate:   e.BirthDate,
		Email:       e.Email,
		Phone:       e.Phone,
		CompanyName: e.CompanyName,
		TaxID:       e.TaxID,
		PostalCode:  e.PostalCode,
		City:        e.City,
		Address:     e.Address,
		IsVerified:  e.IsVerified,
		CreatedAt:   e.CreatedAt,
	}
}

// ToListLegalEntitiesResponse converts a slice of entities to the list DTO.
func ToListLegalEntitiesResponse(entities []domain.LegalEntity) ListLegalEntitiesResponse {
	responses := make([]LegalEntityResponse, len(entities))
	for i := range entities {
		responses[i] = ToLegalEntityResponse(&entities[i])
	}
	return ListLegalEntitiesResponse{Entities: responses}
}
