package services

import (
	"context"
	"fmt"
	"time"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
	"github.com/efakturaplus/efaktura_backend/internal/utils"
)

// LegalEntityService implements the directory facade: registration with
// uniqueness checks, admin verification and credential authentication.
type LegalEntityService struct {
	entityRepo ports.LegalEntityRepository
}

// NewLegalEntityService creates a new LegalEntityService.
func NewLegalEntityService(entityRepo ports.LegalEntityRepository) *LegalEntityService {
	return &LegalEntityService{entityRepo: entityRepo}
}

var _ ports.LegalEntitySvc = (*LegalEntityService)(nil)

// Register validates uniqueness of username/email/JMBG/PIB, hashes the
// password and persists an unverified entity.
func (s *LegalEntityService) Register(ctx context.Context, req dto.RegisterLegalEntityRequest) (*domain.LegalEntity, error) {
	if existing, err := s.entityRepo.FindLegalEntityByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: username already taken", apperrors.ErrDuplicate)
	}

	if existing, err := s.entityRepo.FindLegalEntityByNationalID(ctx, req.NationalID); err != nil {
		return nil, fmt.Errorf("failed to check national id uniqueness: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: national id already registered", apperrors.ErrDuplicate)
	}

	if req.TaxID != "" {
		if existing, err := s.entityRepo.FindLegalEntityByTaxID(ctx, req.TaxID); err != nil {
			return nil, fmt.Errorf("failed to check tax id uniqueness: %w", err)
		} else if existing != nil {
			return nil, fmt.Errorf("%w: tax id already registered", apperrors.ErrDuplicate)
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid birth date", apperrors.ErrValidation)
	}

	now := time.Now()
	entity := domain.LegalEntity{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		NationalID:   req.NationalID,
		BirthDate:    birthDate,
		Email:        req.Email,
		Phone:        req.Phone,
		CompanyName:  req.CompanyName,
		PostalCode:   req.PostalCode,
		City:         req.City,
		Address:      req.Address,
		IsVerified:   false,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if req.TaxID != "" {
		taxID := req.TaxID
		entity.TaxID = &taxID
	}

	saved, err := s.entityRepo.SaveLegalEntity(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to register legal entity: %w", err)
	}
	return saved, nil
}

// Authenticate checks credentials. Unknown usernames and wrong passwords both
// map to ErrUnauthorized so callers cannot probe for registered usernames;
// unverified accounts map to ErrForbidden.
func (s *LegalEntityService) Authenticate(ctx context.Context, username, password string) (*domain.LegalEntity, error) {
	entity, err := s.entityRepo.FindLegalEntityByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up legal entity by username: %w", err)
	}
	if entity == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !entity.IsVerified {
		return nil, apperrors.ErrForbidden
	}
	if !utils.CheckPasswordHash(password, entity.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return entity, nil
}

// Verify marks the entity as verified by an administrator.
func (s *LegalEntityService) Verify(ctx context.Context, id int64) error {
	return s.entityRepo.SetVerified(ctx, id, true)
}

// Unverify revokes the verification of an entity.
func (s *LegalEntityService) Unverify(ctx context.Context, id int64) error {
	return s.entityRepo.SetVerified(ctx, id, false)
}

// Delete hard-deletes the entity. The database cascades the delete to every
// invoice where the entity is seller or buyer, which also destroys invoices
// involving still-valid counterparties.
func (s *LegalEntityService) Delete(ctx context.Context, id int64) error {
	return s.entityRepo.DeleteLegalEntity(ctx, id)
}

// GetByID fetches one entity.
func (s *LegalEntityService) GetByID(ctx context.Context, id int64) (*domain.LegalEntity, error) {
	entity, err := s.entityRepo.FindLegalEntityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, apperrors.ErrNotFound
	}
	return entity, nil
}

// List returns the full directory, used for counterparty lookup when
// composing an invoice.
func (s *LegalEntityService) List(ctx context.Context) ([]domain.LegalEntity, error) {
	return s.entityRepo.FindLegalEntities(ctx)
}
