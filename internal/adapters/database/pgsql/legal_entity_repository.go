package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

type LegalEntityRepository struct {
	pool *pgxpool.Pool
}

// NewLegalEntityRepository creates a new repository for legal entity data.
func NewLegalEntityRepository(pool *pgxpool.Pool) *LegalEntityRepository {
	return &LegalEntityRepository{pool: pool}
}

var _ ports.LegalEntityRepository = (*LegalEntityRepository)(nil)

const legalEntityColumns = `
	id, username, password, first_name, last_name, national_id, birth_date,
	email, phone, company_name, tax_id, postal_code, city, address,
	is_verified, created_at, updated_at`

func scanLegalEntity(row pgx.Row) (*domain.LegalEntity, error) {
	var e domain.LegalEntity
	err := row.Scan(
		&e.ID,
		&e.Username,
		&e.PasswordHash,
		&e.FirstName,
		&e.LastName,
		&e.NationalID,
		&e.BirthDate,
		&e.Email,
		&e.Phone,
		&e.CompanyName,
		&e.TaxID,
		&e.PostalCode,
		&e.City,
		&e.Address,
		&e.IsVerified,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *LegalEntityRepository) SaveLegalEntity(ctx context.Context, entity domain.LegalEntity) (*domain.LegalEntity, error) {
	query := `
		INSERT INTO legal_entity (
			username, password, first_name, last_name, national_id, birth_date,
			email, phone, company_name, tax_id, postal_code, city, address,
			is_verified, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id;
	`
	err := r.pool.QueryRow(ctx, query,
		entity.Username,
		entity.PasswordHash,
		entity.FirstName,
		entity.LastName,
		entity.NationalID,
		entity.BirthDate,
		entity.Email,
		entity.Phone,
		entity.CompanyName,
		entity.TaxID,
		entity.PostalCode,
		entity.City,
		entity.Address,
		entity.IsVerified,
		entity.CreatedAt,
		entity.UpdatedAt,
	).Scan(&entity.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		}
		return nil, fmt.Errorf("failed to save legal entity: %w", err)
	}
	return &entity, nil
}

func (r *LegalEntityRepository) findOne(ctx context.Context, column string, value any) (*domain.LegalEntity, error) {
	query := fmt.Sprintf(`SELECT %s FROM legal_entity WHERE %s = $1;`, legalEntityColumns, column)
	entity, err := scanLegalEntity(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Indicate not found explicitly
		}
		return nil, fmt.Errorf("failed to find legal entity by %s: %w", column, err)
	}
	return entity, nil
}

func (r *LegalEntityRepository) FindLegalEntityByID(ctx context.Context, id int64) (*domain.LegalEntity, error) {
	return r.findOne(ctx, "id", id)
}

func (r *LegalEntityRepository) FindLegalEntityByUsername(ctx context.Context, username string) (*domain.LegalEntity, error) {
	return r.findOne(ctx, "username", username)
}

func (r *LegalEntityRepository) FindLegalEntityByTaxID(ctx context.Context, taxID string) (*domain.LegalEntity, error) {
	return r.findOne(ctx, "tax_id", taxID)
}

func (r *LegalEntityRepository) FindLegalEntityByNationalID(ctx context.Context, nationalID string) (*domain.LegalEntity, error) {
	return r.findOne(ctx, "national_id", nationalID)
}

func (r *LegalEntityRepository) FindLegalEntitiesByIDs(ctx context.Context, ids []int64) (map[int64]domain.LegalEntity, error) {
	entities := make(map[int64]domain.LegalEntity, len(ids))
	if len(ids) == 0 {
		return entities, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM legal_entity WHERE id = ANY($1);`, legalEntityColumns)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query legal entities by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entity, err := scanLegalEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legal entity row: %w", err)
		}
		entities[entity.ID] = *entity
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating legal entity rows: %w", rows.Err())
	}
	return entities, nil
}

func (r *LegalEntityRepository) FindLegalEntities(ctx context.Context) ([]domain.LegalEntity, error) {
	query := fmt.Sprintf(`SELECT %s FROM legal_entity ORDER BY created_at DESC, id DESC;`, legalEntityColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query legal entities: %w", err)
	}
	defer rows.Close()

	entities := []domain.LegalEntity{}
	for rows.Next() {
		entity, err := scanLegalEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legal entity row: %w", err)
		}
		entities = append(entities, *entity)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating legal entity rows: %w", rows.Err())
	}
	return entities, nil
}

func (r *LegalEntityRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	query := `
		UPDATE legal_entity
		SET is_verified = $1, updated_at = now()
		WHERE id = $2;
	`
	cmdTag, err := r.pool.Exec(ctx, query, verified, id)
	if err != nil {
		return fmt.Errorf("failed to update verification flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteLegalEntity hard-deletes the entity. The seller_fk and buyer_fk
// cascades remove every invoice the entity is involved in, on either side.
func (r *LegalEntityRepository) DeleteLegalEntity(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM legal_entity WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete legal entity: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
