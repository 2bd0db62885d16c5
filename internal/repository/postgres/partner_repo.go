package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"classlisting/internal/domain"
)

type partnerRepository struct {
	DB *sql.DB
}

// NewPartnerRepository returns a PartnerRepository backed by postgres.
func NewPartnerRepository(db *sql.DB) domain.PartnerRepository {
	return &partnerRepository{DB: db}
}

func (r *partnerRepository) Create(ctx context.Context, p *domain.Partner) error {
	query := `
		INSERT INTO partners (email, password_hash, name, business_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.Email, p.PasswordHash, p.Name, p.BusinessName, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *partnerRepository) GetByEmail(ctx context.Context, email string) (*domain.Partner, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	query := `
		SELECT id, email, password_hash, name, business_name, created_at, updated_at
		FROM partners
		WHERE email = $1
	`
	p := &domain.Partner{}
	var businessNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &businessNull, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if businessNull.Valid {
		p.BusinessName = businessNull.String
	}
	return p, nil
}

func (r *partnerRepository) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	query := `
		SELECT id, email, password_hash, name, business_name, created_at, updated_at
		FROM partners
		WHERE id = $1
	`
	p := &domain.Partner{}
	var businessNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &businessNull, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if businessNull.Valid {
		p.BusinessName = businessNull.String
	}
	return p, nil
}
