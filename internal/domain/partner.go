package domain

import (
	"context"
	"time"
)

// Partner is a vendor account that creates and manages class listings.
// swagger:model Partner
type Partner struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	BusinessName string    `json:"business_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPartner returns a new Partner. ID is set by the repository on create.
func NewPartner(email, name, businessName, passwordHash string, createdAt, updatedAt time.Time) *Partner {
	return &Partner{
		Email:        email,
		Name:         name,
		BusinessName: businessName,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PartnerRepository defines partner account storage.
type PartnerRepository interface {
	Create(ctx context.Context, p *Partner) error
	GetByID(ctx context.Context, id string) (*Partner, error)
	GetByEmail(ctx context.Context, email string) (*Partner, error)
}

// PasswordHasher hashes and verifies partner passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues auth tokens for a signed-in partner.
type TokenIssuer interface {
	Issue(partnerID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the partner ID it was issued to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// PartnerService defines partner signup and login.
type PartnerService interface {
	SignUp(ctx context.Context, email, name, businessName, password string) (*Partner, error)
	Login(ctx context.Context, email, password string) (string, *Partner, error)
	GetByID(ctx context.Context, id string) (*Partner, error)
}
