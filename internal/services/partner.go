package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"classlisting/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const minPasswordLen = 8

type partnerService struct {
	partnerRepo domain.PartnerRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewPartnerService creates a PartnerService with the given repository and auth ports.
func NewPartnerService(partnerRepo domain.PartnerRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.PartnerService {
	return &partnerService{
		partnerRepo: partnerRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
	}
}

func (s *partnerService) SignUp(ctx context.Context, email, name, businessName, password string) (*domain.Partner, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, domain.NewValidationError("invalid email format")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if len(password) < minPasswordLen {
		return nil, domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if _, err := s.partnerRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing partner: %w", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now()
	partner := domain.NewPartner(email, name, businessName, hash, now, now)
	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}
	return partner, nil
}

func (s *partnerService) Login(ctx context.Context, email, password string) (string, *domain.Partner, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	partner, err := s.partnerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.NewValidationError("invalid email or password")
		}
		return "", nil, fmt.Errorf("failed to get partner: %w", err)
	}
	if err := s.hasher.Compare(partner.PasswordHash, password); err != nil {
		return "", nil, domain.NewValidationError("invalid email or password")
	}
	token, err := s.tokenIssuer.Issue(partner.ID, partner.Email, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, partner, nil
}

func (s *partnerService) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	partner, err := s.partnerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return partner, nil
}
