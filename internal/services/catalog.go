package services

import (
	"context"
	"fmt"
	"time"

	"classlisting/internal/domain"
)

type catalogService struct {
	api            domain.MarketplaceAPI
	contextTimeout time.Duration
}

// NewCatalogService creates a CatalogService backed by the marketplace API.
func NewCatalogService(api domain.MarketplaceAPI, timeout time.Duration) domain.CatalogService {
	return &catalogService{api: api, contextTimeout: timeout}
}

func (s *catalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func (s *catalogService) MyVenues(ctx context.Context) ([]domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venues, err := s.api.ListMyVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	if venues == nil {
		venues = []domain.Venue{}
	}
	return venues, nil
}
