package domain

import "context"

// Category is a class category from the marketplace catalog.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Venue is a partner-owned venue usable by offline listings.
type Venue struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// MarketplaceAPI is the backend marketplace consumed by this service. All
// listing persistence and slot-rule expansion happen behind it; this service
// only packages and submits.
type MarketplaceAPI interface {
	// CreateListing creates the listing and returns its server-assigned ID.
	CreateListing(ctx context.Context, draft *ListingDraft) (string, error)
	// UpdateListing replaces an existing listing with the full draft payload.
	UpdateListing(ctx context.Context, listingID string, draft *ListingDraft) error
	// BulkCreateSessions submits a slot rule for server-side expansion.
	BulkCreateSessions(ctx context.Context, listingID string, rule *SlotGenerationRule) error
	CreatePlanOption(ctx context.Context, listingID string, plan *PlanOption) error
	CreateBatch(ctx context.Context, listingID string, batch *Batch) error

	ListCategories(ctx context.Context) ([]Category, error)
	ListMyVenues(ctx context.Context) ([]Venue, error)
	GetListing(ctx context.Context, listingID string) (*ListingDraft, error)
}

// CatalogService exposes the read-only hydration sources for the wizard UI.
type CatalogService interface {
	Categories(ctx context.Context) ([]Category, error)
	MyVenues(ctx context.Context) ([]Venue, error)
}
