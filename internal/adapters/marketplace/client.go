// Package marketplace implements the HTTP client for the marketplace
// backend API. All transport is JSON over HTTPS; this service owns no wire
// protocol of its own.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"classlisting/internal/domain"
)

// Client calls the marketplace backend REST API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient returns a marketplace API client for the given base URL.
// The API key, if non-empty, is sent as a Bearer token on every request.
func NewClient(baseURL, apiKey string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

var _ domain.MarketplaceAPI = (*Client)(nil)

// envelope matches the backend's {data, error} response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("marketplace request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read marketplace response: %w", err)
	}
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("failed to decode marketplace response: %w", err)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if env.Error != nil {
			return fmt.Errorf("marketplace api returned status %d: %s", resp.StatusCode, env.Error.Message)
		}
		return fmt.Errorf("marketplace api returned status: %d", resp.StatusCode)
	}
	if dest != nil {
		if len(env.Data) == 0 {
			return fmt.Errorf("marketplace response missing data")
		}
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("failed to decode marketplace data: %w", err)
		}
	}
	return nil
}

// createListingResponse is the data payload of POST /listings.
type createListingResponse struct {
	Listing struct {
		ID string `json:"id"`
	} `json:"listing"`
}

func (c *Client) CreateListing(ctx context.Context, draft *domain.ListingDraft) (string, error) {
	var out createListingResponse
	if err := c.do(ctx, http.MethodPost, "/listings", draft, &out); err != nil {
		return "", err
	}
	if out.Listing.ID == "" {
		return "", fmt.Errorf("marketplace did not return a listing id")
	}
	return out.Listing.ID, nil
}

func (c *Client) UpdateListing(ctx context.Context, listingID string, draft *domain.ListingDraft) error {
	return c.do(ctx, http.MethodPost, "/listings/"+listingID, draft, nil)
}

// bulkCreateSessionsRequest tags the rule with the listing it belongs to.
type bulkCreateSessionsRequest struct {
	ListingID string `json:"listing_id"`
	domain.SlotGenerationRule
}

func (c *Client) BulkCreateSessions(ctx context.Context, listingID string, rule *domain.SlotGenerationRule) error {
	body := bulkCreateSessionsRequest{ListingID: listingID, SlotGenerationRule: *rule}
	return c.do(ctx, http.MethodPost, "/sessions/bulk-create", body, nil)
}

func (c *Client) CreatePlanOption(ctx context.Context, listingID string, plan *domain.PlanOption) error {
	return c.do(ctx, http.MethodPost, "/listings/"+listingID+"/plan-options", plan, nil)
}

func (c *Client) CreateBatch(ctx context.Context, listingID string, batch *domain.Batch) error {
	return c.do(ctx, http.MethodPost, "/listings/"+listingID+"/batches", batch, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMyVenues(ctx context.Context) ([]domain.Venue, error) {
	var out []domain.Venue
	if err := c.do(ctx, http.MethodGet, "/venues/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetListing(ctx context.Context, listingID string) (*domain.ListingDraft, error) {
	var out domain.ListingDraft
	if err := c.do(ctx, http.MethodGet, "/listings/"+listingID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
