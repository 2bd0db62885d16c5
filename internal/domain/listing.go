package domain

import "strings"

// ListingFormat says where a class is delivered.
type ListingFormat string

const (
	FormatOnline  ListingFormat = "online"
	FormatOffline ListingFormat = "offline"
)

// Valid reports whether f is a known listing format.
func (f ListingFormat) Valid() bool {
	return f == FormatOnline || f == FormatOffline
}

// MaxMediaAttachments caps the media list on a listing.
const MaxMediaAttachments = 5

// BasicInfo is the first wizard step: what the class is and where.
type BasicInfo struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	CategoryID  string        `json:"category_id"`
	Format      ListingFormat `json:"format"`
	VenueID     string        `json:"venue_id,omitempty"`
}

// AgeRange is the target learner age band, inclusive.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Pricing is the listing's base price and optional trial pricing.
// BasePrice is a pointer so that an unset price is distinguishable from a
// free (zero) price.
type Pricing struct {
	BasePrice  *float64 `json:"base_price"`
	HasTrial   bool     `json:"has_trial"`
	TrialPrice float64  `json:"trial_price,omitempty"`
}

// MediaItem is one listing attachment: either a reference to an already
// uploaded asset or an inline encoded payload, never both.
type MediaItem struct {
	Ref     string `json:"ref,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// ListingDraft is the root aggregate assembled across the wizard steps.
// ListingID is empty in create mode and set when editing an existing listing.
// swagger:model ListingDraft
type ListingDraft struct {
	ListingID       string              `json:"listing_id,omitempty"`
	BasicInfo       BasicInfo           `json:"basic_info"`
	AgeRange        AgeRange            `json:"age_range"`
	DurationMinutes int                 `json:"duration_minutes"`
	Pricing         Pricing             `json:"pricing"`
	Media           []MediaItem         `json:"media"`
	PlanOptions     []PlanOption        `json:"plan_options"`
	Batches         []Batch             `json:"batches"`
	SessionRule     *SlotGenerationRule `json:"session_rule,omitempty"`
}

// HasFixedPlans reports whether any plan requires a batch to be bookable.
func (d *ListingDraft) HasFixedPlans() bool {
	for _, p := range d.PlanOptions {
		if p.TimingType == TimingFixed {
			return true
		}
	}
	return false
}

// HasFlexiblePlans reports whether any plan requires a slot rule to be bookable.
func (d *ListingDraft) HasFlexiblePlans() bool {
	for _, p := range d.PlanOptions {
		if p.TimingType == TimingFlexible {
			return true
		}
	}
	return false
}

// ValidateBasicInfo checks the BasicInfo step guard, fail-fast.
func (d *ListingDraft) ValidateBasicInfo() error {
	if strings.TrimSpace(d.BasicInfo.Title) == "" {
		return NewValidationError("title is required")
	}
	if strings.TrimSpace(d.BasicInfo.Description) == "" {
		return NewValidationError("description is required")
	}
	if d.BasicInfo.CategoryID == "" {
		return NewValidationError("category is required")
	}
	if !d.BasicInfo.Format.Valid() {
		return NewValidationError("format must be online or offline")
	}
	if d.BasicInfo.Format == FormatOffline && d.BasicInfo.VenueID == "" {
		return NewValidationError("venue is required for offline listings")
	}
	return nil
}
